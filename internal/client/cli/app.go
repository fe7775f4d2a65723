// Package cli is an interactive admin console over the NeuraRead API.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/you/neuraread/internal/client"
	"github.com/you/neuraread/internal/client/store"
)

var errUsage = errors.New("usage")

// App binds console I/O to a dispatcher
type App struct {
	d   *client.Dispatcher
	in  *bufio.Reader
	out io.Writer

	// password prompts go through here so tests can script them
	password func(label string) (string, error)

	mu         sync.Mutex
	lastNotice uint64
}

func NewApp(d *client.Dispatcher, in io.Reader, out io.Writer) *App {
	a := &App{d: d, in: bufio.NewReader(in), out: out}
	a.password = func(label string) (string, error) { return promptPassword(a.in, a.out, label) }
	d.Store().Subscribe(a.showNotice)
	return a
}

// showNotice prints each notification once, when it is first shown
func (a *App) showNotice(s store.State) {
	n := s.Notification
	a.mu.Lock()
	defer a.mu.Unlock()
	if !n.Open || n.ID == a.lastNotice {
		return
	}
	a.lastNotice = n.ID
	fmt.Fprintf(a.out, "[%s] %s\n", n.Severity, n.Message)
}

func (a *App) loggedIn() bool { return a.d.Store().State().Auth.IsLoggedIn }

func (a *App) status() string {
	s := a.d.Store().State()
	if !s.Auth.IsLoggedIn || s.Auth.User == nil {
		return "guest"
	}
	return s.Auth.User.Email
}

func (a *App) ask(label string) (string, error) { return prompt(a.in, a.out, label) }

func (a *App) Login(ctx context.Context) error {
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	pw, err := a.password("Password")
	if err != nil {
		return err
	}
	if _, err := a.d.Login(ctx, client.Credentials{Email: email, Password: pw}); err != nil {
		return err
	}
	_, err = a.d.AdminProfile(ctx)
	return err
}

func (a *App) Register(ctx context.Context) error {
	var reg client.Registration
	var err error
	if reg.UserName, err = a.ask("User name"); err != nil {
		return err
	}
	if reg.Email, err = a.ask("Email"); err != nil {
		return err
	}
	if reg.PhoneNo, err = a.ask("Phone"); err != nil {
		return err
	}
	if reg.Password, err = a.password("Password"); err != nil {
		return err
	}
	_, err = a.d.Register(ctx, reg)
	return err
}

func (a *App) ResetPassword(ctx context.Context) error {
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	if err := a.d.ForgotPassword(ctx, email); err != nil {
		return err
	}
	otp, err := a.ask("Code")
	if err != nil {
		return err
	}
	pw, err := a.password("New password")
	if err != nil {
		return err
	}
	return a.d.ResetPassword(ctx, email, otp, pw)
}

func (a *App) Dashboard(ctx context.Context) error {
	if err := a.d.Dashboard(ctx); err != nil {
		return err
	}
	t := a.d.Store().State().Data.Totals
	fmt.Fprintf(a.out, "users %d  contacts %d  images %d  books %d  categories %d  avg %.2f\n",
		deref(t.Users), deref(t.Contacts), deref(t.Images), deref(t.Books), deref(t.Categories), deref(t.Average))
	return nil
}

func (a *App) Users(ctx context.Context) error {
	users, err := a.d.Users(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		fmt.Fprintf(a.out, "%4d  %-24s %-28s %s\n", u.ID, u.UserName, u.Email, u.Role)
	}
	return nil
}

func (a *App) Contacts(ctx context.Context, id uint) error {
	if _, err := a.d.UserContacts(ctx, id); err != nil {
		return err
	}
	for _, c := range a.d.Store().State().Data.ContactsByUser[id] {
		fmt.Fprintf(a.out, "%-24s %s\n", c.Name, strings.Join(c.PhoneNumbers, ", "))
	}
	return nil
}

func (a *App) Gallery(ctx context.Context, id uint) error {
	photos, err := a.d.UserGallery(ctx, id)
	if err != nil {
		return err
	}
	for _, p := range photos {
		fmt.Fprintln(a.out, p.SecureURL)
	}
	return nil
}

func (a *App) Categories(ctx context.Context) error {
	cats, err := a.d.Categories(ctx)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		fmt.Fprintln(a.out, "no categories")
	}
	for _, c := range cats {
		fmt.Fprintf(a.out, "%4d  %s\n", c.ID, c.Name)
	}
	return nil
}

func (a *App) Books(ctx context.Context) error {
	books, err := a.d.Books(ctx)
	if err != nil {
		return err
	}
	for _, b := range books {
		fmt.Fprintf(a.out, "%4d  %-32s %-20s cat=%d\n", b.ID, b.Title, b.Author, b.CategoryID)
	}
	return nil
}

// AddBook prompts for every field; both files are required
func (a *App) AddBook(ctx context.Context) error {
	form, err := a.bookForm(true)
	if err != nil {
		return err
	}
	_, err = a.d.CreateBook(ctx, form)
	return err
}

// UpdateBook prompts for every field; blank answers keep the current value
func (a *App) UpdateBook(ctx context.Context, id uint) error {
	form, err := a.bookForm(false)
	if err != nil {
		return err
	}
	_, err = a.d.UpdateBook(ctx, id, form)
	return err
}

func (a *App) bookForm(requireFiles bool) (client.BookForm, error) {
	var form client.BookForm
	var err error
	if form.Title, err = a.ask("Title"); err != nil {
		return form, err
	}
	if form.Author, err = a.ask("Author"); err != nil {
		return form, err
	}
	cat, err := a.ask("Category id")
	if err != nil {
		return form, err
	}
	if cat != "" {
		if form.CategoryID, err = parseID(cat); err != nil {
			return form, err
		}
	}
	if form.Book, err = a.askFile("Book file", requireFiles); err != nil {
		return form, err
	}
	form.Cover, err = a.askFile("Cover image", requireFiles)
	return form, err
}

func (a *App) askFile(label string, required bool) (*client.File, error) {
	path, err := a.ask(label)
	if err != nil {
		return nil, err
	}
	if path == "" {
		if required {
			return nil, fmt.Errorf("%s is required", strings.ToLower(label))
		}
		return nil, nil
	}
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return &client.File{Name: filepath.Base(path), Data: data}, nil
}

func parseID(s string) (uint, error) {
	n, err := strconv.ParseUint(s, 10, 0)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(n), nil
}

func deref[T int64 | float64](p *T) T {
	if p == nil {
		return 0
	}
	return *p
}
