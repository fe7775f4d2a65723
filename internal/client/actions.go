package client

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/you/neuraread/domain"
	"github.com/you/neuraread/internal/client/store"
)

// Credentials is the body of a login call
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the body of a register call
type Registration struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	PhoneNo  string `json:"phoneNo"`
	Password string `json:"password"`
}

// BookForm carries the fields of a book create or update. Nil files and
// empty strings are left out of the form.
type BookForm struct {
	Title      string
	Author     string
	CategoryID uint
	Book       *File
	Cover      *File
}

type loginReply struct {
	Envelope
	User      domain.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expires_in"`
}

type userReply struct {
	Envelope
	User domain.User `json:"user"`
}

type usersReply struct {
	Envelope
	Users []domain.User `json:"users"`
}

type totalUsersReply struct {
	Envelope
	Total int64         `json:"totalUsers"`
	Users []domain.User `json:"users"`
}

type countReply struct {
	Envelope
	Contacts   int64 `json:"totalContacts"`
	Images     int64 `json:"totalImages"`
	Books      int64 `json:"totalBooks"`
	Categories int64 `json:"totalBookCategories"`
}

type averageReply struct {
	Envelope
	Average float64 `json:"averageBooksPerCategory"`
}

type contactsReply struct {
	Envelope
	Contacts []domain.ContactPayload `json:"contacts"`
}

type photosReply struct {
	Envelope
	Photos []domain.Photo `json:"photos"`
}

type categoryReply struct {
	Envelope
	Category domain.Category `json:"category"`
}

type categoriesReply struct {
	Envelope
	Categories []domain.Category `json:"categories"`
}

type bookReply struct {
	Envelope
	Book domain.Book `json:"book"`
}

type booksReply struct {
	Envelope
	Books []domain.Book `json:"books"`
}

type idReply struct {
	Envelope
	ID uint `json:"id"`
}

// replier is any reply type embedding Envelope
type replier interface{ envelope() Envelope }

func (e Envelope) envelope() Envelope { return e }

// get decodes a GET reply into R and hands the payload to pick
func get[R replier, T any](api *API, path string, pick func(R) T) func(context.Context) (Result[T], error) {
	return send(api, http.MethodGet, path, nil, pick)
}

func send[R replier, T any](api *API, method, path string, body any, pick func(R) T) func(context.Context) (Result[T], error) {
	return func(ctx context.Context) (Result[T], error) {
		var r R
		if err := api.JSON(ctx, method, path, body, &r); err != nil {
			return Result[T]{}, err
		}
		return Result[T]{Value: pick(r), Envelope: r.envelope()}, nil
	}
}

func none(Envelope) struct{} { return struct{}{} }

// Login authenticates and keeps the token for later calls
func (d *Dispatcher) Login(ctx context.Context, cred Credentials) (domain.User, error) {
	reply, err := Run(ctx, d, Action[loginReply]{
		ID:              store.Login,
		Call:            send(d.api, http.MethodPost, "/auth/login", cred, func(r loginReply) loginReply { return r }),
		Commit:          func(r loginReply) []store.Action { return []store.Action{store.LoggedIn{User: r.User}} },
		SuccessFallback: "Login successful!",
		FailureFallback: "Login User failed",
	})
	if err != nil {
		return domain.User{}, err
	}
	d.api.SetToken(reply.Token)
	return reply.User, nil
}

// Register creates an account; it does not log in
func (d *Dispatcher) Register(ctx context.Context, reg Registration) (domain.User, error) {
	return Run(ctx, d, Action[domain.User]{
		ID:              store.Register,
		Call:            send(d.api, http.MethodPost, "/auth/register", reg, func(r userReply) domain.User { return r.User }),
		SuccessFallback: "Registration successful!",
		FailureFallback: "Registration failed",
	})
}

// Logout ends this session. The local auth state is reset even when the
// server call fails, since the cookie may already be gone.
func (d *Dispatcher) Logout(ctx context.Context) error {
	return d.logout(ctx, store.Logout, "/auth/logout")
}

// LogoutAll revokes every session of the current user
func (d *Dispatcher) LogoutAll(ctx context.Context) error {
	return d.logout(ctx, store.LogoutAll, "/auth/logout-all")
}

func (d *Dispatcher) logout(ctx context.Context, id store.ActionID, path string) error {
	_, err := Run(ctx, d, Action[struct{}]{
		ID:              id,
		Call:            send(d.api, http.MethodPost, path, nil, none),
		SuccessFallback: "Logout successful!",
		FailureFallback: "Logout failed",
	})
	d.api.SetToken("")
	d.store.Dispatch(store.LoggedOut{})
	return err
}

// ForgotPassword asks the server to text a reset code to the account's phone
func (d *Dispatcher) ForgotPassword(ctx context.Context, email string) error {
	_, err := Run(ctx, d, Action[struct{}]{
		ID:              store.ForgotPassword,
		Call:            send(d.api, http.MethodPost, "/auth/mobile-forgot-password", map[string]string{"email": email}, none),
		SuccessFallback: "OTP sent successfully",
		FailureFallback: "Failed to send OTP",
	})
	return err
}

// ResetPassword redeems a reset code
func (d *Dispatcher) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	body := map[string]string{"email": email, "otp": otp, "newPassword": newPassword}
	_, err := Run(ctx, d, Action[struct{}]{
		ID:              store.ResetPassword,
		Call:            send(d.api, http.MethodPost, "/auth/mobile-reset-password", body, none),
		SuccessFallback: "Password reset successfully",
		FailureFallback: "Password reset failed",
	})
	return err
}

// AdminProfile loads the signed-in admin's record
func (d *Dispatcher) AdminProfile(ctx context.Context) (domain.User, error) {
	return Run(ctx, d, Action[domain.User]{
		ID:              store.AdminProfile,
		Call:            get(d.api, "/book-admin/get-admin-details", func(r userReply) domain.User { return r.User }),
		Commit:          func(u domain.User) []store.Action { return []store.Action{store.AdminLoaded{User: u}} },
		Quiet:           true,
		FailureFallback: "Failed to fetch admin profile",
	})
}

// TotalUsers loads the user count together with the user list
func (d *Dispatcher) TotalUsers(ctx context.Context) (int64, error) {
	r, err := Run(ctx, d, Action[totalUsersReply]{
		ID:   store.TotalUsers,
		Call: get(d.api, "/admin-stats/get-total-users", func(r totalUsersReply) totalUsersReply { return r }),
		Commit: func(r totalUsersReply) []store.Action {
			return []store.Action{store.TotalUsersLoaded{Total: r.Total, Users: r.Users}}
		},
		Quiet:           true,
		FailureFallback: "Failed to fetch total users",
	})
	return r.Total, err
}

func (d *Dispatcher) count(ctx context.Context, id store.ActionID, path, fallback string, pick func(countReply) int64, commit func(int64) store.Action) (int64, error) {
	return Run(ctx, d, Action[int64]{
		ID:              id,
		Call:            get(d.api, path, pick),
		Commit:          func(n int64) []store.Action { return []store.Action{commit(n)} },
		Quiet:           true,
		FailureFallback: fallback,
	})
}

func (d *Dispatcher) TotalContacts(ctx context.Context) (int64, error) {
	return d.count(ctx, store.TotalContacts, "/admin-stats/get-total-contacts", "Failed to fetch total contacts",
		func(r countReply) int64 { return r.Contacts },
		func(n int64) store.Action { return store.TotalContactsLoaded{Total: n} })
}

func (d *Dispatcher) TotalImages(ctx context.Context) (int64, error) {
	return d.count(ctx, store.TotalImages, "/admin-stats/get-total-images", "Failed to fetch total images",
		func(r countReply) int64 { return r.Images },
		func(n int64) store.Action { return store.TotalImagesLoaded{Total: n} })
}

func (d *Dispatcher) TotalBooks(ctx context.Context) (int64, error) {
	return d.count(ctx, store.TotalBooks, "/admin-stats/get-total-books", "Failed to fetch total books",
		func(r countReply) int64 { return r.Books },
		func(n int64) store.Action { return store.TotalBooksLoaded{Total: n} })
}

func (d *Dispatcher) TotalCategories(ctx context.Context) (int64, error) {
	return d.count(ctx, store.TotalCategories, "/admin-stats/get-total-book-categories", "Failed to fetch total categories",
		func(r countReply) int64 { return r.Categories },
		func(n int64) store.Action { return store.TotalCategoriesLoaded{Total: n} })
}

// AverageBooks loads books per category
func (d *Dispatcher) AverageBooks(ctx context.Context) (float64, error) {
	return Run(ctx, d, Action[float64]{
		ID:              store.AverageBooks,
		Call:            get(d.api, "/admin-stats/get-avaerage-books", func(r averageReply) float64 { return r.Average }),
		Commit:          func(v float64) []store.Action { return []store.Action{store.AverageBooksLoaded{Average: v}} },
		Quiet:           true,
		FailureFallback: "Failed to fetch average books",
	})
}

// Dashboard loads every aggregate. It stops at the first failure.
func (d *Dispatcher) Dashboard(ctx context.Context) error {
	steps := []func(context.Context) error{
		func(ctx context.Context) error { _, err := d.TotalUsers(ctx); return err },
		func(ctx context.Context) error { _, err := d.TotalContacts(ctx); return err },
		func(ctx context.Context) error { _, err := d.TotalImages(ctx); return err },
		func(ctx context.Context) error { _, err := d.TotalBooks(ctx); return err },
		func(ctx context.Context) error { _, err := d.TotalCategories(ctx); return err },
		func(ctx context.Context) error { _, err := d.AverageBooks(ctx); return err },
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// UserContacts loads one user's synced contacts
func (d *Dispatcher) UserContacts(ctx context.Context, userID uint) ([]domain.ContactPayload, error) {
	return Run(ctx, d, Action[[]domain.ContactPayload]{
		ID:   store.UserContacts,
		Call: get(d.api, "/admin-stats/get-specific-user-contacts/"+idPath(userID), func(r contactsReply) []domain.ContactPayload { return r.Contacts }),
		Commit: func(c []domain.ContactPayload) []store.Action {
			return []store.Action{store.UserContactsLoaded{UserID: userID, Contacts: c}}
		},
		Quiet:           true,
		FailureFallback: "Failed to fetch user contacts",
	})
}

// UserGallery loads one user's uploaded photos
func (d *Dispatcher) UserGallery(ctx context.Context, userID uint) ([]domain.Photo, error) {
	return Run(ctx, d, Action[[]domain.Photo]{
		ID:   store.UserGallery,
		Call: get(d.api, "/admin-stats/get-specific-user-gallery/"+idPath(userID), func(r photosReply) []domain.Photo { return r.Photos }),
		Commit: func(p []domain.Photo) []store.Action {
			return []store.Action{store.UserGalleryLoaded{UserID: userID, Photos: p}}
		},
		Quiet:           true,
		FailureFallback: "Failed to fetch user gallery",
	})
}

// Categories loads the category list. The server answers 404 for an
// empty list; that is committed as empty and is not an error.
func (d *Dispatcher) Categories(ctx context.Context) ([]domain.Category, error) {
	return Run(ctx, d, Action[[]domain.Category]{
		ID: store.ListCategories,
		Call: func(ctx context.Context) (Result[[]domain.Category], error) {
			var r categoriesReply
			err := d.api.JSON(ctx, http.MethodGet, "/book-admin/get-all-category", nil, &r)
			if IsStatus(err, http.StatusNotFound) {
				return Result[[]domain.Category]{Value: []domain.Category{}}, nil
			}
			if err != nil {
				return Result[[]domain.Category]{}, err
			}
			return Result[[]domain.Category]{Value: r.Categories, Envelope: r.Envelope}, nil
		},
		Commit: func(c []domain.Category) []store.Action {
			return []store.Action{store.CategoriesLoaded{Categories: c}}
		},
		Quiet:           true,
		FailureFallback: "Failed to fetch categories",
	})
}

func (d *Dispatcher) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	return Run(ctx, d, Action[domain.Category]{
		ID:              store.CreateCategory,
		Call:            send(d.api, http.MethodPost, "/book-admin/create-category", map[string]string{"categoryName": name}, categoryOf),
		Commit:          func(c domain.Category) []store.Action { return []store.Action{store.CategoryAdded{Category: c}} },
		SuccessFallback: "Category Add successful!",
		FailureFallback: "Category Add failed",
	})
}

func (d *Dispatcher) UpdateCategory(ctx context.Context, id uint, name string) (domain.Category, error) {
	return Run(ctx, d, Action[domain.Category]{
		ID:              store.UpdateCategory,
		Call:            send(d.api, http.MethodPut, "/book-admin/update-category/"+idPath(id), map[string]string{"categoryName": name}, categoryOf),
		Commit:          func(c domain.Category) []store.Action { return []store.Action{store.CategoryUpdated{Category: c}} },
		SuccessFallback: "Category updated successfully",
		FailureFallback: "Update failed",
	})
}

func (d *Dispatcher) DeleteCategory(ctx context.Context, id uint) error {
	_, err := Run(ctx, d, Action[uint]{
		ID:              store.DeleteCategory,
		Call:            send(d.api, http.MethodDelete, "/book-admin/delete-category/"+idPath(id), nil, idOf),
		Commit:          func(uint) []store.Action { return []store.Action{store.CategoryRemoved{ID: id}} },
		SuccessFallback: "Category deleted successfully",
		FailureFallback: "Delete failed",
	})
	return err
}

// Books loads the catalog
func (d *Dispatcher) Books(ctx context.Context) ([]domain.Book, error) {
	return Run(ctx, d, Action[[]domain.Book]{
		ID:              store.ListBooks,
		Call:            get(d.api, "/book-admin/get-all-books", func(r booksReply) []domain.Book { return r.Books }),
		Commit:          func(b []domain.Book) []store.Action { return []store.Action{store.BooksLoaded{Books: b}} },
		Quiet:           true,
		FailureFallback: "Failed to fetch books",
	})
}

// CreateBook uploads a new book with its cover; both files are required
func (d *Dispatcher) CreateBook(ctx context.Context, form BookForm) (domain.Book, error) {
	if form.Book == nil || form.Cover == nil {
		err := errors.New("book and cover files are required")
		d.store.Notify(store.SeverityError, err.Error())
		return domain.Book{}, err
	}
	return Run(ctx, d, Action[domain.Book]{
		ID:              store.CreateBook,
		Call:            d.bookCall(http.MethodPost, "/book-admin/upload-books", "category", form),
		Commit:          func(b domain.Book) []store.Action { return []store.Action{store.BookAdded{Book: b}} },
		SuccessFallback: "Book Add successful!",
		FailureFallback: "Book Add failed",
	})
}

// UpdateBook sends only the fields set on form
func (d *Dispatcher) UpdateBook(ctx context.Context, id uint, form BookForm) (domain.Book, error) {
	return Run(ctx, d, Action[domain.Book]{
		ID:              store.UpdateBook,
		Call:            d.bookCall(http.MethodPut, "/book-admin/update-books/"+idPath(id), "categoryId", form),
		Commit:          func(b domain.Book) []store.Action { return []store.Action{store.BookUpdated{Book: b}} },
		SuccessFallback: "Book updated successfully",
		FailureFallback: "Update failed",
	})
}

func (d *Dispatcher) DeleteBook(ctx context.Context, id uint) error {
	_, err := Run(ctx, d, Action[uint]{
		ID:              store.DeleteBook,
		Call:            send(d.api, http.MethodDelete, "/book-admin/delete-books/"+idPath(id), nil, idOf),
		Commit:          func(uint) []store.Action { return []store.Action{store.BookRemoved{ID: id}} },
		SuccessFallback: "Book deleted successfully",
		FailureFallback: "Delete failed",
	})
	return err
}

func (d *Dispatcher) bookCall(method, path, categoryKey string, form BookForm) func(context.Context) (Result[domain.Book], error) {
	fields := map[string]string{}
	if form.Title != "" {
		fields["title"] = form.Title
	}
	if form.Author != "" {
		fields["author"] = form.Author
	}
	if form.CategoryID != 0 {
		fields[categoryKey] = idPath(form.CategoryID)
	}
	var files []File
	if form.Book != nil {
		files = append(files, File{Field: string(domain.FieldBook), Name: form.Book.Name, Data: form.Book.Data})
	}
	if form.Cover != nil {
		files = append(files, File{Field: string(domain.FieldCover), Name: form.Cover.Name, Data: form.Cover.Data})
	}
	return func(ctx context.Context) (Result[domain.Book], error) {
		var r bookReply
		if err := d.api.Multipart(ctx, method, path, fields, files, &r); err != nil {
			return Result[domain.Book]{}, err
		}
		return Result[domain.Book]{Value: r.Book, Envelope: r.Envelope}, nil
	}
}

// Users loads every account
func (d *Dispatcher) Users(ctx context.Context) ([]domain.User, error) {
	return Run(ctx, d, Action[[]domain.User]{
		ID:              store.ListUsers,
		Call:            get(d.api, "/book-admin/get-all-users", func(r usersReply) []domain.User { return r.Users }),
		Commit:          func(u []domain.User) []store.Action { return []store.Action{store.UsersLoaded{Users: u}} },
		Quiet:           true,
		FailureFallback: "Failed to fetch users",
	})
}

func (d *Dispatcher) DeleteUser(ctx context.Context, id uint) error {
	_, err := Run(ctx, d, Action[uint]{
		ID:              store.DeleteUser,
		Call:            send(d.api, http.MethodDelete, "/book-admin/delete-user/"+idPath(id), nil, idOf),
		Commit:          func(uint) []store.Action { return []store.Action{store.UserRemoved{ID: id}} },
		SuccessFallback: "User deleted successfully",
		FailureFallback: "Delete failed",
	})
	return err
}

func categoryOf(r categoryReply) domain.Category { return r.Category }

func idOf(r idReply) uint { return r.ID }

func idPath(id uint) string { return strconv.FormatUint(uint64(id), 10) }
