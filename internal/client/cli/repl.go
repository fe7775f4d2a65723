package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	guestHelp = "commands: login, register, reset-password, exit"
	adminHelp = "commands: dashboard, users, delete-user <id>, contacts <id>, gallery <id>, " +
		"categories, add-category <name>, rename-category <id> <name>, delete-category <id>, " +
		"books, add-book, update-book <id>, delete-book <id>, logout, logout-all, exit"
)

// Run reads commands until EOF or exit. Command errors are already shown
// as notifications, so only usage problems are printed here.
func (a *App) Run(ctx context.Context) {
	for {
		fmt.Fprintf(a.out, "neuraread [%s]> ", a.status())
		line, err := a.in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			fmt.Fprintln(a.out)
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			fmt.Fprintln(a.out, "bye")
			return
		}
		before := a.noticeID()
		if err := a.exec(ctx, fields[0], fields[1:]); err != nil {
			if errors.Is(err, errUsage) || a.noticeID() == before {
				fmt.Fprintln(a.out, err)
			}
		}
	}
}

// noticeID is the id of the last notification printed
func (a *App) noticeID() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastNotice
}

func (a *App) exec(ctx context.Context, cmd string, args []string) error {
	if cmd == "help" {
		if a.loggedIn() {
			fmt.Fprintln(a.out, adminHelp)
		} else {
			fmt.Fprintln(a.out, guestHelp)
		}
		return nil
	}

	switch cmd {
	case "login":
		return a.Login(ctx)
	case "register":
		return a.Register(ctx)
	case "reset-password":
		return a.ResetPassword(ctx)
	}

	if !a.loggedIn() {
		return fmt.Errorf("%w: log in first (%s)", errUsage, guestHelp)
	}

	switch cmd {
	case "dashboard":
		return a.Dashboard(ctx)
	case "users":
		return a.Users(ctx)
	case "delete-user":
		return a.withID(args, func(id uint) error { return a.d.DeleteUser(ctx, id) })
	case "contacts":
		return a.withID(args, func(id uint) error { return a.Contacts(ctx, id) })
	case "gallery":
		return a.withID(args, func(id uint) error { return a.Gallery(ctx, id) })
	case "categories":
		return a.Categories(ctx)
	case "add-category":
		if len(args) == 0 {
			return fmt.Errorf("%w: add-category <name>", errUsage)
		}
		_, err := a.d.CreateCategory(ctx, strings.Join(args, " "))
		return err
	case "rename-category":
		if len(args) < 2 {
			return fmt.Errorf("%w: rename-category <id> <name>", errUsage)
		}
		return a.withID(args[:1], func(id uint) error {
			_, err := a.d.UpdateCategory(ctx, id, strings.Join(args[1:], " "))
			return err
		})
	case "delete-category":
		return a.withID(args, func(id uint) error { return a.d.DeleteCategory(ctx, id) })
	case "books":
		return a.Books(ctx)
	case "add-book":
		return a.AddBook(ctx)
	case "update-book":
		return a.withID(args, func(id uint) error { return a.UpdateBook(ctx, id) })
	case "delete-book":
		return a.withID(args, func(id uint) error { return a.d.DeleteBook(ctx, id) })
	case "logout":
		return a.d.Logout(ctx)
	case "logout-all":
		return a.d.LogoutAll(ctx)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

func (a *App) withID(args []string, fn func(uint) error) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected one id", errUsage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return fn(id)
}
