package store

import "github.com/you/neuraread/domain"

// ActionID names a remote action; request state is tracked per id
type ActionID string

const (
	Login          ActionID = "auth/login"
	Logout         ActionID = "auth/logout"
	LogoutAll      ActionID = "auth/logout-all"
	Register       ActionID = "auth/register"
	ForgotPassword ActionID = "auth/forgot-password"
	ResetPassword  ActionID = "auth/reset-password"
	AdminProfile   ActionID = "auth/admin-profile"

	TotalUsers      ActionID = "stats/total-users"
	TotalContacts   ActionID = "stats/total-contacts"
	TotalImages     ActionID = "stats/total-images"
	TotalBooks      ActionID = "stats/total-books"
	TotalCategories ActionID = "stats/total-categories"
	AverageBooks    ActionID = "stats/average-books"
	UserContacts    ActionID = "stats/user-contacts"
	UserGallery     ActionID = "stats/user-gallery"

	ListCategories ActionID = "catalog/list-categories"
	CreateCategory ActionID = "catalog/create-category"
	UpdateCategory ActionID = "catalog/update-category"
	DeleteCategory ActionID = "catalog/delete-category"
	ListBooks      ActionID = "catalog/list-books"
	CreateBook     ActionID = "catalog/create-book"
	UpdateBook     ActionID = "catalog/update-book"
	DeleteBook     ActionID = "catalog/delete-book"

	ListUsers  ActionID = "users/list"
	DeleteUser ActionID = "users/delete"
)

// Action is the closed set of state transitions. Only types in this
// package implement it.
type Action interface {
	isAction()
}

type (
	RequestStarted   struct{ ID ActionID }
	RequestSucceeded struct{ ID ActionID }
	RequestFailed    struct{ ID ActionID }

	LoggedIn    struct{ User domain.User }
	LoggedOut   struct{}
	AdminLoaded struct{ User domain.User }

	TotalUsersLoaded struct {
		Total int64
		Users []domain.User
	}
	TotalContactsLoaded   struct{ Total int64 }
	TotalImagesLoaded     struct{ Total int64 }
	TotalBooksLoaded      struct{ Total int64 }
	TotalCategoriesLoaded struct{ Total int64 }
	AverageBooksLoaded    struct{ Average float64 }

	UserContactsLoaded struct {
		UserID   uint
		Contacts []domain.ContactPayload
	}
	UserGalleryLoaded struct {
		UserID uint
		Photos []domain.Photo
	}

	CategoriesLoaded struct{ Categories []domain.Category }
	CategoryAdded    struct{ Category domain.Category }
	CategoryUpdated  struct{ Category domain.Category }
	CategoryRemoved  struct{ ID uint }

	BooksLoaded struct{ Books []domain.Book }
	BookAdded   struct{ Book domain.Book }
	BookUpdated struct{ Book domain.Book }
	BookRemoved struct{ ID uint }

	UsersLoaded struct{ Users []domain.User }
	UserRemoved struct{ ID uint }

	NotificationShown struct {
		ID       uint64
		Severity string
		Message  string
	}
	NotificationDismissed struct{ ID uint64 }
)

func (RequestStarted) isAction()        {}
func (RequestSucceeded) isAction()      {}
func (RequestFailed) isAction()         {}
func (LoggedIn) isAction()              {}
func (LoggedOut) isAction()             {}
func (AdminLoaded) isAction()           {}
func (TotalUsersLoaded) isAction()      {}
func (TotalContactsLoaded) isAction()   {}
func (TotalImagesLoaded) isAction()     {}
func (TotalBooksLoaded) isAction()      {}
func (TotalCategoriesLoaded) isAction() {}
func (AverageBooksLoaded) isAction()    {}
func (UserContactsLoaded) isAction()    {}
func (UserGalleryLoaded) isAction()     {}
func (CategoriesLoaded) isAction()      {}
func (CategoryAdded) isAction()         {}
func (CategoryUpdated) isAction()       {}
func (CategoryRemoved) isAction()       {}
func (BooksLoaded) isAction()           {}
func (BookAdded) isAction()             {}
func (BookUpdated) isAction()           {}
func (BookRemoved) isAction()           {}
func (UsersLoaded) isAction()           {}
func (UserRemoved) isAction()           {}
func (NotificationShown) isAction()     {}
func (NotificationDismissed) isAction() {}
