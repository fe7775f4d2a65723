package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	// FindIdentity reads only the columns the credential check needs
	FindIdentity(ctx context.Context, id uint) (*Identity, error)
	// FindRole reads the live role, never a cached one
	FindRole(ctx context.Context, id uint) (string, error)
	List(ctx context.Context) ([]User, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	UpdateRole(ctx context.Context, id uint, role string) error
	IncrementTokenVersion(ctx context.Context, id uint) (int, error)
	Delete(ctx context.Context, id uint) error
	Contacts(ctx context.Context, id uint) ([]Contact, error)
	Photos(ctx context.Context, id uint) ([]Photo, error)
	ReplaceContacts(ctx context.Context, id uint, contacts []Contact) error
	AppendPhotos(ctx context.Context, id uint, photos []Photo) error
}

// CategoryRepository defines category data access operations
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id uint) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uint) error
}

// BookRepository defines book data access operations
type BookRepository interface {
	Create(ctx context.Context, book *Book) error
	FindByID(ctx context.Context, id uint) (*Book, error)
	List(ctx context.Context) ([]Book, error)
	Update(ctx context.Context, book *Book) error
	Delete(ctx context.Context, id uint) error
}

// StatsRepository defines the read-only aggregate counts
type StatsRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountContacts(ctx context.Context) (int64, error)
	CountImages(ctx context.Context) (int64, error)
	CountBooks(ctx context.Context) (int64, error)
	CountCategories(ctx context.Context) (int64, error)
}

// RegisterInput carries a self-registration request
type RegisterInput struct {
	UserName string
	Email    string
	PhoneNo  string
	Password string
}

// AuthService defines authentication business logic
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*User, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// LogoutAll bumps the token version, invalidating every issued token
	LogoutAll(ctx context.Context, userID uint) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	GetUserProfile(ctx context.Context, userID uint) (*User, error)
}

// OTPService defines OTP operations
type OTPService interface {
	Generate(ctx context.Context, email string, userID uint) (*OTPRequest, error)
	Verify(ctx context.Context, email, code string, userID uint) (bool, error)
	CanResend(ctx context.Context, email string) (bool, int64, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines token operations
type TokenService interface {
	GenerateToken(userID uint, tokenVersion int) (string, error)
	ValidateToken(token string) (*TokenClaims, error)
	TTL() time.Duration
}

// NotificationService defines notification operations
type NotificationService interface {
	SendSMS(to, message string) error
	SendEmail(to, subject, body string) error
}

// PolicyService defines authorization policy operations
type PolicyService interface {
	AddPolicy(role, resource, action string) error
	RemovePolicy(role, resource, action string) error
	CheckPermission(role, resource, action string) (bool, error)
	GetPolicies() ([][]string, error)
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}

// CatalogService defines book and category operations
type CatalogService interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id uint) (*Category, error)
	CreateCategory(ctx context.Context, name string) (*Category, error)
	UpdateCategory(ctx context.Context, id uint, name string) (*Category, error)
	DeleteCategory(ctx context.Context, id uint) error

	ListBooks(ctx context.Context) ([]Book, error)
	GetBook(ctx context.Context, id uint) (*Book, error)
	CreateBook(ctx context.Context, in BookInput) (*Book, error)
	UpdateBook(ctx context.Context, id uint, in BookInput) (*Book, error)
	DeleteBook(ctx context.Context, id uint) error
}

// StatsService defines the dashboard aggregates
type StatsService interface {
	TotalUsers(ctx context.Context) (int64, []User, error)
	TotalContacts(ctx context.Context) (int64, error)
	TotalImages(ctx context.Context) (int64, error)
	TotalBooks(ctx context.Context) (int64, error)
	TotalCategories(ctx context.Context) (int64, error)
	AverageBooksPerCategory(ctx context.Context) (float64, error)
}

// UserService defines account management operations
type UserService interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id uint) (*User, error)
	DeleteUser(ctx context.Context, id uint) error
	UpdateRole(ctx context.Context, id uint, role string) (*User, error)
	Contacts(ctx context.Context, id uint) ([]Contact, error)
	Photos(ctx context.Context, id uint) ([]Photo, error)
	SyncContacts(ctx context.Context, id uint, contacts []Contact) ([]Contact, error)
	UploadPhotos(ctx context.Context, id uint, photos []*Upload) ([]Photo, error)
}

// MediaService validates, transforms and stores uploaded buffers
type MediaService interface {
	ValidateBookUpload(book, cover *Upload) error
	UploadBookFile(ctx context.Context, book *Upload) (*StoredObject, error)
	UploadCover(ctx context.Context, cover *Upload) (*StoredObject, error)
	UploadPhotos(ctx context.Context, photos []*Upload) ([]StoredObject, error)
	Delete(ctx context.Context, key string) error
}

// BlobStore is the external media host
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (*StoredObject, error)
	Delete(ctx context.Context, key string) error
}

// CoverTranscoder turns an arbitrary image into the cover rendition
type CoverTranscoder interface {
	Transcode(data []byte) ([]byte, error)
}
