package domain

import "time"

// Role markers stored on the user record
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents a reading-app account
type User struct {
	ID           uint      `json:"_id"`
	UserName     string    `json:"userName"`
	Email        string    `json:"email"`
	PhoneNo      string    `json:"phoneNo"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	TokenVersion int       `json:"tokenVersion"`
	Contacts     []Contact `json:"contacts,omitempty"`
	Photos       []Photo   `json:"photos,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user carries the admin marker
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Identity is the minimal user view the credential check attaches to a request
type Identity struct {
	UserID       uint
	Email        string
	TokenVersion int
}

// Contact is one entry of a user's synced address book
type Contact struct {
	Name         string   `json:"name"`
	PhoneNumbers []string `json:"phoneNumbers"`
}

// Photo is an uploaded user image
type Photo struct {
	SecureURL  string `json:"secureUrl"`
	PublicURL  string `json:"publicUrl"`
	StorageKey string `json:"-"`
}

// Book is a catalog entry with its asset and cover locators
type Book struct {
	ID              uint      `json:"_id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	CategoryID      uint      `json:"bookCategoryId"`
	BookSecureURL   string    `json:"bookSecureUrl"`
	BookPublicURL   string    `json:"bookPublicUrl"`
	BookStorageKey  string    `json:"-"`
	CoverSecureURL  string    `json:"coverSecureUrl"`
	CoverPublicURL  string    `json:"coverPublicUrl"`
	CoverStorageKey string    `json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Category groups books; names are unique
type Category struct {
	ID        uint      `json:"_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User      *User
	Token     string
	ExpiresIn int64
}

// OTPRequest represents a one-time code issued for a password reset
type OTPRequest struct {
	Email     string
	Code      string
	UserID    uint
	ExpiresAt time.Time
	Attempts  int
}

// BookInput carries the writable book fields of a create or update call.
// Empty strings and a zero CategoryID mean "leave unchanged" on update.
type BookInput struct {
	Title      string
	Author     string
	CategoryID uint
	Book       *Upload
	Cover      *Upload
}

// UploadField tags an in-memory buffer with the form field it arrived under
type UploadField string

const (
	FieldBook   UploadField = "book"
	FieldCover  UploadField = "cover"
	FieldPhotos UploadField = "photos"
)

// Upload is one in-memory file taken from a multipart form
type Upload struct {
	Field       UploadField
	Filename    string
	ContentType string
	Data        []byte
}

// Size returns the buffer length in bytes
func (u *Upload) Size() int64 {
	if u == nil {
		return 0
	}
	return int64(len(u.Data))
}

// StoredObject is what the blob host returns for a stored buffer
type StoredObject struct {
	Key       string
	SecureURL string
	PublicURL string
}

// Totals is the aggregate dashboard snapshot
type Totals struct {
	Users      int64
	Contacts   int64
	Images     int64
	Books      int64
	Categories int64
}

// AverageBooksPerCategory divides books by categories, defined as 0 without categories
func AverageBooksPerCategory(books, categories int64) float64 {
	if categories <= 0 {
		return 0
	}
	return float64(books) / float64(categories)
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID       uint   `json:"user_id"`
	TokenVersion int    `json:"token_version"`
	IssuedAt     int64  `json:"iat"`
	ExpiresAt    int64  `json:"exp"`
	ID           string `json:"jti,omitempty"`
}
