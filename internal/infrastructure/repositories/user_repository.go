package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/you/neuraread/domain"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID           uint        `gorm:"primaryKey"`
	UserName     string      `gorm:"size:255"`
	Email        string      `gorm:"uniqueIndex;size:255"`
	PhoneNo      string      `gorm:"index;size:32"`
	PasswordHash string      `gorm:"column:password"`
	Role         string      `gorm:"index;size:64"`
	TokenVersion int         `gorm:"not null;default:0"`
	Contacts     []DBContact `gorm:"foreignKey:UserID"`
	Photos       []DBPhoto   `gorm:"foreignKey:UserID"`
	CreatedAt    time.Time   `gorm:"index"`
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// DBContact is one synced address book entry
type DBContact struct {
	ID           uint     `gorm:"primaryKey"`
	UserID       uint     `gorm:"index;not null"`
	Name         string   `gorm:"size:255"`
	PhoneNumbers []string `gorm:"serializer:json"`
}

func (DBContact) TableName() string {
	return "user_contacts"
}

// DBPhoto is an uploaded batch photo
type DBPhoto struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"index;not null"`
	SecureURL  string `gorm:"size:1024"`
	PublicURL  string `gorm:"size:1024"`
	StorageKey string `gorm:"size:512"`
	CreatedAt  time.Time
}

func (DBPhoto) TableName() string {
	return "user_photos"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Omit("Contacts", "Photos").Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByID implements domain.UserRepository. Contacts and photos are preloaded.
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).
		Preload("Contacts", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindIdentity implements domain.UserRepository
func (r *UserRepositoryImpl) FindIdentity(ctx context.Context, id uint) (*domain.Identity, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Select("id", "email", "token_version").Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &domain.Identity{UserID: dbUser.ID, Email: dbUser.Email, TokenVersion: dbUser.TokenVersion}, nil
}

// FindRole implements domain.UserRepository
func (r *UserRepositoryImpl) FindRole(ctx context.Context, id uint) (string, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Select("id", "role").Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", err
	}
	return dbUser.Role, nil
}

// List implements domain.UserRepository, newest first
func (r *UserRepositoryImpl) List(ctx context.Context) ([]domain.User, error) {
	var rows []DBUser
	if err := r.db.WithContext(ctx).Order("created_at desc, id desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, *r.dbToDomain(&rows[i]))
	}
	return users, nil
}

// UpdatePassword implements domain.UserRepository
func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	return r.updateColumn(ctx, id, "password", passwordHash)
}

// UpdateRole implements domain.UserRepository
func (r *UserRepositoryImpl) UpdateRole(ctx context.Context, id uint, role string) error {
	return r.updateColumn(ctx, id, "role", role)
}

func (r *UserRepositoryImpl) updateColumn(ctx context.Context, id uint, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// IncrementTokenVersion implements domain.UserRepository
func (r *UserRepositoryImpl) IncrementTokenVersion(ctx context.Context, id uint) (int, error) {
	var version int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&DBUser{}).Where("id = ?", id).
			UpdateColumn("token_version", gorm.Expr("token_version + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return tx.Model(&DBUser{}).Where("id = ?", id).Select("token_version").Scan(&version).Error
	})
	return version, err
}

// Delete implements domain.UserRepository. Contacts and photos go with the user.
func (r *UserRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&DBContact{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&DBPhoto{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&DBUser{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}

// Contacts implements domain.UserRepository
func (r *UserRepositoryImpl) Contacts(ctx context.Context, id uint) ([]domain.Contact, error) {
	db := r.db.WithContext(ctx)
	if err := r.ensureExists(db, id); err != nil {
		return nil, err
	}
	var rows []DBContact
	if err := db.Where("user_id = ?", id).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return contactsToDomain(rows), nil
}

// Photos implements domain.UserRepository
func (r *UserRepositoryImpl) Photos(ctx context.Context, id uint) ([]domain.Photo, error) {
	db := r.db.WithContext(ctx)
	if err := r.ensureExists(db, id); err != nil {
		return nil, err
	}
	var rows []DBPhoto
	if err := db.Where("user_id = ?", id).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return photosToDomain(rows), nil
}

// ReplaceContacts implements domain.UserRepository
func (r *UserRepositoryImpl) ReplaceContacts(ctx context.Context, id uint, contacts []domain.Contact) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.ensureExists(tx, id); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&DBContact{}).Error; err != nil {
			return err
		}
		if len(contacts) == 0 {
			return nil
		}
		rows := make([]DBContact, 0, len(contacts))
		for _, c := range contacts {
			rows = append(rows, DBContact{UserID: id, Name: c.Name, PhoneNumbers: c.PhoneNumbers})
		}
		return tx.Create(&rows).Error
	})
}

// AppendPhotos implements domain.UserRepository
func (r *UserRepositoryImpl) AppendPhotos(ctx context.Context, id uint, photos []domain.Photo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.ensureExists(tx, id); err != nil {
			return err
		}
		if len(photos) == 0 {
			return nil
		}
		rows := make([]DBPhoto, 0, len(photos))
		for _, p := range photos {
			rows = append(rows, DBPhoto{UserID: id, SecureURL: p.SecureURL, PublicURL: p.PublicURL, StorageKey: p.StorageKey})
		}
		return tx.Create(&rows).Error
	})
}

func (r *UserRepositoryImpl) ensureExists(db *gorm.DB, id uint) error {
	var n int64
	if err := db.Model(&DBUser{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:           user.ID,
		UserName:     user.UserName,
		Email:        user.Email,
		PhoneNo:      user.PhoneNo,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	}
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:           dbUser.ID,
		UserName:     dbUser.UserName,
		Email:        dbUser.Email,
		PhoneNo:      dbUser.PhoneNo,
		PasswordHash: dbUser.PasswordHash,
		Role:         dbUser.Role,
		TokenVersion: dbUser.TokenVersion,
		Contacts:     contactsToDomain(dbUser.Contacts),
		Photos:       photosToDomain(dbUser.Photos),
		CreatedAt:    dbUser.CreatedAt,
		UpdatedAt:    dbUser.UpdatedAt,
	}
}

func contactsToDomain(rows []DBContact) []domain.Contact {
	if len(rows) == 0 {
		return nil
	}
	out := make([]domain.Contact, 0, len(rows))
	for _, c := range rows {
		out = append(out, domain.Contact{Name: c.Name, PhoneNumbers: c.PhoneNumbers})
	}
	return out
}

func photosToDomain(rows []DBPhoto) []domain.Photo {
	if len(rows) == 0 {
		return nil
	}
	out := make([]domain.Photo, 0, len(rows))
	for _, p := range rows {
		out = append(out, domain.Photo{SecureURL: p.SecureURL, PublicURL: p.PublicURL, StorageKey: p.StorageKey})
	}
	return out
}
