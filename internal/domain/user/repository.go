package user

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no user matches the lookup
var ErrNotFound = errors.New("user not found")

// Repository interface for user operations
type Repository interface {
	Create(user *User) error
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	FindPage(offset, limit int) ([]User, error)
	Count() (int64, error)
	Update(user *User) error
	Delete(id string) error
}

// repository struct for user operations
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new user repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

// Create creates a new user
func (r *repository) Create(user *User) error {
	return r.db.Create(user).Error
}

// FindByID gets a user by ID
func (r *repository) FindByID(id string) (*User, error) {
	var user User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail gets a user by email. Emails are stored lower-cased, so the
// lookup folds its input the same way.
func (r *repository) FindByEmail(email string) (*User, error) {
	var user User
	if err := r.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindPage returns one page of users, newest first
func (r *repository) FindPage(offset, limit int) ([]User, error) {
	var users []User
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the total number of users
func (r *repository) Count() (int64, error) {
	var total int64
	if err := r.db.Model(&User{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Update updates a user
func (r *repository) Update(user *User) error {
	return r.db.Save(user).Error
}

// Delete deletes a user
func (r *repository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&User{}).Error
}
