// Package users provides database operations for identity rows.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByUsername("admin")
package users

import (
	"gorm.io/gorm"

	"github.com/neuroplay/neuroplay/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username.
func (r *Repository) GetByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByRole returns all users with the given role.
func (r *Repository) ListByRole(role entities.UserRole) ([]entities.User, error) {
	var users []entities.User
	err := r.db.Where("role = ?", role).Order("username ASC").Find(&users).Error
	return users, err
}

// Delete removes a user row; the store cascades to the role profile and any
// dependent session rows.
func (r *Repository) Delete(id uint) error {
	return r.db.Delete(&entities.User{}, id).Error
}

// Count returns the number of users in the database.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}
