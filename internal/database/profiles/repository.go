// Package profiles provides database operations for specialist and child
// profiles. Referential rules (cascade from users, restrict on specialties,
// set-null on the child's specialist assignment) are enforced by the store;
// this package only checks existence before mutating.
package profiles

import (
	"errors"

	"gorm.io/gorm"

	"github.com/neuroplay/neuroplay/internal/entities"
)

var ErrNotFound = errors.New("profile not found")

// Repository handles specialist and child profile operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new profiles repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSpecialist retrieves a specialist profile with its specialty preloaded.
func (r *Repository) GetSpecialist(userID uint) (*entities.Specialist, error) {
	var specialist entities.Specialist
	err := r.db.Preload("Specialty").First(&specialist, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &specialist, nil
}

// ListSpecialists returns all specialist profiles with specialties preloaded.
func (r *Repository) ListSpecialists() ([]entities.Specialist, error) {
	var specialists []entities.Specialist
	err := r.db.Preload("Specialty").Order("full_name ASC").Find(&specialists).Error
	return specialists, err
}

// SpecialistUpdate carries the mutable fields of a specialist profile.
type SpecialistUpdate struct {
	FullName    string
	Email       string
	Phone       string
	SpecialtyID uint
}

// UpdateSpecialist mutates an existing specialist profile.
func (r *Repository) UpdateSpecialist(userID uint, upd SpecialistUpdate) error {
	var specialist entities.Specialist
	if err := r.db.First(&specialist, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return r.db.Model(&specialist).Updates(map[string]any{
		"full_name":    upd.FullName,
		"email":        upd.Email,
		"phone":        upd.Phone,
		"specialty_id": upd.SpecialtyID,
	}).Error
}

// GetChild retrieves a child profile.
func (r *Repository) GetChild(userID uint) (*entities.Child, error) {
	var child entities.Child
	err := r.db.First(&child, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &child, nil
}

// ListChildren returns all child profiles.
func (r *Repository) ListChildren() ([]entities.Child, error) {
	var children []entities.Child
	err := r.db.Order("full_name ASC").Find(&children).Error
	return children, err
}

// ListChildrenForSpecialist returns the children assigned to a specialist.
func (r *Repository) ListChildrenForSpecialist(specialistID uint) ([]entities.Child, error) {
	var children []entities.Child
	err := r.db.Where("specialist_id = ?", specialistID).Order("full_name ASC").Find(&children).Error
	return children, err
}

// ChildUpdate carries the mutable fields of a child profile.
type ChildUpdate struct {
	FullName      string
	Diagnosis     string
	GuardianName  string
	GuardianPhone string
	SpecialistID  *uint
}

// UpdateChild mutates an existing child profile. A nil SpecialistID clears
// the assignment.
func (r *Repository) UpdateChild(userID uint, upd ChildUpdate) error {
	var child entities.Child
	if err := r.db.First(&child, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return r.db.Model(&child).Updates(map[string]any{
		"full_name":      upd.FullName,
		"diagnosis":      upd.Diagnosis,
		"guardian_name":  upd.GuardianName,
		"guardian_phone": upd.GuardianPhone,
		"specialist_id":  upd.SpecialistID,
	}).Error
}

// AssignSpecialist sets or clears a child's specialist assignment.
func (r *Repository) AssignSpecialist(childID uint, specialistID *uint) error {
	result := r.db.Model(&entities.Child{}).
		Where("user_id = ?", childID).
		Update("specialist_id", specialistID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
