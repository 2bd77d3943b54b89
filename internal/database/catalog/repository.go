// Package catalog provides database operations for specialties, the game
// catalog and the specialty-game links.
package catalog

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/neuroplay/neuroplay/internal/entities"
)

var (
	ErrSpecialtyNotFound = errors.New("specialty not found")
	ErrGameNotFound      = errors.New("game not found")

	// ErrSpecialtyInUse is returned instead of the raw constraint failure
	// when a specialty is still referenced by a specialist.
	ErrSpecialtyInUse = errors.New("specialty is referenced by a specialist")
)

// Repository handles specialty and game catalog operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateSpecialty adds a named specialty.
func (r *Repository) CreateSpecialty(name string) (*entities.Specialty, error) {
	specialty := &entities.Specialty{Name: name}
	if err := r.db.Create(specialty).Error; err != nil {
		return nil, err
	}
	return specialty, nil
}

// GetSpecialty retrieves a specialty by ID.
func (r *Repository) GetSpecialty(id uint) (*entities.Specialty, error) {
	var specialty entities.Specialty
	err := r.db.First(&specialty, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpecialtyNotFound
		}
		return nil, err
	}
	return &specialty, nil
}

// ListSpecialties returns all specialties.
func (r *Repository) ListSpecialties() ([]entities.Specialty, error) {
	var specialties []entities.Specialty
	err := r.db.Order("name ASC").Find(&specialties).Error
	return specialties, err
}

// DeleteSpecialty removes a specialty. The store would refuse the delete
// while any specialist references it; the in-use case is checked up front so
// callers get ErrSpecialtyInUse instead of a constraint exception.
func (r *Repository) DeleteSpecialty(id uint) error {
	var refs int64
	err := r.db.Model(&entities.Specialist{}).Where("specialty_id = ?", id).Count(&refs).Error
	if err != nil {
		return fmt.Errorf("failed to check specialty references: %w", err)
	}
	if refs > 0 {
		return ErrSpecialtyInUse
	}

	result := r.db.Delete(&entities.Specialty{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSpecialtyNotFound
	}
	return nil
}

// GetGameByCode retrieves a game catalog entry by its code name.
func (r *Repository) GetGameByCode(code entities.GameType) (*entities.Game, error) {
	var game entities.Game
	err := r.db.Where("code = ?", code).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &game, nil
}

// ListGames returns the full game catalog.
func (r *Repository) ListGames() ([]entities.Game, error) {
	var games []entities.Game
	err := r.db.Order("display_name ASC").Find(&games).Error
	return games, err
}

// LinkGame associates a game with a specialty. Linking twice is a no-op.
func (r *Repository) LinkGame(specialtyID, gameID uint) error {
	var existing entities.SpecialtyGame
	err := r.db.Where("specialty_id = ? AND game_id = ?", specialtyID, gameID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(&entities.SpecialtyGame{SpecialtyID: specialtyID, GameID: gameID}).Error
}

// UnlinkGame removes a specialty-game association.
func (r *Repository) UnlinkGame(specialtyID, gameID uint) error {
	return r.db.Where("specialty_id = ? AND game_id = ?", specialtyID, gameID).
		Delete(&entities.SpecialtyGame{}).Error
}

// GamesForSpecialty returns the games linked to a specialty.
func (r *Repository) GamesForSpecialty(specialtyID uint) ([]entities.Game, error) {
	var games []entities.Game
	err := r.db.
		Joins("JOIN specialty_games ON specialty_games.game_id = games.id").
		Where("specialty_games.specialty_id = ?", specialtyID).
		Order("games.display_name ASC").
		Find(&games).Error
	return games, err
}
