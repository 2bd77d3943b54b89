// Package sessions provides the query surface over game session rows.
// Sessions are insert-only; deletion happens exclusively through the store's
// cascade when the owning child is removed.
package sessions

import (
	"time"

	"gorm.io/gorm"

	"github.com/neuroplay/neuroplay/internal/entities"
)

// Repository handles game session database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new sessions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert appends a session row. The store rejects rows referencing a
// non-existent child; that failure is returned as-is.
func (r *Repository) Insert(session *entities.GameSession) error {
	return r.db.Create(session).Error
}

// ForChild returns all sessions for a child, newest first.
func (r *Repository) ForChild(childID uint) ([]entities.GameSession, error) {
	var sessions []entities.GameSession
	err := r.db.Where("child_user_id = ?", childID).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// ForChildAndType returns a child's sessions of one game type, newest first.
func (r *Repository) ForChildAndType(childID uint, gameType entities.GameType) ([]entities.GameSession, error) {
	var sessions []entities.GameSession
	err := r.db.Where("child_user_id = ? AND game_type = ?", childID, gameType).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// ByDateRange returns a child's sessions whose creation timestamp falls
// inside [startMillis, endMillis], newest first. Both bounds are inclusive.
func (r *Repository) ByDateRange(childID uint, startMillis, endMillis int64) ([]entities.GameSession, error) {
	var sessions []entities.GameSession
	start := time.UnixMilli(startMillis)
	end := time.UnixMilli(endMillis)
	err := r.db.Where("child_user_id = ? AND created_at >= ? AND created_at <= ?", childID, start, end).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// CountForChild returns the number of recorded sessions for a child.
func (r *Repository) CountForChild(childID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.GameSession{}).
		Where("child_user_id = ?", childID).
		Count(&count).Error
	return count, err
}
