// Package reports produces stored progress-report snapshots for specialists.
// Report rows are created in a pending state and completed by a background
// task worker.
package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/neuroplay/neuroplay/internal/entities"
	"github.com/neuroplay/neuroplay/internal/progress"
)

var (
	ErrChildNotFound  = errors.New("child not found")
	ErrReportNotFound = errors.New("report not found")
)

// gameTypes lists the catalog codes included in every report.
var gameTypes = []entities.GameType{
	entities.GameTypeMemory,
	entities.GameTypeCoordination,
	entities.GameTypeEmotions,
	entities.GameTypePronunciation,
}

// Payload is the JSON document stored on a completed report.
type Payload struct {
	Overall     progress.Summary                      `json:"overall"`
	PerGame     map[entities.GameType]progress.Summary `json:"per_game"`
	GeneratedAt time.Time                             `json:"generated_at"`
}

// Generator creates and fulfils progress report requests.
type Generator struct {
	db       *gorm.DB
	progress *progress.Repository
}

// NewGenerator creates a report generator.
func NewGenerator(db *gorm.DB, progressRepo *progress.Repository) *Generator {
	return &Generator{db: db, progress: progressRepo}
}

// Request inserts a pending report row for a child and returns it.
func (g *Generator) Request(childID, requestedBy uint) (*entities.ProgressReport, error) {
	var child entities.Child
	if err := g.db.First(&child, "user_id = ?", childID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChildNotFound
		}
		return nil, err
	}

	report := &entities.ProgressReport{
		ChildUserID: childID,
		RequestedBy: requestedBy,
		Status:      entities.ReportStatusPending,
	}
	if err := g.db.Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return report, nil
}

// Generate computes the overall and per-game summaries for a pending report
// and marks it completed. A failed computation marks the report failed with
// the error message, so the requesting specialist can see what happened.
func (g *Generator) Generate(reportID uint) error {
	report, err := g.Get(reportID)
	if err != nil {
		return err
	}

	payload, err := g.buildPayload(report.ChildUserID)
	if err != nil {
		_ = g.db.Model(report).Updates(map[string]any{
			"status": entities.ReportStatusFailed,
			"error":  err.Error(),
		}).Error
		return fmt.Errorf("failed to build report %d: %w", reportID, err)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode report payload: %w", err)
	}

	now := time.Now()
	return g.db.Model(report).Updates(map[string]any{
		"status":       entities.ReportStatusCompleted,
		"payload":      string(raw),
		"error":        "",
		"completed_at": now,
	}).Error
}

// Get retrieves a report by ID.
func (g *Generator) Get(id uint) (*entities.ProgressReport, error) {
	var report entities.ProgressReport
	err := g.db.First(&report, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// ListForChild returns a child's reports, newest first.
func (g *Generator) ListForChild(childID uint) ([]entities.ProgressReport, error) {
	var list []entities.ProgressReport
	err := g.db.Where("child_user_id = ?", childID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// DeleteOldReports removes reports created before the retention window.
func (g *Generator) DeleteOldReports(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := g.db.Where("created_at < ?", cutoff).Delete(&entities.ProgressReport{})
	return result.RowsAffected, result.Error
}

func (g *Generator) buildPayload(childID uint) (*Payload, error) {
	overall, err := g.progress.SummaryForChild(childID)
	if err != nil {
		return nil, err
	}

	perGame := make(map[entities.GameType]progress.Summary, len(gameTypes))
	for _, gt := range gameTypes {
		list, err := g.progress.SessionsForChildAndType(childID, gt)
		if err != nil {
			return nil, err
		}
		perGame[gt] = progress.Summarize(list)
	}

	return &Payload{
		Overall:     overall,
		PerGame:     perGame,
		GeneratedAt: time.Now(),
	}, nil
}
