package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// ReportCleaner deletes progress reports older than the retention window.
type ReportCleaner interface {
	DeleteOldReports(retention time.Duration) (int64, error)
}

// CleanupReportsTask removes stored reports past their retention period.
type CleanupReportsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for report cleanup tasks.
func (t CleanupReportsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_reports",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupReportsProcessor creates a processor function for CleanupReportsTask.
func CleanupReportsProcessor(cleaner ReportCleaner) backlite.QueueProcessor[CleanupReportsTask] {
	return func(ctx context.Context, task CleanupReportsTask) error {
		if cleaner == nil {
			return fmt.Errorf("report cleaner not configured")
		}

		retention := time.Duration(task.RetentionDays) * 24 * time.Hour
		deleted, err := cleaner.DeleteOldReports(retention)
		if err != nil {
			return fmt.Errorf("cleanup reports: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d expired progress reports", deleted)
		return nil
	}
}

// NewCleanupReportsQueue creates a backlite queue for report cleanup tasks.
func NewCleanupReportsQueue(cleaner ReportCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupReportsProcessor(cleaner))
}
