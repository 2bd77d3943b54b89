package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// ReportGenerator fulfils a previously requested progress report.
type ReportGenerator interface {
	Generate(reportID uint) error
}

// GenerateReportTask computes the summaries for one pending report row.
type GenerateReportTask struct {
	ReportID uint `json:"report_id"`
}

// Config returns the queue configuration for report generation tasks.
func (t GenerateReportTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "generate_report",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// GenerateReportProcessor creates a processor function for GenerateReportTask.
func GenerateReportProcessor(generator ReportGenerator) backlite.QueueProcessor[GenerateReportTask] {
	return func(ctx context.Context, task GenerateReportTask) error {
		if generator == nil {
			return fmt.Errorf("report generator not configured")
		}

		if err := generator.Generate(task.ReportID); err != nil {
			return fmt.Errorf("generate report %d: %w", task.ReportID, err)
		}

		log.Printf("[TASK] Generated progress report %d", task.ReportID)
		return nil
	}
}

// NewGenerateReportQueue creates a backlite queue for report generation tasks.
func NewGenerateReportQueue(generator ReportGenerator) backlite.Queue {
	return backlite.NewQueue(GenerateReportProcessor(generator))
}
