// Package scheduler runs cron-driven maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/neuroplay/neuroplay/internal/tasks"
)

// ReportCleanupScheduler periodically enqueues a report retention cleanup.
type ReportCleanupScheduler struct {
	taskClient    *tasks.Client
	cleaner       tasks.ReportCleaner
	schedule      string
	retentionDays int

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewReportCleanupScheduler creates a scheduler that triggers report cleanup
// on the given cron schedule. When taskClient is nil the cleanup runs inline
// against the cleaner instead of going through the queue.
func NewReportCleanupScheduler(taskClient *tasks.Client, cleaner tasks.ReportCleaner, schedule string, retentionDays int) *ReportCleanupScheduler {
	return &ReportCleanupScheduler{
		taskClient:    taskClient,
		cleaner:       cleaner,
		schedule:      schedule,
		retentionDays: retentionDays,
		cron:          cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *ReportCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runCleanup()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule report cleanup: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Report cleanup scheduler: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *ReportCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Report cleanup scheduler: stopped")
}

// RunNow triggers an immediate cleanup.
func (s *ReportCleanupScheduler) RunNow() {
	go s.runCleanup()
}

// IsRunning returns whether the scheduler is active.
func (s *ReportCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next cleanup will occur.
func (s *ReportCleanupScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *ReportCleanupScheduler) runCleanup() {
	if s.taskClient != nil {
		_, err := s.taskClient.Add(tasks.CleanupReportsTask{RetentionDays: s.retentionDays}).Save()
		if err != nil {
			log.Printf("Report cleanup: failed to enqueue task: %v", err)
		}
		return
	}

	if s.cleaner == nil {
		log.Printf("Report cleanup: skipped (no cleaner configured)")
		return
	}

	retention := time.Duration(s.retentionDays) * 24 * time.Hour
	deleted, err := s.cleaner.DeleteOldReports(retention)
	if err != nil {
		log.Printf("Report cleanup: failed: %v", err)
		return
	}
	log.Printf("Report cleanup: removed %d expired reports", deleted)
}
