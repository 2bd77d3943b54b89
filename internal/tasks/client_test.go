package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	require.NotNil(t, client)

	// Verify tasks database was created
	tasksDBPath := filepath.Join(tmpDir, "test-tasks.db")
	_, err = os.Stat(tasksDBPath)
	assert.NoError(t, err, "tasks database should be created")

	err = client.Close()
	assert.NoError(t, err)
}

func TestClientStartStop(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)

	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	success := client.Stop(stopCtx)
	assert.True(t, success, "stop should succeed gracefully")
}

// echoTask is a minimal task used to exercise enqueue and processing.
type echoTask struct {
	Value string `json:"value"`
}

func (t echoTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "echo_task",
		MaxAttempts: 1,
		Backoff:     time.Second,
		Timeout:     5 * time.Second,
	}
}

func TestTaskEnqueue(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	defer client.Close()

	executed := make(chan string, 1)
	queue := backlite.NewQueue(func(ctx context.Context, task echoTask) error {
		executed <- task.Value
		return nil
	})
	client.Register(queue)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	ids, err := client.Add(echoTask{Value: "hello"}).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	select {
	case val := <-executed:
		assert.Equal(t, "hello", val)
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}
}

func TestGenerateReportTaskConfig(t *testing.T) {
	task := GenerateReportTask{ReportID: 42}
	cfg := task.Config()

	assert.Equal(t, "generate_report", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Backoff)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestCleanupReportsTaskConfig(t *testing.T) {
	task := CleanupReportsTask{RetentionDays: 90}
	cfg := task.Config()

	assert.Equal(t, "cleanup_reports", cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, time.Minute, cfg.Timeout)
}

type stubGenerator struct {
	calls []uint
	err   error
}

func (s *stubGenerator) Generate(reportID uint) error {
	s.calls = append(s.calls, reportID)
	return s.err
}

func TestGenerateReportProcessor(t *testing.T) {
	gen := &stubGenerator{}
	processor := GenerateReportProcessor(gen)

	err := processor(context.Background(), GenerateReportTask{ReportID: 7})
	require.NoError(t, err)
	assert.Equal(t, []uint{7}, gen.calls)
}

func TestGenerateReportProcessorNilGenerator(t *testing.T) {
	processor := GenerateReportProcessor(nil)
	err := processor(context.Background(), GenerateReportTask{ReportID: 7})
	assert.Error(t, err)
}

type stubCleaner struct {
	retention time.Duration
	deleted   int64
	err       error
}

func (s *stubCleaner) DeleteOldReports(retention time.Duration) (int64, error) {
	s.retention = retention
	return s.deleted, s.err
}

func TestCleanupReportsProcessor(t *testing.T) {
	cleaner := &stubCleaner{deleted: 3}
	processor := CleanupReportsProcessor(cleaner)

	err := processor(context.Background(), CleanupReportsTask{RetentionDays: 30})
	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, cleaner.retention)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}
