package tasks

import "time"

// Config holds task queue configuration.
type Config struct {
	// Workers is the number of concurrent task processors.
	Workers int

	// ReleaseAfter is how long before a claimed but unfinished task is
	// released back to the queue.
	ReleaseAfter time.Duration

	// CleanupInterval is how often completed task rows are purged.
	CleanupInterval time.Duration
}

// DefaultConfig returns sensible task queue defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}
