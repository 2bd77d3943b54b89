package progress

import "github.com/neuroplay/neuroplay/internal/entities"

// Summary aggregates a set of game sessions. It is derived on demand and
// never persisted.
type Summary struct {
	SessionCount       int     `json:"session_count"`
	AverageStars       float64 `json:"average_stars"`
	AverageTimeSeconds float64 `json:"average_time_seconds"`
	AverageAttempts    float64 `json:"average_attempts"`
}

// Summarize computes the aggregate over a session set. An empty set yields a
// zero count and zero averages.
func Summarize(sessions []entities.GameSession) Summary {
	if len(sessions) == 0 {
		return Summary{}
	}

	var stars, attempts int
	var seconds float64
	for _, s := range sessions {
		stars += s.Stars
		attempts += s.Attempts
		seconds += float64(s.TimeTaken) / 1000.0
	}

	n := float64(len(sessions))
	return Summary{
		SessionCount:       len(sessions),
		AverageStars:       float64(stars) / n,
		AverageTimeSeconds: seconds / n,
		AverageAttempts:    float64(attempts) / n,
	}
}
