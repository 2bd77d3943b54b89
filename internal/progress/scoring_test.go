package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/neuroplay/neuroplay/internal/entities"
)

func TestRateMemory(t *testing.T) {
	tests := []struct {
		name     string
		attempts int
		pairs    int
		duration time.Duration
		want     int
	}{
		{"few attempts and fast", 8, 4, 29 * time.Second, 3},
		{"boundary attempts and time", 8, 4, 30 * time.Second, 3},
		{"moderate attempts", 10, 4, 45 * time.Second, 2},
		{"boundary for two stars", 12, 4, 60 * time.Second, 2},
		{"too many attempts", 20, 4, 90 * time.Second, 1},
		{"fast but sloppy", 13, 4, 10 * time.Second, 1},
		{"accurate but slow", 8, 4, 31 * time.Second, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Rate(entities.GameTypeMemory, Outcome{
				Attempts: tt.attempts,
				Rounds:   tt.pairs,
				Duration: tt.duration,
			})
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRateCoordination(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		attempts int
		duration time.Duration
		want     int
	}{
		{"high score and fast", 20, 25, 31 * time.Second, 3},
		{"high score too slow", 20, 25, 32 * time.Second, 2},
		{"perfect accuracy", 15, 15, 60 * time.Second, 3},
		{"perfect but too few taps", 14, 14, 10 * time.Second, 2},
		{"middling score", 10, 20, 40 * time.Second, 2},
		{"low score", 9, 20, 40 * time.Second, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Rate(entities.GameTypeCoordination, Outcome{
				Score:    tt.score,
				Attempts: tt.attempts,
				Duration: tt.duration,
			})
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRateEmotions(t *testing.T) {
	tests := []struct {
		name     string
		score    int
		duration time.Duration
		want     int
	}{
		{"all four fast", 4, 20 * time.Second, 3},
		{"all four too slow for top", 4, 25 * time.Second, 2},
		{"three correct in time", 3, 40 * time.Second, 2},
		{"three correct too slow", 3, 41 * time.Second, 1},
		{"two correct", 2, 10 * time.Second, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Rate(entities.GameTypeEmotions, Outcome{
				Score:    tt.score,
				Rounds:   4,
				Duration: tt.duration,
			})
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRatePronunciation(t *testing.T) {
	tests := []struct {
		name   string
		score  int
		rounds int
		want   int
	}{
		{"all rounds correct", 5, 5, 3},
		{"exactly sixty percent", 3, 5, 2},
		{"above sixty percent", 7, 10, 2},
		{"below sixty percent", 2, 5, 1},
		{"zero rounds", 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Rate(entities.GameTypePronunciation, Outcome{
				Score:  tt.score,
				Rounds: tt.rounds,
			})
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRateUnknownGameType(t *testing.T) {
	_, err := Rate(entities.GameType("tetris"), Outcome{})
	assert.Error(t, err)
}
