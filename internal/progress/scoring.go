package progress

import (
	"fmt"
	"time"

	"github.com/neuroplay/neuroplay/internal/entities"
)

// Outcome carries the raw metrics a mini-game reports at completion.
// Which fields matter depends on the game: the memory game uses Attempts,
// Rounds (pair count) and Duration; the tap game uses Score, Attempts and
// Duration; the emotion and pronunciation games use Score, Rounds and
// Duration.
type Outcome struct {
	Score    int
	Attempts int
	Rounds   int
	Duration time.Duration
}

// RatingFunc maps a completed game outcome to a star rating in {1,2,3}.
type RatingFunc func(Outcome) int

// emotionRounds is the fixed round count of the emotion-recognition game.
const emotionRounds = 4

var ratingRules = map[entities.GameType]RatingFunc{
	entities.GameTypeMemory:        rateMemory,
	entities.GameTypeCoordination:  rateCoordination,
	entities.GameTypeEmotions:      rateEmotions,
	entities.GameTypePronunciation: ratePronunciation,
}

// Rate computes the star rating for a completed game of the given type.
func Rate(gameType entities.GameType, outcome Outcome) (int, error) {
	rule, ok := ratingRules[gameType]
	if !ok {
		return 0, fmt.Errorf("no rating rule for game type %q", gameType)
	}
	return rule(outcome), nil
}

// rateMemory scores the memory-matching game. Rounds is the pair count.
func rateMemory(o Outcome) int {
	switch {
	case o.Attempts <= 2*o.Rounds && o.Duration <= 30*time.Second:
		return 3
	case o.Attempts <= 3*o.Rounds && o.Duration <= 60*time.Second:
		return 2
	default:
		return 1
	}
}

// rateCoordination scores the coordination/tap game.
func rateCoordination(o Outcome) int {
	perfect := o.Score == o.Attempts && o.Score >= 15
	switch {
	case (o.Score >= 20 && o.Duration <= 31*time.Second) || perfect:
		return 3
	case o.Score >= 10:
		return 2
	default:
		return 1
	}
}

// rateEmotions scores the emotion-recognition game (fixed four rounds).
func rateEmotions(o Outcome) int {
	switch {
	case o.Score == emotionRounds && o.Duration <= 20*time.Second:
		return 3
	case o.Score >= emotionRounds-1 && o.Duration <= 40*time.Second:
		return 2
	default:
		return 1
	}
}

// ratePronunciation scores the pronunciation game. Rounds varies with the
// chosen difficulty level.
func ratePronunciation(o Outcome) int {
	switch {
	case o.Rounds > 0 && o.Score == o.Rounds:
		return 3
	case o.Rounds > 0 && float64(o.Score) >= 0.6*float64(o.Rounds):
		return 2
	default:
		return 1
	}
}
