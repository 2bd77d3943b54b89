// Package progress records completed game sessions and serves the derived
// statistics consumed by specialists, both as one-shot queries and as
// push streams that re-emit the full result set after every affecting write.
package progress

import (
	"context"
	"log"

	"github.com/neuroplay/neuroplay/internal/database/sessions"
	"github.com/neuroplay/neuroplay/internal/entities"
)

// Repository is the progress-tracking domain repository. All watch streams
// terminate when the supplied context is cancelled; single-shot operations
// run to completion.
type Repository struct {
	store  *sessions.Repository
	broker *Broker
}

// NewRepository creates a progress repository over the sessions DAO.
func NewRepository(store *sessions.Repository) *Repository {
	return &Repository{
		store:  store,
		broker: NewBroker(),
	}
}

// SaveSession appends a completed game session and wakes the watchers of the
// affected child. Integrity violations from the store (e.g. an unknown
// child) propagate to the caller; nothing is retried.
func (r *Repository) SaveSession(session *entities.GameSession) error {
	if err := r.store.Insert(session); err != nil {
		return err
	}
	r.broker.Notify(session.ChildUserID)
	return nil
}

// SessionsForChild returns all of a child's sessions, newest first.
func (r *Repository) SessionsForChild(childID uint) ([]entities.GameSession, error) {
	return r.store.ForChild(childID)
}

// SessionsForChildAndType filters by exact game-type match.
func (r *Repository) SessionsForChildAndType(childID uint, gameType entities.GameType) ([]entities.GameSession, error) {
	return r.store.ForChildAndType(childID, gameType)
}

// SessionsByDateRange filters by inclusive creation-timestamp range.
func (r *Repository) SessionsByDateRange(childID uint, startMillis, endMillis int64) ([]entities.GameSession, error) {
	return r.store.ByDateRange(childID, startMillis, endMillis)
}

// SummaryForChild aggregates all of a child's sessions.
func (r *Repository) SummaryForChild(childID uint) (Summary, error) {
	list, err := r.store.ForChild(childID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(list), nil
}

// SummaryByDateRange aggregates the date-filtered session set.
func (r *Repository) SummaryByDateRange(childID uint, startMillis, endMillis int64) (Summary, error) {
	list, err := r.store.ByDateRange(childID, startMillis, endMillis)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(list), nil
}

// WatchSessions streams the child's full session list: once on subscribe and
// again after every insert affecting the child.
func (r *Repository) WatchSessions(ctx context.Context, childID uint) <-chan []entities.GameSession {
	return r.watch(ctx, childID, func() ([]entities.GameSession, error) {
		return r.store.ForChild(childID)
	})
}

// WatchSessionsByType streams the game-type-filtered session list.
func (r *Repository) WatchSessionsByType(ctx context.Context, childID uint, gameType entities.GameType) <-chan []entities.GameSession {
	return r.watch(ctx, childID, func() ([]entities.GameSession, error) {
		return r.store.ForChildAndType(childID, gameType)
	})
}

// WatchSessionsByDateRange streams the date-filtered session list.
func (r *Repository) WatchSessionsByDateRange(ctx context.Context, childID uint, startMillis, endMillis int64) <-chan []entities.GameSession {
	return r.watch(ctx, childID, func() ([]entities.GameSession, error) {
		return r.store.ByDateRange(childID, startMillis, endMillis)
	})
}

// WatchSummary streams the child's aggregate, recomputed whenever the
// underlying session stream emits.
func (r *Repository) WatchSummary(ctx context.Context, childID uint) <-chan Summary {
	return summarizeStream(ctx, r.WatchSessions(ctx, childID))
}

// WatchSummaryByDateRange streams the date-restricted aggregate.
func (r *Repository) WatchSummaryByDateRange(ctx context.Context, childID uint, startMillis, endMillis int64) <-chan Summary {
	return summarizeStream(ctx, r.WatchSessionsByDateRange(ctx, childID, startMillis, endMillis))
}

// watch runs the query once immediately, then again on every notification
// for the child, sending the full result set each time. The output channel
// closes when ctx is cancelled.
func (r *Repository) watch(ctx context.Context, childID uint, query func() ([]entities.GameSession, error)) <-chan []entities.GameSession {
	out := make(chan []entities.GameSession, 1)
	notify, cancel := r.broker.Subscribe(childID)

	go func() {
		defer close(out)
		defer cancel()

		emit := func() bool {
			list, err := query()
			if err != nil {
				// Keep the stream alive; the next write retriggers the query.
				log.Printf("progress watch query failed for child %d: %v", childID, err)
				return true
			}
			select {
			case out <- list:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-notify:
				if !emit() {
					return
				}
			}
		}
	}()

	return out
}

// summarizeStream maps a session-list stream to its aggregate stream.
func summarizeStream(ctx context.Context, in <-chan []entities.GameSession) <-chan Summary {
	out := make(chan Summary, 1)
	go func() {
		defer close(out)
		for list := range in {
			select {
			case out <- Summarize(list):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
