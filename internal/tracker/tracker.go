// Package tracker is the domain access layer over the record store. Each
// operation runs as exactly one store transaction and enforces the
// invariants the raw store cannot: ownership checks between users, tasks
// and milestones, cascading deletes and the derived queries.
package tracker

import (
	"context"
	"log/slog"
	"time"

	"github.com/nhle/productivity-tracker/internal/logging"
	"github.com/nhle/productivity-tracker/internal/model"
	"github.com/nhle/productivity-tracker/internal/store"
)

// Store is the transactional surface the tracker needs.
type Store interface {
	Transaction(ctx context.Context, collections []*store.Collection, work func(tx *store.Tx) error) error
	ReadTransaction(ctx context.Context, collections []*store.Collection, work func(tx *store.Tx) error) error
}

var _ Store = (*store.SQLiteStore)(nil)

// Collection sets declared by the operations.
var (
	usersOnly    = []*store.Collection{store.Users}
	ownedScope   = []*store.Collection{store.Users, store.Tasks, store.Milestones}
	taskScope    = []*store.Collection{store.Tasks, store.Milestones}
	sessionScope = []*store.Collection{store.Users, store.Sessions}
	everything   = []*store.Collection{store.Users, store.Tasks, store.Milestones, store.Sessions}
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now, which stamps creation and login times.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// Tracker implements the entity-level operations.
type Tracker struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time

	// milestonesOf loads the milestones of one task while joining.
	milestonesOf func(tx *store.Tx, taskID int64) ([]model.Milestone, error)
}

// New creates a Tracker over st. A nil logger discards output.
func New(st Store, logger *slog.Logger, opts ...Option) *Tracker {
	if logger == nil {
		logger = logging.Discard()
	}
	t := &Tracker{
		store:        st,
		logger:       logger,
		now:          time.Now,
		milestonesOf: milestonesOfTask,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// timestamp returns the current time in UTC without a monotonic reading.
func (t *Tracker) timestamp() time.Time {
	return t.now().UTC()
}

// today returns the current UTC calendar date in DateLayout, the same zone
// timestamp stamps records in.
func (t *Tracker) today() string {
	return t.timestamp().Format(model.DateLayout)
}

func milestonesOfTask(tx *store.Tx, taskID int64) ([]model.Milestone, error) {
	return store.ScanByIndex[model.Milestone](tx, store.Milestones, store.IndexTaskID, taskID)
}
