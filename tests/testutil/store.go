package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/productivity-tracker/internal/model"
	"github.com/nhle/productivity-tracker/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(store.MemoryPath)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// SeedUser inserts a user named username with a derived email and returns
// its id.
func SeedUser(t *testing.T, s *store.SQLiteStore, username string) int64 {
	t.Helper()

	u := model.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "hash",
		Theme:     model.ThemeLight,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	var id int64
	err := s.Transaction(context.Background(), []*store.Collection{store.Users}, func(tx *store.Tx) error {
		var err error
		id, err = tx.Put(store.Users, u)
		return err
	})
	if err != nil {
		t.Fatalf("seeding user %s: %v", username, err)
	}
	return id
}

// SeedTask inserts a task for userID and returns its id.
func SeedTask(t *testing.T, s *store.SQLiteStore, task model.Task) int64 {
	t.Helper()

	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	}

	var id int64
	err := s.Transaction(context.Background(), []*store.Collection{store.Tasks}, func(tx *store.Tx) error {
		var err error
		id, err = tx.Put(store.Tasks, task)
		return err
	})
	if err != nil {
		t.Fatalf("seeding task %q: %v", task.Title, err)
	}
	return id
}

// SeedMilestone inserts a milestone and returns its id.
func SeedMilestone(t *testing.T, s *store.SQLiteStore, m model.Milestone) int64 {
	t.Helper()

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	}

	var id int64
	err := s.Transaction(context.Background(), []*store.Collection{store.Milestones}, func(tx *store.Tx) error {
		var err error
		id, err = tx.Put(store.Milestones, m)
		return err
	})
	if err != nil {
		t.Fatalf("seeding milestone %q: %v", m.Title, err)
	}
	return id
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 { return &v }
