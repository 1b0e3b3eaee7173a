package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/productivity-tracker/internal/model"
	"github.com/nhle/productivity-tracker/internal/store"
)

// ExportUserData snapshots the user and everything it owns in one read
// transaction.
func (t *Tracker) ExportUserData(ctx context.Context, userID int64) (*model.UserExport, error) {
	if err := checkID("user", userID); err != nil {
		return nil, err
	}

	export := &model.UserExport{ExportedAt: t.timestamp()}
	err := t.store.ReadTransaction(ctx, ownedScope, func(tx *store.Tx) error {
		u, err := store.Get[model.User](tx, store.Users, userID)
		if err != nil {
			return err
		}
		export.User = *u

		if export.Tasks, err = store.ScanByIndex[model.Task](tx, store.Tasks, store.IndexUserID, userID); err != nil {
			return err
		}
		export.Milestones, err = store.ScanByIndex[model.Milestone](tx, store.Milestones, store.IndexUserID, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("exporting user %d: %w", userID, err)
	}
	return export, nil
}

// ImportUserData writes a snapshot back, upserting the user, its tasks and
// its milestones by id. Records the user already owns are overwritten and
// records the snapshot does not mention are left alone. An id held by
// another user fails the import with ErrConstraintViolation.
func (t *Tracker) ImportUserData(ctx context.Context, data *model.UserExport) error {
	if data == nil {
		return invalidf("nothing to import")
	}
	if err := checkSnapshot(data); err != nil {
		return err
	}

	userID := data.User.ID
	err := t.store.Transaction(ctx, ownedScope, func(tx *store.Tx) error {
		user := data.User
		if user.Theme == "" {
			user.Theme = model.ThemeLight
		}
		if user.CreatedAt.IsZero() {
			user.CreatedAt = t.timestamp()
		}
		err := requireUnclaimed(tx, store.Users, user.ID, func(u *model.User) bool {
			return u.Username == user.Username
		})
		if err != nil {
			return err
		}
		if _, err := tx.Put(store.Users, user); err != nil {
			return err
		}
		for _, task := range data.Tasks {
			err := requireUnclaimed(tx, store.Tasks, task.ID, func(stored *model.Task) bool {
				return stored.UserID == userID
			})
			if err != nil {
				return fmt.Errorf("task %d: %w", task.ID, err)
			}
			if task.CreatedAt.IsZero() {
				task.CreatedAt = t.timestamp()
			}
			if _, err := tx.Put(store.Tasks, task); err != nil {
				return fmt.Errorf("task %d: %w", task.ID, err)
			}
		}
		for _, m := range data.Milestones {
			err := requireUnclaimed(tx, store.Milestones, m.ID, func(stored *model.Milestone) bool {
				return stored.UserID == userID
			})
			if err != nil {
				return fmt.Errorf("milestone %d: %w", m.ID, err)
			}
			if err := requireOwnTask(tx, m); err != nil {
				return fmt.Errorf("milestone %d: %w", m.ID, err)
			}
			if m.CreatedAt.IsZero() {
				m.CreatedAt = t.timestamp()
			}
			if _, err := tx.Put(store.Milestones, m); err != nil {
				return fmt.Errorf("milestone %d: %w", m.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("importing user %d: %w", userID, err)
	}
	return nil
}

// requireUnclaimed fails when a record with id exists and owned reports
// that it belongs to someone else.
func requireUnclaimed[T any](tx *store.Tx, c *store.Collection, id int64, owned func(*T) bool) error {
	stored, err := store.Get[T](tx, c, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return err
	case !owned(stored):
		return fmt.Errorf("%w: %s %d belongs to another user", store.ErrConstraintViolation, c.Name, id)
	}
	return nil
}

// checkSnapshot rejects snapshots that could not have come from
// ExportUserData: records without ids, or records owned by another user.
func checkSnapshot(data *model.UserExport) error {
	u := data.User
	if err := checkID("user", u.ID); err != nil {
		return err
	}
	if u.Username == "" || u.Email == "" {
		return invalidf("username and email are required")
	}
	if u.Theme != "" {
		if err := checkTheme(u.Theme); err != nil {
			return err
		}
	}

	for _, task := range data.Tasks {
		if err := checkID("task", task.ID); err != nil {
			return err
		}
		if task.UserID != u.ID {
			return invalidf("task %d belongs to user %d, not %d", task.ID, task.UserID, u.ID)
		}
		if err := checkTask(task); err != nil {
			return err
		}
	}
	for _, m := range data.Milestones {
		if err := checkID("milestone", m.ID); err != nil {
			return err
		}
		if m.UserID != u.ID {
			return invalidf("milestone %d belongs to user %d, not %d", m.ID, m.UserID, u.ID)
		}
		if err := checkMilestone(m); err != nil {
			return err
		}
	}
	return nil
}
