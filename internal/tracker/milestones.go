package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/productivity-tracker/internal/model"
	"github.com/nhle/productivity-tracker/internal/store"
)

// CreateMilestone inserts a standalone milestone and returns its id. When
// TaskID is set it must name an existing task of the same user.
func (t *Tracker) CreateMilestone(ctx context.Context, m model.Milestone) (int64, error) {
	if err := checkID("user", m.UserID); err != nil {
		return 0, err
	}
	if err := checkMilestone(m); err != nil {
		return 0, err
	}
	m.ID = 0
	m.CreatedAt = t.timestamp()

	var id int64
	err := t.store.Transaction(ctx, ownedScope, func(tx *store.Tx) error {
		if err := requireUser(tx, m.UserID); err != nil {
			return err
		}
		if err := requireOwnTask(tx, m); err != nil {
			return err
		}
		var err error
		id, err = tx.Put(store.Milestones, m)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("creating milestone %q: %w", m.Title, err)
	}
	return id, nil
}

// UpdateMilestone replaces the stored milestone with m. The owner cannot
// change; a zero UserID keeps the stored owner.
func (t *Tracker) UpdateMilestone(ctx context.Context, m model.Milestone) error {
	if err := checkID("milestone", m.ID); err != nil {
		return err
	}
	if err := checkMilestone(m); err != nil {
		return err
	}

	err := t.store.Transaction(ctx, ownedScope, func(tx *store.Tx) error {
		existing, err := store.Get[model.Milestone](tx, store.Milestones, m.ID)
		if err != nil {
			return err
		}
		if m.UserID == 0 {
			m.UserID = existing.UserID
		}
		if m.UserID != existing.UserID {
			return invalidf("milestone %d belongs to user %d", m.ID, existing.UserID)
		}
		m.CreatedAt = existing.CreatedAt

		if err := requireOwnTask(tx, m); err != nil {
			return err
		}
		_, err = tx.Put(store.Milestones, m)
		return err
	})
	if err != nil {
		return fmt.Errorf("updating milestone %d: %w", m.ID, err)
	}
	return nil
}

// DeleteMilestone removes one milestone. Deleting an absent milestone is not
// an error.
func (t *Tracker) DeleteMilestone(ctx context.Context, milestoneID int64) error {
	if err := checkID("milestone", milestoneID); err != nil {
		return err
	}

	err := t.store.Transaction(ctx, []*store.Collection{store.Milestones}, func(tx *store.Tx) error {
		return tx.Delete(store.Milestones, milestoneID)
	})
	if err != nil {
		return fmt.Errorf("deleting milestone %d: %w", milestoneID, err)
	}
	return nil
}

// GetMilestones returns every milestone owned by userID, assigned or not.
func (t *Tracker) GetMilestones(ctx context.Context, userID int64) ([]model.Milestone, error) {
	if err := checkID("user", userID); err != nil {
		return nil, err
	}

	var milestones []model.Milestone
	err := t.store.ReadTransaction(ctx, taskScope, func(tx *store.Tx) error {
		var err error
		milestones, err = store.ScanByIndex[model.Milestone](tx, store.Milestones, store.IndexUserID, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing milestones of user %d: %w", userID, err)
	}
	return milestones, nil
}

// GetUnassignedMilestones returns the milestones of userID that belong to no
// task.
func (t *Tracker) GetUnassignedMilestones(ctx context.Context, userID int64) ([]model.Milestone, error) {
	all, err := t.GetMilestones(ctx, userID)
	if err != nil {
		return nil, err
	}

	unassigned := make([]model.Milestone, 0, len(all))
	for _, m := range all {
		if !m.Assigned() {
			unassigned = append(unassigned, m)
		}
	}
	return unassigned, nil
}

// requireOwnTask checks that an assigned milestone points at an existing
// task of the same user.
func requireOwnTask(tx *store.Tx, m model.Milestone) error {
	if m.TaskID == nil {
		return nil
	}
	task, err := store.Get[model.Task](tx, store.Tasks, *m.TaskID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: task %d does not exist", store.ErrConstraintViolation, *m.TaskID)
	}
	if err != nil {
		return err
	}
	if task.UserID != m.UserID {
		return fmt.Errorf("%w: task %d belongs to another user", store.ErrConstraintViolation, task.ID)
	}
	return nil
}
