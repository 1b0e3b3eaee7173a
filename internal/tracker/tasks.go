package tracker

import (
	"context"
	"fmt"

	"github.com/nhle/productivity-tracker/internal/model"
	"github.com/nhle/productivity-tracker/internal/store"
)

// CreateTask inserts a task for userID together with its milestone drafts.
// The milestones inherit the task's id and owner. If any insertion fails
// nothing is stored. MilestoneIDs follow the order of drafts.
func (t *Tracker) CreateTask(
	ctx context.Context,
	userID int64,
	draft model.TaskDraft,
	drafts []model.MilestoneDraft,
) (model.CreatedTask, error) {
	if err := checkID("user", userID); err != nil {
		return model.CreatedTask{}, err
	}

	task := model.Task{
		UserID:      userID,
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    draft.Priority,
		DueDate:     draft.DueDate,
		Completed:   draft.Completed,
		CreatedAt:   t.timestamp(),
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if err := checkTask(task); err != nil {
		return model.CreatedTask{}, err
	}

	created := model.CreatedTask{MilestoneIDs: make([]int64, 0, len(drafts))}
	err := t.store.Transaction(ctx, ownedScope, func(tx *store.Tx) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}

		var err error
		if created.TaskID, err = tx.Put(store.Tasks, task); err != nil {
			return err
		}
		task.ID = created.TaskID

		ids, err := t.attachMilestones(tx, task, drafts)
		if err != nil {
			return err
		}
		created.MilestoneIDs = append(created.MilestoneIDs, ids...)
		return nil
	})
	if err != nil {
		return model.CreatedTask{}, fmt.Errorf("creating task %q: %w", draft.Title, err)
	}
	return created, nil
}

// attachMilestones inserts drafts as milestones of task, in order. Each
// draft is validated as it is reached, so a bad draft aborts the enclosing
// transaction after earlier inserts.
func (t *Tracker) attachMilestones(tx *store.Tx, task model.Task, drafts []model.MilestoneDraft) ([]int64, error) {
	ids := make([]int64, 0, len(drafts))
	for i, d := range drafts {
		m := model.Milestone{
			UserID:      task.UserID,
			TaskID:      &task.ID,
			Title:       d.Title,
			Description: d.Description,
			DueDate:     d.DueDate,
			Completed:   d.Completed,
			CreatedAt:   t.timestamp(),
		}
		if err := checkMilestone(m); err != nil {
			return nil, fmt.Errorf("milestone %d: %w", i, err)
		}
		id, err := tx.Put(store.Milestones, m)
		if err != nil {
			return nil, fmt.Errorf("milestone %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// GetTask returns the task with the given id.
func (t *Tracker) GetTask(ctx context.Context, taskID int64) (*model.Task, error) {
	if err := checkID("task", taskID); err != nil {
		return nil, err
	}

	var task *model.Task
	err := t.store.ReadTransaction(ctx, taskScope, func(tx *store.Tx) error {
		var err error
		task, err = store.Get[model.Task](tx, store.Tasks, taskID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("getting task %d: %w", taskID, err)
	}
	return task, nil
}

// GetTasks returns every task owned by userID, oldest first.
func (t *Tracker) GetTasks(ctx context.Context, userID int64) ([]model.Task, error) {
	if err := checkID("user", userID); err != nil {
		return nil, err
	}

	var tasks []model.Task
	err := t.store.ReadTransaction(ctx, taskScope, func(tx *store.Tx) error {
		var err error
		tasks, err = store.ScanByIndex[model.Task](tx, store.Tasks, store.IndexUserID, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing tasks of user %d: %w", userID, err)
	}
	return tasks, nil
}

// UpdateTask merges patch over the stored task and writes it back under the
// same id. Fields absent from the patch keep their stored values. Milestone
// drafts in the patch are attached in the same transaction.
func (t *Tracker) UpdateTask(ctx context.Context, taskID int64, patch model.TaskPatch) (*model.Task, error) {
	if err := checkID("task", taskID); err != nil {
		return nil, err
	}
	if err := checkPatch(patch); err != nil {
		return nil, err
	}

	var merged model.Task
	err := t.store.Transaction(ctx, ownedScope, func(tx *store.Tx) error {
		existing, err := store.Get[model.Task](tx, store.Tasks, taskID)
		if err != nil {
			return err
		}

		merged = patch.Apply(*existing)
		merged.ID = taskID
		if _, err := tx.Put(store.Tasks, merged); err != nil {
			return err
		}

		_, err = t.attachMilestones(tx, merged, patch.AddMilestones)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("updating task %d: %w", taskID, err)
	}
	return &merged, nil
}

// DeleteTask removes the task and every milestone attached to it. Deleting
// an absent task is not an error.
func (t *Tracker) DeleteTask(ctx context.Context, taskID int64) error {
	if err := checkID("task", taskID); err != nil {
		return err
	}

	err := t.store.Transaction(ctx, taskScope, func(tx *store.Tx) error {
		milestones, err := store.ScanByIndex[model.Milestone](tx, store.Milestones, store.IndexTaskID, taskID)
		if err != nil {
			return err
		}
		for _, m := range milestones {
			if err := tx.Delete(store.Milestones, m.ID); err != nil {
				return err
			}
		}
		return tx.Delete(store.Tasks, taskID)
	})
	if err != nil {
		return fmt.Errorf("deleting task %d: %w", taskID, err)
	}
	return nil
}
