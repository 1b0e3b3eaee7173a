package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nhle/productivity-tracker/internal/logging"
	"github.com/nhle/productivity-tracker/internal/model"
	"github.com/nhle/productivity-tracker/internal/store"
)

// GetTasksWithMilestones joins every task of userID with its milestones in
// one read transaction. The milestone scans run one task at a time. When a
// scan fails the task is still returned, with no milestones, and the failure
// is logged at WARN.
func (t *Tracker) GetTasksWithMilestones(ctx context.Context, userID int64) ([]model.TaskWithMilestones, error) {
	if err := checkID("user", userID); err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx, t.logger)

	var joined []model.TaskWithMilestones
	err := t.store.ReadTransaction(ctx, taskScope, func(tx *store.Tx) error {
		tasks, err := store.ScanByIndex[model.Task](tx, store.Tasks, store.IndexUserID, userID)
		if err != nil {
			return err
		}

		joined = make([]model.TaskWithMilestones, 0, len(tasks))
		for _, task := range tasks {
			milestones, err := t.milestonesOf(tx, task.ID)
			if err != nil {
				logger.WarnContext(ctx, "loading milestones failed, continuing without them",
					slog.Int64("task_id", task.ID),
					slog.String("error", err.Error()))
				milestones = []model.Milestone{}
			}
			joined = append(joined, model.TaskWithMilestones{Task: task, Milestones: milestones})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("joining tasks of user %d: %w", userID, err)
	}
	return joined, nil
}

// GetTaskStatistics counts the tasks and milestones of userID. The
// completion rate is completed tasks over total tasks, in percent, and 0
// when the user has no tasks.
func (t *Tracker) GetTaskStatistics(ctx context.Context, userID int64) (model.TaskStatistics, error) {
	if err := checkID("user", userID); err != nil {
		return model.TaskStatistics{}, err
	}
	today := t.today()

	var stats model.TaskStatistics
	err := t.store.ReadTransaction(ctx, taskScope, func(tx *store.Tx) error {
		tasks, err := store.ScanByIndex[model.Task](tx, store.Tasks, store.IndexUserID, userID)
		if err != nil {
			return err
		}
		milestones, err := store.ScanByIndex[model.Milestone](tx, store.Milestones, store.IndexUserID, userID)
		if err != nil {
			return err
		}

		stats.TotalTasks = len(tasks)
		for _, task := range tasks {
			switch {
			case task.Completed:
				stats.CompletedTasks++
			case task.IsOverdue(today):
				stats.PendingTasks++
				stats.OverdueTasks++
			default:
				stats.PendingTasks++
			}
		}

		stats.TotalMilestones = len(milestones)
		for _, m := range milestones {
			if m.Completed {
				stats.CompletedMilestones++
			}
		}
		return nil
	})
	if err != nil {
		return model.TaskStatistics{}, fmt.Errorf("computing statistics of user %d: %w", userID, err)
	}

	if stats.TotalTasks > 0 {
		stats.CompletionRate = float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100
	}
	return stats, nil
}

// SearchTasks returns the tasks of userID whose title or description
// contains term, ignoring case. The term is matched as given, surrounding
// spaces included. An empty description never matches, and an empty term
// matches every task.
func (t *Tracker) SearchTasks(ctx context.Context, userID int64, term string) ([]model.Task, error) {
	tasks, err := t.GetTasks(ctx, userID)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(term)
	matches := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if matchesTerm(task, needle) {
			matches = append(matches, task)
		}
	}
	return matches, nil
}

func matchesTerm(task model.Task, needle string) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(task.Title), needle) {
		return true
	}
	return task.Description != "" && strings.Contains(strings.ToLower(task.Description), needle)
}
