package service

import (
	"context"
	"log/slog"

	"github.com/nhle/productivity-tracker/internal/model"
)

func (s *Service) CreateTask(
	ctx context.Context,
	userID int64,
	draft model.TaskDraft,
	milestones []model.MilestoneDraft,
) (model.CreatedTask, error) {
	return call(s, ctx, "create_task", func(ctx context.Context) (model.CreatedTask, error) {
		return s.tracker.CreateTask(ctx, userID, draft, milestones)
	}, slog.Int64("user_id", userID), slog.Int("milestones", len(milestones)))
}

func (s *Service) GetTask(ctx context.Context, taskID int64) (*model.Task, error) {
	return call(s, ctx, "get_task", func(ctx context.Context) (*model.Task, error) {
		return s.tracker.GetTask(ctx, taskID)
	}, slog.Int64("task_id", taskID))
}

func (s *Service) GetTasks(ctx context.Context, userID int64) ([]model.Task, error) {
	return call(s, ctx, "get_tasks", func(ctx context.Context) ([]model.Task, error) {
		return s.tracker.GetTasks(ctx, userID)
	}, slog.Int64("user_id", userID))
}

func (s *Service) UpdateTask(ctx context.Context, taskID int64, patch model.TaskPatch) (*model.Task, error) {
	return call(s, ctx, "update_task", func(ctx context.Context) (*model.Task, error) {
		return s.tracker.UpdateTask(ctx, taskID, patch)
	}, slog.Int64("task_id", taskID))
}

func (s *Service) DeleteTask(ctx context.Context, taskID int64) error {
	return exec(s, ctx, "delete_task", func(ctx context.Context) error {
		return s.tracker.DeleteTask(ctx, taskID)
	}, slog.Int64("task_id", taskID))
}

func (s *Service) CreateMilestone(ctx context.Context, m model.Milestone) (int64, error) {
	return call(s, ctx, "create_milestone", func(ctx context.Context) (int64, error) {
		return s.tracker.CreateMilestone(ctx, m)
	}, slog.Int64("user_id", m.UserID))
}

func (s *Service) UpdateMilestone(ctx context.Context, m model.Milestone) error {
	return exec(s, ctx, "update_milestone", func(ctx context.Context) error {
		return s.tracker.UpdateMilestone(ctx, m)
	}, slog.Int64("milestone_id", m.ID))
}

func (s *Service) DeleteMilestone(ctx context.Context, milestoneID int64) error {
	return exec(s, ctx, "delete_milestone", func(ctx context.Context) error {
		return s.tracker.DeleteMilestone(ctx, milestoneID)
	}, slog.Int64("milestone_id", milestoneID))
}

func (s *Service) GetMilestones(ctx context.Context, userID int64) ([]model.Milestone, error) {
	return call(s, ctx, "get_milestones", func(ctx context.Context) ([]model.Milestone, error) {
		return s.tracker.GetMilestones(ctx, userID)
	}, slog.Int64("user_id", userID))
}

func (s *Service) GetUnassignedMilestones(ctx context.Context, userID int64) ([]model.Milestone, error) {
	return call(s, ctx, "get_unassigned_milestones", func(ctx context.Context) ([]model.Milestone, error) {
		return s.tracker.GetUnassignedMilestones(ctx, userID)
	}, slog.Int64("user_id", userID))
}

func (s *Service) GetTasksWithMilestones(ctx context.Context, userID int64) ([]model.TaskWithMilestones, error) {
	return call(s, ctx, "get_tasks_with_milestones", func(ctx context.Context) ([]model.TaskWithMilestones, error) {
		return s.tracker.GetTasksWithMilestones(ctx, userID)
	}, slog.Int64("user_id", userID))
}

func (s *Service) GetTaskStatistics(ctx context.Context, userID int64) (model.TaskStatistics, error) {
	return call(s, ctx, "get_task_statistics", func(ctx context.Context) (model.TaskStatistics, error) {
		return s.tracker.GetTaskStatistics(ctx, userID)
	}, slog.Int64("user_id", userID))
}

func (s *Service) SearchTasks(ctx context.Context, userID int64, term string) ([]model.Task, error) {
	return call(s, ctx, "search_tasks", func(ctx context.Context) ([]model.Task, error) {
		return s.tracker.SearchTasks(ctx, userID, term)
	}, slog.Int64("user_id", userID), slog.String("term", term))
}

func (s *Service) ExportUserData(ctx context.Context, userID int64) (*model.UserExport, error) {
	return call(s, ctx, "export_user_data", func(ctx context.Context) (*model.UserExport, error) {
		return s.tracker.ExportUserData(ctx, userID)
	}, slog.Int64("user_id", userID))
}

func (s *Service) ImportUserData(ctx context.Context, data *model.UserExport) error {
	return exec(s, ctx, "import_user_data", func(ctx context.Context) error {
		return s.tracker.ImportUserData(ctx, data)
	})
}
