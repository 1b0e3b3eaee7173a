package tracker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/productivity-tracker/internal/model"
	"github.com/nhle/productivity-tracker/internal/store"
)

func ptr[T any](v T) *T { return &v }

func TestCreateTask_WithMilestones(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	userID := createUser(t, tr, "alice")

	created, err := tr.CreateTask(ctx, userID,
		model.TaskDraft{Title: "Write report", DueDate: "2025-07-01"},
		[]model.MilestoneDraft{{Title: "Outline"}, {Title: "Draft"}, {Title: "Review"}},
	)
	require.NoError(t, err)
	require.Len(t, created.MilestoneIDs, 3)

	task, err := tr.GetTask(ctx, created.TaskID)
	require.NoError(t, err)
	assert.Equal(t, userID, task.UserID)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Equal(t, "2025-07-01", task.DueDate)

	milestones, err := tr.GetMilestones(ctx, userID)
	require.NoError(t, err)
	require.Len(t, milestones, 3)
	for i, m := range milestones {
		assert.Equal(t, created.MilestoneIDs[i], m.ID)
		assert.Equal(t, userID, m.UserID)
		require.NotNil(t, m.TaskID)
		assert.Equal(t, created.TaskID, *m.TaskID)
	}
	assert.Equal(t, []string{"Outline", "Draft", "Review"},
		[]string{milestones[0].Title, milestones[1].Title, milestones[2].Title})
}

func TestCreateTask_FailingMilestoneRollsBackTask(t *testing.T) {
	tr, s := newTracker(t)
	ctx := context.Background()
	userID := createUser(t, tr, "alice")

	_, err := tr.CreateTask(ctx, userID,
		model.TaskDraft{Title: "Write report"},
		[]model.MilestoneDraft{{Title: "Outline"}, {Title: "Draft", DueDate: "next week"}},
	)
	assert.ErrorIs(t, err, store.ErrInvalidArgument)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats["tasks"])
	assert.Zero(t, stats["milestones"])
}

func TestCreateTask_Validation(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	userID := createUser(t, tr, "alice")

	tests := []struct {
		name  string
		draft model.TaskDraft
	}{
		{"blank title", model.TaskDraft{Title: "  "}},
		{"unknown priority", model.TaskDraft{Title: "t", Priority: "urgent"}},
		{"malformed due date", model.TaskDraft{Title: "t", DueDate: "2025-13-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.CreateTask(ctx, userID, tt.draft, nil)
			assert.ErrorIs(t, err, store.ErrInvalidArgument)
		})
	}
}

func TestCreateTask_UnknownUser(t *testing.T) {
	tr, _ := newTracker(t)

	_, err := tr.CreateTask(context.Background(), 42, model.TaskDraft{Title: "orphan"}, nil)
	assert.ErrorIs(t, err, store.ErrConstraintViolation)
}

func TestUpdateTask_MergesPatch(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	userID := createUser(t, tr, "alice")

	created, err := tr.CreateTask(ctx, userID, model.TaskDraft{
		Title:       "Write report",
		Description: "quarterly numbers",
		Priority:    model.PriorityLow,
		DueDate:     "2025-07-01",
	}, nil)
	require.NoError(t, err)

	updated, err := tr.UpdateTask(ctx, created.TaskID, model.TaskPatch{
		Priority:  ptr(model.PriorityHigh),
		Completed: ptr(true),
	})
	require.NoError(t, err)

	stored, err := tr.GetTask(ctx, created.TaskID)
	require.NoError(t, err)
	assert.Equal(t, *updated, *stored)
	assert.Equal(t, "Write report", stored.Title)
	assert.Equal(t, "quarterly numbers", stored.Description)
	assert.Equal(t, "2025-07-01", stored.DueDate)
	assert.Equal(t, model.PriorityHigh, stored.Priority)
	assert.True(t, stored.Completed)
	assert.Equal(t, userID, stored.UserID)
}

func TestUpdateTask_AddsMilestones(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	userID := createUser(t, tr, "alice")
	created, err := tr.CreateTask(ctx, userID, model.TaskDraft{Title: "Ship"}, []model.MilestoneDraft{{Title: "Build"}})
	require.NoError(t, err)

	_, err = tr.UpdateTask(ctx, created.TaskID, model.TaskPatch{
		Title:         ptr("Ship v2"),
		AddMilestones: []model.MilestoneDraft{{Title: "Release notes"}},
	})
	require.NoError(t, err)

	joined, err := tr.GetTasksWithMilestones(ctx, userID)
	require.NoError(t, err)
	require.Len(t, joined, 1)
	assert.Equal(t, "Ship v2", joined[0].Title)
	require.Len(t, joined[0].Milestones, 2)
	assert.Equal(t, "Release notes", joined[0].Milestones[1].Title)
}

func TestUpdateTask_Errors(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	userID := createUser(t, tr, "alice")
	created, err := tr.CreateTask(ctx, userID, model.TaskDraft{Title: "Ship"}, nil)
	require.NoError(t, err)

	_, err = tr.UpdateTask(ctx, created.TaskID+1, model.TaskPatch{Completed: ptr(true)})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = tr.UpdateTask(ctx, created.TaskID, model.TaskPatch{Title: ptr("")})
	assert.ErrorIs(t, err, store.ErrInvalidArgument)

	_, err = tr.UpdateTask(ctx, created.TaskID, model.TaskPatch{
		Completed:     ptr(true),
		AddMilestones: []model.MilestoneDraft{{Title: ""}},
	})
	assert.ErrorIs(t, err, store.ErrInvalidArgument)

	task, err := tr.GetTask(ctx, created.TaskID)
	require.NoError(t, err)
	assert.False(t, task.Completed, "failed update must not be applied")
}

func TestDeleteTask_CascadesToOwnMilestonesOnly(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	userID := createUser(t, tr, "alice")

	doomed, err := tr.CreateTask(ctx, userID, model.TaskDraft{Title: "Doomed"},
		[]model.MilestoneDraft{{Title: "a"}, {Title: "b"}})
	require.NoError(t, err)
	kept, err := tr.CreateTask(ctx, userID, model.TaskDraft{Title: "Kept"},
		[]model.MilestoneDraft{{Title: "c"}})
	require.NoError(t, err)
	loose, err := tr.CreateMilestone(ctx, model.Milestone{UserID: userID, Title: "loose"})
	require.NoError(t, err)

	require.NoError(t, tr.DeleteTask(ctx, doomed.TaskID))
	require.NoError(t, tr.DeleteTask(ctx, doomed.TaskID), "deleting twice is a no-op")

	_, err = tr.GetTask(ctx, doomed.TaskID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	milestones, err := tr.GetMilestones(ctx, userID)
	require.NoError(t, err)
	ids := make([]int64, 0, len(milestones))
	for _, m := range milestones {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []int64{kept.MilestoneIDs[0], loose}, ids)
}

func TestGetTasks_ScopedToUser(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	alice := createUser(t, tr, "alice")
	bob := createUser(t, tr, "bob")

	for _, title := range []string{"a1", "a2"} {
		_, err := tr.CreateTask(ctx, alice, model.TaskDraft{Title: title}, nil)
		require.NoError(t, err)
	}
	_, err := tr.CreateTask(ctx, bob, model.TaskDraft{Title: "b1"}, nil)
	require.NoError(t, err)

	tasks, err := tr.GetTasks(ctx, alice)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a1", tasks[0].Title)
	assert.Equal(t, "a2", tasks[1].Title)

	tasks, err = tr.GetTasks(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
