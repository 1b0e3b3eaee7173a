package tracker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/productivity-tracker/internal/model"
	"github.com/nhle/productivity-tracker/internal/store"
)

func TestCreateMilestone_Ownership(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	alice := createUser(t, tr, "alice")
	bob := createUser(t, tr, "bob")
	bobsTask, err := tr.CreateTask(ctx, bob, model.TaskDraft{Title: "bob's"}, nil)
	require.NoError(t, err)

	_, err = tr.CreateMilestone(ctx, model.Milestone{UserID: alice, TaskID: &bobsTask.TaskID, Title: "steal"})
	assert.ErrorIs(t, err, store.ErrConstraintViolation)

	_, err = tr.CreateMilestone(ctx, model.Milestone{UserID: alice, TaskID: ptr(int64(777)), Title: "ghost"})
	assert.ErrorIs(t, err, store.ErrConstraintViolation)

	_, err = tr.CreateMilestone(ctx, model.Milestone{UserID: 555, Title: "nobody"})
	assert.ErrorIs(t, err, store.ErrConstraintViolation)

	_, err = tr.CreateMilestone(ctx, model.Milestone{UserID: alice, Title: " "})
	assert.ErrorIs(t, err, store.ErrInvalidArgument)

	id, err := tr.CreateMilestone(ctx, model.Milestone{UserID: bob, TaskID: &bobsTask.TaskID, Title: "own"})
	require.NoError(t, err)
	assert.Positive(t, id)
}

func TestUpdateMilestone_ReplacesRecord(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	alice := createUser(t, tr, "alice")
	task, err := tr.CreateTask(ctx, alice, model.TaskDraft{Title: "Ship"}, nil)
	require.NoError(t, err)
	id, err := tr.CreateMilestone(ctx, model.Milestone{
		UserID:      alice,
		Title:       "loose",
		Description: "to be dropped",
	})
	require.NoError(t, err)

	err = tr.UpdateMilestone(ctx, model.Milestone{
		ID:        id,
		TaskID:    &task.TaskID,
		Title:     "attached",
		Completed: true,
	})
	require.NoError(t, err)

	milestones, err := tr.GetMilestones(ctx, alice)
	require.NoError(t, err)
	require.Len(t, milestones, 1)
	m := milestones[0]
	assert.Equal(t, alice, m.UserID)
	assert.Equal(t, "attached", m.Title)
	assert.Empty(t, m.Description)
	assert.True(t, m.Completed)
	require.NotNil(t, m.TaskID)
	assert.Equal(t, task.TaskID, *m.TaskID)
}

func TestUpdateMilestone_Errors(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	alice := createUser(t, tr, "alice")
	bob := createUser(t, tr, "bob")
	id, err := tr.CreateMilestone(ctx, model.Milestone{UserID: alice, Title: "mine"})
	require.NoError(t, err)

	err = tr.UpdateMilestone(ctx, model.Milestone{ID: id + 1, UserID: alice, Title: "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = tr.UpdateMilestone(ctx, model.Milestone{ID: id, UserID: bob, Title: "x"})
	assert.ErrorIs(t, err, store.ErrInvalidArgument)

	err = tr.UpdateMilestone(ctx, model.Milestone{UserID: alice, Title: "x"})
	assert.ErrorIs(t, err, store.ErrInvalidArgument)
}

func TestGetUnassignedMilestones(t *testing.T) {
	tr, _ := newTracker(t)
	ctx := context.Background()
	alice := createUser(t, tr, "alice")
	_, err := tr.CreateTask(ctx, alice, model.TaskDraft{Title: "Ship"}, []model.MilestoneDraft{{Title: "attached"}})
	require.NoError(t, err)
	loose, err := tr.CreateMilestone(ctx, model.Milestone{UserID: alice, Title: "loose"})
	require.NoError(t, err)

	unassigned, err := tr.GetUnassignedMilestones(ctx, alice)
	require.NoError(t, err)
	require.Len(t, unassigned, 1)
	assert.Equal(t, loose, unassigned[0].ID)

	require.NoError(t, tr.DeleteMilestone(ctx, loose))
	require.NoError(t, tr.DeleteMilestone(ctx, loose))

	unassigned, err = tr.GetUnassignedMilestones(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, unassigned)
}
