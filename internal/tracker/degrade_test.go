package tracker

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/productivity-tracker/internal/logging"
	"github.com/nhle/productivity-tracker/internal/model"
	"github.com/nhle/productivity-tracker/internal/store"
	"github.com/nhle/productivity-tracker/tests/testutil"
)

func TestGetTasksWithMilestones_DegradesFailedScan(t *testing.T) {
	s := testutil.NewTestStore(t)
	userID := testutil.SeedUser(t, s, "alice")
	broken := testutil.SeedTask(t, s, model.Task{UserID: userID, Title: "broken"})
	healthy := testutil.SeedTask(t, s, model.Task{UserID: userID, Title: "healthy"})
	testutil.SeedMilestone(t, s, model.Milestone{UserID: userID, TaskID: &broken, Title: "hidden"})
	kept := testutil.SeedMilestone(t, s, model.Milestone{UserID: userID, TaskID: &healthy, Title: "shown"})

	var logs bytes.Buffer
	tr := New(s, logging.New("warn", "json", &logs))
	tr.milestonesOf = func(tx *store.Tx, taskID int64) ([]model.Milestone, error) {
		if taskID == broken {
			return nil, errors.New("disk hiccup")
		}
		return milestonesOfTask(tx, taskID)
	}

	joined, err := tr.GetTasksWithMilestones(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, joined, 2)

	assert.Equal(t, broken, joined[0].ID)
	assert.NotNil(t, joined[0].Milestones)
	assert.Empty(t, joined[0].Milestones)

	require.Len(t, joined[1].Milestones, 1)
	assert.Equal(t, kept, joined[1].Milestones[0].ID)

	assert.Contains(t, logs.String(), `"level":"WARN"`)
	assert.Contains(t, logs.String(), `"error":"disk hiccup"`)
	assert.Contains(t, logs.String(), `"task_id":`)
}

func TestGetTasksWithMilestones_PrefersContextLogger(t *testing.T) {
	s := testutil.NewTestStore(t)
	userID := testutil.SeedUser(t, s, "alice")
	testutil.SeedTask(t, s, model.Task{UserID: userID, Title: "broken"})

	var fallback, scoped bytes.Buffer
	tr := New(s, logging.New("warn", "json", &fallback))
	tr.milestonesOf = func(*store.Tx, int64) ([]model.Milestone, error) {
		return nil, errors.New("boom")
	}

	ctx := logging.WithLogger(context.Background(), logging.New("warn", "json", &scoped))
	_, err := tr.GetTasksWithMilestones(ctx, userID)
	require.NoError(t, err)

	assert.Empty(t, fallback.String())
	assert.Contains(t, scoped.String(), "boom")
}
