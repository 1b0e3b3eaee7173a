package model

import "time"

// TaskStatistics summarises one user's tasks and milestones.
type TaskStatistics struct {
	TotalTasks          int     `json:"totalTasks"`
	CompletedTasks      int     `json:"completedTasks"`
	PendingTasks        int     `json:"pendingTasks"`
	OverdueTasks        int     `json:"overdueTasks"`
	TotalMilestones     int     `json:"totalMilestones"`
	CompletedMilestones int     `json:"completedMilestones"`
	CompletionRate      float64 `json:"completionRate"`
}

// UserExport is a point-in-time snapshot of everything a user owns.
type UserExport struct {
	User       User        `json:"user"`
	Tasks      []Task      `json:"tasks"`
	Milestones []Milestone `json:"milestones"`
	ExportedAt time.Time   `json:"exportedAt"`
}
