package model

import "time"

// Milestone is a checkpoint owned by a user. TaskID is nil for milestones
// that are not attached to any task.
type Milestone struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"userId" db:"user_id"`
	TaskID      *int64    `json:"taskId" db:"task_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	DueDate     string    `json:"dueDate" db:"due_date"`
	Completed   bool      `json:"completed" db:"completed"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Key returns the primary key of the milestone.
func (m Milestone) Key() int64 { return m.ID }

// Assigned reports whether the milestone belongs to a task.
func (m Milestone) Assigned() bool { return m.TaskID != nil }

// MilestoneDraft holds the fields of a milestone created together with a task.
type MilestoneDraft struct {
	Title       string
	Description string
	DueDate     string
	Completed   bool
}
