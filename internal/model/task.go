package model

import "time"

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// DateLayout is the calendar-date format of due dates.
const DateLayout = "2006-01-02"

// Task is a unit of work owned by a user.
type Task struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"userId" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Priority    Priority  `json:"priority" db:"priority"`
	DueDate     string    `json:"dueDate" db:"due_date"`
	Completed   bool      `json:"completed" db:"completed"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Key returns the primary key of the task.
func (t Task) Key() int64 { return t.ID }

// IsOverdue reports whether the task is open and due before today.
// today must be formatted with DateLayout.
func (t Task) IsOverdue(today string) bool {
	return !t.Completed && t.DueDate != "" && t.DueDate < today
}

// TaskDraft holds the caller-supplied fields of a new task.
type TaskDraft struct {
	Title       string
	Description string
	Priority    Priority
	DueDate     string
	Completed   bool
}

// TaskPatch is a partial update. Nil fields leave the stored value untouched.
// The owning user cannot be patched.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *Priority
	DueDate     *string
	Completed   *bool

	// AddMilestones are attached to the task in the same update.
	AddMilestones []MilestoneDraft
}

// Apply merges the patch over t and returns the result.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// CreatedTask reports the keys assigned by a task creation. MilestoneIDs
// follow the order of the drafts.
type CreatedTask struct {
	TaskID       int64   `json:"taskId"`
	MilestoneIDs []int64 `json:"milestoneIds"`
}

// TaskWithMilestones is a task joined with its milestones.
type TaskWithMilestones struct {
	Task
	Milestones []Milestone `json:"milestones"`
}
