package store

import (
	"fmt"
	"strings"
)

// Record is a row of a collection. A zero key asks the store to assign one.
type Record interface {
	Key() int64
}

// Index is a secondary index declared on a collection.
type Index struct {
	Column string
	Unique bool
}

// Collection describes a table: its name, its non-key columns and the
// secondary indexes callers may scan by.
type Collection struct {
	Name    string
	columns []string
	indexes map[string]Index

	selectSQL string
	insertSQL string
	upsertSQL string
}

// Index names shared by several collections.
const (
	IndexUserID   = "user_id"
	IndexTaskID   = "task_id"
	IndexUsername = "username"
	IndexEmail    = "email"
)

// The collections of the tracker. Sessions has no records of its own; it
// only scopes transactions that touch the remembered-session slot.
var (
	Users = newCollection("users",
		[]string{"username", "email", "password", "full_name", "theme", "login_count", "last_login", "created_at"},
		map[string]Index{
			IndexUsername: {Column: "username", Unique: true},
			IndexEmail:    {Column: "email", Unique: true},
		},
	)

	Tasks = newCollection("tasks",
		[]string{"user_id", "title", "description", "priority", "due_date", "completed", "created_at"},
		map[string]Index{
			IndexUserID: {Column: "user_id"},
		},
	)

	Milestones = newCollection("milestones",
		[]string{"user_id", "task_id", "title", "description", "due_date", "completed", "created_at"},
		map[string]Index{
			IndexUserID: {Column: "user_id"},
			IndexTaskID: {Column: "task_id"},
		},
	)

	Sessions = &Collection{Name: "remembered_session"}
)

func newCollection(name string, columns []string, indexes map[string]Index) *Collection {
	c := &Collection{Name: name, columns: columns, indexes: indexes}

	all := append([]string{"id"}, columns...)
	c.selectSQL = fmt.Sprintf("SELECT %s FROM %s", strings.Join(all, ", "), name)

	c.insertSQL = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		name, strings.Join(columns, ", "), namedParams(columns))

	updates := make([]string, len(columns))
	for i, col := range columns {
		updates[i] = fmt.Sprintf("%s = excluded.%s", col, col)
	}
	c.upsertSQL = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		name, strings.Join(all, ", "), namedParams(all), strings.Join(updates, ", "))

	return c
}

// namedParams renders ":a, :b" for sqlx named binding.
func namedParams(columns []string) string {
	params := make([]string, len(columns))
	for i, col := range columns {
		params[i] = ":" + col
	}
	return strings.Join(params, ", ")
}

// index resolves a declared index by name.
func (c *Collection) index(name string) (Index, error) {
	idx, ok := c.indexes[name]
	if !ok {
		return Index{}, invalid("collection %s has no index %q", c.Name, name)
	}
	return idx, nil
}
