package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
//
// Foreign keys carry no ON DELETE action: cascades are performed explicitly
// by the tracker so a delete that would orphan a child fails instead.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	username    TEXT NOT NULL UNIQUE CHECK(username <> ''),
	email       TEXT NOT NULL UNIQUE CHECK(email <> ''),
	password    TEXT NOT NULL DEFAULT '',
	full_name   TEXT NOT NULL DEFAULT '',
	theme       TEXT NOT NULL DEFAULT 'light' CHECK(theme IN ('light', 'dark')),
	login_count INTEGER NOT NULL DEFAULT 0,
	last_login  DATETIME,
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id     INTEGER NOT NULL REFERENCES users(id),
	title       TEXT NOT NULL CHECK(title <> ''),
	description TEXT NOT NULL DEFAULT '',
	priority    TEXT NOT NULL DEFAULT 'medium' CHECK(priority IN ('low', 'medium', 'high')),
	due_date    TEXT NOT NULL DEFAULT '',
	completed   INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS milestones (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id     INTEGER NOT NULL REFERENCES users(id),
	task_id     INTEGER REFERENCES tasks(id),
	title       TEXT NOT NULL CHECK(title <> ''),
	description TEXT NOT NULL DEFAULT '',
	due_date    TEXT NOT NULL DEFAULT '',
	completed   INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id);
CREATE INDEX IF NOT EXISTS idx_milestones_user_id ON milestones(user_id);
CREATE INDEX IF NOT EXISTS idx_milestones_task_id ON milestones(task_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS remembered_session (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	user_id    INTEGER NOT NULL REFERENCES users(id),
	credential TEXT NOT NULL CHECK(credential <> '')
);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
