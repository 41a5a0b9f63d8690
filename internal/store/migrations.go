package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id           TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL DEFAULT 'todo'
		CHECK(status IN ('backlog', 'todo', 'in_progress', 'review', 'done')),
	priority     TEXT NOT NULL DEFAULT 'medium'
		CHECK(priority IN ('low', 'medium', 'high', 'urgent')),
	assignee_id  TEXT NOT NULL DEFAULT '',
	due_date     DATETIME,
	metadata     TEXT NOT NULL DEFAULT '{}',
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_workspace_id ON tasks(workspace_id);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_priority ON tasks(priority);
CREATE INDEX IF NOT EXISTS idx_tasks_assignee_id ON tasks(assignee_id);
CREATE INDEX IF NOT EXISTS idx_tasks_updated_at ON tasks(updated_at);

CREATE TABLE IF NOT EXISTS integrations (
	id                  TEXT PRIMARY KEY,
	user_id             TEXT NOT NULL,
	provider            TEXT NOT NULL
		CHECK(provider IN ('github', 'jira', 'azure_devops')),
	access_token        TEXT NOT NULL DEFAULT '',
	refresh_token       TEXT NOT NULL DEFAULT '',
	provider_account_id TEXT NOT NULL DEFAULT '',
	token_expires_at    DATETIME,
	is_active           INTEGER NOT NULL DEFAULT 1 CHECK(is_active IN (0, 1)),
	metadata            TEXT NOT NULL DEFAULT '{}',
	created_at          DATETIME NOT NULL,
	updated_at          DATETIME NOT NULL,
	UNIQUE(user_id, provider)
);

CREATE TABLE IF NOT EXISTS activity_log (
	id           TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL,
	user_id      TEXT NOT NULL,
	action       TEXT NOT NULL,
	entity_type  TEXT NOT NULL,
	entity_id    TEXT NOT NULL,
	metadata     TEXT NOT NULL DEFAULT '{}',
	created_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activity_workspace_id ON activity_log(workspace_id);
CREATE INDEX IF NOT EXISTS idx_activity_entity_id ON activity_log(entity_id);
CREATE INDEX IF NOT EXISTS idx_activity_created_at ON activity_log(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_integrations_user_provider
	ON integrations(user_id, provider);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
