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

CREATE TABLE IF NOT EXISTS contacts (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	email       TEXT NOT NULL UNIQUE COLLATE NOCASE,
	verified    INTEGER NOT NULL DEFAULT 0 CHECK(verified IN (0, 1)),
	public_key  TEXT NOT NULL DEFAULT '',
	hidden      INTEGER NOT NULL DEFAULT 0 CHECK(hidden IN (0, 1)),
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_contacts_hidden ON contacts(hidden);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
ALTER TABLE contacts ADD COLUMN name_locked INTEGER NOT NULL DEFAULT 0 CHECK(name_locked IN (0, 1));

CREATE INDEX IF NOT EXISTS idx_contacts_name ON contacts(name COLLATE NOCASE);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
