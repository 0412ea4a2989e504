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

CREATE TABLE IF NOT EXISTS mail (
	date       text,
	sender     text,
	recipients text,
	data       text
);

CREATE INDEX IF NOT EXISTS mail_date ON mail(date);
CREATE INDEX IF NOT EXISTS mail_recipients ON mail(recipients);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
