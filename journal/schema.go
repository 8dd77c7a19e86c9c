package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	input TEXT NOT NULL,
	started_at DATETIME NOT NULL,
	records INTEGER NOT NULL DEFAULT 0,
	applied INTEGER NOT NULL DEFAULT 0,
	rejected INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS accounts (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	seq INTEGER NOT NULL,
	client INTEGER NOT NULL,
	available TEXT NOT NULL,
	held TEXT NOT NULL,
	total TEXT NOT NULL,
	locked INTEGER NOT NULL,
	PRIMARY KEY (run_id, client)
);

CREATE INDEX IF NOT EXISTS idx_accounts_run_seq ON accounts(run_id, seq);
`
