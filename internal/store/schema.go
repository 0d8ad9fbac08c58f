package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
    id                   TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    created_at           TEXT NOT NULL,
    goal_count           INTEGER NOT NULL,
    source_count         INTEGER NOT NULL,
    total_existing       REAL NOT NULL,
    total_lumpsum        REAL NOT NULL,
    total_sip            REAL NOT NULL,
    document             BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_name ON snapshots(name);
CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);
`
