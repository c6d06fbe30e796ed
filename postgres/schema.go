package postgres

import "context"

// Edges carry no foreign keys: the editor lets edges outlive their endpoints
// and a submitted snapshot is stored as it was sent.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS pipelines (
    id         TEXT PRIMARY KEY,
    num_nodes  INTEGER NOT NULL,
    num_edges  INTEGER NOT NULL,
    is_dag     BOOLEAN NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS pipeline_nodes (
    pipeline_id TEXT NOT NULL REFERENCES pipelines(id) ON DELETE CASCADE,
    id          TEXT NOT NULL,
    seq         INTEGER NOT NULL,
    type        TEXT NOT NULL,
    position    JSONB NOT NULL DEFAULT '{}',
    data        JSONB NOT NULL DEFAULT '{}',
    PRIMARY KEY (pipeline_id, seq)
);

CREATE TABLE IF NOT EXISTS pipeline_edges (
    pipeline_id   TEXT NOT NULL REFERENCES pipelines(id) ON DELETE CASCADE,
    id            TEXT NOT NULL,
    seq           INTEGER NOT NULL,
    source        TEXT NOT NULL,
    source_handle TEXT NOT NULL,
    target        TEXT NOT NULL,
    target_handle TEXT NOT NULL,
    data          JSONB NOT NULL DEFAULT '{}',
    PRIMARY KEY (pipeline_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_pipeline_edges_source ON pipeline_edges(pipeline_id, source);
CREATE INDEX IF NOT EXISTS idx_pipeline_edges_target ON pipeline_edges(pipeline_id, target);
`

// CreateSchema creates the pipeline tables if they don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the pipeline tables.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS pipeline_edges, pipeline_nodes, pipelines CASCADE;`)
	return err
}
