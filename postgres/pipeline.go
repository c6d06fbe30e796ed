package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meikuraledutech/pipeline"
)

// edgeData is the presentation part of an edge, stored as JSONB.
type edgeData struct {
	Type      string           `json:"type,omitempty"`
	Animated  bool             `json:"animated,omitempty"`
	MarkerEnd *pipeline.Marker `json:"markerEnd,omitempty"`
}

// SavePipeline stores a submitted pipeline with its analysis in one transaction.
// If p.ID is empty, a UUID is generated. An existing pipeline with the same ID
// is replaced. A null node or edge fails with ErrNullElement before any query.
// Returns the pipeline ID.
func (s *PGStore) SavePipeline(ctx context.Context, p *pipeline.Pipeline, a pipeline.Analysis) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM pipelines WHERE id = $1`, p.ID)
	batch.Queue(
		`INSERT INTO pipelines (id, num_nodes, num_edges, is_dag) VALUES ($1, $2, $3, $4)`,
		p.ID, a.NumNodes, a.NumEdges, a.IsDAG,
	)

	for i, n := range p.Nodes {
		pos, err := json.Marshal(n.Position)
		if err != nil {
			return "", fmt.Errorf("pipeline: marshal position %s: %w", n.ID, err)
		}
		data, err := json.Marshal(n.Data)
		if err != nil {
			return "", fmt.Errorf("pipeline: marshal data %s: %w", n.ID, err)
		}
		batch.Queue(
			`INSERT INTO pipeline_nodes (pipeline_id, id, seq, type, position, data) VALUES ($1, $2, $3, $4, $5, $6)`,
			p.ID, n.ID, i, string(n.Type), json.RawMessage(pos), json.RawMessage(data),
		)
	}

	for i, e := range p.Edges {
		data, err := json.Marshal(edgeData{Type: e.Type, Animated: e.Animated, MarkerEnd: e.MarkerEnd})
		if err != nil {
			return "", fmt.Errorf("pipeline: marshal edge %s: %w", e.ID, err)
		}
		batch.Queue(
			`INSERT INTO pipeline_edges (pipeline_id, id, seq, source, source_handle, target, target_handle, data)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.ID, e.ID, i, e.SourceNodeID, e.SourcePortID, e.TargetNodeID, e.TargetPortID, json.RawMessage(data),
		)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("pipeline: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return "", fmt.Errorf("pipeline: save %s: %w", p.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("pipeline: commit: %w", err)
	}

	return p.ID, nil
}

// GetPipeline retrieves a stored pipeline with nodes and edges in submission order.
// Returns nil, nil if not found.
func (s *PGStore) GetPipeline(ctx context.Context, pipelineID string) (*pipeline.Pipeline, error) {
	if _, err := s.GetAnalysis(ctx, pipelineID); err != nil {
		if errors.Is(err, pipeline.ErrPipelineNotFound) {
			return nil, nil
		}
		return nil, err
	}

	p := &pipeline.Pipeline{ID: pipelineID, Nodes: []*pipeline.Node{}, Edges: []*pipeline.Edge{}}

	rows, err := s.db.Query(ctx,
		`SELECT id, type, position, data FROM pipeline_nodes WHERE pipeline_id = $1 ORDER BY seq`, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("pipeline: query nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			n         pipeline.Node
			kind      string
			pos, data []byte
		)
		if err := rows.Scan(&n.ID, &kind, &pos, &data); err != nil {
			return nil, fmt.Errorf("pipeline: scan node: %w", err)
		}
		n.Type = pipeline.Kind(kind)
		if err := json.Unmarshal(pos, &n.Position); err != nil {
			return nil, fmt.Errorf("pipeline: decode position %s: %w", n.ID, err)
		}
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("pipeline: decode data %s: %w", n.ID, err)
		}
		p.Nodes = append(p.Nodes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pipeline: rows nodes: %w", err)
	}

	rows, err = s.db.Query(ctx,
		`SELECT id, source, source_handle, target, target_handle, data
		 FROM pipeline_edges WHERE pipeline_id = $1 ORDER BY seq`, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("pipeline: query edges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e    pipeline.Edge
			data []byte
			pres edgeData
		)
		if err := rows.Scan(&e.ID, &e.SourceNodeID, &e.SourcePortID, &e.TargetNodeID, &e.TargetPortID, &data); err != nil {
			return nil, fmt.Errorf("pipeline: scan edge: %w", err)
		}
		if err := json.Unmarshal(data, &pres); err != nil {
			return nil, fmt.Errorf("pipeline: decode edge %s: %w", e.ID, err)
		}
		e.Type, e.Animated, e.MarkerEnd = pres.Type, pres.Animated, pres.MarkerEnd
		p.Edges = append(p.Edges, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pipeline: rows edges: %w", err)
	}

	return p, nil
}

// GetAnalysis fetches the stored analysis of a pipeline.
// Returns ErrPipelineNotFound if the pipeline does not exist.
func (s *PGStore) GetAnalysis(ctx context.Context, pipelineID string) (*pipeline.Analysis, error) {
	a := pipeline.Analysis{ID: pipelineID}
	err := s.db.QueryRow(ctx,
		`SELECT num_nodes, num_edges, is_dag FROM pipelines WHERE id = $1`, pipelineID,
	).Scan(&a.NumNodes, &a.NumEdges, &a.IsDAG)
	if err != nil {
		if isNoRows(err) {
			return nil, pipeline.ErrPipelineNotFound
		}
		return nil, fmt.Errorf("pipeline: get analysis: %w", err)
	}
	return &a, nil
}

// DeletePipeline removes a pipeline; nodes and edges cascade.
// Returns ErrPipelineNotFound if nothing was deleted.
func (s *PGStore) DeletePipeline(ctx context.Context, pipelineID string) error {
	ct, err := s.db.Exec(ctx, `DELETE FROM pipelines WHERE id = $1`, pipelineID)
	if err != nil {
		return fmt.Errorf("pipeline: delete: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pipeline.ErrPipelineNotFound
	}
	return nil
}

// ListPipelines returns the analysis of every stored pipeline, newest first.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListPipelines(ctx context.Context) ([]pipeline.Analysis, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, num_nodes, num_edges, is_dag FROM pipelines ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("pipeline: list: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (pipeline.Analysis, error) {
		var a pipeline.Analysis
		err := row.Scan(&a.ID, &a.NumNodes, &a.NumEdges, &a.IsDAG)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: scan list: %w", err)
	}
	if out == nil {
		out = []pipeline.Analysis{}
	}
	return out, nil
}
