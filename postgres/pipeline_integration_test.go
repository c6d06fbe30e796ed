package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/pipeline"
)

// newTestStore connects to PIPELINE_TEST_DATABASE_URL and recreates the schema.
func newTestStore(t *testing.T) *PGStore {
	t.Helper()
	url := os.Getenv("PIPELINE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("PIPELINE_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s := New(pool)
	require.NoError(t, s.DropSchema(ctx))
	require.NoError(t, s.CreateSchema(ctx))
	return s
}

func TestPGStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &pipeline.Pipeline{
		Nodes: []*pipeline.Node{
			{ID: "customInput-1", Type: pipeline.KindEntry, Position: pipeline.Position{X: 10, Y: 20}, Data: map[string]any{"value": "hi"}},
			{ID: "text-1", Type: pipeline.KindText, Data: map[string]any{"text": "{{a}}"}},
		},
		Edges: []*pipeline.Edge{{
			ID: "e1", SourceNodeID: "customInput-1", SourcePortID: "customInput-1-output",
			TargetNodeID: "text-1", TargetPortID: "text-1-a",
			Type: "smoothstep", Animated: true, MarkerEnd: &pipeline.Marker{Type: pipeline.MarkerArrowClosed},
		}},
	}
	a := pipeline.Analysis{NumNodes: 2, NumEdges: 1, IsDAG: true}

	id, err := s.SavePipeline(ctx, p, a)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	got, err := s.GetPipeline(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Nodes, 2)
	assert.Equal(t, "customInput-1", got.Nodes[0].ID)
	assert.Equal(t, pipeline.Position{X: 10, Y: 20}, got.Nodes[0].Position)
	assert.Equal(t, "{{a}}", got.Nodes[1].Data["text"])
	require.Len(t, got.Edges, 1)
	assert.Equal(t, p.Edges[0], got.Edges[0])

	stored, err := s.GetAnalysis(ctx, id)
	require.NoError(t, err)
	assert.True(t, stored.IsDAG)

	list, err := s.ListPipelines(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	t.Run("save replaces", func(t *testing.T) {
		p.Nodes = p.Nodes[:1]
		p.Edges = nil
		_, err := s.SavePipeline(ctx, p, pipeline.Analysis{NumNodes: 1, IsDAG: true})
		require.NoError(t, err)

		got, err := s.GetPipeline(ctx, id)
		require.NoError(t, err)
		assert.Len(t, got.Nodes, 1)
		assert.Empty(t, got.Edges)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.DeletePipeline(ctx, id))
		assert.ErrorIs(t, s.DeletePipeline(ctx, id), pipeline.ErrPipelineNotFound)

		got, err := s.GetPipeline(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
