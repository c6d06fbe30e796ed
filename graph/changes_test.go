package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/pipeline"
)

func ptr[T any](v T) *T { return &v }

func seeded(t *testing.T) (*Store, []*pipeline.Node) {
	t.Helper()
	s := newTestStore()
	s.CreateNode(pipeline.KindEntry, pipeline.Position{X: 1, Y: 1})
	s.CreateNode(pipeline.KindText, pipeline.Position{X: 2, Y: 2})
	s.CreateNode(pipeline.KindTerminal, pipeline.Position{X: 3, Y: 3})
	return s, s.Nodes()
}

func TestStore_ApplyNodeChanges(t *testing.T) {
	t.Run("move keeps other nodes", func(t *testing.T) {
		s, before := seeded(t)

		s.ApplyNodeChanges([]pipeline.NodeChange{{
			Type:     pipeline.ChangePosition,
			ID:       "text-1",
			Position: &pipeline.Position{X: 40, Y: 60},
			Dragging: ptr(true),
		}})

		after := s.Nodes()
		require.Len(t, after, 3)
		assert.Same(t, before[0], after[0])
		assert.Same(t, before[2], after[2])
		assert.NotSame(t, before[1], after[1])
		assert.Equal(t, pipeline.Position{X: 40, Y: 60}, after[1].Position)
		assert.True(t, after[1].Dragging)
		assert.Equal(t, pipeline.Position{X: 2, Y: 2}, before[1].Position)
	})

	t.Run("position change without position keeps coordinates", func(t *testing.T) {
		s, _ := seeded(t)

		s.ApplyNodeChanges([]pipeline.NodeChange{{Type: pipeline.ChangePosition, ID: "text-1", Dragging: ptr(false)}})

		n, _ := s.Node("text-1")
		assert.Equal(t, pipeline.Position{X: 2, Y: 2}, n.Position)
		assert.False(t, n.Dragging)
	})

	t.Run("select and deselect", func(t *testing.T) {
		s, _ := seeded(t)

		s.ApplyNodeChanges([]pipeline.NodeChange{
			{Type: pipeline.ChangeSelect, ID: "customInput-1", Selected: true},
			{Type: pipeline.ChangeSelect, ID: "text-1", Selected: true},
		})
		s.ApplyNodeChanges([]pipeline.NodeChange{{Type: pipeline.ChangeSelect, ID: "customInput-1", Selected: false}})

		a, _ := s.Node("customInput-1")
		b, _ := s.Node("text-1")
		assert.False(t, a.Selected)
		assert.True(t, b.Selected)
	})

	t.Run("dimensions", func(t *testing.T) {
		s, _ := seeded(t)

		s.ApplyNodeChanges([]pipeline.NodeChange{{Type: pipeline.ChangeDimensions, ID: "text-1", Dimensions: &pipeline.Dimensions{Width: 240, Height: 110}}})

		n, _ := s.Node("text-1")
		require.NotNil(t, n.Width)
		require.NotNil(t, n.Height)
		assert.Equal(t, 240.0, *n.Width)
		assert.Equal(t, 110.0, *n.Height)
	})

	t.Run("remove keeps order of the rest and leaves edges alone", func(t *testing.T) {
		s, before := seeded(t)
		s.Connect(pipeline.Connection{SourceNodeID: "customInput-1", SourcePortID: "customInput-1-output", TargetNodeID: "text-1", TargetPortID: "text-1-x"})

		s.ApplyNodeChanges([]pipeline.NodeChange{{Type: pipeline.ChangeRemove, ID: "text-1"}})

		after := s.Nodes()
		require.Len(t, after, 2)
		assert.Same(t, before[0], after[0])
		assert.Same(t, before[2], after[1])
		assert.Len(t, s.Edges(), 1, "edges to removed nodes are kept")
		_, ok := s.Ports("text-1")
		assert.False(t, ok)
		assert.NotContains(t, s.derived, "text-1")
	})

	t.Run("changes for one node apply in order", func(t *testing.T) {
		s, _ := seeded(t)

		s.ApplyNodeChanges([]pipeline.NodeChange{
			{Type: pipeline.ChangePosition, ID: "text-1", Position: &pipeline.Position{X: 1}},
			{Type: pipeline.ChangePosition, ID: "text-1", Position: &pipeline.Position{X: 2}},
			{Type: pipeline.ChangeSelect, ID: "text-1", Selected: true},
		})

		n, _ := s.Node("text-1")
		assert.Equal(t, 2.0, n.Position.X)
		assert.True(t, n.Selected)
	})

	t.Run("add puts new items first", func(t *testing.T) {
		s, before := seeded(t)
		added := &pipeline.Node{ID: "llm-1", Type: pipeline.KindModel}

		s.ApplyNodeChanges([]pipeline.NodeChange{{Type: pipeline.ChangeAdd, Item: added}})

		after := s.Nodes()
		require.Len(t, after, 4)
		assert.Same(t, added, after[0])
		assert.Same(t, before[0], after[1])
		_, ok := s.Ports("llm-1")
		assert.True(t, ok)
	})

	t.Run("reset replaces everything", func(t *testing.T) {
		s, _ := seeded(t)
		item := &pipeline.Node{ID: "text-9", Type: pipeline.KindText, Data: map[string]any{"text": "{{q}}"}}

		s.ApplyNodeChanges([]pipeline.NodeChange{
			{Type: pipeline.ChangeSelect, ID: "text-1", Selected: true},
			{Type: pipeline.ChangeReset, Item: item},
		})

		require.Len(t, s.Nodes(), 1)
		assert.Same(t, item, s.Nodes()[0])
		assert.Equal(t, []string{"text-9-q"}, portIDs(s, "text-9"))
		assert.NotContains(t, s.derived, "text-1")
	})

	t.Run("unknown ids and empty batches are ignored", func(t *testing.T) {
		s, before := seeded(t)

		s.ApplyNodeChanges(nil)
		s.ApplyNodeChanges([]pipeline.NodeChange{{Type: pipeline.ChangeRemove, ID: "ghost"}})

		after := s.Nodes()
		require.Len(t, after, 3)
		for i := range before {
			assert.Same(t, before[i], after[i])
		}
	})
}

func TestStore_ApplyEdgeChanges(t *testing.T) {
	setup := func() (*Store, []*pipeline.Edge) {
		s := newTestStore()
		s.Connect(pipeline.Connection{SourceNodeID: "a", SourcePortID: "a-output", TargetNodeID: "b", TargetPortID: "b-input"})
		s.Connect(pipeline.Connection{SourceNodeID: "b", SourcePortID: "b-output", TargetNodeID: "c", TargetPortID: "c-input"})
		return s, s.Edges()
	}

	t.Run("select one edge", func(t *testing.T) {
		s, before := setup()

		s.ApplyEdgeChanges([]pipeline.EdgeChange{{Type: pipeline.ChangeSelect, ID: "edge-2", Selected: true}})

		after := s.Edges()
		assert.Same(t, before[0], after[0])
		assert.NotSame(t, before[1], after[1])
		assert.True(t, after[1].Selected)
		assert.False(t, before[1].Selected)
	})

	t.Run("remove", func(t *testing.T) {
		s, before := setup()

		s.ApplyEdgeChanges([]pipeline.EdgeChange{{Type: pipeline.ChangeRemove, ID: "edge-1"}})

		require.Len(t, s.Edges(), 1)
		assert.Same(t, before[1], s.Edges()[0])
	})

	t.Run("add and reset", func(t *testing.T) {
		s, _ := setup()
		extra := &pipeline.Edge{ID: "manual"}

		s.ApplyEdgeChanges([]pipeline.EdgeChange{{Type: pipeline.ChangeAdd, Item: extra}})
		require.Len(t, s.Edges(), 3)
		assert.Same(t, extra, s.Edges()[0])

		s.ApplyEdgeChanges([]pipeline.EdgeChange{{Type: pipeline.ChangeReset, Item: extra}})
		require.Len(t, s.Edges(), 1)
		assert.Same(t, extra, s.Edges()[0])
	})
}
