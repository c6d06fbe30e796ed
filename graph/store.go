// Package graph holds the authoritative editor state of a pipeline: its nodes,
// its edges, the id counters and the derived ports of every node.
//
// Every mutation replaces the node and edge slices with new ones and copies
// only the elements it changes. Elements it does not touch keep their pointer
// identity, so a consumer can compare pointers to find what changed. Nodes and
// edges reachable from a Store must not be modified in place.
//
// A Store is not safe for concurrent use; callers serialise events.
package graph

import (
	"log/slog"
	"maps"

	"github.com/google/uuid"

	"github.com/meikuraledutech/pipeline"
	"github.com/meikuraledutech/pipeline/idalloc"
	"github.com/meikuraledutech/pipeline/ports"
)

// Store is the single source of truth for one editing session.
type Store struct {
	nodes []*pipeline.Node
	edges []*pipeline.Edge
	ids   *idalloc.Allocator

	derived map[string]derivedPorts

	log    *slog.Logger
	edgeID func() string
}

type derivedPorts struct {
	signature string
	set       ports.Set
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for debug output. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithEdgeIDs overrides the edge id generator. Defaults to random UUIDs.
func WithEdgeIDs(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.edgeID = gen
		}
	}
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		nodes:   []*pipeline.Node{},
		edges:   []*pipeline.Edge{},
		ids:     idalloc.New(),
		derived: make(map[string]derivedPorts),
		log:     slog.Default(),
		edgeID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Nodes returns the current node collection. The slice must not be modified.
func (s *Store) Nodes() []*pipeline.Node { return s.nodes }

// Edges returns the current edge collection. The slice must not be modified.
func (s *Store) Edges() []*pipeline.Edge { return s.edges }

// Node returns the node with the given id.
func (s *Store) Node(id string) (*pipeline.Node, bool) {
	for _, n := range s.nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// NextID issues a fresh id for a node of the given kind.
func (s *Store) NextID(kind pipeline.Kind) string {
	return s.ids.Next(kind)
}

// AddNode appends node. The caller guarantees the id is unique, normally by
// taking it from NextID.
func (s *Store) AddNode(node *pipeline.Node) {
	if node.Data == nil {
		node.Data = map[string]any{}
	}
	s.nodes = append(s.nodes[:len(s.nodes):len(s.nodes)], node)
	s.derive(node)
	s.log.Debug("node added", "id", node.ID, "type", node.Type)
}

// UpdateNodeField sets data[field] = value on one node. The node is replaced
// by a copy; every other node keeps its identity. Unknown ids are ignored.
func (s *Store) UpdateNodeField(nodeID, field string, value any) {
	idx := -1
	for i, n := range s.nodes {
		if n.ID == nodeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.log.Debug("field update for unknown node ignored", "id", nodeID, "field", field)
		return
	}

	updated := *s.nodes[idx]
	updated.Data = maps.Clone(updated.Data)
	if updated.Data == nil {
		updated.Data = map[string]any{}
	}
	updated.Data[field] = value

	nodes := make([]*pipeline.Node, len(s.nodes))
	copy(nodes, s.nodes)
	nodes[idx] = &updated
	s.nodes = nodes

	s.derive(&updated)
}

// Ports returns the derived ports of a node. The result is recomputed only
// when the node's port-relevant content has changed since the last call.
func (s *Store) Ports(nodeID string) (ports.Set, bool) {
	n, ok := s.Node(nodeID)
	if !ok {
		return ports.Set{}, false
	}
	return s.derive(n), true
}

func (s *Store) derive(n *pipeline.Node) ports.Set {
	sig := ports.Signature(n)
	if d, ok := s.derived[n.ID]; ok && d.signature == sig {
		return d.set
	}
	set := ports.Derive(n)
	s.derived[n.ID] = derivedPorts{signature: sig, set: set}
	return set
}

// Reset clears nodes, edges and every id counter.
func (s *Store) Reset() {
	s.nodes = []*pipeline.Node{}
	s.edges = []*pipeline.Edge{}
	s.ids.Reset()
	s.derived = make(map[string]derivedPorts)
	s.log.Debug("graph reset")
}

// Snapshot returns the current graph. The slices are copies; the nodes and
// edges are shared, which is safe because the store never mutates them.
func (s *Store) Snapshot() pipeline.Pipeline {
	nodes := make([]*pipeline.Node, len(s.nodes))
	copy(nodes, s.nodes)
	edges := make([]*pipeline.Edge, len(s.edges))
	copy(edges, s.edges)
	return pipeline.Pipeline{Nodes: nodes, Edges: edges}
}
