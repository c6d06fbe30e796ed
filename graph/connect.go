package graph

import "github.com/meikuraledutech/pipeline"

// EdgeType is the routing style given to every connected edge.
const EdgeType = "smoothstep"

// Connect appends an edge for conn with a fresh id and the standard
// presentation: smooth-step routing, animated, closed-arrow terminator.
// Endpoints are taken as given; existence, direction and duplicates are not
// checked.
func (s *Store) Connect(conn pipeline.Connection) *pipeline.Edge {
	e := &pipeline.Edge{
		ID:           s.edgeID(),
		SourceNodeID: conn.SourceNodeID,
		SourcePortID: conn.SourcePortID,
		TargetNodeID: conn.TargetNodeID,
		TargetPortID: conn.TargetPortID,
		Type:         EdgeType,
		Animated:     true,
		MarkerEnd:    &pipeline.Marker{Type: pipeline.MarkerArrowClosed},
	}
	s.edges = append(s.edges[:len(s.edges):len(s.edges)], e)
	s.log.Debug("edge connected",
		"id", e.ID,
		"source", e.SourcePortID,
		"target", e.TargetPortID,
	)
	return e
}
