package graph

import "github.com/meikuraledutech/pipeline"

// ApplyNodeChanges applies a batch of canvas changes to the node collection.
//
// A reset change replaces the collection with the reset items. Otherwise the
// result holds the added items followed by the existing nodes in their
// original order; nodes with no change keep their identity, changed nodes are
// copied, and removed nodes are dropped. Changes for one node apply in order.
func (s *Store) ApplyNodeChanges(changes []pipeline.NodeChange) {
	if len(changes) == 0 {
		return
	}

	if resets := nodeItems(changes, pipeline.ChangeReset); resets != nil {
		s.nodes = resets
		s.pruneDerived()
		return
	}

	byID := make(map[string][]pipeline.NodeChange)
	for _, c := range changes {
		if c.Type == pipeline.ChangeAdd || c.Type == pipeline.ChangeReset {
			continue
		}
		byID[c.ID] = append(byID[c.ID], c)
	}

	next := nodeItems(changes, pipeline.ChangeAdd)
	if next == nil {
		next = make([]*pipeline.Node, 0, len(s.nodes))
	}

nodes:
	for _, n := range s.nodes {
		pending, ok := byID[n.ID]
		if !ok {
			next = append(next, n)
			continue
		}

		updated := *n
		for _, c := range pending {
			switch c.Type {
			case pipeline.ChangeSelect:
				updated.Selected = c.Selected
			case pipeline.ChangePosition:
				if c.Position != nil {
					updated.Position = *c.Position
				}
				if c.PositionAbsolute != nil {
					pa := *c.PositionAbsolute
					updated.PositionAbsolute = &pa
				}
				if c.Dragging != nil {
					updated.Dragging = *c.Dragging
				}
			case pipeline.ChangeDimensions:
				if c.Dimensions != nil {
					w, h := c.Dimensions.Width, c.Dimensions.Height
					updated.Width, updated.Height = &w, &h
				}
			case pipeline.ChangeRemove:
				s.log.Debug("node removed", "id", n.ID)
				continue nodes
			}
		}
		next = append(next, &updated)
	}

	s.nodes = next
	s.pruneDerived()
}

// ApplyEdgeChanges applies a batch of canvas changes to the edge collection
// with the same rules as ApplyNodeChanges.
func (s *Store) ApplyEdgeChanges(changes []pipeline.EdgeChange) {
	if len(changes) == 0 {
		return
	}

	if resets := edgeItems(changes, pipeline.ChangeReset); resets != nil {
		s.edges = resets
		return
	}

	byID := make(map[string][]pipeline.EdgeChange)
	for _, c := range changes {
		if c.Type == pipeline.ChangeAdd || c.Type == pipeline.ChangeReset {
			continue
		}
		byID[c.ID] = append(byID[c.ID], c)
	}

	next := edgeItems(changes, pipeline.ChangeAdd)
	if next == nil {
		next = make([]*pipeline.Edge, 0, len(s.edges))
	}

edges:
	for _, e := range s.edges {
		pending, ok := byID[e.ID]
		if !ok {
			next = append(next, e)
			continue
		}

		updated := *e
		for _, c := range pending {
			switch c.Type {
			case pipeline.ChangeSelect:
				updated.Selected = c.Selected
			case pipeline.ChangeRemove:
				continue edges
			}
		}
		next = append(next, &updated)
	}

	s.edges = next
}

func nodeItems(changes []pipeline.NodeChange, t pipeline.ChangeType) []*pipeline.Node {
	var out []*pipeline.Node
	for _, c := range changes {
		if c.Type == t && c.Item != nil {
			if c.Item.Data == nil {
				c.Item.Data = map[string]any{}
			}
			out = append(out, c.Item)
		}
	}
	return out
}

func edgeItems(changes []pipeline.EdgeChange, t pipeline.ChangeType) []*pipeline.Edge {
	var out []*pipeline.Edge
	for _, c := range changes {
		if c.Type == t && c.Item != nil {
			out = append(out, c.Item)
		}
	}
	return out
}

// pruneDerived drops cached ports of nodes that are gone and derives ports
// for nodes that arrived through add or reset.
func (s *Store) pruneDerived() {
	present := make(map[string]struct{}, len(s.nodes))
	for _, n := range s.nodes {
		present[n.ID] = struct{}{}
		s.derive(n)
	}
	for id := range s.derived {
		if _, ok := present[id]; !ok {
			delete(s.derived, id)
		}
	}
}
