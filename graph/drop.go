package graph

import (
	"encoding/json"

	"github.com/meikuraledutech/pipeline"
)

// DropPayload is what the toolbar attaches to a dragged node template.
type DropPayload struct {
	NodeType string `json:"nodeType"`
}

// CreateNode allocates an id for kind and adds a node at pos with the
// initial data {id, nodeType}.
func (s *Store) CreateNode(kind pipeline.Kind, pos pipeline.Position) *pipeline.Node {
	id := s.NextID(kind)
	n := &pipeline.Node{
		ID:       id,
		Type:     kind,
		Position: pos,
		Data: map[string]any{
			"id":       id,
			"nodeType": string(kind),
		},
	}
	s.AddNode(n)
	return n
}

// Drop handles a drop event carrying a raw toolbar payload, either the
// {"nodeType": ...} object or that object encoded as a JSON string. Absent or
// unparseable payloads and unknown node types create nothing and report false.
func (s *Store) Drop(raw []byte, pos pipeline.Position) (*pipeline.Node, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var text string
	if json.Unmarshal(raw, &text) == nil {
		raw = []byte(text)
	}

	var p DropPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		s.log.Debug("drop payload ignored", "error", err)
		return nil, false
	}

	kind, ok := pipeline.ParseKind(p.NodeType)
	if !ok {
		s.log.Debug("drop of unknown node type ignored", "type", p.NodeType)
		return nil, false
	}

	return s.CreateNode(kind, pos), true
}
