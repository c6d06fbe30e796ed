package pipeline

import "fmt"

// Pipeline is the full graph snapshot handed to the analyzer.
// ID is only set once a pipeline has been persisted.
type Pipeline struct {
	ID    string  `json:"id,omitempty"`
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`
}

// Validate reports a null entry in Nodes or Edges. JSON null decodes to a nil
// pointer, which nothing downstream of decoding accepts.
func (p *Pipeline) Validate() error {
	for i, n := range p.Nodes {
		if n == nil {
			return fmt.Errorf("%w: nodes[%d]", ErrNullElement, i)
		}
	}
	for i, e := range p.Edges {
		if e == nil {
			return fmt.Errorf("%w: edges[%d]", ErrNullElement, i)
		}
	}
	return nil
}

// Position is a point on the canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a processing unit on the canvas.
// Data holds the kind-specific editable fields. A Node is treated as immutable
// once it is held by a graph store: edits produce a new Node.
type Node struct {
	ID               string         `json:"id"`
	Type             Kind           `json:"type"`
	Position         Position       `json:"position"`
	Data             map[string]any `json:"data"`
	Selected         bool           `json:"selected,omitempty"`
	Dragging         bool           `json:"dragging,omitempty"`
	Width            *float64       `json:"width,omitempty"`
	Height           *float64       `json:"height,omitempty"`
	PositionAbsolute *Position      `json:"positionAbsolute,omitempty"`
}

// Field returns the value stored under name, or the kind's default when the
// field has not been edited yet. Only nil and "" count as unedited; a stored
// 0 or false is returned as is.
func (n *Node) Field(name string) any {
	if v, ok := n.Data[name]; ok && v != nil && v != "" {
		return v
	}
	spec, ok := Spec(n.Type)
	if !ok {
		return nil
	}
	for _, f := range spec.Fields {
		if f.Name == name {
			if f.DefaultFor != nil {
				return f.DefaultFor(n.ID)
			}
			return f.Default
		}
	}
	return nil
}

// Edge is a directed connection from one node's output port to another node's
// input port. Type, Animated and MarkerEnd are presentation metadata.
type Edge struct {
	ID           string  `json:"id"`
	SourceNodeID string  `json:"source"`
	SourcePortID string  `json:"sourceHandle"`
	TargetNodeID string  `json:"target"`
	TargetPortID string  `json:"targetHandle"`
	Type         string  `json:"type,omitempty"`
	Animated     bool    `json:"animated,omitempty"`
	MarkerEnd    *Marker `json:"markerEnd,omitempty"`
	Selected     bool    `json:"selected,omitempty"`
}

// MarkerType names an edge terminator shape.
type MarkerType string

// Edge terminators understood by the canvas.
const (
	MarkerArrow       MarkerType = "arrow"
	MarkerArrowClosed MarkerType = "arrowclosed"
)

// Marker decorates the end of an edge.
type Marker struct {
	Type MarkerType `json:"type"`
}

// Connection is the request produced when the user draws a line between two ports.
type Connection struct {
	SourceNodeID string `json:"source"`
	SourcePortID string `json:"sourceHandle"`
	TargetNodeID string `json:"target"`
	TargetPortID string `json:"targetHandle"`
}

// Analysis is the analyzer's verdict on a submitted pipeline.
type Analysis struct {
	ID       string `json:"id,omitempty"`
	NumNodes int    `json:"num_nodes"`
	NumEdges int    `json:"num_edges"`
	IsDAG    bool   `json:"is_dag"`
}
