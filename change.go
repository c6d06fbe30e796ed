package pipeline

// ChangeType is the kind of an incremental change record emitted by the canvas.
type ChangeType string

const (
	ChangePosition   ChangeType = "position"
	ChangeDimensions ChangeType = "dimensions"
	ChangeSelect     ChangeType = "select"
	ChangeRemove     ChangeType = "remove"
	ChangeAdd        ChangeType = "add"
	ChangeReset      ChangeType = "reset"
)

// Dimensions is a measured node size.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NodeChange is one entry of a batch of node changes.
// Pointer fields are optional; a nil field leaves the node's value as is.
// Item is used by add and reset.
type NodeChange struct {
	Type             ChangeType  `json:"type"`
	ID               string      `json:"id,omitempty"`
	Position         *Position   `json:"position,omitempty"`
	PositionAbsolute *Position   `json:"positionAbsolute,omitempty"`
	Dragging         *bool       `json:"dragging,omitempty"`
	Dimensions       *Dimensions `json:"dimensions,omitempty"`
	Selected         bool        `json:"selected,omitempty"`
	Item             *Node       `json:"item,omitempty"`
}

// EdgeChange is one entry of a batch of edge changes. Edges only support
// select, remove, add and reset.
type EdgeChange struct {
	Type     ChangeType `json:"type"`
	ID       string     `json:"id,omitempty"`
	Selected bool       `json:"selected,omitempty"`
	Item     *Edge      `json:"item,omitempty"`
}
