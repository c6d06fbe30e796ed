// Package ports derives the connection points of a node.
//
// Static kinds take their ports from the kind registry. Text nodes expose one
// input port per distinct {{placeholder}} in their text, in order of first
// appearance. Derivation is a pure function of the node's id, kind and data.
package ports

import (
	"regexp"
	"strconv"

	"github.com/meikuraledutech/pipeline"
)

// Direction of data flow through a port.
type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// Port is one connection point. ID is "<nodeId>-<Name>".
// Offset is the port's vertical placement as a fraction of the node side.
type Port struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
	Offset    float64   `json:"offset"`
}

// Set is the ordered interface of a node.
type Set struct {
	Inputs  []Port `json:"inputs"`
	Outputs []Port `json:"outputs"`
}

// placeholder matches {{ name }} where name is an identifier that may use $ and _.
var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z_$][A-Za-z0-9_$]*)\s*\}\}`)

// Variables returns the distinct placeholder names in text, first occurrence first.
func Variables(text string) []string {
	matches := placeholder.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	vars := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		vars = append(vars, m[1])
	}
	return vars
}

// Derive computes the ports of n. Unknown kinds have no ports.
func Derive(n *pipeline.Node) Set {
	spec, ok := pipeline.Spec(n.Type)
	if !ok {
		return Set{}
	}

	inputs := spec.Inputs
	if spec.DynamicInputs {
		inputs = Variables(Text(n))
	}

	return Set{
		Inputs:  build(n.ID, inputs, DirectionInput),
		Outputs: build(n.ID, spec.Outputs, DirectionOutput),
	}
}

// Text returns the content a text node derives its inputs from.
func Text(n *pipeline.Node) string {
	s, _ := n.Data[pipeline.TextField].(string)
	return s
}

func build(nodeID string, names []string, dir Direction) []Port {
	out := make([]Port, len(names))
	for i, name := range names {
		out[i] = Port{
			ID:        nodeID + "-" + name,
			Name:      name,
			Direction: dir,
			Offset:    Offset(i, len(names)),
		}
	}
	return out
}

// Offset places the k-th of total ports (zero-indexed) along a node side.
// A single port sits at the midpoint; otherwise ports are spaced evenly at
// (k+1)/(total+1).
func Offset(k, total int) float64 {
	if total <= 1 {
		return 0.5
	}
	return float64(k+1) / float64(total+1)
}

// Percent renders Offset as a CSS percentage, e.g. "25%".
func Percent(k, total int) string {
	return strconv.FormatFloat(Offset(k, total)*100, 'f', -1, 64) + "%"
}

// Signature is the part of a node its ports depend on. Two nodes with equal
// signatures have equal port sets.
func Signature(n *pipeline.Node) string {
	spec, ok := pipeline.Spec(n.Type)
	if !ok || !spec.DynamicInputs {
		return n.ID + "\x00" + string(n.Type)
	}
	return n.ID + "\x00" + string(n.Type) + "\x00" + Text(n)
}
