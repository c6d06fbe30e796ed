package pipeline

import "strings"

// Kind tags the variant of a node. The string values are the type tags used
// on the wire by the canvas and the analyzer.
type Kind string

const (
	KindEntry    Kind = "customInput"
	KindModel    Kind = "llm"
	KindTerminal Kind = "customOutput"
	KindText     Kind = "text"
)

// FieldSpec describes one editable field of a node kind.
// DefaultFor, when set, computes the default from the node id.
type FieldSpec struct {
	Name       string
	Default    any
	Choices    []string
	DefaultFor func(nodeID string) any `json:"-"`
}

// KindSpec is the fixed interface of a node kind: its toolbar label, its
// static port names and its field schema. When DynamicInputs is set the input
// ports are derived from the node's text instead of Inputs.
type KindSpec struct {
	Kind          Kind
	Label         string
	Inputs        []string
	Outputs       []string
	DynamicInputs bool
	Fields        []FieldSpec
}

// TextField is the data field a text node derives its input ports from.
const TextField = "text"

var registry = []KindSpec{
	{
		Kind:    KindEntry,
		Label:   "Input",
		Inputs:  []string{"input"},
		Outputs: []string{"output"},
		Fields:  []FieldSpec{{Name: "value", Default: ""}},
	},
	{
		Kind:    KindModel,
		Label:   "LLM",
		Inputs:  []string{"system", "prompt"},
		Outputs: []string{"response"},
		Fields: []FieldSpec{
			{Name: "model", Default: "gpt-4", Choices: []string{"gpt-4", "gpt-3.5", "claude"}},
			{Name: "temperature", Default: 0.7},
		},
	},
	{
		Kind:    KindTerminal,
		Label:   "Output",
		Inputs:  []string{"value"},
		Outputs: []string{"loop"},
		Fields: []FieldSpec{
			{Name: "outputName", DefaultFor: func(id string) any {
				return strings.Replace(id, string(KindTerminal)+"-", "output_", 1)
			}},
			{Name: "outputType", Default: "Text", Choices: []string{"Text", "Image", "JSON"}},
		},
	},
	{
		Kind:          KindText,
		Label:         "Text",
		Outputs:       []string{"output"},
		DynamicInputs: true,
		Fields:        []FieldSpec{{Name: TextField, Default: ""}},
	},
}

// Kinds returns every registered kind in toolbar order.
func Kinds() []KindSpec {
	out := make([]KindSpec, len(registry))
	copy(out, registry)
	return out
}

// Spec looks up the registry entry for k.
func Spec(k Kind) (KindSpec, bool) {
	for _, s := range registry {
		if s.Kind == k {
			return s, true
		}
	}
	return KindSpec{}, false
}

// ParseKind maps a wire tag to a registered Kind.
func ParseKind(tag string) (Kind, bool) {
	k := Kind(tag)
	if _, ok := Spec(k); !ok {
		return "", false
	}
	return k, true
}
