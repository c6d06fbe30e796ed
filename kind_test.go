package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, tag := range []string{"customInput", "llm", "customOutput", "text"} {
		k, ok := ParseKind(tag)
		assert.True(t, ok, tag)
		assert.Equal(t, Kind(tag), k)
	}

	for _, tag := range []string{"", "Text", "input", "pipeline"} {
		_, ok := ParseKind(tag)
		assert.False(t, ok, tag)
	}
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	require.Len(t, kinds, 4)
	assert.Equal(t, []string{"Input", "LLM", "Output", "Text"},
		[]string{kinds[0].Label, kinds[1].Label, kinds[2].Label, kinds[3].Label})

	kinds[0].Label = "changed"
	assert.Equal(t, "Input", Kinds()[0].Label, "callers get a copy")

	text, ok := Spec(KindText)
	require.True(t, ok)
	assert.True(t, text.DynamicInputs)
	assert.Empty(t, text.Inputs)
	assert.Equal(t, []string{"output"}, text.Outputs)
}

func TestNode_Field(t *testing.T) {
	t.Run("stored value wins", func(t *testing.T) {
		n := &Node{ID: "llm-1", Type: KindModel, Data: map[string]any{"model": "claude"}}
		assert.Equal(t, "claude", n.Field("model"))
	})

	t.Run("defaults per kind", func(t *testing.T) {
		llm := &Node{ID: "llm-1", Type: KindModel, Data: map[string]any{}}
		assert.Equal(t, "gpt-4", llm.Field("model"))
		assert.Equal(t, 0.7, llm.Field("temperature"))

		out := &Node{ID: "customOutput-3", Type: KindTerminal}
		assert.Equal(t, "output_3", out.Field("outputName"))
		assert.Equal(t, "Text", out.Field("outputType"))

		in := &Node{ID: "customInput-1", Type: KindEntry}
		assert.Equal(t, "", in.Field("value"))
	})

	t.Run("empty string falls back to the default", func(t *testing.T) {
		n := &Node{ID: "customOutput-1", Type: KindTerminal, Data: map[string]any{"outputType": ""}}
		assert.Equal(t, "Text", n.Field("outputType"))
	})

	t.Run("stored zero is kept", func(t *testing.T) {
		n := &Node{ID: "llm-1", Type: KindModel, Data: map[string]any{"temperature": 0.0}}
		assert.Equal(t, 0.0, n.Field("temperature"))
	})

	t.Run("unknown field or kind", func(t *testing.T) {
		assert.Nil(t, (&Node{Type: KindText}).Field("nope"))
		assert.Nil(t, (&Node{Type: "x"}).Field("text"))
	})
}
