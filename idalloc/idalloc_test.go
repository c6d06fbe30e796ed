package idalloc

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/pipeline"
)

func TestAllocator_Next(t *testing.T) {
	t.Run("unseen type starts at 1", func(t *testing.T) {
		a := New()
		assert.Equal(t, "text-1", a.Next(pipeline.KindText))
		assert.Equal(t, 1, a.Counter(pipeline.KindText))
	})

	t.Run("zero value is usable", func(t *testing.T) {
		var a Allocator
		assert.Equal(t, "llm-1", a.Next(pipeline.KindModel))
	})

	t.Run("counters are scoped per type", func(t *testing.T) {
		a := New()
		assert.Equal(t, "text-1", a.Next(pipeline.KindText))
		assert.Equal(t, "llm-1", a.Next(pipeline.KindModel))
		assert.Equal(t, "text-2", a.Next(pipeline.KindText))
		assert.Equal(t, 0, a.Counter(pipeline.KindEntry))
	})

	t.Run("ids are distinct and strictly increasing", func(t *testing.T) {
		a := New()
		kinds := []pipeline.Kind{pipeline.KindText, pipeline.KindModel, pipeline.KindText, pipeline.KindTerminal, pipeline.KindText}
		seen := make(map[string]bool)
		last := make(map[pipeline.Kind]int)

		for range 20 {
			for _, k := range kinds {
				id := a.Next(k)
				require.False(t, seen[id], "duplicate id %s", id)
				seen[id] = true

				n, err := strconv.Atoi(strings.TrimPrefix(id, string(k)+"-"))
				require.NoError(t, err)
				assert.Greater(t, n, last[k])
				last[k] = n
			}
		}
	})
}

func TestAllocator_Reset(t *testing.T) {
	a := New()
	a.Next(pipeline.KindText)
	a.Next(pipeline.KindText)
	a.Next(pipeline.KindEntry)

	a.Reset()

	assert.Equal(t, 0, a.Counter(pipeline.KindText))
	assert.Equal(t, "text-1", a.Next(pipeline.KindText))
	assert.Equal(t, "customInput-1", a.Next(pipeline.KindEntry))
}
