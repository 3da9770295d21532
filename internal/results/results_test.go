package results

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/formgridgo/internal/model"
)

func TestProcess(t *testing.T) {
	opts := model.DefaultOptions()

	t.Run("flattens one level of nested sequences", func(t *testing.T) {
		raw := []any{"a", []any{"b", "c"}, []string{"d"}, "e"}
		res := Process(raw, 0, opts)
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, res.Choices)
	})

	t.Run("drops null and whitespace entries with a count warning", func(t *testing.T) {
		raw := []any{"a", "", "   ", nil, "b"}
		res := Process(raw, 0, opts)
		assert.Equal(t, []string{"a", "b"}, res.Choices)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "3 empty values")
	})

	t.Run("only empty entries yields zero choices and a no-results warning", func(t *testing.T) {
		raw := []any{"", "  ", nil}
		res := Process(raw, 0, opts)
		assert.Empty(t, res.Choices)
		assert.Contains(t, fmt.Sprint(res.Warnings), "no results")
	})

	t.Run("truncates to MaxResults preserving order", func(t *testing.T) {
		small := model.DefaultOptions()
		small.MaxResults = 3

		raw := []any{"1", "2", "3", "4", "5"}
		res := Process(raw, 0, small)
		assert.Equal(t, []string{"1", "2", "3"}, res.Choices)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "truncated from 5 to 3")
	})

	t.Run("slow execution earns a performance warning even on success", func(t *testing.T) {
		res := Process([]any{"a"}, opts.ProgressThreshold+time.Second, opts)
		assert.Equal(t, []string{"a"}, res.Choices)
		require.Len(t, res.Warnings, 1)
		assert.Contains(t, res.Warnings[0], "slow data source")
	})

	t.Run("fast successful run has no warnings", func(t *testing.T) {
		res := Process([]any{"a", "b"}, time.Millisecond, opts)
		assert.Empty(t, res.Warnings)
	})

	t.Run("stringifies cty and scalar values", func(t *testing.T) {
		raw := []any{cty.StringVal("x"), 7, true}
		res := Process(raw, 0, opts)
		assert.Equal(t, []string{"x", "7", "true"}, res.Choices)
	})

	t.Run("elapsed time is carried through", func(t *testing.T) {
		res := Process(nil, 42*time.Millisecond, opts)
		assert.Equal(t, 42*time.Millisecond, res.Elapsed)
	})
}
