package shellscript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/formgridgo/internal/testutil"
)

func TestRun(t *testing.T) {
	ctx := testutil.Context(t)
	r := New("")

	t.Run("splits stdout into one value per line", func(t *testing.T) {
		values, err := r.Run(ctx, `printf 'US-Dev\nEU-Dev\n'`, nil)
		require.NoError(t, err)
		assert.Equal(t, []any{"US-Dev", "EU-Dev"}, values)
	})

	t.Run("no output yields no values", func(t *testing.T) {
		values, err := r.Run(ctx, `true`, nil)
		require.NoError(t, err)
		assert.Empty(t, values)
	})

	t.Run("exports dependency values as FORM_ variables", func(t *testing.T) {
		inputs := map[string]cty.Value{
			"environment": cty.StringVal("Production"),
			"app-name":    cty.StringVal("billing"),
		}
		values, err := r.Run(ctx, `echo "$FORM_ENVIRONMENT/$FORM_APP_NAME"`, inputs)
		require.NoError(t, err)
		assert.Contains(t, values, "Production/billing")
	})

	t.Run("nonzero exit folds stderr into the error", func(t *testing.T) {
		_, err := r.Run(ctx, `echo "no such environment" >&2; exit 3`, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no such environment")
	})

	t.Run("defaults to /bin/sh", func(t *testing.T) {
		assert.Equal(t, "/bin/sh", New("").Shell)
		assert.Equal(t, "/bin/bash", New("/bin/bash").Shell)
	})
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "REGION", envName("region"))
	assert.Equal(t, "APP_NAME_2", envName("app-name.2"))
}
