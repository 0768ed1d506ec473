package ops

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepRun(t *testing.T) {
	path := "/usr/bin:/bin"

	run := &StepRun{
		OutputPrefix: "demo",
		Env:          []string{"PATH=" + path},
		Path:         path,
	}

	t.Run("resolves the command against the build path", func(t *testing.T) {
		err := run.Run(context.Background(), t.TempDir(), []string{"true"}, nil)
		require.NoError(t, err)
	})

	t.Run("missing executable", func(t *testing.T) {
		err := run.Run(context.Background(), t.TempDir(), []string{"no-such-tool-here"}, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("per step env reaches the command", func(t *testing.T) {
		err := run.Run(context.Background(), t.TempDir(),
			[]string{"sh", "-c", `test "$FOO" = bar`}, []string{"FOO=bar"})
		require.NoError(t, err)
	})

	t.Run("nonzero exit is an error", func(t *testing.T) {
		err := run.Run(context.Background(), t.TempDir(), []string{"sh", "-c", "exit 3"}, nil)
		require.Error(t, err)
	})
}
