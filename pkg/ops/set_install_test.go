package ops

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetInstall(t *testing.T) {
	t.Run("unknown tokens warn and do not abort the rest", func(t *testing.T) {
		ienv := testInstallEnv(t)

		var buf bytes.Buffer
		ctx := WithUI(context.Background(), &UI{W: &buf})

		si := &SetInstall{Env: ienv}

		res, err := si.Run(ctx, []string{"notapackage"})
		require.NoError(t, err)

		assert.Equal(t, []string{"notapackage"}, res.Requested)
		assert.Equal(t, []string{"notapackage"}, res.Unknown)
		assert.Empty(t, res.Installed)
		assert.Empty(t, res.Failed)

		assert.Contains(t, buf.String(), "unknown package: notapackage")
	})

	t.Run("a failed package is recorded and the run continues", func(t *testing.T) {
		ienv := testInstallEnv(t)

		var buf bytes.Buffer
		ctx := WithUI(context.Background(), &UI{W: &buf})

		si := &SetInstall{Env: ienv}

		// no archives staged, so OpenBLAS cannot resolve its source
		res, err := si.Run(ctx, []string{"OpenBLAS", "nope"})
		require.NoError(t, err)

		assert.Equal(t, []string{"OpenBLAS"}, res.Failed)
		assert.Equal(t, []string{"nope"}, res.Unknown)
		assert.Empty(t, res.Installed)

		assert.Contains(t, buf.String(), "OpenBLAS-0.3.15.tar.gz not found")
		assert.Contains(t, buf.String(), "1 failed")
	})

	t.Run("the lapack alias resolves", func(t *testing.T) {
		ienv := testInstallEnv(t)

		var buf bytes.Buffer
		ctx := WithUI(context.Background(), &UI{W: &buf})

		si := &SetInstall{Env: ienv}

		res, err := si.Run(ctx, []string{"lapack"})
		require.NoError(t, err)

		// resolves to the canonical name; it fails only because the
		// archive is absent
		assert.Equal(t, []string{"LAPACK"}, res.Failed)
		assert.Empty(t, res.Unknown)
	})
}
