package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	t.Run("every dependency resolves", func(t *testing.T) {
		require.NoError(t, Validate())
	})

	t.Run("tokens are matched exactly", func(t *testing.T) {
		_, ok := Lookup("OPENMPI")
		assert.True(t, ok)

		_, ok = Lookup("openmpi")
		assert.False(t, ok)

		_, ok = Lookup("no-such-package")
		assert.False(t, ok)
	})

	t.Run("lapack alias maps to the same entry", func(t *testing.T) {
		upper, ok := Lookup("LAPACK")
		require.True(t, ok)

		lower, ok := Lookup("lapack")
		require.True(t, ok)

		assert.Same(t, upper, lower)
	})

	t.Run("dir names are version qualified", func(t *testing.T) {
		p, ok := Lookup("OpenBLAS")
		require.True(t, ok)

		assert.Equal(t, "openblas-0.3.15", p.DirName())
	})

	t.Run("nwchem installs under its own root", func(t *testing.T) {
		p, ok := Lookup("nwchem")
		require.True(t, ok)
		require.True(t, p.OwnRoot)

		e := &BuildEnv{RootDir: "/opt/apps", NWChemRoot: "/opt/nwchem"}
		assert.Equal(t, "/opt/nwchem/nwchem-7.0.2", e.Prefix(p))

		mpi, ok := Lookup("OPENMPI")
		require.True(t, ok)
		assert.Equal(t, "/opt/apps/openmpi-4.1.1", e.Prefix(mpi))
	})

	t.Run("steps reference the resolved prefix", func(t *testing.T) {
		p, ok := Lookup("OPENMPI")
		require.True(t, ok)

		e := &BuildEnv{RootDir: "/opt/apps", Jobs: 4}
		steps := p.Steps(e, e.Prefix(p))

		require.NotEmpty(t, steps)
		assert.Contains(t, steps[0].Argv, "--prefix=/opt/apps/openmpi-4.1.1")
		assert.Contains(t, steps[1].Argv, "-j4")
	})

	t.Run("qe closure orders dependencies first", func(t *testing.T) {
		pkgs, err := Closure([]string{"qe"})
		require.NoError(t, err)

		pos := map[string]int{}
		for i, p := range pkgs {
			pos[p.Name] = i
		}

		require.Contains(t, pos, "qe")
		for _, dep := range []string{"OPENMPI", "OpenBLAS", "scalapack", "FFTW", "hdf5"} {
			require.Contains(t, pos, dep)
			assert.Less(t, pos[dep], pos["qe"])
		}

		// scalapack's own deps come before it as well
		assert.Less(t, pos["OPENMPI"], pos["scalapack"])
	})

	t.Run("closure rejects unknown tokens", func(t *testing.T) {
		_, err := Closure([]string{"qe", "bogus"})
		require.Error(t, err)
	})

	t.Run("token list includes the alias", func(t *testing.T) {
		assert.Contains(t, Tokens(), "lapack")
		assert.Contains(t, Tokens(), "LAPACK")
	})
}
