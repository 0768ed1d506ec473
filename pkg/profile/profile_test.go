package profile

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdater(t *testing.T) {
	t.Run("creates the profile and writes one block", func(t *testing.T) {
		dir := t.TempDir()

		u := &Updater{Path: filepath.Join(dir, "bashrc")}

		err := u.Add("OPENMPI", "/opt/apps/openmpi-4.1.1")
		require.NoError(t, err)

		data, err := ioutil.ReadFile(u.Path)
		require.NoError(t, err)

		content := string(data)

		assert.Contains(t, content, "# >>> chemstack: OPENMPI >>>")
		assert.Contains(t, content, "export PATH=/opt/apps/openmpi-4.1.1/bin:$PATH")
		assert.Contains(t, content, "export LD_LIBRARY_PATH=/opt/apps/openmpi-4.1.1/lib:$LD_LIBRARY_PATH")
		assert.Contains(t, content, "export LIBRARY_PATH=/opt/apps/openmpi-4.1.1/lib:$LIBRARY_PATH")
		assert.Contains(t, content, "export CPATH=/opt/apps/openmpi-4.1.1/include:$CPATH")
		assert.Contains(t, content, "# <<< chemstack: OPENMPI <<<")
	})

	t.Run("repeated adds do not duplicate the block", func(t *testing.T) {
		dir := t.TempDir()

		u := &Updater{Path: filepath.Join(dir, "bashrc")}

		require.NoError(t, u.Add("hdf5", "/opt/apps/hdf5-1.12.0"))

		before, err := ioutil.ReadFile(u.Path)
		require.NoError(t, err)

		require.NoError(t, u.Add("hdf5", "/opt/apps/hdf5-1.12.0"))

		after, err := ioutil.ReadFile(u.Path)
		require.NoError(t, err)

		assert.Equal(t, string(before), string(after))
		assert.Equal(t, 1, strings.Count(string(after), "# >>> chemstack: hdf5 >>>"))
	})

	t.Run("appends without touching existing content", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bashrc")

		require.NoError(t, ioutil.WriteFile(path, []byte("# mine\nalias ll='ls -l'\n"), 0644))

		u := &Updater{Path: path}
		require.NoError(t, u.Add("FFTW", "/opt/apps/fftw-3.3.9"))

		data, err := ioutil.ReadFile(path)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(string(data), "# mine\nalias ll='ls -l'\n"))
		assert.Contains(t, string(data), "# >>> chemstack: FFTW >>>")
	})

	t.Run("blocks for different packages coexist", func(t *testing.T) {
		dir := t.TempDir()

		u := &Updater{Path: filepath.Join(dir, "bashrc")}

		require.NoError(t, u.Add("OPENMPI", "/opt/apps/openmpi-4.1.1"))
		require.NoError(t, u.Add("OpenBLAS", "/opt/apps/openblas-0.3.15"))

		ok, err := u.Has("OPENMPI")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = u.Has("OpenBLAS")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = u.Has("hdf5")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestEnvMap(t *testing.T) {
	environ := []string{"PATH=/usr/bin:/bin", "HOME=/home/u"}

	m := EnvMap(environ, []string{"/opt/apps/openmpi-4.1.1", "/opt/apps/fftw-3.3.9"})

	assert.Equal(t, "/opt/apps/openmpi-4.1.1/bin:/opt/apps/fftw-3.3.9/bin:/usr/bin:/bin", m["PATH"])
	assert.Equal(t, "/opt/apps/openmpi-4.1.1/lib:/opt/apps/fftw-3.3.9/lib", m["LD_LIBRARY_PATH"])
	assert.Equal(t, "/home/u", m["HOME"])

	env := ComputeEnv(environ, []string{"/opt/apps/openmpi-4.1.1"})
	assert.Contains(t, env, "HOME=/home/u")
}
