package ops

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveUnpack(t *testing.T) {
	t.Run("strips the archive's own top directory", func(t *testing.T) {
		dir := t.TempDir()

		archive := filepath.Join(dir, "demo-1.0.tar.gz")
		writeTarGz(t, archive, "demo-upstream-v1.0", map[string]string{
			"README":    "hi\n",
			"configure": "#!/bin/sh\n",
		})

		var unpack ArchiveUnpack

		src, err := unpack.Unpack(archive, dir, "demo-1.0")
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(dir, "demo-1.0"), src)
		assert.FileExists(t, filepath.Join(src, "README"))
		assert.FileExists(t, filepath.Join(src, "configure"))

		// no staging dir left behind
		_, err = os.Stat(src + ".unpack")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("replaces a stale tree from an earlier run", func(t *testing.T) {
		dir := t.TempDir()

		stale := filepath.Join(dir, "demo-1.0")
		require.NoError(t, os.MkdirAll(stale, 0755))
		require.NoError(t, ioutil.WriteFile(filepath.Join(stale, "leftover"), []byte("x"), 0644))

		archive := filepath.Join(dir, "demo-1.0.tar.gz")
		writeTarGz(t, archive, "demo-src", map[string]string{"README": "hi\n"})

		var unpack ArchiveUnpack

		src, err := unpack.Unpack(archive, dir, "demo-1.0")
		require.NoError(t, err)

		assert.FileExists(t, filepath.Join(src, "README"))

		_, err = os.Stat(filepath.Join(src, "leftover"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("unknown extension is an error", func(t *testing.T) {
		dir := t.TempDir()

		archive := filepath.Join(dir, "demo.weird")
		require.NoError(t, ioutil.WriteFile(archive, []byte("x"), 0644))

		var unpack ArchiveUnpack

		_, err := unpack.Unpack(archive, dir, "demo-1.0")
		require.Error(t, err)
	})
}
