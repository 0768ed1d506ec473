package lockfile

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockfile(t *testing.T) {
	t.Run("takes and releases the lock", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "lock")

		cleanup, err := Take(context.Background(), path, nil)
		require.NoError(t, err)

		data, err := ioutil.ReadFile(path)
		require.NoError(t, err)
		assert.NotEmpty(t, data)

		cleanup()

		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("waits until the context is done when held", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "lock")

		cleanup, err := Take(context.Background(), path, nil)
		require.NoError(t, err)
		defer cleanup()

		ctx, cancel := context.WithCancel(context.Background())

		var waited bool
		go func() {
			cancel()
		}()

		_, err = Take(ctx, path, func() {
			waited = true
		})
		require.Error(t, err)
		assert.True(t, waited)
	})

	t.Run("reclaims a lock held by a dead process", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "lock")

		// Write a pid that cannot exist.
		require.NoError(t, ioutil.WriteFile(path, []byte("99999999\n"), 0644))

		cleanup, err := Take(context.Background(), path, nil)
		require.NoError(t, err)
		cleanup()
	})
}
