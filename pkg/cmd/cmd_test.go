package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCmd(t *testing.T) {
	t.Run("flags bind to the options struct", func(t *testing.T) {
		var gotJobs int

		c := New("demo", "demo command", func(ctx context.Context, opts struct {
			Jobs int `short:"j" long:"jobs"`
		}) error {
			gotJobs = opts.Jobs
			return nil
		})

		code := c.Run([]string{"-j", "4"})
		require.Equal(t, 0, code)
		assert.Equal(t, 4, gotJobs)
	})

	t.Run("positional args reach the command func", func(t *testing.T) {
		var got []string

		c := New("demo", "demo command", func(ctx context.Context, opts struct {
			Verbose bool `short:"v"`

			Pos struct {
				Args []string `positional-arg-name:"command"`
			} `positional-args:"yes"`
		}) error {
			got = opts.Pos.Args
			return nil
		})

		code := c.Run([]string{"printenv", "PATH"})
		require.Equal(t, 0, code)
		assert.Equal(t, []string{"printenv", "PATH"}, got)
	})

	t.Run("errors from the command func exit nonzero", func(t *testing.T) {
		c := New("demo", "demo command", func(ctx context.Context, opts struct{}) error {
			return assert.AnError
		})

		assert.Equal(t, 1, c.Run(nil))
	})
}
