package ops

import "github.com/pkg/errors"

var ErrNotFound = errors.New("not found")

func track(err error) error {
	return errors.WithStack(err)
}
