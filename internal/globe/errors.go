package globe

import "github.com/aukilabs/go-tooling/pkg/errors"

const (
	ErrTypeInvalidArgument = "invalid_argument"
	ErrTypeDestroyed       = "destroyed"
	ErrTypeTileLoadFailed  = "tile_load_failed"
)

func invalidArgument(name, reason string) error {
	return errors.New("invalid argument").
		WithType(ErrTypeInvalidArgument).
		WithTag("argument", name).
		WithTag("reason", reason)
}
