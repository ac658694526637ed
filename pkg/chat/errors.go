package chat

import "github.com/pkg/errors"

var (
	// ErrEmptyMessage rejects a turn whose user text is empty after trimming.
	ErrEmptyMessage = errors.New("message text is empty")
	// ErrNoModels rejects a turn with no resolvable model ids.
	ErrNoModels = errors.New("no models configured")
)
