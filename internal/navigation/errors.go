package navigation

import (
	"github.com/pkg/errors"

	"github.com/vanshika/campusnav/backend/internal/domain"
)

var (
	// ErrNotFound reports a location id that is not stored.
	ErrNotFound = domain.ErrNotFound
	// ErrNoPath reports that the end location is unreachable from the start.
	ErrNoPath = errors.New("route not found")
	// ErrStoreUnavailable reports a backing store that failed or timed out.
	ErrStoreUnavailable = domain.ErrStoreUnavailable
	// ErrBrokenChain reports a predecessor chain that does not lead back to
	// the start. It means the engine or the loaded graph is corrupt.
	ErrBrokenChain = errors.New("broken predecessor chain")
	// ErrInvalidWeight reports a negative or non-finite edge weight.
	ErrInvalidWeight = errors.New("edge weight must be finite and non-negative")
)

// storeError classifies a repository failure. Not-found errors pass through,
// anything else (including context deadlines) becomes ErrStoreUnavailable
// with the driver error kept as a cause.
func storeError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return errors.Wrapf(err, format, args...)
	}
	return errors.Wrapf(unavailable{cause: err}, format, args...)
}

type unavailable struct {
	cause error
}

func (u unavailable) Error() string {
	return ErrStoreUnavailable.Error() + ": " + u.cause.Error()
}

func (u unavailable) Unwrap() []error {
	return []error{ErrStoreUnavailable, u.cause}
}
