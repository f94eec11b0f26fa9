package mask

import "errors"

var (
	// ErrNilSource is returned when a nil source is registered
	ErrNilSource = errors.New("mask: nil command source")

	// ErrNotComparable is returned for sources whose dynamic type cannot be
	// compared by identity; register a pointer instead
	ErrNotComparable = errors.New("mask: command source is not comparable")

	// ErrSourceFailed wraps an error returned by a source during rebuild
	ErrSourceFailed = errors.New("mask: command source failed")

	// ErrUnknownOp is returned when appending a command with an invalid op
	ErrUnknownOp = errors.New("mask: unknown command op")

	// ErrNoLayer is returned when appending a command that targets no layer
	ErrNoLayer = errors.New("mask: command targets no layer")

	// ErrUnknownLayer is returned by ParseLayer
	ErrUnknownLayer = errors.New("mask: unknown layer")
)
