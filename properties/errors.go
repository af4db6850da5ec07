package properties

import "errors"

var (
	// ErrCastFailed indicates a property value could not be coerced to
	// the requested type.
	ErrCastFailed = errors.New("properties: cannot cast value")

	// ErrUnsupportedFormat indicates a file extension no loader handles.
	ErrUnsupportedFormat = errors.New("properties: unsupported file format")

	// ErrWatcherClosed indicates a lookup against a closed watch source.
	ErrWatcherClosed = errors.New("properties: watch source is closed")
)
