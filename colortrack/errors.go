package colortrack

import "github.com/pkg/errors"

var (
	// ErrInvalidInput is returned for malformed geometry: box list shape, non-positive ROI,
	// seed index/point out of range. Session state is left untouched.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidSeed is returned when a seed neighborhood has too few colored pixels.
	ErrInvalidSeed = errors.New("invalid seed")
	// ErrUnsupportedFormat is returned when a frame buffer layout or size is not recognized.
	ErrUnsupportedFormat = errors.New("unsupported frame format")
	// ErrNotInitialized is returned when Session is used before Initialize or after Release.
	ErrNotInitialized = errors.New("session is not initialized")
)
