package labels

import (
	"errors"

	"github.com/hubastard/labelgl/engine/glyphs"
)

var (
	// ErrIDOverflow is returned when a buffer cannot address the requested
	// label ids with its current transform texture.
	ErrIDOverflow = errors.New("labels: label id overflow")
	// ErrInvalidResolution is returned for transform resolutions that are
	// not a power of two.
	ErrInvalidResolution = errors.New("labels: transform resolution must be a power of two")
	ErrNoBufferBound     = errors.New("labels: no buffer bound")
	ErrUnknownBuffer     = errors.New("labels: unknown buffer")
	// ErrUnknownLabel is returned for label ids never generated by the
	// bound buffer.
	ErrUnknownLabel = errors.New("labels: unknown label")

	ErrNotRasterized = glyphs.ErrNotRasterized
	ErrGlyphIndex    = glyphs.ErrGlyphIndex
)

// ErrorKind identifies a condition reported to the error callback.
type ErrorKind int

const (
	IDOverflow ErrorKind = iota
)

func (k ErrorKind) String() string {
	switch k {
	case IDOverflow:
		return "id overflow"
	default:
		return "unknown"
	}
}

// ErrorFunc is called synchronously when an operation on buffer hits a
// recoverable condition. Returning true means the callback fixed it (for
// example by calling ExpandTransform) and the operation is retried once.
type ErrorFunc func(buffer BufferID, kind ErrorKind) (resolved bool)
