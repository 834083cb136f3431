package flipbook

import "errors"

// Error kinds surfaced by Session and EncoderAdapter. All are returned
// directly or wrapped with fmt.Errorf("...: %w", err); none are swallowed.
var (
	// ErrNotRecording is returned when CaptureCel is called without an
	// active recording session.
	ErrNotRecording = errors.New("flipbook: not recording")

	// ErrEmptyEncode is returned when Encode is called with zero cels.
	// No encoder initialization happens in this case.
	ErrEmptyEncode = errors.New("flipbook: no cels to encode")

	// ErrEncoderUnsupported is returned when the codec fallback chain is
	// exhausted without the encoder accepting any candidate.
	ErrEncoderUnsupported = errors.New("flipbook: no supported video codec")

	// ErrEncoderUninitialized is returned when an EncoderAdapter method is
	// called out of lifecycle order. This is a programmer error and always
	// fails loudly.
	ErrEncoderUninitialized = errors.New("flipbook: encoder lifecycle violation")

	// ErrAccumulatorOutOfOrder is returned when a FrameAccumulator method
	// is called out of lifecycle order: a second Run, or Drain before Run.
	ErrAccumulatorOutOfOrder = errors.New("flipbook: accumulator called out of order")

	// ErrMissingRenderTarget is returned when an encode has no way to
	// produce frames: an interpolated encode without a Render callback, or
	// a plain encode without one where some cel's pixel snapshot is absent
	// or does not match the output size.
	ErrMissingRenderTarget = errors.New("flipbook: no render callback configured")

	// ErrEncodeBusy is returned when Encode is called while another encode
	// on the same session is in flight. The offscreen render target is
	// exclusively owned by the active encode.
	ErrEncodeBusy = errors.New("flipbook: encode already in flight")
)
