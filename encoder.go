package flipbook

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// StreamConfig is the negotiated parameter set handed to a VideoEncoder when
// recording begins.
type StreamConfig struct {
	Width, Height int
	FPS           float64
	BitsPerSecond int
	Codec         string
}

// VideoEncoder is the platform video-encoding service driven by
// EncoderAdapter. Implementations consume raw premultiplied RGBA frames
// (4 bytes per pixel, row-major) and deliver encoded chunks; the adapter
// assembles chunks into the final blob.
type VideoEncoder interface {
	// Supports reports whether the encoder can produce the given codec.
	// The empty string means the encoder's own default.
	Supports(codec string) bool
	// Begin opens an encoding stream with the negotiated parameters.
	Begin(cfg StreamConfig) error
	// Encode consumes one frame and returns any chunk that became ready.
	// A nil chunk is normal for encoders that buffer until Finish.
	Encode(pix []byte) ([]byte, error)
	// Finish flushes the stream and returns the trailing chunk.
	Finish() ([]byte, error)
	// OnDemand reports whether the encoder can encode a single requested
	// frame. Encoders that capture on their own clock return false, and
	// the adapter falls back to a timed wait proportional to the frames
	// needed.
	OnDemand() bool
}

// EncoderPhase tracks the adapter lifecycle. Methods called out of order fail
// loudly with ErrEncoderUninitialized; they never silently no-op.
type EncoderPhase uint8

const (
	EncoderUninitialized EncoderPhase = iota
	EncoderInitialized
	EncoderRecording
	EncoderStopped
)

// EncoderConfig configures an EncoderAdapter.
type EncoderConfig struct {
	Width, Height int
	FPS           float64
	BitsPerSecond int
	// Codec is the preferred codec, tried first in the fallback chain
	// (preferred -> vp8 -> encoder default).
	Codec string
	// Pacing is an optional delay between consecutive capture requests,
	// for devices that need one.
	Pacing time.Duration
	// PresentSync, when set, suspends until the render target's latest
	// contents are presented. Nil means captures proceed immediately.
	PresentSync func(ctx context.Context) error
}

// EncoderAdapter owns the offscreen render target and drives a VideoEncoder
// through its initialize -> start -> feed-frames -> finalize lifecycle,
// including codec negotiation fallback. It is the production FrameSink.
type EncoderAdapter struct {
	enc    VideoEncoder
	cfg    EncoderConfig
	phase  EncoderPhase
	codec  string
	target *ebiten.Image
	pix    []byte
	chunks [][]byte
}

// NewEncoderAdapter wraps enc. Initialize must be called before anything else.
func NewEncoderAdapter(enc VideoEncoder, cfg EncoderConfig) *EncoderAdapter {
	return &EncoderAdapter{enc: enc, cfg: cfg}
}

// Phase returns the current lifecycle phase.
func (ad *EncoderAdapter) Phase() EncoderPhase {
	return ad.phase
}

// Codec returns the negotiated codec. Valid after Initialize.
func (ad *EncoderAdapter) Codec() string {
	return ad.codec
}

// Target returns the offscreen render target. Valid after Initialize and
// until Finalize releases it.
func (ad *EncoderAdapter) Target() *ebiten.Image {
	return ad.target
}

// Initialize negotiates a codec through the fixed fallback chain and creates
// the offscreen render target at the output resolution. Exhausting the chain
// is fatal for this encode attempt and surfaces ErrEncoderUnsupported before
// any target is allocated.
func (ad *EncoderAdapter) Initialize() error {
	if ad.phase != EncoderUninitialized {
		return fmt.Errorf("initialize in phase %d: %w", ad.phase, ErrEncoderUninitialized)
	}

	negotiated := false
	for _, c := range codecCandidates(ad.cfg.Codec) {
		if ad.enc.Supports(c) {
			ad.codec = c
			negotiated = true
			break
		}
	}
	if !negotiated {
		return fmt.Errorf("tried %v: %w", codecCandidates(ad.cfg.Codec), ErrEncoderUnsupported)
	}

	w, h := ad.cfg.Width, ad.cfg.Height
	if w <= 0 {
		w = 640
	}
	if h <= 0 {
		h = 480
	}
	ad.target = ebiten.NewImage(w, h)
	ad.pix = make([]byte, 4*w*h)
	ad.phase = EncoderInitialized
	return nil
}

// Start opens the encoding stream with the negotiated parameters.
func (ad *EncoderAdapter) Start() error {
	if ad.phase != EncoderInitialized {
		return fmt.Errorf("start in phase %d: %w", ad.phase, ErrEncoderUninitialized)
	}
	b := ad.target.Bounds()
	err := ad.enc.Begin(StreamConfig{
		Width:         b.Dx(),
		Height:        b.Dy(),
		FPS:           ad.cfg.FPS,
		BitsPerSecond: ad.cfg.BitsPerSecond,
		Codec:         ad.codec,
	})
	if err != nil {
		return fmt.Errorf("encoder begin: %w", err)
	}
	ad.phase = EncoderRecording
	return nil
}

// WaitPresent suspends until the target is presented, via the configured
// PresentSync. Without one, captures proceed immediately — deliberately not
// observing ctx here, so a frame that has rendered always gets its captures
// requested.
func (ad *EncoderAdapter) WaitPresent(ctx context.Context) error {
	if ad.cfg.PresentSync == nil {
		return nil
	}
	return ad.cfg.PresentSync(ctx)
}

// CaptureFrames requests n discrete encoded frames of the target's current
// contents. On-demand encoders get back-to-back requests separated only by
// the configured pacing; stream-driven encoders get a real-time wait of one
// frame interval per frame so their own clock records the held image.
func (ad *EncoderAdapter) CaptureFrames(ctx context.Context, n int) error {
	if ad.phase != EncoderRecording {
		return fmt.Errorf("capture in phase %d: %w", ad.phase, ErrEncoderUninitialized)
	}

	frameInterval := time.Duration(float64(time.Second) / ad.cfg.FPS)
	for i := 0; i < n; i++ {
		if ad.cfg.Pacing > 0 {
			if err := sleepCtx(ctx, ad.cfg.Pacing); err != nil {
				return err
			}
		}
		if !ad.enc.OnDemand() {
			if err := sleepCtx(ctx, frameInterval); err != nil {
				return err
			}
		}
		ad.target.ReadPixels(ad.pix)
		chunk, err := ad.enc.Encode(ad.pix)
		if err != nil {
			return fmt.Errorf("encode frame: %w", err)
		}
		if len(chunk) > 0 {
			ad.chunks = append(ad.chunks, chunk)
		}
	}
	return nil
}

// Stop flushes the encoder. Must follow Start and precede Finalize; the
// caller is expected to have drained the accumulator first.
func (ad *EncoderAdapter) Stop() error {
	if ad.phase != EncoderRecording {
		return fmt.Errorf("stop in phase %d: %w", ad.phase, ErrEncoderUninitialized)
	}
	chunk, err := ad.enc.Finish()
	if err != nil {
		return fmt.Errorf("encoder finish: %w", err)
	}
	if len(chunk) > 0 {
		ad.chunks = append(ad.chunks, chunk)
	}
	ad.phase = EncoderStopped
	return nil
}

// Finalize assembles all delivered chunks into one blob and releases the
// render target. Only legal after Stop.
func (ad *EncoderAdapter) Finalize() ([]byte, error) {
	if ad.phase != EncoderStopped {
		return nil, fmt.Errorf("finalize in phase %d: %w", ad.phase, ErrEncoderUninitialized)
	}

	size := 0
	for _, c := range ad.chunks {
		size += len(c)
	}
	blob := make([]byte, 0, size)
	for _, c := range ad.chunks {
		blob = append(blob, c...)
	}

	ad.target.Deallocate()
	ad.target = nil
	ad.pix = nil
	ad.chunks = nil
	return blob, nil
}

// Release frees the offscreen target and buffered chunks without assembling a
// blob, for encodes abandoned after Initialize. Idempotent, and a no-op after
// Finalize.
func (ad *EncoderAdapter) Release() {
	if ad.target != nil {
		ad.target.Deallocate()
		ad.target = nil
	}
	ad.pix = nil
	ad.chunks = nil
}

// codecCandidates is the fixed negotiation fallback order: the preferred
// codec, then vp8, then the encoder's default. Duplicates collapse.
func codecCandidates(preferred string) []string {
	out := make([]string, 0, 3)
	for _, c := range []string{preferred, "vp8", ""} {
		dup := false
		for _, seen := range out {
			if seen == c {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}
