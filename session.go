package flipbook

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
)

// Cel is one manually captured stop-motion frame: a pixel snapshot of the
// visible canvas (when one is configured), a cloned graph state, and the
// duration of the transition *into* this cel from the previous one.
type Cel struct {
	// Pixels is the premultiplied RGBA snapshot, nil without a canvas.
	Pixels        []byte
	Width, Height int
	State         *GraphState
	CapturedAt    time.Time
	// TransitionMs is the transition duration into this cel, not a
	// display hold time. Set by the caller before capture.
	TransitionMs float64
}

// Session owns the cel list and orchestrates capture and encode. All methods
// are single-threaded cooperative — a Session must not be shared across
// goroutines.
type Session struct {
	opts      Options
	id        uuid.UUID
	cels      []Cel
	recording bool
	encoding  bool
	debug     bool
}

// NewSession creates a session with the given options. Call Start before
// capturing.
func NewSession(opts Options) *Session {
	return &Session{
		opts: opts.withDefaults(),
		id:   uuid.New(),
	}
}

// ID returns the session identity used in log lines.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// SetDebugMode enables per-encode timing stats on stderr.
func (s *Session) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// Recording reports whether Start has been called without a matching Stop.
func (s *Session) Recording() bool {
	return s.recording
}

// CelCount returns the number of captured cels.
func (s *Session) CelCount() int {
	return len(s.cels)
}

// Start begins a fresh take: the cel list is cleared. Calling Start while
// already recording is a warning and a no-op, not an error.
func (s *Session) Start() {
	if s.recording {
		_, _ = fmt.Fprintf(os.Stderr, "[flipbook] warning: start while already recording (session %s)\n", s.id)
		return
	}
	s.cels = s.cels[:0]
	s.recording = true
}

// Stop ends the take and clears the cel list. Calling Stop while not
// recording is a warning and a no-op.
func (s *Session) Stop() {
	if !s.recording {
		_, _ = fmt.Fprintf(os.Stderr, "[flipbook] warning: stop while not recording (session %s)\n", s.id)
		return
	}
	s.recording = false
	s.cels = s.cels[:0]
}

// Clear drops all captured cels without ending the take.
func (s *Session) Clear() {
	s.cels = s.cels[:0]
}

// CaptureCel appends a cel: the current pixel buffer of the configured canvas
// (if any) plus a clone of the graph source's snapshot. transitionMs is the
// duration of the transition into this cel; non-positive values use the
// default frame duration.
func (s *Session) CaptureCel(transitionMs float64) error {
	if !s.recording {
		return ErrNotRecording
	}
	if s.opts.GraphSource == nil {
		return fmt.Errorf("flipbook: no graph source configured")
	}
	if transitionMs <= 0 {
		transitionMs = float64(s.opts.FrameDuration.Milliseconds())
	}

	cel := Cel{
		State:        s.opts.GraphSource().Clone(),
		CapturedAt:   time.Now(),
		TransitionMs: transitionMs,
	}
	if s.opts.Canvas != nil {
		b := s.opts.Canvas.Bounds()
		cel.Width, cel.Height = b.Dx(), b.Dy()
		cel.Pixels = make([]byte, 4*cel.Width*cel.Height)
		s.opts.Canvas.ReadPixels(cel.Pixels)
	}
	s.cels = append(s.cels, cel)
	return nil
}

// RemoveLastCel pops the most recent cel. Returns false when the list is
// empty.
func (s *Session) RemoveLastCel() bool {
	if len(s.cels) == 0 {
		return false
	}
	s.cels = s.cels[:len(s.cels)-1]
	return true
}

// Encode synthesizes the captured cels into a video blob. With interpolate
// set, node positions and edge/arrow appearance animate between cels;
// otherwise each cel plays back directly, held for the following cel's
// transition duration.
//
// Encode never mutates the cel list — it operates on a disposable working
// graph — and rejects a second call while one is in flight, since the
// offscreen render target is exclusively owned by the active encode.
func (s *Session) Encode(ctx context.Context, interpolate bool) ([]byte, error) {
	if s.encoding {
		return nil, ErrEncodeBusy
	}
	if len(s.cels) == 0 {
		return nil, ErrEmptyEncode
	}
	if s.opts.Render == nil {
		if interpolate {
			return nil, ErrMissingRenderTarget
		}
		// Without a render callback the only playback path is a direct
		// pixel copy, so every snapshot must match the output size.
		for i := range s.cels {
			c := &s.cels[i]
			if c.Pixels == nil || c.Width != s.opts.Width || c.Height != s.opts.Height {
				return nil, ErrMissingRenderTarget
			}
		}
	}
	s.encoding = true
	defer func() { s.encoding = false }()

	var stats encodeStats
	t0 := time.Now()

	var frames []LogicalFrame
	if interpolate {
		frames = s.buildInterpolatedFrames()
	} else {
		frames = s.buildPassthroughFrames()
	}
	stats.framesBuilt = len(frames)
	stats.buildTime = time.Since(t0)

	adapter := NewEncoderAdapter(s.opts.Encoder, EncoderConfig{
		Width:         s.opts.Width,
		Height:        s.opts.Height,
		FPS:           s.opts.FPS,
		BitsPerSecond: s.opts.VideoBitsPerSecond,
		Codec:         s.opts.Codec,
		Pacing:        s.opts.CapturePacing,
		PresentSync:   s.opts.PresentSync,
	})
	if err := adapter.Initialize(); err != nil {
		return nil, err
	}
	// Frees the target on every failure exit below; a no-op after Finalize.
	defer adapter.Release()
	if err := adapter.Start(); err != nil {
		return nil, err
	}
	stats.codec = adapter.Codec()

	acc := NewFrameAccumulator(s.opts.FPS, adapter)
	acc.GraceDelay = s.opts.DrainGrace
	acc.OnProgress = s.opts.OnProgress

	t0 = time.Now()
	if err := acc.Run(ctx, frames); err != nil {
		return nil, err
	}
	if err := acc.Drain(ctx); err != nil {
		return nil, err
	}
	stats.runTime = time.Since(t0)
	stats.framesEmitted = acc.FramesEmitted()

	if err := adapter.Stop(); err != nil {
		return nil, err
	}
	t0 = time.Now()
	blob, err := adapter.Finalize()
	if err != nil {
		return nil, err
	}
	stats.finalizeTime = time.Since(t0)

	if s.debug {
		s.debugLogEncode(stats, len(blob))
	}
	return blob, nil
}

// buildInterpolatedFrames materializes the logical frame sequence for an
// interpolated encode: per cel pair, round(duration*fps/1000) frames of one
// output interval each with eased progress, then one final held frame of the
// end snapshot. All frames share one working graph; execution is strictly
// sequential, so each render may safely reset it.
func (s *Session) buildInterpolatedFrames() []LogicalFrame {
	working := s.cels[0].State.Clone()
	msPerFrame := 1000 / s.opts.FPS
	ip := Interpolator{
		Space: Space{Width: s.opts.BoxWidth, Height: s.opts.BoxHeight},
		Mode:  s.opts.Mode,
	}
	style := s.opts.Style
	easing := s.opts.Easing
	render := s.opts.Render

	var frames []LogicalFrame
	for i := 0; i+1 < len(s.cels); i++ {
		start := s.cels[i].State
		end := s.cels[i+1].State
		var prev, next *GraphState
		if i > 0 {
			prev = s.cels[i-1].State
		}
		if i+2 < len(s.cels) {
			next = s.cels[i+2].State
		}
		diff := DiffStates(start, end)

		steps := int(math.Round(s.cels[i+1].TransitionMs / msPerFrame))
		if steps < 1 {
			steps = 1
		}
		for j := 1; j <= steps; j++ {
			t := float64(j) / float64(steps)
			if easing != nil {
				t = float64(easing(float32(t), 0, 1, 1))
			}
			frames = append(frames, LogicalFrame{
				DurationMs: msPerFrame,
				Render: func(target *ebiten.Image) {
					working.adoptNodes(start)
					ip.Apply(working, prev, start, end, next, t, diff.CommonNodes)
					scene := BuildScene(working, diff, start, end, t, style)
					render(target, working, scene)
				},
			})
		}
	}

	// Held frame after the last cel, through the same render path.
	last := s.cels[len(s.cels)-1].State
	frames = append(frames, LogicalFrame{
		DurationMs: msPerFrame,
		Render: func(target *ebiten.Image) {
			working.adoptNodes(last)
			scene := FinalScene(working, last)
			render(target, working, scene)
		},
	})
	return frames
}

// buildPassthroughFrames materializes one logical frame per cel: stored pixel
// playback when a canvas snapshot matches the output size, a plain re-render
// otherwise. Cel i holds for the transition duration into cel i+1; the last
// cel holds for the default frame duration.
func (s *Session) buildPassthroughFrames() []LogicalFrame {
	render := s.opts.Render
	frames := make([]LogicalFrame, 0, len(s.cels))
	for i := range s.cels {
		cel := &s.cels[i]
		durationMs := float64(s.opts.FrameDuration.Milliseconds())
		if i+1 < len(s.cels) {
			durationMs = s.cels[i+1].TransitionMs
		}
		frames = append(frames, LogicalFrame{
			DurationMs: durationMs,
			Render: func(target *ebiten.Image) {
				b := target.Bounds()
				if cel.Pixels != nil && cel.Width == b.Dx() && cel.Height == b.Dy() {
					target.WritePixels(cel.Pixels)
					return
				}
				render(target, cel.State, nil)
			},
		})
	}
	return frames
}

// DumpCelPNG writes cel index's pixel snapshot as a timestamped PNG into dir
// and returns the file path. Only cels captured with a canvas have pixels.
func (s *Session) DumpCelPNG(index int, dir string) (string, error) {
	if index < 0 || index >= len(s.cels) {
		return "", fmt.Errorf("flipbook: cel index %d out of range [0,%d)", index, len(s.cels))
	}
	cel := &s.cels[index]
	if cel.Pixels == nil {
		return "", fmt.Errorf("flipbook: cel %d has no pixel snapshot", index)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	img := unpremultiply(cel.Pixels, cel.Width, cel.Height)
	stamp := cel.CapturedAt.Format("20060102_150405")
	path := fmt.Sprintf("%s/%s_cel%03d.png", dir, stamp, index)
	if err := writePNG(path, img); err != nil {
		return "", err
	}
	return path, nil
}

// unpremultiply converts a premultiplied RGBA pixel buffer (as read from an
// ebiten image) to a straight-alpha NRGBA image for stdlib encoders.
func unpremultiply(pix []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pix) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pix[i], pix[i+1], pix[i+2], pix[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
