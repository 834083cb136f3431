package flipbook

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/tanema/gween/ease"
)

// Options configures a Session. The zero value is usable: every numeric field
// falls back to its documented default, the encoder defaults to the built-in
// MJPEG encoder, and the render callback defaults to nil (plain pixel
// playback only — interpolated encodes require one).
type Options struct {
	// FPS is the output video frame rate. Default 30.
	FPS float64
	// VideoBitsPerSecond is the target bitrate. Default 5_000_000.
	VideoBitsPerSecond int
	// FrameDuration is the default per-cel transition duration used when
	// CaptureCel is given a non-positive duration, and the hold time of
	// the last cel in plain encodes. Default 500ms.
	FrameDuration time.Duration
	// Mode selects the position interpolation path. Default ModeLinear.
	Mode InterpolationMode
	// Codec is the preferred codec for negotiation. Default "mjpeg".
	Codec string
	// Width and Height size the output video. Default 640x480.
	Width, Height int
	// BoxWidth and BoxHeight size the periodic coordinate box. Zero means
	// the output size.
	BoxWidth, BoxHeight float64
	// Easing shapes transition progress. Default ease.Linear.
	Easing ease.TweenFunc
	// Style holds the partial-drawable thresholds. A zero Style means the
	// defaults.
	Style TransitionStyle
	// CapturePacing is the delay between consecutive capture requests for
	// devices that need one. Default none.
	CapturePacing time.Duration
	// DrainGrace is the encoder flush wait before finalizing. Zero means
	// the accumulator default.
	DrainGrace time.Duration

	// GraphSource supplies the current graph snapshot at capture time.
	// Required for CaptureCel.
	GraphSource func() *GraphState
	// Render draws a graph and transition scene onto a target surface.
	// Supplied by the host so encodes reuse its full styling pipeline;
	// DrawGraph is a ready-made implementation.
	Render RenderFunc
	// Canvas, when set, is the visible surface whose pixels CaptureCel
	// snapshots for plain (non-interpolated) playback.
	Canvas *ebiten.Image
	// Encoder is the video-encoding collaborator. Default MJPEGEncoder.
	Encoder VideoEncoder
	// PresentSync suspends until the render target has been presented,
	// for hosts with an explicit display-sync boundary.
	PresentSync func(ctx context.Context) error
	// OnProgress is invoked once per logical animation frame processed.
	OnProgress func(current, total int)
}

// withDefaults fills unset fields.
func (o Options) withDefaults() Options {
	if o.FPS <= 0 {
		o.FPS = 30
	}
	if o.VideoBitsPerSecond <= 0 {
		o.VideoBitsPerSecond = 5_000_000
	}
	if o.FrameDuration <= 0 {
		o.FrameDuration = 500 * time.Millisecond
	}
	if o.Codec == "" {
		o.Codec = "mjpeg"
	}
	if o.Width <= 0 {
		o.Width = 640
	}
	if o.Height <= 0 {
		o.Height = 480
	}
	if o.BoxWidth <= 0 {
		o.BoxWidth = float64(o.Width)
	}
	if o.BoxHeight <= 0 {
		o.BoxHeight = float64(o.Height)
	}
	if o.Easing == nil {
		o.Easing = ease.Linear
	}
	if o.Style == (TransitionStyle{}) {
		o.Style = DefaultTransitionStyle()
	}
	if o.Encoder == nil {
		o.Encoder = NewMJPEGEncoder()
	}
	return o
}

// fileOptions is the YAML/env-tunable subset of Options.
type fileOptions struct {
	FPS                float64 `koanf:"fps"`
	VideoBitsPerSecond int     `koanf:"video_bits_per_second"`
	FrameDurationMs    int     `koanf:"frame_duration_ms"`
	Mode               string  `koanf:"mode"`
	Codec              string  `koanf:"codec"`
	Width              int     `koanf:"width"`
	Height             int     `koanf:"height"`
}

// LoadOptions builds Options by layering, lowest to highest precedence:
// built-in defaults, the YAML file at path (skipped when path is empty), and
// FLIPBOOK_-prefixed environment variables (FLIPBOOK_FPS -> fps). Collaborator
// fields are code-only and left for the caller to fill in.
func LoadOptions(path string) (Options, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"fps":                   30.0,
		"video_bits_per_second": 5_000_000,
		"frame_duration_ms":     500,
		"mode":                  "linear",
		"codec":                 "mjpeg",
		"width":                 640,
		"height":                480,
	}, "."), nil); err != nil {
		return Options{}, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Options{}, fmt.Errorf("read options file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("FLIPBOOK_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "FLIPBOOK_"))
	}), nil); err != nil {
		return Options{}, fmt.Errorf("load env vars: %w", err)
	}

	var fo fileOptions
	if err := k.Unmarshal("", &fo); err != nil {
		return Options{}, fmt.Errorf("decode options: %w", err)
	}

	mode, err := ParseMode(fo.Mode)
	if err != nil {
		return Options{}, err
	}

	return Options{
		FPS:                fo.FPS,
		VideoBitsPerSecond: fo.VideoBitsPerSecond,
		FrameDuration:      time.Duration(fo.FrameDurationMs) * time.Millisecond,
		Mode:               mode,
		Codec:              fo.Codec,
		Width:              fo.Width,
		Height:             fo.Height,
	}.withDefaults(), nil
}

// ParseMode converts a config-file mode string to an InterpolationMode.
func ParseMode(s string) (InterpolationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear":
		return ModeLinear, nil
	case "cubic":
		return ModeCubic, nil
	case "catmull-rom", "catmullrom":
		return ModeCatmullRom, nil
	default:
		return ModeLinear, fmt.Errorf("unknown interpolation mode %q", s)
	}
}
