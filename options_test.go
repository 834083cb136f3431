package flipbook

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()

	if o.FPS != 30 {
		t.Errorf("FPS = %f, want 30", o.FPS)
	}
	if o.VideoBitsPerSecond != 5_000_000 {
		t.Errorf("VideoBitsPerSecond = %d, want 5000000", o.VideoBitsPerSecond)
	}
	if o.FrameDuration != 500*time.Millisecond {
		t.Errorf("FrameDuration = %v, want 500ms", o.FrameDuration)
	}
	if o.Mode != ModeLinear {
		t.Errorf("Mode = %v, want linear", o.Mode)
	}
	if o.Codec != "mjpeg" {
		t.Errorf("Codec = %q, want mjpeg", o.Codec)
	}
	if o.Width != 640 || o.Height != 480 {
		t.Errorf("output size = %dx%d, want 640x480", o.Width, o.Height)
	}
	if o.BoxWidth != 640 || o.BoxHeight != 480 {
		t.Errorf("box = %fx%f, want output size", o.BoxWidth, o.BoxHeight)
	}
	if o.Easing == nil {
		t.Error("Easing = nil, want linear tween")
	}
	if o.Style != DefaultTransitionStyle() {
		t.Errorf("Style = %+v, want defaults", o.Style)
	}
	if _, ok := o.Encoder.(*MJPEGEncoder); !ok {
		t.Errorf("Encoder = %T, want *MJPEGEncoder", o.Encoder)
	}
}

func TestOptionsBoxFollowsExplicitSize(t *testing.T) {
	o := Options{Width: 320, Height: 240}.withDefaults()
	if o.BoxWidth != 320 || o.BoxHeight != 240 {
		t.Errorf("box = %fx%f, want 320x240", o.BoxWidth, o.BoxHeight)
	}

	o = Options{Width: 320, Height: 240, BoxWidth: 100, BoxHeight: 100}.withDefaults()
	if o.BoxWidth != 100 || o.BoxHeight != 100 {
		t.Errorf("explicit box overridden: %fx%f, want 100x100", o.BoxWidth, o.BoxHeight)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    InterpolationMode
		wantErr bool
	}{
		{"", ModeLinear, false},
		{"linear", ModeLinear, false},
		{"Linear", ModeLinear, false},
		{"cubic", ModeCubic, false},
		{"catmull-rom", ModeCatmullRom, false},
		{"catmullrom", ModeCatmullRom, false},
		{" cubic ", ModeCubic, false},
		{"bezier", ModeLinear, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadOptionsDefaultsOnly(t *testing.T) {
	o, err := LoadOptions("")
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if o.FPS != 30 || o.Codec != "mjpeg" || o.Width != 640 || o.Height != 480 {
		t.Errorf("defaults = fps %f codec %q %dx%d", o.FPS, o.Codec, o.Width, o.Height)
	}
	if o.FrameDuration != 500*time.Millisecond {
		t.Errorf("FrameDuration = %v, want 500ms", o.FrameDuration)
	}
}

func TestLoadOptionsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flipbook.yaml")
	conf := "fps: 60\nwidth: 320\nheight: 240\nmode: cubic\nframe_duration_ms: 250\n"
	if err := os.WriteFile(path, []byte(conf), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	o, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if o.FPS != 60 {
		t.Errorf("FPS = %f, want 60", o.FPS)
	}
	if o.Width != 320 || o.Height != 240 {
		t.Errorf("size = %dx%d, want 320x240", o.Width, o.Height)
	}
	if o.Mode != ModeCubic {
		t.Errorf("Mode = %v, want cubic", o.Mode)
	}
	if o.FrameDuration != 250*time.Millisecond {
		t.Errorf("FrameDuration = %v, want 250ms", o.FrameDuration)
	}
	// Unset keys keep their defaults.
	if o.Codec != "mjpeg" {
		t.Errorf("Codec = %q, want default mjpeg", o.Codec)
	}
}

func TestLoadOptionsEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flipbook.yaml")
	if err := os.WriteFile(path, []byte("codec: vp8\nfps: 60\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("FLIPBOOK_CODEC", "mjpeg")
	t.Setenv("FLIPBOOK_FPS", "24")

	o, err := LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	if o.Codec != "mjpeg" {
		t.Errorf("Codec = %q, want env override mjpeg", o.Codec)
	}
	if o.FPS != 24 {
		t.Errorf("FPS = %f, want env override 24", o.FPS)
	}
}

func TestLoadOptionsErrors(t *testing.T) {
	if _, err := LoadOptions(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadOptions with missing file succeeded, want error")
	}

	path := filepath.Join(t.TempDir(), "flipbook.yaml")
	if err := os.WriteFile(path, []byte("mode: bogus\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadOptions(path); err == nil {
		t.Error("LoadOptions with unknown mode succeeded, want error")
	}
}
