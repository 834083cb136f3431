package flipbook

import (
	"errors"
	"reflect"
	"testing"
)

// fakeEncoder records negotiation and lifecycle calls.
type fakeEncoder struct {
	supported     map[string]bool
	supportsCalls []string
	beginCfg      StreamConfig
	beginCalls    int
	beginErr      error
	finishChunk   []byte
	finishCalls   int
}

func (f *fakeEncoder) Supports(codec string) bool {
	f.supportsCalls = append(f.supportsCalls, codec)
	return f.supported[codec]
}

func (f *fakeEncoder) Begin(cfg StreamConfig) error {
	f.beginCalls++
	f.beginCfg = cfg
	return f.beginErr
}

func (f *fakeEncoder) Encode(pix []byte) ([]byte, error) { return nil, nil }

func (f *fakeEncoder) Finish() ([]byte, error) {
	f.finishCalls++
	return f.finishChunk, nil
}

func (f *fakeEncoder) OnDemand() bool { return true }

func TestCodecCandidates(t *testing.T) {
	tests := []struct {
		preferred string
		want      []string
	}{
		{"h264", []string{"h264", "vp8", ""}},
		{"vp8", []string{"vp8", ""}},
		{"", []string{"", "vp8"}},
		{"mjpeg", []string{"mjpeg", "vp8", ""}},
	}
	for _, tt := range tests {
		got := codecCandidates(tt.preferred)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("codecCandidates(%q) = %v, want %v", tt.preferred, got, tt.want)
		}
	}
}

func TestAdapterNegotiatesDownFallbackChain(t *testing.T) {
	enc := &fakeEncoder{supported: map[string]bool{"vp8": true}}
	ad := NewEncoderAdapter(enc, EncoderConfig{Codec: "h264", FPS: 30})

	if err := ad.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if ad.Codec() != "vp8" {
		t.Errorf("negotiated codec = %q, want vp8", ad.Codec())
	}
	// The preferred codec must be probed before the fallbacks.
	want := []string{"h264", "vp8"}
	if !reflect.DeepEqual(enc.supportsCalls, want) {
		t.Errorf("Supports call order = %v, want %v", enc.supportsCalls, want)
	}
}

func TestAdapterUnsupportedCodecFailsBeforeAllocation(t *testing.T) {
	enc := &fakeEncoder{supported: map[string]bool{}}
	ad := NewEncoderAdapter(enc, EncoderConfig{Codec: "h264", FPS: 30})

	err := ad.Initialize()
	if !errors.Is(err, ErrEncoderUnsupported) {
		t.Fatalf("Initialize = %v, want ErrEncoderUnsupported", err)
	}
	if ad.Target() != nil {
		t.Error("target allocated despite failed negotiation")
	}
	if ad.Phase() != EncoderUninitialized {
		t.Errorf("phase after failed negotiation = %d, want uninitialized", ad.Phase())
	}
}

func TestAdapterLifecycleOrdering(t *testing.T) {
	enc := &fakeEncoder{supported: map[string]bool{"mjpeg": true}}
	ad := NewEncoderAdapter(enc, EncoderConfig{Codec: "mjpeg", FPS: 30})

	if err := ad.Start(); !errors.Is(err, ErrEncoderUninitialized) {
		t.Errorf("Start before Initialize = %v, want ErrEncoderUninitialized", err)
	}
	if err := ad.Stop(); !errors.Is(err, ErrEncoderUninitialized) {
		t.Errorf("Stop before Start = %v, want ErrEncoderUninitialized", err)
	}
	if _, err := ad.Finalize(); !errors.Is(err, ErrEncoderUninitialized) {
		t.Errorf("Finalize before Stop = %v, want ErrEncoderUninitialized", err)
	}

	if err := ad.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := ad.Initialize(); !errors.Is(err, ErrEncoderUninitialized) {
		t.Errorf("second Initialize = %v, want ErrEncoderUninitialized", err)
	}

	if err := ad.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if enc.beginCalls != 1 {
		t.Errorf("Begin calls = %d, want 1", enc.beginCalls)
	}
	if err := ad.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if enc.finishCalls != 1 {
		t.Errorf("Finish calls = %d, want 1", enc.finishCalls)
	}
	if ad.Phase() != EncoderStopped {
		t.Errorf("phase after Stop = %d, want stopped", ad.Phase())
	}
}

func TestAdapterDefaultsOutputSize(t *testing.T) {
	enc := &fakeEncoder{supported: map[string]bool{"": true}}
	ad := NewEncoderAdapter(enc, EncoderConfig{FPS: 30})

	if err := ad.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := ad.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if enc.beginCfg.Width != 640 || enc.beginCfg.Height != 480 {
		t.Errorf("stream size = %dx%d, want 640x480", enc.beginCfg.Width, enc.beginCfg.Height)
	}
	if enc.beginCfg.FPS != 30 {
		t.Errorf("stream fps = %f, want 30", enc.beginCfg.FPS)
	}
}

func TestAdapterFinalizeJoinsChunksAndReleasesTarget(t *testing.T) {
	enc := &fakeEncoder{
		supported:   map[string]bool{"mjpeg": true},
		finishChunk: []byte("tail"),
	}
	ad := NewEncoderAdapter(enc, EncoderConfig{Codec: "mjpeg", FPS: 30, Width: 8, Height: 8})

	if err := ad.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := ad.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	ad.chunks = append(ad.chunks, []byte("head-"), []byte("mid-"))
	if err := ad.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	blob, err := ad.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if string(blob) != "head-mid-tail" {
		t.Errorf("blob = %q, want chunks joined in delivery order", blob)
	}
	if ad.Target() != nil {
		t.Error("target not released after Finalize")
	}

	// Release after Finalize is a harmless no-op.
	ad.Release()
}

func TestAdapterReleaseFreesAbandonedTarget(t *testing.T) {
	enc := &fakeEncoder{supported: map[string]bool{"mjpeg": true}}
	ad := NewEncoderAdapter(enc, EncoderConfig{Codec: "mjpeg", FPS: 30, Width: 8, Height: 8})

	if err := ad.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := ad.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// The encode failed upstream and the owner walks away mid-recording:
	// the target must not stay allocated until GC.
	ad.Release()
	if ad.Target() != nil {
		t.Error("target still held after Release")
	}
	ad.Release()
}
