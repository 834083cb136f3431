package flipbook

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image/jpeg"
	"math"
)

// MJPEGEncoder is the built-in reference VideoEncoder: Motion-JPEG frames in
// an AVI/RIFF container. Pure Go — no cgo, no external binaries — and playable
// by every mainstream player. It buffers encoded frames internally and
// delivers the whole container from Finish, so Encode returns nil chunks.
//
// Supports the "mjpeg" codec and the empty default, which also makes it the
// terminal fallback of the adapter's negotiation chain.
type MJPEGEncoder struct {
	// Quality overrides the JPEG quality (1-100). Zero derives a quality
	// from the negotiated bitrate.
	Quality int

	cfg    StreamConfig
	began  bool
	frames [][]byte
}

// NewMJPEGEncoder returns an encoder ready for adapter negotiation.
func NewMJPEGEncoder() *MJPEGEncoder {
	return &MJPEGEncoder{}
}

// Supports reports true for "mjpeg" and the default codec.
func (m *MJPEGEncoder) Supports(codec string) bool {
	return codec == "mjpeg" || codec == ""
}

// OnDemand reports true: each frame is encoded when requested.
func (m *MJPEGEncoder) OnDemand() bool {
	return true
}

// Begin opens the stream.
func (m *MJPEGEncoder) Begin(cfg StreamConfig) error {
	if m.began {
		return fmt.Errorf("mjpeg begin: %w", ErrEncoderUninitialized)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("mjpeg begin: invalid frame size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FPS <= 0 {
		cfg.FPS = 30
	}
	m.cfg = cfg
	m.began = true
	return nil
}

// Encode compresses one premultiplied RGBA frame to JPEG and buffers it.
func (m *MJPEGEncoder) Encode(pix []byte) ([]byte, error) {
	if !m.began {
		return nil, fmt.Errorf("mjpeg encode before begin: %w", ErrEncoderUninitialized)
	}
	img := unpremultiply(pix, m.cfg.Width, m.cfg.Height)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: m.quality()}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	m.frames = append(m.frames, buf.Bytes())
	return nil, nil
}

// Finish assembles the buffered frames into a complete AVI file.
func (m *MJPEGEncoder) Finish() ([]byte, error) {
	if !m.began {
		return nil, fmt.Errorf("mjpeg finish before begin: %w", ErrEncoderUninitialized)
	}
	blob := buildAVI(m.cfg, m.frames)
	m.began = false
	m.frames = nil
	return blob, nil
}

// quality maps the negotiated bitrate onto a JPEG quality when no explicit
// Quality is set. The mapping is a coarse perceptual fit, not rate control.
func (m *MJPEGEncoder) quality() int {
	if m.Quality > 0 {
		if m.Quality > 100 {
			return 100
		}
		return m.Quality
	}
	if m.cfg.BitsPerSecond <= 0 {
		return 90
	}
	bpp := float64(m.cfg.BitsPerSecond) / (m.cfg.FPS * float64(m.cfg.Width*m.cfg.Height))
	q := int(math.Round(50 + 25*bpp))
	if q < 50 {
		q = 50
	}
	if q > 95 {
		q = 95
	}
	return q
}

// --- AVI/RIFF container ---

// buildAVI writes a minimal single-video-stream AVI: hdrl (avih + strl),
// movi with one 00dc chunk per frame, and an idx1 index so players can seek.
func buildAVI(cfg StreamConfig, frames [][]byte) []byte {
	const (
		avihFlagHasIndex = 0x00000010
		idx1KeyFrame     = 0x00000010
	)
	microPerFrame := uint32(math.Round(1e6 / cfg.FPS))
	rate := uint32(math.Round(cfg.FPS * 1000))

	maxFrame := 0
	for _, f := range frames {
		if len(f) > maxFrame {
			maxFrame = len(f)
		}
	}

	// avih — main AVI header.
	var avih bytes.Buffer
	u32 := func(w *bytes.Buffer, v uint32) { _ = binary.Write(w, binary.LittleEndian, v) }
	u32(&avih, microPerFrame)
	u32(&avih, uint32(cfg.BitsPerSecond/8))
	u32(&avih, 0) // padding granularity
	u32(&avih, avihFlagHasIndex)
	u32(&avih, uint32(len(frames)))
	u32(&avih, 0) // initial frames
	u32(&avih, 1) // streams
	u32(&avih, uint32(maxFrame))
	u32(&avih, uint32(cfg.Width))
	u32(&avih, uint32(cfg.Height))
	avih.Write(make([]byte, 16)) // reserved

	// strh — video stream header.
	var strh bytes.Buffer
	strh.WriteString("vids")
	strh.WriteString("MJPG")
	u32(&strh, 0) // flags
	u32(&strh, 0) // priority + language
	u32(&strh, 0) // initial frames
	u32(&strh, 1000)
	u32(&strh, rate)
	u32(&strh, 0) // start
	u32(&strh, uint32(len(frames)))
	u32(&strh, uint32(maxFrame))
	u32(&strh, 0xFFFFFFFF) // quality: default
	u32(&strh, 0)          // sample size
	u32(&strh, 0)          // rcFrame left/top
	u32(&strh, uint32(cfg.Width)|uint32(cfg.Height)<<16)

	// strf — BITMAPINFOHEADER.
	var strf bytes.Buffer
	u32(&strf, 40)
	u32(&strf, uint32(cfg.Width))
	u32(&strf, uint32(cfg.Height))
	u32(&strf, 1|24<<16) // planes | bit count
	strf.WriteString("MJPG")
	u32(&strf, uint32(3*cfg.Width*cfg.Height))
	u32(&strf, 0)
	u32(&strf, 0)
	u32(&strf, 0)
	u32(&strf, 0)

	strl := riffList("strl", riffChunk("strh", strh.Bytes()), riffChunk("strf", strf.Bytes()))
	hdrl := riffList("hdrl", riffChunk("avih", avih.Bytes()), strl)

	// movi — frame chunks, with idx1 offsets relative to the "movi" fourcc.
	var movi bytes.Buffer
	var idx1 bytes.Buffer
	offset := uint32(4) // past the "movi" fourcc
	for _, f := range frames {
		chunk := riffChunk("00dc", f)
		idx1.WriteString("00dc")
		u32(&idx1, idx1KeyFrame)
		u32(&idx1, offset)
		u32(&idx1, uint32(len(f)))
		movi.Write(chunk)
		offset += uint32(len(chunk))
	}
	moviList := riffList("movi", movi.Bytes())

	body := make([]byte, 0, len(hdrl)+len(moviList)+idx1.Len()+16)
	body = append(body, []byte("AVI ")...)
	body = append(body, hdrl...)
	body = append(body, moviList...)
	body = append(body, riffChunk("idx1", idx1.Bytes())...)

	var out bytes.Buffer
	out.WriteString("RIFF")
	u32(&out, uint32(len(body)))
	out.Write(body)
	return out.Bytes()
}

// riffChunk frames data as fourcc + size + data, padded to even length.
func riffChunk(fourcc string, data []byte) []byte {
	var b bytes.Buffer
	b.WriteString(fourcc)
	_ = binary.Write(&b, binary.LittleEndian, uint32(len(data)))
	b.Write(data)
	if len(data)%2 == 1 {
		b.WriteByte(0)
	}
	return b.Bytes()
}

// riffList frames parts as LIST + size + type + parts.
func riffList(listType string, parts ...[]byte) []byte {
	size := 4
	for _, p := range parts {
		size += len(p)
	}
	var b bytes.Buffer
	b.WriteString("LIST")
	_ = binary.Write(&b, binary.LittleEndian, uint32(size))
	b.WriteString(listType)
	for _, p := range parts {
		b.Write(p)
	}
	return b.Bytes()
}
