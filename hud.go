package flipbook

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// HUD is a small corner overlay showing a session's cel count, recording
// state, and encode progress. The widget refreshes every ~0.5 seconds.
// Wire NoteProgress as the session's OnProgress callback to see encodes live.
type HUD struct {
	sess        *Session
	img         *ebiten.Image
	lastUpdate  float64
	curProgress int
	totProgress int
}

// NewHUD creates an overlay widget bound to the session.
func NewHUD(sess *Session) *HUD {
	// 140x48 is enough for three DebugPrint lines.
	return &HUD{
		sess: sess,
		img:  ebiten.NewImage(140, 48),
	}
}

// NoteProgress records encode progress. Suitable as Options.OnProgress.
func (h *HUD) NoteProgress(current, total int) {
	h.curProgress = current
	h.totProgress = total
}

// Update advances the refresh timer by dt seconds.
func (h *HUD) Update(dt float64) {
	h.lastUpdate += dt
	if h.lastUpdate < 0.5 {
		return
	}
	h.lastUpdate = 0

	h.img.Clear()
	// Semi-transparent background for readability
	h.img.Fill(color.RGBA{0, 0, 0, 128})

	state := "idle"
	if h.sess.Recording() {
		state = "rec"
	}
	ebitenutil.DebugPrint(h.img, fmt.Sprintf("cels: %d\nstate: %s\nencode: %d/%d",
		h.sess.CelCount(), state, h.curProgress, h.totProgress))
}

// Draw composites the widget onto the top-left of screen.
func (h *HUD) Draw(screen *ebiten.Image) {
	var op ebiten.DrawImageOptions
	screen.DrawImage(h.img, &op)
}
