package flipbook

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// LogicalFrame is one unit of animation work with its own duration,
// independent of the output video frame rate. Render executes exactly once
// per encode, even when the duration is too short for the frame to be
// captured on its own (the rendered state persists on the target and is
// picked up by the next capture).
type LogicalFrame struct {
	Render     func(target *ebiten.Image)
	DurationMs float64
}

// FrameSink receives capture requests from a FrameAccumulator. EncoderAdapter
// is the production implementation; tests substitute fakes. Keeping the sink
// behind an interface keeps the accumulator's time accounting device-agnostic.
type FrameSink interface {
	// Target is the surface logical frames render onto.
	Target() *ebiten.Image
	// WaitPresent suspends until the target's latest render is presented.
	WaitPresent(ctx context.Context) error
	// CaptureFrames requests n discrete encoded frames of the target's
	// current contents.
	CaptureFrames(ctx context.Context, n int) error
}

// AccumulatorState tracks the accumulator lifecycle.
type AccumulatorState uint8

const (
	AccumIdle     AccumulatorState = iota // created, Run not yet called
	AccumRunning                          // processing logical frames
	AccumDraining                         // frames done, waiting for encoder flush
	AccumDone                             // Drain completed
)

// defaultGraceDelay is how long Drain waits for the encoder to flush pending
// data before the caller finalizes.
const defaultGraceDelay = 300 * time.Millisecond

// FrameAccumulator maps a sequence of logical frames, each with an arbitrary
// duration, onto a fixed-rate output frame stream. Every logical frame's
// render callback executes exactly once, in order, and the number of captured
// output frames matches accumulated time to within one frame interval.
//
// Single-threaded cooperative: the only suspension points are the sink's
// WaitPresent and the Drain grace period. Context cancellation is observed
// between logical frames only, never between a frame's render and its capture
// requests, so a rendered frame is always accounted for.
type FrameAccumulator struct {
	// GraceDelay overrides the Drain flush wait. Zero means the default.
	GraceDelay time.Duration
	// OnProgress, when set, is invoked once per logical frame processed.
	OnProgress func(current, total int)

	fps         float64
	msPerFrame  float64
	sink        FrameSink
	state       AccumulatorState
	accumulated float64
	emitted     int
}

// NewFrameAccumulator creates an accumulator that emits output frames at the
// given rate into sink.
func NewFrameAccumulator(fps float64, sink FrameSink) *FrameAccumulator {
	if fps <= 0 {
		fps = 30
	}
	return &FrameAccumulator{
		fps:        fps,
		msPerFrame: 1000 / fps,
		sink:       sink,
	}
}

// State returns the current lifecycle state.
func (fa *FrameAccumulator) State() AccumulatorState {
	return fa.state
}

// FramesEmitted returns the number of output frame captures requested so far.
func (fa *FrameAccumulator) FramesEmitted() int {
	return fa.emitted
}

// Run executes every logical frame in order. For each frame: the render
// callback runs unconditionally, the frame's duration is added to the
// accumulated time, and floor(accumulated/msPerFrame) captures are requested
// after a single WaitPresent suspension. Frames shorter than the output
// interval are merged into the next eligible capture.
func (fa *FrameAccumulator) Run(ctx context.Context, frames []LogicalFrame) error {
	if fa.state != AccumIdle {
		return fmt.Errorf("accumulator run in state %d: %w", fa.state, ErrAccumulatorOutOfOrder)
	}
	fa.state = AccumRunning

	total := len(frames)
	for i, frame := range frames {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("encode canceled at frame %d/%d: %w", i, total, err)
		}

		if frame.Render != nil {
			frame.Render(fa.sink.Target())
		}
		fa.accumulated += frame.DurationMs

		if n := int(math.Floor(fa.accumulated / fa.msPerFrame)); n >= 1 {
			if err := fa.sink.WaitPresent(ctx); err != nil {
				return fmt.Errorf("present sync: %w", err)
			}
			if err := fa.sink.CaptureFrames(ctx, n); err != nil {
				return fmt.Errorf("capture %d frames: %w", n, err)
			}
			fa.accumulated -= float64(n) * fa.msPerFrame
			fa.emitted += n
		}

		if fa.OnProgress != nil {
			fa.OnProgress(i+1, total)
		}
	}

	fa.state = AccumDraining
	return nil
}

// Drain waits the grace period for the encoder to flush pending data. Must be
// called after Run; the adapter's Stop/Finalize follow it.
func (fa *FrameAccumulator) Drain(ctx context.Context) error {
	if fa.state != AccumDraining {
		return fmt.Errorf("accumulator drain in state %d: %w", fa.state, ErrAccumulatorOutOfOrder)
	}
	grace := fa.GraceDelay
	if grace == 0 {
		grace = defaultGraceDelay
	}
	if err := sleepCtx(ctx, grace); err != nil {
		return fmt.Errorf("drain: %w", err)
	}
	fa.state = AccumDone
	return nil
}

// sleepCtx sleeps for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
