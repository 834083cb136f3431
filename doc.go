// Package flipbook turns manually captured snapshots of a node/edge diagram
// into a smoothly animated video.
//
// The host application builds a polymer graph however it likes; flipbook only
// consumes plain [GraphState] snapshots. A [Session] collects snapshots as
// cels, each with a caller-chosen transition duration, and Encode synthesizes
// a video whose frames interpolate node positions and the appearance and
// disappearance of edges and arrows between cels — including across a
// periodically wrapped (toroidal) coordinate space.
//
// # Quick start
//
//	sess := flipbook.NewSession(flipbook.Options{
//		Width: 640, Height: 480,
//		GraphSource: func() *flipbook.GraphState { return myGraph },
//		Render:      flipbook.DrawGraph,
//		Encoder:     flipbook.NewMJPEGEncoder(),
//	})
//	sess.Start()
//	sess.CaptureCel(0)
//	// ... mutate myGraph ...
//	sess.CaptureCel(500)
//	blob, err := sess.Encode(ctx, true)
//
// # Pipeline
//
// Encode diffs consecutive cels ([DiffStates]), interpolates node layouts
// through a wrap-around [Space] ([Interpolator]), builds per-instant scenes
// with partial drawables for elements mid-transition ([BuildScene]), maps the
// resulting variable-duration logical frames onto a fixed-rate output stream
// ([FrameAccumulator]), and drives a [VideoEncoder] through an
// [EncoderAdapter] that owns the offscreen render target and codec
// negotiation. A reference Motion-JPEG encoder ([MJPEGEncoder]) produces a
// playable AVI without external binaries.
//
// Rendering uses [Ebitengine]; easing curves come from [gween].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package flipbook
