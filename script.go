package flipbook

import (
	"encoding/json"
	"fmt"
)

// storyStep represents a single action in a storyboard script.
type storyStep struct {
	Action     string      `json:"action"`
	DurationMs float64     `json:"durationMs,omitempty"`
	Frames     int         `json:"frames,omitempty"`
	Moves      []storyMove `json:"moves,omitempty"`
}

// storyMove relocates one node before a capture.
type storyMove struct {
	Node NodeID  `json:"node"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// storyboardScript is the top-level JSON structure for a storyboard.
type storyboardScript struct {
	Steps []storyStep `json:"steps"`
}

// Storyboard sequences scripted captures across host frames, for automated
// demos and tests. Call Step once per frame until Done.
//
// Supported actions: "capture" (apply moves to the graph, then CaptureCel
// with durationMs), "remove" (RemoveLastCel), "clear", and "wait" (idle for
// frames host frames).
type Storyboard struct {
	steps     []storyStep
	cursor    int
	waitCount int
	done      bool
}

// LoadStoryboard parses a JSON storyboard script.
func LoadStoryboard(jsonData []byte) (*Storyboard, error) {
	var script storyboardScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse storyboard: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse storyboard: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "capture", "remove", "clear", "wait":
		default:
			return nil, fmt.Errorf("parse storyboard: step %d has unknown action %q", i, st.Action)
		}
	}
	return &Storyboard{steps: script.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *Storyboard) Done() bool {
	return r.done
}

// Step executes the next due action against the session, mutating graph for
// capture moves. Call once per host frame; wait steps consume frames.
func (r *Storyboard) Step(sess *Session, graph *GraphState) error {
	if r.done {
		return nil
	}
	if r.waitCount > 0 {
		r.waitCount--
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "capture":
		for _, mv := range st.Moves {
			n, ok := graph.Nodes[mv.Node]
			if !ok {
				return fmt.Errorf("storyboard capture: unknown node %d", mv.Node)
			}
			n.X, n.Y = mv.X, mv.Y
		}
		if err := sess.CaptureCel(st.DurationMs); err != nil {
			return fmt.Errorf("storyboard capture: %w", err)
		}
	case "remove":
		sess.RemoveLastCel()
	case "clear":
		sess.Clear()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
	return nil
}
