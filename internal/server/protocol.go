package server

import (
	"fmt"

	"github.com/zeusync/htmlbox/internal/core/board"
	"github.com/zeusync/htmlbox/internal/core/orientation"
	"github.com/zeusync/htmlbox/internal/core/prism"
	"github.com/zeusync/htmlbox/pkg/encoding"
)

// Client actions.
const (
	ActionMove  = "move"
	ActionState = "state"
)

// Frame types sent to clients.
const (
	FrameStep     = "step"
	FrameFinished = "finished"
	FrameState    = "state"
	FrameRejected = "rejected"
	FrameError    = "error"
)

// Rejection reasons.
const (
	ReasonBusy    = "busy"
	ReasonOffGrid = "off_grid"
)

var (
	_ encoding.Serializable = (*Command)(nil)
	_ encoding.Serializable = (*Frame)(nil)
)

// Command is a client request, e.g. {"action":"move","direction":"x+"}.
type Command struct {
	Action    string `json:"action"`
	Direction string `json:"direction,omitempty"`
}

func (c *Command) Serialize() ([]byte, error) { return encoding.MarshalJSON(c) }
func (c *Command) Deserialize(b []byte) error {
	if err := encoding.UnmarshalJSON(b, c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return nil
}

// Frame is a server message. Which fields are set depends on Type.
type Frame struct {
	Type         string                  `json:"type"`
	Prism        string                  `json:"prism,omitempty"`
	Direction    string                  `json:"direction,omitempty"`
	Step         int                     `json:"step,omitempty"`
	Steps        int                     `json:"steps,omitempty"`
	Position     *[3]float64             `json:"position,omitempty"`
	Rotation     *[4]float64             `json:"rotation,omitempty"` // x, y, z, w
	Orientation  string                  `json:"orientation,omitempty"`
	Footprint    *orientation.Dimensions `json:"footprint,omitempty"`
	Displacement *[3]float64             `json:"displacement,omitempty"`
	Interrupted  bool                    `json:"interrupted,omitempty"`
	State        *board.State            `json:"state,omitempty"`
	Reason       string                  `json:"reason,omitempty"`
	Error        string                  `json:"error,omitempty"`
}

func (f *Frame) Serialize() ([]byte, error) { return encoding.MarshalJSON(f) }
func (f *Frame) Deserialize(b []byte) error  { return encoding.UnmarshalJSON(b, f) }

func rollFrame(typ string, ev prism.RollEvent) Frame {
	dir := board.Direction{Axis: ev.Axis, Positive: ev.Positive}
	pos := [3]float64(ev.Position)
	rot := [4]float64{ev.Rotation.V[0], ev.Rotation.V[1], ev.Rotation.V[2], ev.Rotation.W}
	f := Frame{
		Type:        typ,
		Prism:       ev.Prism,
		Direction:   dir.String(),
		Step:        ev.Step,
		Steps:       ev.Steps,
		Position:    &pos,
		Rotation:    &rot,
		Interrupted: ev.Interrupted,
	}
	switch typ {
	case FrameFinished:
		disp := [3]float64(ev.Displacement)
		fp := ev.Footprint
		f.Displacement = &disp
		f.Footprint = &fp
		f.Orientation = ev.Orientation.String()
	case FrameRejected:
		f.Reason = ReasonBusy
	}
	return f
}

func stateFrame(s board.State) Frame {
	return Frame{Type: FrameState, Prism: s.Prism, Orientation: s.Orientation.String(), State: &s}
}

func errorFrame(err error) Frame {
	return Frame{Type: FrameError, Error: err.Error()}
}
