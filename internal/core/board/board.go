package board

import (
	"context"
	"errors"

	"github.com/zeusync/htmlbox/internal/core/grid"
	"github.com/zeusync/htmlbox/internal/core/observability/log"
	"github.com/zeusync/htmlbox/internal/core/orientation"
	"github.com/zeusync/htmlbox/internal/core/prism"
)

// ErrOffGrid is returned when a gated roll would leave the tiled floor.
var ErrOffGrid = errors.New("roll would leave the grid")

// Board ties a prism to the floor it rolls on. It is the surface the CLI and
// the WebSocket bridge drive.
type Board struct {
	prism  *prism.Prism
	grid   *grid.Grid
	gate   bool
	logger log.Log
}

// New creates a board. With gate set, rolls whose landing footprint is not
// fully tiled are refused with ErrOffGrid.
func New(p *prism.Prism, g *grid.Grid, gate bool, logger log.Log) *Board {
	return &Board{
		prism:  p,
		grid:   g,
		gate:   gate && g != nil,
		logger: log.OrNop(logger).With(log.String("component", "board")),
	}
}

func (b *Board) Prism() *prism.Prism { return b.prism }
func (b *Board) Grid() *grid.Grid    { return b.grid }

// Move rolls the prism one cell in d. The returned Result carries the
// displacement; a dropped move yields a zero displacement and a nil error.
func (b *Board) Move(ctx context.Context, d Direction) prism.Result {
	if err := b.check(d); err != nil {
		return prism.Result{Orientation: b.prism.Orientation(), Err: err}
	}
	return b.prism.Perform(ctx, d.Axis, d.Positive)
}

// MoveAsync runs Move in its own goroutine.
func (b *Board) MoveAsync(ctx context.Context, d Direction) <-chan prism.Result {
	ch := make(chan prism.Result, 1)
	go func() {
		defer close(ch)
		ch <- b.Move(ctx, d)
	}()
	return ch
}

func (b *Board) check(d Direction) error {
	if !b.gate || !b.prism.CanMove() {
		return nil
	}
	roll, err := b.prism.PlanRoll(d.Axis, d.Positive)
	if err != nil {
		return err
	}
	hx, hz := roll.After.X/2, roll.After.Z/2
	if !b.grid.Covers(roll.End.X()-hx, roll.End.Z()-hz, roll.End.X()+hx, roll.End.Z()+hz) {
		b.logger.Debug("Roll refused, landing off grid",
			log.Stringer("direction", d),
			log.Vec3("end", roll.End),
		)
		return ErrOffGrid
	}
	return nil
}

// State is a snapshot of the prism at rest or mid-roll.
type State struct {
	Prism       string                  `json:"prism"`
	Position    [3]float64              `json:"position"`
	Rotation    [4]float64              `json:"rotation"` // x, y, z, w
	Orientation orientation.Orientation `json:"-"`
	Face        string                  `json:"face"`
	Turns       int                     `json:"turns"`
	Footprint   orientation.Dimensions  `json:"footprint"`
	Moving      bool                    `json:"moving"`
	Tiles       [][2]int                `json:"tiles,omitempty"`
}

// State captures the current prism transform and, when a grid is attached,
// the occupied cells.
func (b *Board) State() State {
	pos, rot := b.prism.Root().Transform()
	o := b.prism.Orientation()
	s := State{
		Prism:       b.prism.Name(),
		Position:    [3]float64(pos),
		Rotation:    [4]float64{rot.V[0], rot.V[1], rot.V[2], rot.W},
		Orientation: o,
		Face:        o.Face.String(),
		Turns:       o.QuarterTurns(),
		Footprint:   b.prism.Footprint(),
		Moving:      !b.prism.CanMove(),
	}
	if b.grid != nil {
		s.Tiles = b.grid.Occupied()
	}
	return s
}
