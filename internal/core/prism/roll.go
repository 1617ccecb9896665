package prism

import (
	"context"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/htmlbox/internal/core/observability/log"
	"github.com/zeusync/htmlbox/internal/core/orientation"
	"github.com/zeusync/htmlbox/pkg/geometry"
)

// Roll is a planned quarter turn about one floor edge of the prism.
type Roll struct {
	Axis         geometry.Axis
	Positive     bool
	Start        mgl64.Vec3 // centre before the roll
	Pivot        mgl64.Vec3
	RotationAxis mgl64.Vec3
	Angle        float64 // total signed angle
	StepAngle    float64
	Steps        int
	From         orientation.Orientation
	To           orientation.Orientation
	Before       orientation.Dimensions
	After        orientation.Dimensions
	End          mgl64.Vec3 // snapped centre after the roll
	Displacement mgl64.Vec3
}

// Result is returned by Perform and delivered by MoveAsync.
type Result struct {
	Displacement mgl64.Vec3
	Orientation  orientation.Orientation
	Err          error
}

// PlanRoll computes the roll Move would perform from the current state
// without changing anything.
func (p *Prism) PlanRoll(axis geometry.Axis, positive bool) (Roll, error) {
	perp, err := geometry.Perpendicular(axis)
	if err != nil {
		return Roll{}, ErrUnsupportedAxis
	}
	rotAxis, err := geometry.RotationAxisVector(axis)
	if err != nil {
		return Roll{}, ErrUnsupportedAxis
	}

	pos, rot := p.root.Transform()
	before, from := p.footprintFor(rot)

	sign := geometry.Sign(positive)
	rs := geometry.RotationSign(axis)
	along, across := footprintAlong(before, axis), footprintAlong(before, perp)

	pivot := geometry.WithComponent(pos, axis, geometry.Component(pos, axis)+sign*along/2)
	pivot = geometry.WithComponent(pivot, perp, geometry.Component(pos, perp)+sign*rs*across/2)
	pivot = geometry.WithComponent(pivot, geometry.AxisY, p.cfg.Ground.Y())

	angle := rs * sign * math.Pi / 2
	endPos, endRot := geometry.RotateAround(pos, rot, pivot, rotAxis, angle)
	endPos = geometry.SnapVec(endPos, p.cfg.SnapDecimals)
	after, to := p.footprintFor(endRot)

	return Roll{
		Axis:         axis,
		Positive:     positive,
		Start:        pos,
		Pivot:        pivot,
		RotationAxis: rotAxis,
		Angle:        angle,
		StepAngle:    angle / float64(p.cfg.Steps),
		Steps:        p.cfg.Steps,
		From:         from,
		To:           to,
		Before:       before,
		After:        after,
		End:          endPos,
		Displacement: endPos.Sub(pos),
	}, nil
}

func footprintAlong(d orientation.Dimensions, axis geometry.Axis) float64 {
	if axis == geometry.AxisX {
		return d.X
	}
	return d.Z
}

// Move rolls the prism one footprint length along axis and returns the
// displacement of its centre. A move while another roll is in flight is
// dropped and returns a zero displacement with a nil error.
//
// Every step waits StepDuration. Cancelling ctx does not leave the prism
// half turned: the remaining steps are applied without waiting.
func (p *Prism) Move(ctx context.Context, axis geometry.Axis, positive bool) (mgl64.Vec3, error) {
	res := p.Perform(ctx, axis, positive)
	return res.Displacement, res.Err
}

// Perform is Move reporting the orientation its own roll ended in. A dropped
// move reports the current pose, which may be mid-roll and so UNKNOWN.
func (p *Prism) Perform(ctx context.Context, axis geometry.Axis, positive bool) Result {
	if axis != geometry.AxisX && axis != geometry.AxisZ {
		return Result{Orientation: p.Orientation(), Err: ErrUnsupportedAxis}
	}
	if !p.canMove.CompareAndSwap(true, false) {
		p.logger.Debug("Move dropped, roll in progress", log.Stringer("axis", axis), log.Bool("positive", positive))
		p.publish(EventRollRejected, RollEvent{Axis: axis, Positive: positive, Position: p.Position(), Rotation: p.Rotation()})
		return Result{Orientation: p.Orientation()}
	}
	defer p.canMove.Store(true)

	roll, err := p.PlanRoll(axis, positive)
	if err != nil {
		return Result{Orientation: p.Orientation(), Err: err}
	}

	started := time.Now()
	p.logger.Debug("Roll started",
		log.Stringer("axis", axis),
		log.Bool("positive", positive),
		log.Stringer("from", roll.From),
		log.Vec3("pivot", roll.Pivot),
	)
	p.publish(EventRollStarted, RollEvent{
		Axis: axis, Positive: positive, Steps: roll.Steps,
		Position: roll.Start, Rotation: p.Rotation(),
		Orientation: roll.From, Footprint: roll.Before,
	})

	interrupted := p.animate(ctx, roll)

	pos, rot := p.root.Transform()
	rot = rot.Normalize()
	pos = geometry.SnapVec(pos, p.cfg.SnapDecimals)
	p.root.SetTransform(pos, rot)

	final, o := p.footprintFor(rot)
	displacement := pos.Sub(roll.Start)

	p.logger.Info("Roll finished",
		log.Stringer("axis", axis),
		log.Bool("positive", positive),
		log.Stringer("orientation", o),
		log.Vec3("position", pos),
		log.Vec3("displacement", displacement),
		log.Duration("took", time.Since(started)),
		log.Bool("interrupted", interrupted),
	)
	p.publish(EventRollFinished, RollEvent{
		Axis: axis, Positive: positive, Steps: roll.Steps,
		Position: pos, Rotation: rot, Orientation: o, Footprint: final,
		Displacement: displacement, Interrupted: interrupted,
	})
	return Result{Displacement: displacement, Orientation: o}
}

// animate applies the roll in roll.Steps increments and reports whether ctx
// ended before the last one.
func (p *Prism) animate(ctx context.Context, roll Roll) bool {
	var ticker *time.Ticker
	if p.cfg.StepDuration > 0 {
		ticker = time.NewTicker(p.cfg.StepDuration)
		defer ticker.Stop()
	}

	interrupted := false
	for i := 1; i <= roll.Steps; i++ {
		if ticker != nil && !interrupted {
			select {
			case <-ctx.Done():
				interrupted = true
				p.logger.Warn("Roll interrupted, finishing without delay",
					log.Int("step", i),
					log.Error(ctx.Err()),
				)
			case <-ticker.C:
			}
		}

		p.root.RotateAround(roll.Pivot, roll.RotationAxis, roll.StepAngle)
		pos, rot := p.root.Transform()
		p.publish(EventRollStep, RollEvent{
			Axis: roll.Axis, Positive: roll.Positive,
			Step: i, Steps: roll.Steps,
			Position: pos, Rotation: rot,
			Interrupted: interrupted,
		})
	}
	return interrupted
}

// MoveAsync runs Move in a new goroutine. The channel receives exactly one
// Result and is then closed.
func (p *Prism) MoveAsync(ctx context.Context, axis geometry.Axis, positive bool) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		ch <- p.Perform(ctx, axis, positive)
	}()
	return ch
}

func (p *Prism) MoveXPositive(ctx context.Context) (mgl64.Vec3, error) {
	return p.Move(ctx, geometry.AxisX, true)
}

func (p *Prism) MoveXNegative(ctx context.Context) (mgl64.Vec3, error) {
	return p.Move(ctx, geometry.AxisX, false)
}

func (p *Prism) MoveZPositive(ctx context.Context) (mgl64.Vec3, error) {
	return p.Move(ctx, geometry.AxisZ, true)
}

func (p *Prism) MoveZNegative(ctx context.Context) (mgl64.Vec3, error) {
	return p.Move(ctx, geometry.AxisZ, false)
}
