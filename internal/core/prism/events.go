package prism

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/htmlbox/internal/core/events/bus"
	"github.com/zeusync/htmlbox/internal/core/observability/log"
	"github.com/zeusync/htmlbox/internal/core/orientation"
	"github.com/zeusync/htmlbox/pkg/geometry"
)

const (
	EventRollStarted  = "prism.roll.started"
	EventRollStep     = "prism.roll.step"
	EventRollFinished = "prism.roll.finished"
	EventRollRejected = "prism.roll.rejected"
)

// RollEvent is the payload of every prism.roll.* event.
type RollEvent struct {
	Prism        string
	Axis         geometry.Axis
	Positive     bool
	Step         int // 1-based; 0 outside prism.roll.step
	Steps        int
	Position     mgl64.Vec3
	Rotation     mgl64.Quat
	Orientation  orientation.Orientation
	Footprint    orientation.Dimensions
	Displacement mgl64.Vec3 // set on prism.roll.finished
	Interrupted  bool       // context was cancelled before the last step
}

func (p *Prism) publish(eventType string, ev RollEvent) {
	if p.bus == nil {
		return
	}
	ev.Prism = p.cfg.Name
	if err := p.bus.Publish(bus.NewEvent(eventType, p.cfg.Name, ev)); err != nil {
		p.logger.Warn("Roll event handler failed",
			log.String("event", eventType),
			log.Error(err),
		)
	}
}
