package prism

import (
	"fmt"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/microcosm-cc/bluemonday"

	"github.com/zeusync/htmlbox/internal/core/events/bus"
	"github.com/zeusync/htmlbox/internal/core/observability/log"
	"github.com/zeusync/htmlbox/internal/core/orientation"
	"github.com/zeusync/htmlbox/internal/core/scene"
	"github.com/zeusync/htmlbox/pkg/geometry"
)

// Option configures optional collaborators of a Prism.
type Option func(*options)

type options struct {
	bus        bus.EventBus
	logger     log.Log
	faces      map[orientation.Face]FaceContent
	classifier orientation.Classifier
	policy     *bluemonday.Policy
}

// WithBus publishes roll events on b.
func WithBus(b bus.EventBus) Option {
	return func(o *options) { o.bus = b }
}

// WithLogger sets the logger.
func WithLogger(l log.Log) Option {
	return func(o *options) { o.logger = l }
}

// WithFaces sets face content. Faces missing from the map stay blank.
func WithFaces(faces map[orientation.Face]FaceContent) Option {
	return func(o *options) { o.faces = faces }
}

// WithClassifier overrides the orientation classifier.
func WithClassifier(c orientation.Classifier) Option {
	return func(o *options) { o.classifier = c }
}

// WithMarkupPolicy overrides the sanitizer applied to face markup.
func WithMarkupPolicy(p *bluemonday.Policy) Option {
	return func(o *options) { o.policy = p }
}

// Prism is a rectangular box that rolls across the floor one edge at a time.
// At most one roll runs at a time; a move requested while rolling is dropped.
type Prism struct {
	cfg        Config
	scene      *scene.Scene
	root       *scene.Node
	faces      []*Attachment
	classifier orientation.Classifier
	policy     *bluemonday.Policy

	bus    bus.EventBus
	logger log.Log

	canMove atomic.Bool
}

// New builds a prism in sc, resting on cfg.Ground.
func New(sc *scene.Scene, cfg Config, opts ...Option) (*Prism, error) {
	if sc == nil {
		return nil, ErrNilScene
	}
	if cfg.Name == "" {
		cfg.Name = DefaultConfig().Name
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{classifier: orientation.NewClassifier(geometry.DefaultEpsilon)}
	for _, opt := range opts {
		opt(&o)
	}
	if o.policy == nil {
		o.policy = newMarkupPolicy()
	}

	p := &Prism{
		cfg:        cfg,
		scene:      sc,
		classifier: o.classifier,
		policy:     o.policy,
		bus:        o.bus,
		logger:     log.OrNop(o.logger).With(log.String("component", "prism"), log.String("prism", cfg.Name)),
	}

	root, err := sc.CreateBox(cfg.Name, cfg.Extents())
	if err != nil {
		return nil, fmt.Errorf("create prism root: %w", err)
	}
	root.SetPosition(cfg.Ground.Add(mgl64.Vec3{0, cfg.Height / 2, 0}))
	root.SetVisible(false)
	p.root = root

	for _, face := range buildOrder {
		content, ok := o.faces[face]
		a, err := p.attachFace(face, content, ok && content.Markup != "")
		if err != nil {
			return nil, fmt.Errorf("attach %s face: %w", face, err)
		}
		p.faces = append(p.faces, a)
	}

	p.canMove.Store(true)
	p.logger.Info("Prism created",
		log.Vec3("extents", cfg.Extents()),
		log.Vec3("position", root.Position()),
		log.Int("steps", cfg.Steps),
		log.Duration("step_duration", cfg.StepDuration),
	)
	return p, nil
}

// Name returns the prism's root node name.
func (p *Prism) Name() string { return p.cfg.Name }

// Config returns the configuration the prism was built with.
func (p *Prism) Config() Config { return p.cfg }

// Root returns the invisible root node every face hangs from.
func (p *Prism) Root() *scene.Node { return p.root }

// CanMove reports whether the prism is idle.
func (p *Prism) CanMove() bool { return p.canMove.Load() }

// Position returns the centre of the prism.
func (p *Prism) Position() mgl64.Vec3 { return p.root.Position() }

// Rotation returns the accumulated rotation.
func (p *Prism) Rotation() mgl64.Quat { return p.root.Rotation() }

// Orientation classifies the current rotation.
func (p *Prism) Orientation() orientation.Orientation {
	return p.classifier.Classify(p.root.Rotation())
}

// Faces returns the attachments in build order.
func (p *Prism) Faces() []*Attachment {
	out := make([]*Attachment, len(p.faces))
	copy(out, p.faces)
	return out
}

// Face returns the attachment for f.
func (p *Prism) Face(f orientation.Face) (*Attachment, bool) {
	for _, a := range p.faces {
		if a.Face == f {
			return a, true
		}
	}
	return nil, false
}

// Footprint returns the world-aligned extents of the prism at rest. When the
// rotation does not classify, the rotated bounding box is used instead.
func (p *Prism) Footprint() orientation.Dimensions {
	d, _ := p.footprintFor(p.root.Rotation())
	return d
}

// BottomFaceDimensions returns the extents of the face on the floor along
// world X and Z. ok is false when the orientation is unknown.
func (p *Prism) BottomFaceDimensions() (x, z float64, ok bool) {
	d, ok := orientation.Footprint(p.Orientation(), p.cfg.Width, p.cfg.Height, p.cfg.Depth)
	return d.X, d.Z, ok
}

// BottomFace returns the attachment touching the floor. For an unknown
// orientation it falls back to the lowest face.
func (p *Prism) BottomFace() *Attachment {
	if o := p.Orientation(); o.Valid() {
		if a, ok := p.Face(o.Face); ok {
			return a
		}
	}
	var lowest *Attachment
	lowestY := 0.0
	for _, a := range p.faces {
		y := a.Node.WorldPosition().Y()
		if lowest == nil || y < lowestY {
			lowest, lowestY = a, y
		}
	}
	return lowest
}

func (p *Prism) footprintFor(rot mgl64.Quat) (orientation.Dimensions, orientation.Orientation) {
	o := p.classifier.Classify(rot)
	if d, ok := orientation.Footprint(o, p.cfg.Width, p.cfg.Height, p.cfg.Depth); ok {
		return d, o
	}
	ext := geometry.AbsExtents(rot, p.cfg.Extents())
	p.logger.Warn("Unclassified rotation, using bounding box footprint",
		log.Quat("rotation", rot),
		log.Vec3("extents", ext),
	)
	return orientation.Dimensions{X: ext.X(), Z: ext.Z(), Vertical: ext.Y()}, o
}
