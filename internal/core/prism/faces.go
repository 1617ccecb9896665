package prism

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/microcosm-cc/bluemonday"

	"github.com/zeusync/htmlbox/internal/core/orientation"
	"github.com/zeusync/htmlbox/internal/core/scene"
)

// buildOrder is the order faces are attached in.
var buildOrder = [...]orientation.Face{
	orientation.Front,
	orientation.Left,
	orientation.Back,
	orientation.Right,
	orientation.Top,
	orientation.Bottom,
}

// blankMaterial marks faces without content.
var blankMaterial = scene.Material{Name: "blank", Diffuse: [3]float64{1, 0, 1}}

// FaceContent is the HTML shown on one face.
type FaceContent struct {
	Name   string
	Markup string
}

// Attachment is one framed face of the prism.
type Attachment struct {
	Face    orientation.Face
	Node    *scene.Node    // frame box, child of the prism root
	Content *scene.Node    // HTML node or blank plane inside the frame
	Edges   [4]*scene.Node // top, bottom, left, right bars
	Width   float64
	Height  float64
	Title   string
}

// HasContent reports whether the face renders HTML.
func (a *Attachment) HasContent() bool {
	return a.Content.Kind() == scene.KindHTML
}

// newMarkupPolicy allows the interactive form controls faces are meant to
// carry and strips scripts and event handlers.
func newMarkupPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("form", "label", "input", "select", "option", "textarea", "button", "iframe")
	p.AllowAttrs("id").Globally()
	p.AllowAttrs("for").OnElements("label")
	p.AllowAttrs("type", "name", "value", "placeholder", "checked", "required").OnElements("input")
	p.AllowAttrs("name").OnElements("select", "textarea", "button")
	p.AllowAttrs("value", "selected").OnElements("option")
	p.AllowAttrs("src", "width", "height", "allowfullscreen").OnElements("iframe")
	p.AllowStyles("padding", "margin", "transform", "transform-origin", "color", "background-color").Globally()
	return p
}

// facePlacement returns the local transform of a face frame and its size.
// A face's content looks down its local -Z, so each rotation carries -Z onto
// the face's outward normal.
func facePlacement(face orientation.Face, w, h, d float64) (pos mgl64.Vec3, rot mgl64.Quat, fw, fh float64) {
	yAxis := mgl64.Vec3{0, 1, 0}
	xAxis := mgl64.Vec3{1, 0, 0}
	switch face {
	case orientation.Front:
		return mgl64.Vec3{0, 0, -d / 2}, mgl64.QuatIdent(), w, h
	case orientation.Left:
		return mgl64.Vec3{-w / 2, 0, 0}, mgl64.QuatRotate(math.Pi/2, yAxis), d, h
	case orientation.Back:
		return mgl64.Vec3{0, 0, d / 2}, mgl64.QuatRotate(math.Pi, yAxis), w, h
	case orientation.Right:
		return mgl64.Vec3{w / 2, 0, 0}, mgl64.QuatRotate(-math.Pi/2, yAxis), d, h
	case orientation.Top:
		return mgl64.Vec3{0, h / 2, 0}, mgl64.QuatRotate(math.Pi/2, xAxis), w, d
	case orientation.Bottom:
		return mgl64.Vec3{0, -h / 2, 0}, mgl64.QuatRotate(-math.Pi/2, xAxis), w, d
	default:
		return mgl64.Vec3{}, mgl64.QuatIdent(), 0, 0
	}
}

func (p *Prism) attachFace(face orientation.Face, content FaceContent, hasContent bool) (*Attachment, error) {
	pos, rot, fw, fh := facePlacement(face, p.cfg.Width, p.cfg.Height, p.cfg.Depth)
	t := p.cfg.EdgeThickness
	id := fmt.Sprintf("%s-%s", p.cfg.Name, face)

	frame, err := p.scene.CreateBox(id, mgl64.Vec3{fw, fh, t})
	if err != nil {
		return nil, err
	}
	frame.SetTransform(pos, rot)
	frame.SetVisible(false)
	if err = frame.SetParent(p.root); err != nil {
		return nil, err
	}

	var inner *scene.Node
	if hasContent {
		inner, err = p.scene.CreateHTML(id+"-content", fw-t, fh-t, p.policy.Sanitize(content.Markup))
	} else {
		inner, err = p.scene.CreatePlane(id+"-content", fw-t, fh-t)
		if err == nil {
			inner.SetMaterial(&blankMaterial)
		}
	}
	if err != nil {
		return nil, err
	}
	if err = inner.SetParent(frame); err != nil {
		return nil, err
	}

	a := &Attachment{Face: face, Node: frame, Content: inner, Width: fw, Height: fh, Title: content.Name}
	bars := [4]struct {
		suffix string
		size   mgl64.Vec3
		pos    mgl64.Vec3
	}{
		{"top", mgl64.Vec3{fw, t, t}, mgl64.Vec3{0, fh / 2, 0}},
		{"bottom", mgl64.Vec3{fw, t, t}, mgl64.Vec3{0, -fh / 2, 0}},
		{"left", mgl64.Vec3{t, fh, t}, mgl64.Vec3{-fw / 2, 0, 0}},
		{"right", mgl64.Vec3{t, fh, t}, mgl64.Vec3{fw / 2, 0, 0}},
	}
	for i, bar := range bars {
		edge, err := p.scene.CreateBox(id+"-"+bar.suffix, bar.size)
		if err != nil {
			return nil, err
		}
		edge.SetPosition(bar.pos)
		if err = edge.SetParent(frame); err != nil {
			return nil, err
		}
		a.Edges[i] = edge
	}
	return a, nil
}
