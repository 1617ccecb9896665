package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/htmlbox/pkg/geometry"
)

// Kind is the mesh primitive a node is rendered as.
type Kind uint8

const (
	KindBox Kind = iota
	KindPlane
	KindHTML
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindPlane:
		return "plane"
	case KindHTML:
		return "html"
	default:
		return "unknown"
	}
}

// Node is a named mesh in the scene graph. Its position and rotation are
// local to its parent. All accessors are safe for concurrent use.
type Node struct {
	scene *Scene
	seq   uint64

	id       string
	name     string
	kind     Kind
	size     mgl64.Vec3
	position mgl64.Vec3
	rotation mgl64.Quat
	visible  bool
	material *Material
	markup   string

	parent   *Node
	children []*Node
	disposed bool
}

func (n *Node) ID() string   { return n.id }
func (n *Node) Name() string { return n.name }
func (n *Node) Kind() Kind   { return n.kind }

// Size returns the extents of the node's primitive. Planes and HTML nodes
// have a zero depth.
func (n *Node) Size() mgl64.Vec3 {
	n.scene.mu.RLock()
	defer n.scene.mu.RUnlock()
	return n.size
}

func (n *Node) Position() mgl64.Vec3 {
	n.scene.mu.RLock()
	defer n.scene.mu.RUnlock()
	return n.position
}

func (n *Node) SetPosition(p mgl64.Vec3) {
	n.scene.mu.Lock()
	n.position = p
	n.scene.mu.Unlock()
}

func (n *Node) Rotation() mgl64.Quat {
	n.scene.mu.RLock()
	defer n.scene.mu.RUnlock()
	return n.rotation
}

func (n *Node) SetRotation(q mgl64.Quat) {
	n.scene.mu.Lock()
	n.rotation = q
	n.scene.mu.Unlock()
}

// SetTransform replaces position and rotation atomically, so readers never
// observe one without the other.
func (n *Node) SetTransform(p mgl64.Vec3, q mgl64.Quat) {
	n.scene.mu.Lock()
	n.position, n.rotation = p, q
	n.scene.mu.Unlock()
}

// Transform returns position and rotation read under one lock.
func (n *Node) Transform() (mgl64.Vec3, mgl64.Quat) {
	n.scene.mu.RLock()
	defer n.scene.mu.RUnlock()
	return n.position, n.rotation
}

func (n *Node) Visible() bool {
	n.scene.mu.RLock()
	defer n.scene.mu.RUnlock()
	return n.visible
}

func (n *Node) SetVisible(v bool) {
	n.scene.mu.Lock()
	n.visible = v
	n.scene.mu.Unlock()
}

// Material returns a copy of the node's material.
func (n *Node) Material() *Material {
	n.scene.mu.RLock()
	defer n.scene.mu.RUnlock()
	return n.material.Clone()
}

func (n *Node) SetMaterial(m *Material) {
	n.scene.mu.Lock()
	n.material = m.Clone()
	n.scene.mu.Unlock()
}

// Markup returns the HTML carried by a KindHTML node.
func (n *Node) Markup() string {
	n.scene.mu.RLock()
	defer n.scene.mu.RUnlock()
	return n.markup
}

func (n *Node) SetMarkup(markup string) {
	n.scene.mu.Lock()
	n.markup = markup
	n.scene.mu.Unlock()
}

func (n *Node) Parent() *Node {
	n.scene.mu.RLock()
	defer n.scene.mu.RUnlock()
	return n.parent
}

// Children returns the node's children in attach order.
func (n *Node) Children() []*Node {
	n.scene.mu.RLock()
	defer n.scene.mu.RUnlock()
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

func (n *Node) Disposed() bool {
	n.scene.mu.RLock()
	defer n.scene.mu.RUnlock()
	return n.disposed
}

// SetParent attaches n under parent, keeping its local transform. A nil
// parent detaches n to the scene root.
func (n *Node) SetParent(parent *Node) error {
	s := n.scene
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.disposed {
		return ErrDisposed
	}
	if parent != nil {
		if parent.scene != s {
			return ErrForeignNode
		}
		if parent.disposed {
			return ErrDisposed
		}
		for p := parent; p != nil; p = p.parent {
			if p == n {
				return ErrParentCycle
			}
		}
	}

	n.detachLocked()
	n.parent = parent
	if parent != nil {
		parent.children = append(parent.children, n)
	}
	return nil
}

func (n *Node) detachLocked() {
	if n.parent == nil {
		return
	}
	siblings := n.parent.children
	for i, c := range siblings {
		if c == n {
			n.parent.children = append(siblings[:i:i], siblings[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// WorldPosition composes local positions up the parent chain.
func (n *Node) WorldPosition() mgl64.Vec3 {
	n.scene.mu.RLock()
	defer n.scene.mu.RUnlock()
	p, _ := n.worldLocked()
	return p
}

// WorldRotation composes local rotations up the parent chain.
func (n *Node) WorldRotation() mgl64.Quat {
	n.scene.mu.RLock()
	defer n.scene.mu.RUnlock()
	_, q := n.worldLocked()
	return q
}

// WorldMatrix returns the node's model matrix.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	n.scene.mu.RLock()
	defer n.scene.mu.RUnlock()
	p, q := n.worldLocked()
	return mgl64.Translate3D(p.X(), p.Y(), p.Z()).Mul4(q.Mat4())
}

func (n *Node) worldLocked() (mgl64.Vec3, mgl64.Quat) {
	pos, rot := n.position, n.rotation
	for p := n.parent; p != nil; p = p.parent {
		pos = p.position.Add(p.rotation.Rotate(pos))
		rot = p.rotation.Mul(rot)
	}
	return pos, rot
}

// RotateAround turns the node by angle radians about the line through pivot
// along axis. Pivot and axis are expressed in the parent's frame.
func (n *Node) RotateAround(pivot, axis mgl64.Vec3, angle float64) {
	n.scene.mu.Lock()
	n.position, n.rotation = geometry.RotateAround(n.position, n.rotation, pivot, axis, angle)
	n.scene.mu.Unlock()
}
