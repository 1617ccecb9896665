package scene

import (
	"cmp"
	"encoding/binary"
	"math"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/zeusync/htmlbox/internal/core/observability/log"
	"github.com/zeusync/htmlbox/pkg/geometry"
	"github.com/zeusync/htmlbox/pkg/sequence"
)

// digestDecimals bounds float noise in Digest.
const digestDecimals = 6

// Scene is an in-memory mesh hierarchy standing in for a rendering engine's
// scene. Nodes are addressed by id or by name; names need not be unique.
type Scene struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	seq   uint64

	logger log.Log
}

// New creates an empty scene.
func New(logger log.Log) *Scene {
	return &Scene{
		nodes:  make(map[string]*Node),
		logger: log.OrNop(logger).With(log.String("component", "scene")),
	}
}

// CreateBox adds a box mesh with extents size at the scene root.
func (s *Scene) CreateBox(name string, size mgl64.Vec3) (*Node, error) {
	return s.create(name, KindBox, size, "")
}

// CreatePlane adds a width x height plane facing -Z.
func (s *Scene) CreatePlane(name string, width, height float64) (*Node, error) {
	return s.create(name, KindPlane, mgl64.Vec3{width, height, 0}, "")
}

// CreateHTML adds a width x height plane that renders markup.
func (s *Scene) CreateHTML(name string, width, height float64, markup string) (*Node, error) {
	return s.create(name, KindHTML, mgl64.Vec3{width, height, 0}, markup)
}

func (s *Scene) create(name string, kind Kind, size mgl64.Vec3, markup string) (*Node, error) {
	if size.X() < 0 || size.Y() < 0 || size.Z() < 0 {
		return nil, ErrInvalidSize
	}

	s.mu.Lock()
	s.seq++
	n := &Node{
		scene:    s,
		seq:      s.seq,
		id:       uuid.NewString(),
		name:     name,
		kind:     kind,
		size:     size,
		rotation: mgl64.QuatIdent(),
		visible:  true,
		markup:   markup,
	}
	s.nodes[n.id] = n
	s.mu.Unlock()

	s.logger.Debug("Node created",
		log.String("name", name),
		log.Stringer("kind", kind),
		log.Vec3("size", size),
	)
	return n, nil
}

// Len returns the number of live nodes.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// Node looks a node up by id.
func (s *Scene) Node(id string) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	return n, ok
}

// Nodes returns all live nodes in creation order.
func (s *Scene) Nodes() []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orderedLocked(func(*Node) bool { return true })
}

// NodeByName returns the oldest live node called name.
func (s *Scene) NodeByName(name string) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sequence.From(s.orderedLocked(func(n *Node) bool { return n.name == name })).First()
}

// NodesWithPrefix returns live nodes whose name starts with prefix, in
// creation order.
func (s *Scene) NodesWithPrefix(prefix string) []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orderedLocked(func(n *Node) bool { return strings.HasPrefix(n.name, prefix) })
}

func (s *Scene) orderedLocked(keep func(*Node) bool) []*Node {
	return sequence.FromMap(s.nodes).
		Filter(keep).
		Sort(func(a, b *Node) int { return cmp.Compare(a.seq, b.seq) }).
		Collect()
}

// Dispose removes n and its whole subtree from the scene. Disposing an
// already disposed node is a no-op.
func (s *Scene) Dispose(n *Node) error {
	if n == nil {
		return ErrNilNode
	}
	if n.scene != s {
		return ErrForeignNode
	}

	s.mu.Lock()
	if n.disposed {
		s.mu.Unlock()
		return nil
	}
	n.detachLocked()
	removed := s.disposeLocked(n)
	s.mu.Unlock()

	s.logger.Debug("Node disposed", log.String("name", n.name), log.Int("removed", removed))
	return nil
}

func (s *Scene) disposeLocked(n *Node) int {
	removed := 1
	for _, c := range n.children {
		c.parent = nil
		removed += s.disposeLocked(c)
	}
	n.children = nil
	n.disposed = true
	delete(s.nodes, n.id)
	return removed
}

// DisposeByPrefix disposes every live node whose name starts with prefix and
// returns how many were removed, descendants included.
func (s *Scene) DisposeByPrefix(prefix string) int {
	before := s.Len()
	for _, n := range s.NodesWithPrefix(prefix) {
		_ = s.Dispose(n)
	}
	return before - s.Len()
}

// Digest hashes the visible state of the scene: names, kinds, sizes and
// world transforms. Node ids and creation order do not contribute, so two
// scenes built the same way hash the same.
func (s *Scene) Digest() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := sequence.FromMap(s.nodes).Sort(func(a, b *Node) int {
		return cmp.Or(strings.Compare(a.name, b.name), cmp.Compare(a.seq, b.seq))
	}).Collect()

	h := xxhash.New()
	var buf [8]byte
	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(geometry.RoundTo(v, digestDecimals)))
		_, _ = h.Write(buf[:])
	}
	for _, n := range nodes {
		_, _ = h.WriteString(n.name)
		_, _ = h.Write([]byte{0, byte(n.kind)})
		pos, rot := n.worldLocked()
		for _, v := range [...]float64{
			n.size[0], n.size[1], n.size[2],
			pos[0], pos[1], pos[2],
			rot.W, rot.V[0], rot.V[1], rot.V[2],
		} {
			writeFloat(v)
		}
		if n.visible {
			_, _ = h.Write([]byte{1})
		} else {
			_, _ = h.Write([]byte{0})
		}
	}
	return h.Sum64()
}
