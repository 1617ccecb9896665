package grid

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/htmlbox/internal/core/events/bus"
	"github.com/zeusync/htmlbox/internal/core/observability/log"
	"github.com/zeusync/htmlbox/internal/core/scene"
	"github.com/zeusync/htmlbox/pkg/sequence"
)

const (
	// NodePrefix starts the name of every tile mesh.
	NodePrefix = "tile_"

	DefaultTileSize   = 1.0
	DefaultTileHeight = 0.1

	EventBuilt = "grid.built"
)

// coverEpsilon keeps rectangles that merely touch a cell border from
// counting as overlapping it.
const coverEpsilon = 1e-6

var ErrNilScene = errors.New("grid: scene is nil")

// DefaultMaterial is used for tiles without their own material.
var DefaultMaterial = scene.Material{
	Name:        "tile",
	Diffuse:     [3]float64{0, 0.5, 0.5},
	BumpTexture: "./normal.jpg",
}

// Tile is one floor cell.
type Tile struct {
	X, Z     int
	Height   float64
	Material *scene.Material // nil uses DefaultMaterial
}

// NodeName returns the scene name of the tile's mesh.
func (t Tile) NodeName() string {
	return NodeName(t.X, t.Z)
}

// NodeName returns the scene name of the mesh for cell (x, z).
func NodeName(x, z int) string {
	return fmt.Sprintf("%s%d,%d", NodePrefix, x, z)
}

// BuiltEvent is the payload of grid.built.
type BuiltEvent struct {
	Tiles   int
	Removed int
}

type cell struct{ x, z int }

// Option configures a Grid.
type Option func(*Grid)

func WithBus(b bus.EventBus) Option {
	return func(g *Grid) { g.bus = b }
}

func WithLogger(l log.Log) Option {
	return func(g *Grid) { g.logger = l }
}

// WithTileSize sets the edge length of a cell. Non-positive values are ignored.
func WithTileSize(size float64) Option {
	return func(g *Grid) {
		if size > 0 {
			g.tileSize = size
		}
	}
}

// Grid is a sparse set of floor tiles keyed by integer cell coordinates.
// Tile state changes only reach the scene on Build.
type Grid struct {
	mu       sync.RWMutex
	tiles    map[cell]Tile
	scene    *scene.Scene
	tileSize float64

	bus    bus.EventBus
	logger log.Log
}

// New creates an empty grid that builds into sc.
func New(sc *scene.Scene, opts ...Option) (*Grid, error) {
	if sc == nil {
		return nil, ErrNilScene
	}
	g := &Grid{
		tiles:    make(map[cell]Tile),
		scene:    sc,
		tileSize: DefaultTileSize,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = log.OrNop(g.logger).With(log.String("component", "grid"))
	return g, nil
}

// TileSize returns the edge length of a cell.
func (g *Grid) TileSize() float64 { return g.tileSize }

// SetTile adds or replaces the tile at (x, z). A non-positive height falls
// back to DefaultTileHeight.
func (g *Grid) SetTile(x, z int, height float64, material *scene.Material) {
	if height <= 0 {
		height = DefaultTileHeight
	}
	g.mu.Lock()
	g.tiles[cell{x, z}] = Tile{X: x, Z: z, Height: height, Material: material.Clone()}
	g.mu.Unlock()
}

// RemoveTile deletes the tile at (x, z) if present.
func (g *Grid) RemoveTile(x, z int) {
	g.mu.Lock()
	delete(g.tiles, cell{x, z})
	g.mu.Unlock()
}

func (g *Grid) HasTile(x, z int) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.tiles[cell{x, z}]
	return ok
}

func (g *Grid) GetTile(x, z int) (Tile, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.tiles[cell{x, z}]
	if ok {
		t.Material = t.Material.Clone()
	}
	return t, ok
}

// Len returns the number of tiles.
func (g *Grid) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.tiles)
}

// Height returns a pointer to v for use in patterns.
func Height(v float64) *float64 { return &v }

// CreatePattern sets one tile per non-nil cell. Rows advance along Z and
// columns along X, starting at (originX, originZ).
func (g *Grid) CreatePattern(rows [][]*float64, originX, originZ int) int {
	n := 0
	for z, row := range rows {
		for x, h := range row {
			if h == nil {
				continue
			}
			g.SetTile(originX+x, originZ+z, *h, nil)
			n++
		}
	}
	g.logger.Debug("Pattern applied", log.Int("tiles", n), log.Int("origin_x", originX), log.Int("origin_z", originZ))
	return n
}

// Tiles returns every tile ordered by Z then X.
func (g *Grid) Tiles() []Tile {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sortedLocked()
}

func (g *Grid) sortedLocked() []Tile {
	return sequence.FromMap(g.tiles).Sort(func(a, b Tile) int {
		return cmp.Or(cmp.Compare(a.Z, b.Z), cmp.Compare(a.X, b.X))
	}).Collect()
}

// Cell returns the cell whose centre is nearest to the world point (x, z).
func (g *Grid) Cell(x, z float64) (int, int) {
	return int(math.Round(x / g.tileSize)), int(math.Round(z / g.tileSize))
}

// Covers reports whether every cell overlapped by the world-space rectangle
// [minX, maxX] x [minZ, maxZ] has a tile.
func (g *Grid) Covers(minX, minZ, maxX, maxZ float64) bool {
	x0, x1 := g.span(minX, maxX)
	z0, z1 := g.span(minZ, maxZ)
	if x1 < x0 || z1 < z0 {
		return false
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	for z := z0; z <= z1; z++ {
		for x := x0; x <= x1; x++ {
			if _, ok := g.tiles[cell{x, z}]; !ok {
				return false
			}
		}
	}
	return true
}

func (g *Grid) span(lo, hi float64) (int, int) {
	first := int(math.Floor(lo/g.tileSize + 0.5 + coverEpsilon))
	last := int(math.Ceil(hi/g.tileSize - 0.5 - coverEpsilon))
	return first, last
}

// Build replaces every tile mesh in the scene with one box per tile, top
// face flush with y = 0. It returns the number of meshes created.
func (g *Grid) Build() (int, error) {
	g.mu.RLock()
	tiles := g.sortedLocked()
	g.mu.RUnlock()

	removed := g.scene.DisposeByPrefix(NodePrefix)

	for _, t := range tiles {
		n, err := g.scene.CreateBox(t.NodeName(), mgl64.Vec3{g.tileSize, t.Height, g.tileSize})
		if err != nil {
			return 0, fmt.Errorf("create %s: %w", t.NodeName(), err)
		}
		n.SetPosition(mgl64.Vec3{float64(t.X) * g.tileSize, -t.Height / 2, float64(t.Z) * g.tileSize})
		if t.Material != nil {
			n.SetMaterial(t.Material)
		} else {
			n.SetMaterial(&DefaultMaterial)
		}
	}

	g.logger.Info("Grid built", log.Int("tiles", len(tiles)), log.Int("removed", removed))
	if g.bus != nil {
		if err := g.bus.Publish(bus.NewEvent(EventBuilt, "grid", BuiltEvent{Tiles: len(tiles), Removed: removed})); err != nil {
			g.logger.Warn("Grid event handler failed", log.Error(err))
		}
	}
	return len(tiles), nil
}

// Occupied returns the tile-space cell indices sorted by Z then X.
func (g *Grid) Occupied() [][2]int {
	return sequence.Map(sequence.From(g.Tiles()), func(t Tile) [2]int { return [2]int{t.X, t.Z} })
}
