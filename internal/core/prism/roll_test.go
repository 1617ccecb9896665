package prism

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/htmlbox/internal/core/events/bus"
	"github.com/zeusync/htmlbox/internal/core/orientation"
	"github.com/zeusync/htmlbox/pkg/geometry"
)

func assertVec(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	assert.True(t, geometry.VecAboutEqual(want, got, geometry.DefaultEpsilon), "want %v, got %v", want, got)
}

func TestRollCubeAdvancesOneEdge(t *testing.T) {
	tests := []struct {
		name  string
		move  func(*Prism, context.Context) (mgl64.Vec3, error)
		delta mgl64.Vec3
		face  orientation.Face
	}{
		{"x+", (*Prism).MoveXPositive, mgl64.Vec3{1, 0, 0}, orientation.Right},
		{"x-", (*Prism).MoveXNegative, mgl64.Vec3{-1, 0, 0}, orientation.Left},
		{"z+", (*Prism).MoveZPositive, mgl64.Vec3{0, 0, 1}, orientation.Back},
		{"z-", (*Prism).MoveZNegative, mgl64.Vec3{0, 0, -1}, orientation.Front},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestPrism(t, testConfig(1, 1, 1))
			start := p.Position()

			d, err := tt.move(p, context.Background())
			require.NoError(t, err)
			assertVec(t, tt.delta, d)
			assertVec(t, start.Add(tt.delta), p.Position())
			assert.Equal(t, tt.face, p.Orientation().Face)
			assert.True(t, p.CanMove())
		})
	}
}

func TestRollBackRestoresState(t *testing.T) {
	type dir struct {
		axis     geometry.Axis
		positive bool
	}
	dirs := []struct {
		name string
		dir
	}{
		{"x+", dir{geometry.AxisX, true}},
		{"x-", dir{geometry.AxisX, false}},
		{"z+", dir{geometry.AxisZ, true}},
		{"z-", dir{geometry.AxisZ, false}},
	}
	poses := []struct {
		name  string
		setup []dir
	}{
		{"rest", nil},
		{"rolled", []dir{{geometry.AxisX, true}, {geometry.AxisZ, false}}},
		{"on end", []dir{{geometry.AxisZ, true}, {geometry.AxisX, true}, {geometry.AxisZ, true}}},
	}

	for _, pose := range poses {
		for _, tt := range dirs {
			t.Run(pose.name+"/"+tt.name, func(t *testing.T) {
				p, _ := newTestPrism(t, testConfig(1, 2, 3))
				ctx := context.Background()
				for _, m := range pose.setup {
					_, err := p.Move(ctx, m.axis, m.positive)
					require.NoError(t, err)
				}
				start, from := p.Position(), p.Orientation()
				require.True(t, from.Valid())

				d, err := p.Move(ctx, tt.axis, tt.positive)
				require.NoError(t, err)
				assert.NotEqual(t, mgl64.Vec3{}, d)
				back, err := p.Move(ctx, tt.axis, !tt.positive)
				require.NoError(t, err)

				assertVec(t, d.Mul(-1), back)
				assertVec(t, start, p.Position())
				assert.Equal(t, from, p.Orientation())
			})
		}
	}
}

func TestFourRollsReturnToStartOrientation(t *testing.T) {
	for _, axis := range []geometry.Axis{geometry.AxisX, geometry.AxisZ} {
		t.Run(axis.String(), func(t *testing.T) {
			p, _ := newTestPrism(t, testConfig(1, 1, 1))
			start := p.Position()
			total := mgl64.Vec3{}
			for i := 0; i < 4; i++ {
				d, err := p.Move(context.Background(), axis, true)
				require.NoError(t, err)
				total = total.Add(d)
			}
			want, _ := geometry.IdentityAxisVector(axis)
			assertVec(t, want.Mul(4), total)
			assertVec(t, start.Add(want.Mul(4)), p.Position())
			assert.Equal(t, orientation.Orientation{Face: orientation.Bottom}, p.Orientation())
		})
	}
}

func TestRollTallPrismUsesFootprint(t *testing.T) {
	p, _ := newTestPrism(t, testConfig(1, 2, 1))
	assertVec(t, mgl64.Vec3{0, 1, 0}, p.Position())

	plan, err := p.PlanRoll(geometry.AxisX, true)
	require.NoError(t, err)
	assertVec(t, mgl64.Vec3{0.5, 0, -0.5}, plan.Pivot)
	assert.Equal(t, orientation.Dimensions{X: 1, Z: 1, Vertical: 2}, plan.Before)
	assert.Equal(t, orientation.Dimensions{X: 2, Z: 1, Vertical: 1}, plan.After)
	assert.Equal(t, orientation.Right, plan.To.Face)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, p.Position(), "planning must not move the prism")

	d, err := p.MoveXPositive(context.Background())
	require.NoError(t, err)
	// A 1x2x1 prism standing upright does not advance x by exactly +1: it tips
	// about its floor edge, so the centre moves half the old plus half the new
	// length along x.
	assertVec(t, mgl64.Vec3{1.5, -0.5, 0}, d)
	assertVec(t, plan.Displacement, d)
	assertVec(t, mgl64.Vec3{1.5, 0.5, 0}, p.Position())

	x, z, ok := p.BottomFaceDimensions()
	require.True(t, ok)
	assert.Equal(t, 2.0, x)
	assert.Equal(t, 1.0, z)

	// Lying down it rolls across its long side.
	d, err = p.MoveZPositive(context.Background())
	require.NoError(t, err)
	assertVec(t, mgl64.Vec3{0, 0, 1}, d)
}

func TestRollAlongYIsRejected(t *testing.T) {
	p, _ := newTestPrism(t, testConfig(1, 1, 1))
	d, err := p.Move(context.Background(), geometry.AxisY, true)
	assert.ErrorIs(t, err, ErrUnsupportedAxis)
	assert.Equal(t, mgl64.Vec3{}, d)
	assert.True(t, p.CanMove())

	_, err = p.PlanRoll(geometry.AxisY, false)
	assert.ErrorIs(t, err, ErrUnsupportedAxis)
}

func TestMoveWhileRollingIsDropped(t *testing.T) {
	cfg := testConfig(1, 1, 1)
	cfg.Steps = 5
	cfg.StepDuration = 20 * time.Millisecond

	b := bus.New()
	var rejected int
	var mu sync.Mutex
	_, err := b.Subscribe(EventRollRejected, func(bus.Event) error {
		mu.Lock()
		rejected++
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	p, _ := newTestPrism(t, cfg, WithBus(b))
	done := p.MoveAsync(context.Background(), geometry.AxisX, true)
	require.Eventually(t, func() bool { return !p.CanMove() }, time.Second, time.Millisecond)

	d, err := p.MoveZPositive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{}, d)

	select {
	case res := <-done:
		require.NoError(t, res.Err)
		assertVec(t, mgl64.Vec3{1, 0, 0}, res.Displacement)
		assert.Equal(t, orientation.Right, res.Orientation.Face)
	case <-time.After(5 * time.Second):
		t.Fatal("roll never finished")
	}
	_, open := <-done
	assert.False(t, open)

	mu.Lock()
	assert.Equal(t, 1, rejected)
	mu.Unlock()
	assertVec(t, mgl64.Vec3{1, 0.5, 0}, p.Position())
}

func TestPerformReportsItsOwnRoll(t *testing.T) {
	b := bus.New()
	var finished []RollEvent
	_, err := b.Subscribe(EventRollFinished, func(e bus.Event) error {
		finished = append(finished, e.Data().(RollEvent))
		return nil
	})
	require.NoError(t, err)
	p, _ := newTestPrism(t, testConfig(1, 2, 3), WithBus(b))
	ctx := context.Background()

	plan, err := p.PlanRoll(geometry.AxisZ, true)
	require.NoError(t, err)
	first := p.Perform(ctx, geometry.AxisZ, true)
	require.NoError(t, first.Err)
	second := <-p.MoveAsync(ctx, geometry.AxisX, true)
	require.NoError(t, second.Err)

	require.Len(t, finished, 2)
	assert.Equal(t, plan.To, first.Orientation)
	assert.Equal(t, finished[0].Orientation, first.Orientation)
	assert.Equal(t, finished[1].Orientation, second.Orientation)
	assert.NotEqual(t, first.Orientation, second.Orientation)
	assertVec(t, finished[0].Displacement, first.Displacement)
}

func TestCancelledRollStillLandsOnGrid(t *testing.T) {
	cfg := testConfig(1, 1, 1)
	cfg.StepDuration = time.Hour
	p, _ := newTestPrism(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d, err := p.MoveZPositive(ctx)
	require.NoError(t, err)
	assertVec(t, mgl64.Vec3{0, 0, 1}, d)
	assert.Equal(t, orientation.Back, p.Orientation().Face)
}

func TestRollPublishesEvents(t *testing.T) {
	cfg := testConfig(1, 1, 1)
	cfg.Steps = 4
	b := bus.New()

	var types []string
	var steps []RollEvent
	for _, typ := range []string{EventRollStarted, EventRollStep, EventRollFinished} {
		_, err := b.Subscribe(typ, func(e bus.Event) error {
			types = append(types, e.Type())
			if e.Type() == EventRollStep {
				steps = append(steps, e.Data().(RollEvent))
			}
			return nil
		})
		require.NoError(t, err)
	}

	p, _ := newTestPrism(t, cfg, WithBus(b))
	_, err := p.MoveXPositive(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		EventRollStarted,
		EventRollStep, EventRollStep, EventRollStep, EventRollStep,
		EventRollFinished,
	}, types)
	require.Len(t, steps, 4)
	for i, s := range steps {
		assert.Equal(t, i+1, s.Step)
		assert.Equal(t, 4, s.Steps)
		assert.Equal(t, "prism", s.Prism)
	}
}

func TestClassifierAgreesWithLowestFace(t *testing.T) {
	p, _ := newTestPrism(t, testConfig(1, 2, 3))
	ctx := context.Background()
	moves := []func(context.Context) (mgl64.Vec3, error){
		p.MoveXPositive, p.MoveZPositive, p.MoveZPositive, p.MoveXNegative,
		p.MoveZNegative, p.MoveXPositive, p.MoveXPositive, p.MoveZPositive,
	}
	for i, move := range moves {
		_, err := move(ctx)
		require.NoError(t, err)

		o := p.Orientation()
		require.True(t, o.Valid(), "move %d", i)

		var lowest *Attachment
		for _, a := range p.Faces() {
			if lowest == nil || a.Node.WorldPosition().Y() < lowest.Node.WorldPosition().Y() {
				lowest = a
			}
		}
		assert.Equal(t, lowest.Face, o.Face, "move %d", i)
		assert.Equal(t, lowest.Face, p.BottomFace().Face, "move %d", i)

		// The prism must always rest on the floor.
		assert.InDelta(t, p.Footprint().Vertical/2, p.Position().Y(), 1e-9, "move %d", i)
	}
}
