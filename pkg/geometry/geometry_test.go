package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign(t *testing.T) {
	assert.Equal(t, 1.0, Sign(true))
	assert.Equal(t, -1.0, Sign(false))
}

func TestAxisVectors(t *testing.T) {
	tests := []struct {
		axis     Axis
		identity mgl64.Vec3
		rotation mgl64.Vec3
		sign     float64
	}{
		{AxisX, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1}, -1},
		{AxisY, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0}, 0},
		{AxisZ, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 0}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.axis.String(), func(t *testing.T) {
			id, err := IdentityAxisVector(tt.axis)
			require.NoError(t, err)
			assert.Equal(t, tt.identity, id)

			rot, err := RotationAxisVector(tt.axis)
			require.NoError(t, err)
			assert.Equal(t, tt.rotation, rot)

			assert.Equal(t, tt.sign, RotationSign(tt.axis))
		})
	}

	_, err := IdentityAxisVector(Axis(7))
	require.ErrorIs(t, err, ErrInvalidAxis)
	_, err = RotationAxisVector(Axis(7))
	require.ErrorIs(t, err, ErrInvalidAxis)
	assert.Equal(t, 0.0, RotationSign(Axis(7)))
}

func TestPositiveRollAdvancesAlongAxis(t *testing.T) {
	// The top of a box must travel towards +axis when rolled positively.
	for _, axis := range []Axis{AxisX, AxisZ} {
		rotAxis, err := RotationAxisVector(axis)
		require.NoError(t, err)
		q := mgl64.QuatRotate(RotationSign(axis)*Sign(true)*math.Pi/2, rotAxis)
		top := q.Rotate(mgl64.Vec3{0, 1, 0})
		want, _ := IdentityAxisVector(axis)
		assert.True(t, VecAboutEqual(top, want, DefaultEpsilon), "axis %s: top went to %v", axis, top)
	}
}

func TestParseAxis(t *testing.T) {
	a, err := ParseAxis(" Z ")
	require.NoError(t, err)
	assert.Equal(t, AxisZ, a)

	_, err = ParseAxis("w")
	require.ErrorIs(t, err, ErrInvalidAxis)
}

func TestPerpendicular(t *testing.T) {
	p, err := Perpendicular(AxisX)
	require.NoError(t, err)
	assert.Equal(t, AxisZ, p)
	p, err = Perpendicular(AxisZ)
	require.NoError(t, err)
	assert.Equal(t, AxisX, p)
	_, err = Perpendicular(AxisY)
	require.ErrorIs(t, err, ErrInvalidAxis)
}

func TestComponent(t *testing.T) {
	v := mgl64.Vec3{1, 2, 3}
	assert.Equal(t, 2.0, Component(v, AxisY))
	assert.Equal(t, mgl64.Vec3{1, 2, 9}, WithComponent(v, AxisZ, 9))
	assert.Equal(t, v, WithComponent(v, Axis(9), 9))
}

func TestApproximateComparators(t *testing.T) {
	assert.True(t, AboutEqual(1, 1+1e-7, DefaultEpsilon))
	assert.False(t, AboutEqual(1, 1+1e-4, DefaultEpsilon))

	q := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})
	assert.True(t, QuatAboutEqual(q, mgl64.Quat{W: q.W + 1e-7, V: q.V}, DefaultEpsilon))
	assert.False(t, QuatAboutEqual(q, NegateQuat(q), DefaultEpsilon))

	assert.True(t, VecAboutEqual(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 2, 3.000001}, DefaultEpsilon))
	assert.False(t, VecAboutEqual(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 2, 3.1}, DefaultEpsilon))
}

func TestRoundToIsIdempotent(t *testing.T) {
	for _, v := range []float64{0.3, 1.05, -2.449999, 0.1 + 0.2, 12345.678, -0.04} {
		once := RoundTo(v, 1)
		assert.Equal(t, once, RoundTo(once, 1), "value %v", v)
	}
	assert.Equal(t, 0.3, RoundTo(0.1+0.2, 1))
	assert.False(t, math.Signbit(RoundTo(-0.04, 1)))
}

func TestRotateAround(t *testing.T) {
	pos := mgl64.Vec3{0, 0.5, 0}
	pivot := mgl64.Vec3{0.5, 0, 0}
	newPos, newRot := RotateAround(pos, mgl64.QuatIdent(), pivot, mgl64.Vec3{0, 0, 1}, -math.Pi/2)
	assert.True(t, VecAboutEqual(newPos, mgl64.Vec3{1, 0.5, 0}, DefaultEpsilon), "got %v", newPos)
	assert.True(t, QuatAboutEqual(newRot, mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{0, 0, 1}), DefaultEpsilon))
}

func TestAbsExtents(t *testing.T) {
	ext := AbsExtents(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}), mgl64.Vec3{1, 2, 3})
	assert.True(t, VecAboutEqual(ext, mgl64.Vec3{2, 1, 3}, DefaultEpsilon), "got %v", ext)
}
