package diagram

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircleFromThreePoints_RightAngle_ReturnsCircumcircle(t *testing.T) {
	c, ok := CircleFromThreePoints(0, 0, 2, 0, 1, 1)

	require.True(t, ok)
	assert.InDelta(t, 1, c.X, 1e-9)
	assert.InDelta(t, 0, c.Y, 1e-9)
	assert.InDelta(t, 1, c.Radius, 1e-9)
}

func TestCircleFromThreePoints_Collinear_NotOK(t *testing.T) {
	_, ok := CircleFromThreePoints(0, 0, 100, 0, 50, 0)
	assert.False(t, ok)

	_, ok = CircleFromThreePoints(0, 0, 1000, 0, 500, 1e-6)
	assert.False(t, ok)
}

func TestClosestPointOnCircle(t *testing.T) {
	p := closestPointOnCircle(Point{X: 10, Y: 10}, 5, Point{X: 10, Y: 100})
	assert.InDelta(t, 10, p.X, 1e-9)
	assert.InDelta(t, 15, p.Y, 1e-9)

	// Coincident points fall back to angle 0.
	p = closestPointOnCircle(Point{X: 10, Y: 10}, 5, Point{X: 10, Y: 10})
	assert.Equal(t, Point{X: 15, Y: 10}, p)
}

func TestArrowHead_PointsAlongAngle(t *testing.T) {
	head := ArrowHead(100, 100, 0)

	assert.Equal(t, Point{X: 100, Y: 100}, head[0])
	assert.InDelta(t, 92, head[1].X, 1e-9)
	assert.InDelta(t, 92, head[2].X, 1e-9)
	assert.InDelta(t, 200, head[1].Y+head[2].Y, 1e-9)
}

func TestLabelPosition_Dragged_UsesOffsetOnly(t *testing.T) {
	p := LabelPosition(200, 100, math.Pi/2, 40, 20, 38, true)
	assert.Equal(t, Point{X: 200, Y: 138}, p)
}

func TestLabelPosition_BelowStraightLink(t *testing.T) {
	p := LabelPosition(200, 100, math.Pi/2, 40, 20, 5, false)
	assert.Equal(t, Point{X: 200, Y: 110}, p)
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, 0, normalizeAngle(2*math.Pi), 1e-12)
	assert.InDelta(t, -math.Pi/2, normalizeAngle(3*math.Pi/2), 1e-12)
	assert.InDelta(t, math.Pi/2, normalizeAngle(-3*math.Pi/2), 1e-12)
}

func TestConvertLatexShortcuts(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{`\alpha`, "α"},
		{`\Omega`, "Ω"},
		{`\sigma`, "σ"},
		{`\epsilon`, "ε"},
		{"q_0", "q₀"},
		{"s_9_a", "s₉ₐ"},
		{`a\to b`, `a\to b`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertLatexShortcuts(tt.in))
		})
	}
}
