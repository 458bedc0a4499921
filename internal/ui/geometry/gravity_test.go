package geometry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skylarkphone/skylark/internal/ui/geometry"
)

func rectCenteredAt(x, y int) geometry.Rect {
	return geometry.Rect{X: x - 5, Y: y - 5, Width: 10, Height: 10}
}

func TestClassifyGravityZones(t *testing.T) {
	container := geometry.Size{Width: 300, Height: 300}

	tests := []struct {
		name string
		rect geometry.Rect
		want geometry.Gravity
	}{
		{"top left cell", rectCenteredAt(50, 50), geometry.GravityTopLeft},
		{"top cell", rectCenteredAt(150, 50), geometry.GravityTop},
		{"top right cell", rectCenteredAt(250, 50), geometry.GravityTopRight},
		{"left cell", rectCenteredAt(50, 150), geometry.GravityLeft},
		{"center cell", rectCenteredAt(150, 150), geometry.GravityCenter},
		{"right cell", rectCenteredAt(250, 150), geometry.GravityRight},
		{"bottom left cell", rectCenteredAt(50, 250), geometry.GravityBottomLeft},
		{"bottom cell", rectCenteredAt(150, 250), geometry.GravityBottom},
		{"bottom right cell", rectCenteredAt(250, 250), geometry.GravityBottomRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, geometry.ClassifyGravity(tt.rect, container))
		})
	}
}

func TestClassifyGravityBoundaryBelongsToUpperLeftZone(t *testing.T) {
	container := geometry.Size{Width: 300, Height: 300}

	// A center exactly on the first third boundary stays in the first zone.
	assert.Equal(t, geometry.GravityTopLeft,
		geometry.ClassifyGravity(rectCenteredAt(100, 100), container))
	assert.Equal(t, geometry.GravityCenter,
		geometry.ClassifyGravity(rectCenteredAt(200, 200), container))
}

func TestClassifyGravityClampsOutsideCenters(t *testing.T) {
	container := geometry.Size{Width: 300, Height: 300}

	assert.Equal(t, geometry.GravityTopLeft,
		geometry.ClassifyGravity(rectCenteredAt(-500, -500), container))
	assert.Equal(t, geometry.GravityBottomRight,
		geometry.ClassifyGravity(rectCenteredAt(900, 900), container))
	assert.Equal(t, geometry.GravityRight,
		geometry.ClassifyGravity(rectCenteredAt(900, 150), container))
}

func TestReanchorCorners(t *testing.T) {
	host := geometry.Rect{X: 0, Y: 0, Width: 400, Height: 300}
	ideal := geometry.Rect{X: 40, Y: 30, Width: 120, Height: 90}
	r := geometry.Rect{X: 0, Y: 0, Width: 80, Height: 60}

	tests := []struct {
		name string
		g    geometry.Gravity
		want geometry.Rect
	}{
		{"top left pins top left", geometry.GravityTopLeft, geometry.Rect{X: 40, Y: 30, Width: 80, Height: 60}},
		{"top right pins top right", geometry.GravityTopRight, geometry.Rect{X: 80, Y: 30, Width: 80, Height: 60}},
		{"bottom left pins bottom left", geometry.GravityBottomLeft, geometry.Rect{X: 40, Y: 60, Width: 80, Height: 60}},
		{"bottom right pins bottom right", geometry.GravityBottomRight, geometry.Rect{X: 80, Y: 60, Width: 80, Height: 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, geometry.Reanchor(r, tt.g, ideal, host))
		})
	}
}

func TestReanchorEdgesCenterTheFreeAxis(t *testing.T) {
	host := geometry.Rect{X: 0, Y: 0, Width: 400, Height: 300}
	ideal := geometry.Rect{X: 40, Y: 30, Width: 120, Height: 90}
	r := geometry.Rect{X: 0, Y: 0, Width: 80, Height: 60}

	top := geometry.Reanchor(r, geometry.GravityTop, ideal, host)
	assert.Equal(t, 30, top.Y)
	assert.Equal(t, ideal.Center().X, top.Center().X)

	right := geometry.Reanchor(r, geometry.GravityRight, ideal, host)
	assert.Equal(t, ideal.Right(), right.Right())
	assert.Equal(t, ideal.Center().Y, right.Center().Y)

	center := geometry.Reanchor(r, geometry.GravityCenter, ideal, host)
	assert.Equal(t, ideal.Center(), center.Center())
}

func TestReanchorClampsIntoHost(t *testing.T) {
	host := geometry.Rect{X: 0, Y: 0, Width: 200, Height: 150}
	// Ideal hangs past the host's bottom-right corner.
	ideal := geometry.Rect{X: 150, Y: 120, Width: 100, Height: 80}
	r := geometry.Rect{X: 0, Y: 0, Width: 80, Height: 60}

	got := geometry.Reanchor(r, geometry.GravityBottomRight, ideal, host)

	assert.LessOrEqual(t, got.Right(), host.Right())
	assert.LessOrEqual(t, got.Bottom(), host.Bottom())
	assert.GreaterOrEqual(t, got.X, host.X)
	assert.GreaterOrEqual(t, got.Y, host.Y)
}
