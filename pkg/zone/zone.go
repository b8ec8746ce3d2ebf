// Package zone provides tile coordinates and axis-aligned regions of the
// game world.
package zone

import "fmt"

// WorldPoint is a tile coordinate: x, y and the elevation plane.
type WorldPoint struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Plane int `json:"plane"`
}

// NewWorldPoint creates a WorldPoint.
func NewWorldPoint(x, y, plane int) WorldPoint {
	return WorldPoint{X: x, Y: y, Plane: plane}
}

func (p WorldPoint) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Plane)
}

// Zone is an axis-aligned rectangular region of tiles. Corners are
// normalized at construction, so Min is always the south-west-bottom corner.
type Zone struct {
	MinX     int `json:"min_x"`
	MinY     int `json:"min_y"`
	MaxX     int `json:"max_x"`
	MaxY     int `json:"max_y"`
	MinPlane int `json:"min_plane"`
	MaxPlane int `json:"max_plane"`
}

// New creates a Zone spanning the box between two corner points. The corners
// may be given in any order.
func New(p1, p2 WorldPoint) Zone {
	return Zone{
		MinX:     min(p1.X, p2.X),
		MinY:     min(p1.Y, p2.Y),
		MaxX:     max(p1.X, p2.X),
		MaxY:     max(p1.Y, p2.Y),
		MinPlane: min(p1.Plane, p2.Plane),
		MaxPlane: max(p1.Plane, p2.Plane),
	}
}

// NewSingle creates a Zone covering exactly one tile.
func NewSingle(p WorldPoint) Zone {
	return New(p, p)
}

// Contains reports whether the point falls inside the zone. Bounds are
// inclusive on all faces.
func (z Zone) Contains(p WorldPoint) bool {
	return z.MinX <= p.X && p.X <= z.MaxX &&
		z.MinY <= p.Y && p.Y <= z.MaxY &&
		z.MinPlane <= p.Plane && p.Plane <= z.MaxPlane
}
