package domain

import (
	"fmt"
	"math"
)

// Point is a position in the shared world coordinate space.
type Point struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Round snaps the point to the nearest whole unit. Halves round up (toward +Inf), so
// -0.5 becomes 0 and 2.5 becomes 3.
func (p Point) Round() Point {
	return Point{X: roundHalfUp(p.X), Y: roundHalfUp(p.Y)}
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// Key returns the "x,y" key of the rounded point.
func (p Point) Key() string {
	r := p.Round()
	return fmt.Sprintf("%d,%d", int64(r.X), int64(r.Y))
}

// Distance returns the Euclidean distance between two points.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Placement positions a component in the world: Origin is the component position and
// Rotation is expressed in degrees, clockwise in screen space (Y grows downward).
type Placement struct {
	Origin   Point   `json:"origin" yaml:"origin"`
	Rotation float64 `json:"rotation" yaml:"rotation"`
}

// World converts a component-relative terminal offset into world coordinates.
func (pl Placement) World(local Point) Point {
	rad := pl.Rotation * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Point{
		X: pl.Origin.X + local.X*cos - local.Y*sin,
		Y: pl.Origin.Y + local.X*sin + local.Y*cos,
	}
}
