package engine

import "strings"

// Orientation is a cardinal direction on a four position ring, numbered
// clockwise from North.
type Orientation int

const (
	North Orientation = iota
	East
	South
	West
)

const cardinalPoints = 4

var orientationLabels = [cardinalPoints]string{"N", "E", "S", "W"}

var orientationVectors = [cardinalPoints]Position{
	{X: 0, Y: 1},  // North
	{X: 1, Y: 0},  // East
	{X: 0, Y: -1}, // South
	{X: -1, Y: 0}, // West
}

// ParseOrientation converts a single letter label (N, E, S, W) into an Orientation
func ParseOrientation(label string) (Orientation, error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	for i, l := range orientationLabels {
		if l == label {
			return Orientation(i), nil
		}
	}
	return North, simErrorf(ErrConfig, "unknown orientation %q", label)
}

// RotateLeft turns 90 degrees counter-clockwise: N -> W -> S -> E -> N
func (o Orientation) RotateLeft() Orientation {
	return (o.normalize() + cardinalPoints - 1) % cardinalPoints
}

// RotateRight turns 90 degrees clockwise: N -> E -> S -> W -> N
func (o Orientation) RotateRight() Orientation {
	return (o.normalize() + 1) % cardinalPoints
}

// Vector returns the unit displacement of a forward move
func (o Orientation) Vector() Position {
	return orientationVectors[o.normalize()]
}

// String returns the single letter label
func (o Orientation) String() string {
	return orientationLabels[o.normalize()]
}

func (o Orientation) normalize() Orientation {
	return ((o % cardinalPoints) + cardinalPoints) % cardinalPoints
}
