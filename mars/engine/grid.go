package engine

import (
	"sort"
	"strings"
)

// Grid is the Mars surface. Both sizes are inclusive upper bounds.
type Grid struct {
	sizeX  int
	sizeY  int
	scents map[Position]struct{}
}

// NewGrid builds an unscented surface of (sizeX+1) x (sizeY+1) cells
func NewGrid(sizeX, sizeY int) (*Grid, error) {
	if sizeX < MinGridSize || sizeX > MaxGridSize {
		return nil, simErrorf(ErrConfig, "grid size x must be between %d and %d, got %d", MinGridSize, MaxGridSize, sizeX)
	}
	if sizeY < MinGridSize || sizeY > MaxGridSize {
		return nil, simErrorf(ErrConfig, "grid size y must be between %d and %d, got %d", MinGridSize, MaxGridSize, sizeY)
	}

	return &Grid{
		sizeX:  sizeX,
		sizeY:  sizeY,
		scents: make(map[Position]struct{}),
	}, nil
}

// SizeX returns the inclusive upper bound of the x axis
func (g *Grid) SizeX() int { return g.sizeX }

// SizeY returns the inclusive upper bound of the y axis
func (g *Grid) SizeY() int { return g.sizeY }

// Contains reports whether (x, y) lies on the surface
func (g *Grid) Contains(x, y int) bool {
	return x >= 0 && x <= g.sizeX && y >= 0 && y <= g.sizeY
}

// MarkLostPoint records a scent at (x, y). Marking twice has no further effect.
func (g *Grid) MarkLostPoint(x, y int) {
	g.scents[Position{X: x, Y: y}] = struct{}{}
}

// IsScented reports whether a robot has previously been lost from (x, y)
func (g *Grid) IsScented(x, y int) bool {
	_, ok := g.scents[Position{X: x, Y: y}]
	return ok
}

// ScentedCells returns every scented cell ordered by y, then x
func (g *Grid) ScentedCells() []Position {
	cells := make([]Position, 0, len(g.scents))
	for p := range g.scents {
		cells = append(cells, p)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
	return cells
}

// Render draws the surface top row first. Scented cells are '#', the rest '.'.
// Scents recorded outside the surface are not drawn.
func (g *Grid) Render() []string {
	rows := make([]string, 0, g.sizeY+1)
	for y := g.sizeY; y >= 0; y-- {
		var b strings.Builder
		for x := 0; x <= g.sizeX; x++ {
			if g.IsScented(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		rows = append(rows, b.String())
	}
	return rows
}
