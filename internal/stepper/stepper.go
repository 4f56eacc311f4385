// Package stepper implements the serial, two-buffer cellular-automaton
// update: for every inner cell, count wall neighbors in a
// (2R+1)x(2R+1) square and apply the hysteresis rule around the
// half-neighbors pivot H.
package stepper

import "github.com/gocave/cavegen/internal/tile"

// Rule holds the two parameters that shape the cellular-automaton
// update: the neighborhood radius R and the hysteresis width roughness.
type Rule struct {
	Radius    int
	Roughness int
}

// HalfNeighbors returns H = 4R(R+1)/2, the majority-vote pivot.
func (r Rule) HalfNeighbors() int {
	return 4 * r.Radius * (r.Radius + 1) / 2
}

// MaxNeighbors returns the total neighbor count 4R(R+1), used to detect
// the "roughness > max/2" boundary case where every cell's neighbor
// count always falls inside the hysteresis band and the grid becomes
// invariant after the first generation.
func (r Rule) MaxNeighbors() int {
	return 4 * r.Radius * (r.Radius + 1)
}

// Step computes the next generation into write, reading from read, for
// every inner cell of the tile. Both tiles must share read's dimensions
// and have a valid halo (replicated from neighbors, or pinned to Wall at
// global edges) before Step is called; halo cells are never written.
func Step(write, read *tile.Tile, rule Rule) {
	r := rule.Radius
	half := rule.HalfNeighbors()
	rough := rule.Roughness

	for y := 0; y < read.InnerRows; y++ {
		outerY := y + r
		for x := 0; x < read.InnerCols; x++ {
			outerX := x + r
			walls := countWalls(read, outerY, outerX, r)

			var next byte
			switch {
			case walls >= half+rough:
				next = tile.Wall
			case walls <= half-rough:
				next = tile.Floor
			default:
				next = read.Get(outerY, outerX)
			}
			write.Set(outerY, outerX, next)
		}
	}
}

// countWalls sums Wall cells in the (2R+1)x(2R+1) square centered at
// (cy,cx) in outer-buffer coordinates, excluding the center cell itself.
func countWalls(t *tile.Tile, cy, cx, r int) int {
	sum := 0
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dy == 0 && dx == 0 {
				continue
			}
			if t.Get(cy+dy, cx+dx) == tile.Wall {
				sum++
			}
		}
	}
	return sum
}
