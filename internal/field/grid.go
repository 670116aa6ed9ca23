package field

import (
	"math"
	"sort"

	"github.com/san-kum/lorentz/internal/dynamo"
)

// maxCellsPerRegion caps how many grid cells a single region is indexed
// into; larger regions are always tested.
const maxCellsPerRegion = 4096

type cellKey struct{ ix, iy int }

// Grid is a uniform-grid index over a fixed region set. Sample returns the
// same value, bit for bit, as the brute-force scan: candidates are summed in
// region order.
type Grid struct {
	regions  []Region
	cellSize float64
	cells    map[cellKey][]int
	overflow []int
}

// NewGrid indexes regions into square cells of the given size. cellSize <= 0
// picks the mean region extent.
func NewGrid(regions []Region, cellSize float64) *Grid {
	if cellSize <= 0 || math.IsNaN(cellSize) || math.IsInf(cellSize, 0) {
		cellSize = meanExtent(regions)
	}
	g := &Grid{
		regions:  append([]Region(nil), regions...),
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}

	for i, r := range g.regions {
		x0, ok0 := g.index(r.X)
		x1, ok1 := g.index(r.X + r.Width)
		y0, ok2 := g.index(r.Y)
		y1, ok3 := g.index(r.Y + r.Height)
		nx, ny := x1-x0+1, y1-y0+1
		if !(ok0 && ok1 && ok2 && ok3) || nx > maxCellsPerRegion || ny > maxCellsPerRegion || nx*ny > maxCellsPerRegion {
			g.overflow = append(g.overflow, i)
			continue
		}
		for ix := x0; ix <= x1; ix++ {
			for iy := y0; iy <= y1; iy++ {
				k := cellKey{ix, iy}
				g.cells[k] = append(g.cells[k], i)
			}
		}
	}

	return g
}

func (g *Grid) CellSize() float64 { return g.cellSize }

func (g *Grid) Len() int { return len(g.regions) }

func (g *Grid) Sample(p dynamo.Vec2) dynamo.Field {
	var candidates []int
	ix, okx := g.index(p.X)
	iy, oky := g.index(p.Y)
	if okx && oky {
		candidates = g.cells[cellKey{ix, iy}]
	}

	var f dynamo.Field
	if len(g.overflow) == 0 {
		for _, i := range candidates {
			f = g.accumulate(f, i, p)
		}
		return f
	}

	merged := make([]int, 0, len(candidates)+len(g.overflow))
	merged = append(merged, candidates...)
	merged = append(merged, g.overflow...)
	sort.Ints(merged)
	for _, i := range merged {
		f = g.accumulate(f, i, p)
	}
	return f
}

func (g *Grid) accumulate(f dynamo.Field, i int, p dynamo.Vec2) dynamo.Field {
	r := &g.regions[i]
	if r.Contains(p) {
		f.E.X += r.Ex
		f.E.Y += r.Ey
		f.Bz += r.Bz
	}
	return f
}

func (g *Grid) index(v float64) (int, bool) {
	c := math.Floor(v / g.cellSize)
	if math.IsNaN(c) || c > math.MaxInt32 || c < math.MinInt32 {
		return 0, false
	}
	return int(c), true
}

func meanExtent(regions []Region) float64 {
	sum, n := 0.0, 0
	for _, r := range regions {
		e := math.Max(r.Width, r.Height)
		if e > 0 && !math.IsInf(e, 0) && !math.IsNaN(e) {
			sum += e
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return sum / float64(n)
}
