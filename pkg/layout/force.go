// Package layout computes force-directed node positions for a graph.
//
// The simulation is the usual charge/spring model: all node pairs repel,
// edges pull their endpoints toward a rest length, and a weak centering
// gravity keeps disconnected components from drifting apart. It runs a fixed
// number of iterations with velocity damping and is invoked with fixed
// parameters, once per render, as a full replace.
package layout

import (
	"math"
	"math/rand"
)

// Node is a vertex to place. Only the identity matters to the simulation.
type Node struct {
	ID string
}

// Edge joins two nodes by index into the node slice.
type Edge struct {
	Source int
	Target int
}

// Point is a 2D coordinate in the abstract layout space.
type Point struct {
	X float64
	Y float64
}

// Options are the simulation parameters.
type Options struct {
	Width           float64 // extent of the layout space
	Height          float64
	Iterations      int
	Repulsion       float64 // pairwise charge strength
	SpringLength    float64 // edge rest length
	SpringStiffness float64
	Damping         float64 // velocity retained per step, in (0,1)
	Gravity         float64 // pull toward the center
	Seed            int64   // initial-placement seed; fixed for determinism
}

// DefaultOptions returns the fixed parameter set used for every render.
func DefaultOptions() Options {
	return Options{
		Width:           1000,
		Height:          1000,
		Iterations:      300,
		Repulsion:       2500,
		SpringLength:    120,
		SpringStiffness: 0.05,
		Damping:         0.85,
		Gravity:         0.02,
		Seed:            1,
	}
}

// Result holds the computed positions, index-aligned with the input nodes,
// normalized to fill the [0,Width]x[0,Height] space with a small margin.
type Result struct {
	Positions []Point
	Width     float64
	Height    float64
}

// Compute runs the simulation to completion. It is deterministic for a given
// node order, edge list, and options.
func Compute(nodes []Node, edges []Edge, opts Options) Result {
	n := len(nodes)
	res := Result{Width: opts.Width, Height: opts.Height}
	if n == 0 {
		return res
	}

	pos := make([]Point, n)
	vel := make([]Point, n)

	// Seeded placement on a circle with jitter: stable across renders of the
	// same selection, spread enough that repulsion can take over.
	rng := rand.New(rand.NewSource(opts.Seed))
	cx, cy := opts.Width/2, opts.Height/2
	radius := math.Min(opts.Width, opts.Height) / 3
	for i := range pos {
		angle := 2 * math.Pi * float64(i) / float64(n)
		pos[i] = Point{
			X: cx + radius*math.Cos(angle) + rng.Float64()*10,
			Y: cy + radius*math.Sin(angle) + rng.Float64()*10,
		}
	}
	if n == 1 {
		pos[0] = Point{X: cx, Y: cy}
		res.Positions = pos
		return res
	}

	for iter := 0; iter < opts.Iterations; iter++ {
		// Pairwise repulsion.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := pos[i].X - pos[j].X
				dy := pos[i].Y - pos[j].Y
				d2 := dx*dx + dy*dy
				if d2 < 1 {
					d2 = 1
				}
				f := opts.Repulsion / d2
				d := math.Sqrt(d2)
				fx := dx / d * f
				fy := dy / d * f
				vel[i].X += fx
				vel[i].Y += fy
				vel[j].X -= fx
				vel[j].Y -= fy
			}
		}

		// Spring attraction along edges.
		for _, e := range edges {
			if e.Source == e.Target {
				continue
			}
			dx := pos[e.Target].X - pos[e.Source].X
			dy := pos[e.Target].Y - pos[e.Source].Y
			d := math.Hypot(dx, dy)
			if d < 1 {
				d = 1
			}
			f := (d - opts.SpringLength) * opts.SpringStiffness
			fx := dx / d * f
			fy := dy / d * f
			vel[e.Source].X += fx
			vel[e.Source].Y += fy
			vel[e.Target].X -= fx
			vel[e.Target].Y -= fy
		}

		// Centering gravity, damping, integration.
		for i := 0; i < n; i++ {
			vel[i].X += (cx - pos[i].X) * opts.Gravity
			vel[i].Y += (cy - pos[i].Y) * opts.Gravity
			vel[i].X *= opts.Damping
			vel[i].Y *= opts.Damping
			pos[i].X += vel[i].X
			pos[i].Y += vel[i].Y
		}
	}

	normalize(pos, opts.Width, opts.Height)
	res.Positions = pos
	return res
}

// normalize rescales positions to fill the layout space with a 5% margin,
// preserving aspect of relative placement per axis.
func normalize(pos []Point, width, height float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pos {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	marginX := width * 0.05
	marginY := height * 0.05
	spanX := maxX - minX
	spanY := maxY - minY
	for i := range pos {
		if spanX > 0 {
			pos[i].X = marginX + (pos[i].X-minX)/spanX*(width-2*marginX)
		} else {
			pos[i].X = width / 2
		}
		if spanY > 0 {
			pos[i].Y = marginY + (pos[i].Y-minY)/spanY*(height-2*marginY)
		} else {
			pos[i].Y = height / 2
		}
	}
}
