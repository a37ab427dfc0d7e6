package model

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/mattsre/go-automaton/rules"
)

// Status reports whether the simulation should keep running after a step
type Status int

const (
	// Continuing means the board is still evolving
	Continuing Status = iota
	// Halted means the board has reached a stable or alternating state
	Halted
)

// Engine advances a Game of Life board one generation at a time.
//
// It owns three equally sized grids: current (the visible generation),
// next (scratch, cleared and fully repopulated every step), and
// previous (one-step history, read only by the termination test).
type Engine struct {
	width    int
	height   int
	speed    time.Duration
	current  *BitGrid
	next     *BitGrid
	previous *BitGrid

	generation int
	halted     bool
}

// NewEngine creates an engine with current seeded from seed and the
// scratch and history grids dead. speed is a pass-through pacing hint
// for the display loop; the algorithm never reads it.
func NewEngine(width, height int, speed time.Duration, seed func(index int) bool) (*Engine, error) {
	current, err := NewBitGrid(width, height, seed)
	if err != nil {
		return nil, errors.Wrap(err, "[NewEngine] current grid")
	}

	next, err := NewBitGrid(width, height, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[NewEngine] next grid")
	}

	previous, err := NewBitGrid(width, height, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[NewEngine] previous grid")
	}

	return &Engine{
		width:    width,
		height:   height,
		speed:    speed,
		current:  current,
		next:     next,
		previous: previous,
	}, nil
}

// RandomSeed returns an initializer that marks each cell alive
// independently with the given probability, drawing from r.
func RandomSeed(r *rand.Rand, density float64) func(index int) bool {
	return func(int) bool {
		return r.Float64() < density
	}
}

// Step computes one generation and reports whether the simulation
// should continue.
//
// Termination uses two-state cycle detection: the step halts when the
// freshly computed generation equals either the previous generation
// (period-2 oscillation) or the current one (fixed point). History is
// advanced before returning, so the visible state on Halted is the new
// generation. Halted is terminal; further calls return Halted without
// recomputing.
func (e *Engine) Step() Status {
	if e.halted {
		return Halted
	}

	e.next.ResetAll()

	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			index := y*e.width + x
			neighbors := e.CountLiveNeighbors(x, y)
			e.next.Set(index, rules.ApplyConwayRules(neighbors, e.current.Test(index)))
		}
	}

	e.halted = e.next.Equal(e.previous) || e.next.Equal(e.current)

	// Rotate the three grids: previous takes the pre-update current,
	// current takes the fresh generation, and the old history grid
	// becomes scratch for the next step.
	e.previous, e.current, e.next = e.current, e.next, e.previous
	e.generation++

	if e.halted {
		return Halted
	}
	return Continuing
}

// CountLiveNeighbors counts the living cells among the up-to-eight
// in-bounds Moore neighbors of (x, y). The board does not wrap; cells
// beyond an edge contribute nothing.
func (e *Engine) CountLiveNeighbors(x, y int) int {
	count := 0

	minX := max(0, x-1)
	maxX := min(e.width-1, x+1)
	minY := max(0, y-1)
	maxY := min(e.height-1, y+1)

	for ny := minY; ny <= maxY; ny++ {
		for nx := minX; nx <= maxX; nx++ {
			if nx == x && ny == y {
				continue // Skip the cell itself
			}
			if e.current.Test(ny*e.width + nx) {
				count++
			}
		}
	}

	return count
}

// Snapshot returns a copy of the current generation for rendering.
// Mutating the returned grid never affects the engine.
func (e *Engine) Snapshot() *BitGrid {
	return e.current.Clone()
}

// Width returns the board width
func (e *Engine) Width() int {
	return e.width
}

// Height returns the board height
func (e *Engine) Height() int {
	return e.height
}

// Speed returns the display pacing hint supplied at construction
func (e *Engine) Speed() time.Duration {
	return e.speed
}

// Generation returns how many steps have been computed
func (e *Engine) Generation() int {
	return e.generation
}

// Population returns the number of living cells in the current generation
func (e *Engine) Population() int {
	return e.current.Population()
}

// Halted reports whether the simulation has reached a stable or
// alternating state
func (e *Engine) Halted() bool {
	return e.halted
}
