package model

import (
	"math/bits"

	"github.com/pkg/errors"
)

// ErrInvalidDimensions is returned when a grid is requested with a
// non-positive width or height.
var ErrInvalidDimensions = errors.New("grid dimensions must be positive")

const wordBits = 64

// BitGrid is a fixed-capacity dense boolean grid addressed by linear
// index (y*width + x). Cells are packed into 64-bit words; unused bits
// in the final word are always zero, so word equality is cell equality.
type BitGrid struct {
	width  int
	height int
	words  []uint64
}

// NewBitGrid creates a grid with the specified dimensions, populating
// every cell from init. A nil init leaves all cells dead.
func NewBitGrid(width, height int, init func(index int) bool) (*BitGrid, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "[NewBitGrid] got %dx%d", width, height)
	}

	size := width * height
	g := &BitGrid{
		width:  width,
		height: height,
		words:  make([]uint64, (size+wordBits-1)/wordBits),
	}

	if init != nil {
		for i := 0; i < size; i++ {
			if init(i) {
				g.Set(i, true)
			}
		}
	}

	return g, nil
}

// Width returns the width of the grid
func (g *BitGrid) Width() int {
	return g.width
}

// Height returns the height of the grid
func (g *BitGrid) Height() int {
	return g.height
}

// Len returns the total number of addressable cells
func (g *BitGrid) Len() int {
	return g.width * g.height
}

// Test returns the state of a cell. Out-of-range indices read as dead
// rather than failing.
func (g *BitGrid) Test(index int) bool {
	if index < 0 || index >= g.width*g.height {
		return false
	}
	return g.words[index/wordBits]&(1<<(index%wordBits)) != 0
}

// Set sets a cell to alive (true) or dead (false). Out-of-range
// indices are a no-op.
func (g *BitGrid) Set(index int, alive bool) {
	if index < 0 || index >= g.width*g.height {
		return
	}
	if alive {
		g.words[index/wordBits] |= 1 << (index % wordBits)
	} else {
		g.words[index/wordBits] &^= 1 << (index % wordBits)
	}
}

// ResetAll clears every cell
func (g *BitGrid) ResetAll() {
	for i := range g.words {
		g.words[i] = 0
	}
}

// Equal reports whether both grids have the same dimensions and cell
// values. Grids of different dimensions are never equal.
func (g *BitGrid) Equal(other *BitGrid) bool {
	if other == nil || g.width != other.width || g.height != other.height {
		return false
	}
	for i := range g.words {
		if g.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the grid. Mutating the copy
// never affects the source.
func (g *BitGrid) Clone() *BitGrid {
	words := make([]uint64, len(g.words))
	copy(words, g.words)
	return &BitGrid{
		width:  g.width,
		height: g.height,
		words:  words,
	}
}

// Population returns the total number of living cells
func (g *BitGrid) Population() (count int) {
	for _, w := range g.words {
		count += bits.OnesCount64(w)
	}
	return
}
