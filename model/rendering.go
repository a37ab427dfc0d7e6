package model

import (
	"fmt"
	"io"
)

const (
	gridPosAlive = "\033[38;5;82m◆\033[0m"
	gridPosEmpty = " "

	clearScreenSeq = "\033[2J\033[1;1H"
	cursorHomeSeq  = "\033[H"
)

// TerminalRenderer implements basic terminal rendering
type TerminalRenderer struct {
	Out io.Writer
}

// Display renders the grid to Out, one row per line
func (r *TerminalRenderer) Display(g *BitGrid) {
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.Test(y*g.Width() + x) {
				fmt.Fprint(r.Out, gridPosAlive)
			} else {
				fmt.Fprint(r.Out, gridPosEmpty)
			}
		}
		fmt.Fprintln(r.Out)
	}
}

// Clear clears the terminal screen and moves the cursor to the top-left
func (r *TerminalRenderer) Clear() {
	fmt.Fprint(r.Out, clearScreenSeq)
}

// Home moves the cursor to the top-left without clearing, so each frame
// overdraws the last one in place
func (r *TerminalRenderer) Home() {
	fmt.Fprint(r.Out, cursorHomeSeq)
}
