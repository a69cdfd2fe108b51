package turnplayer

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/domino14/reversi/board"
	"github.com/domino14/reversi/move"
)

// HumanPlayer reads placements as "x y" or "x,y" lines from an input
// stream, re-prompting until a legal one arrives. Human players reading
// the same stream must share one scanner, since a scanner buffers ahead.
type HumanPlayer struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewHumanPlayer(in *bufio.Scanner, out io.Writer) *HumanPlayer {
	return &HumanPlayer{in: in, out: out}
}

func (p *HumanPlayer) Name() string {
	return "human"
}

func (p *HumanPlayer) Move(who board.Player, b board.Board) (board.Board, move.Move, error) {
	if !b.HasLegalMove(who) {
		fmt.Fprintln(p.out, "No available user input. Skipping.")
		return b, move.Pass, nil
	}
	for {
		fmt.Fprintf(p.out, "%v to move: ", who)
		if p.in == nil {
			return b, move.Pass, io.ErrUnexpectedEOF
		}
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return b, move.Pass, err
			}
			return b, move.Pass, io.ErrUnexpectedEOF
		}
		m, err := move.Parse(strings.Fields(p.in.Text()))
		if err != nil {
			fmt.Fprintln(p.out, err)
			continue
		}
		if m.IsPass() {
			fmt.Fprintln(p.out, "You have a legal placement; passing is not allowed.")
			continue
		}
		after, ok := b.Play(who, m)
		if !ok {
			fmt.Fprintf(p.out, "%v is not a legal move.\n", m)
			continue
		}
		return after, m, nil
	}
}
