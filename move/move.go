// Package move holds the Move type shared by the board and both search
// engines. A move is either a placement on a square or a pass.
package move

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// BoardDim is the side length of the board. It lives here rather than in
// the board package so that a Move can compute its own square index.
const BoardDim = 8

var ErrBadMove = errors.New("could not parse move")

// Move is a placement at (X, Y), or the Pass sentinel. X is the row and Y
// is the column, matching the row-major scan order used everywhere.
type Move struct {
	X int8
	Y int8
}

// Pass is played when the side to move has no legal placement. It flips
// the player on turn without touching the board.
var Pass = Move{X: -1, Y: -1}

// New creates a placement move. It does not check legality.
func New(x, y int) Move {
	return Move{X: int8(x), Y: int8(y)}
}

func (m Move) IsPass() bool {
	return m.X < 0 || m.Y < 0
}

// OnBoard returns true if the move is a placement within the board.
func (m Move) OnBoard() bool {
	return m.X >= 0 && m.Y >= 0 && m.X < BoardDim && m.Y < BoardDim
}

// Index returns the row-major index of the square. It returns -1 for a pass.
func (m Move) Index() int {
	if m.IsPass() {
		return -1
	}
	return int(m.X)*BoardDim + int(m.Y)
}

// FromIndex is the inverse of Index.
func FromIndex(idx int) Move {
	if idx < 0 {
		return Pass
	}
	return New(idx/BoardDim, idx%BoardDim)
}

func (m Move) String() string {
	if m.IsPass() {
		return "pass"
	}
	return fmt.Sprintf("%d,%d", m.X, m.Y)
}

// Parse turns user input into a move. It accepts "pass", "x,y", or two
// separate fields "x" "y".
func Parse(fields []string) (Move, error) {
	switch len(fields) {
	case 1:
		f := strings.ToLower(strings.TrimSpace(fields[0]))
		if f == "pass" {
			return Pass, nil
		}
		coords := strings.Split(f, ",")
		if len(coords) != 2 {
			return Pass, fmt.Errorf("%w: %q", ErrBadMove, fields[0])
		}
		return parseCoords(coords[0], coords[1])
	case 2:
		return parseCoords(fields[0], fields[1])
	}
	return Pass, fmt.Errorf("%w: expected 1 or 2 fields, got %d", ErrBadMove, len(fields))
}

func parseCoords(xs, ys string) (Move, error) {
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return Pass, fmt.Errorf("%w: %v", ErrBadMove, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return Pass, fmt.Errorf("%w: %v", ErrBadMove, err)
	}
	m := New(x, y)
	if x < 0 || y < 0 || x >= BoardDim || y >= BoardDim {
		return Pass, fmt.Errorf("%w: %v is off the board", ErrBadMove, m)
	}
	return m, nil
}
