// Package board implements the 8x8 Reversi board: stone placement, flip
// computation, legality checks and terminal detection. A Board is a plain
// value; every placement produces a new Board and never mutates the
// receiver, so search trees can copy boards freely.
package board

import (
	"errors"
	"math/bits"

	"github.com/domino14/reversi/move"
)

// Dim is the side length of the board.
const Dim = move.BoardDim

const NumSquares = Dim * Dim

var ErrBadPosition = errors.New("bad board position")

// Player is 0 or 1. Player 0 plays the `x` stones and player 1 plays `o`.
type Player uint8

const (
	Player0 Player = 0
	Player1 Player = 1
)

// Opponent returns the other player.
func (p Player) Opponent() Player {
	return p ^ 1
}

// Mark returns the display character for the player's stones.
func (p Player) Mark() byte {
	if p == Player0 {
		return 'x'
	}
	return 'o'
}

func (p Player) String() string {
	return string(p.Mark())
}

// Winner is the result of a board as computed by Board.Winner.
type Winner int8

const (
	Continuing Winner = iota
	Player0Wins
	Player1Wins
	Tie
)

func (w Winner) String() string {
	switch w {
	case Continuing:
		return "continuing"
	case Player0Wins:
		return "x wins"
	case Player1Wins:
		return "o wins"
	case Tie:
		return "tie"
	}
	return "unknown"
}

// Decided returns true if the game is over.
func (w Winner) Decided() bool {
	return w != Continuing
}

// WinnerFor returns the Winner value corresponding to a win by p.
func WinnerFor(p Player) Winner {
	if p == Player0 {
		return Player0Wins
	}
	return Player1Wins
}

// Board holds one bit plane per player. Bit x*Dim+y is set if the player
// has a stone on row x, column y. A square is never set in both planes.
type Board struct {
	planes [2]uint64
}

// the eight compass directions, as (dx, dy)
var directions = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

func onBoard(x, y int) bool {
	return x >= 0 && y >= 0 && x < Dim && y < Dim
}

func bit(x, y int) uint64 {
	return 1 << uint(x*Dim+y)
}

// NewBoard returns a board with the standard four-stone opening.
func NewBoard() Board {
	var b Board
	b.Set(Player1, 3, 3)
	b.Set(Player0, 3, 4)
	b.Set(Player0, 4, 3)
	b.Set(Player1, 4, 4)
	return b
}

// At returns true if player p has a stone at (x, y).
func (b Board) At(p Player, x, y int) bool {
	return b.planes[p]&bit(x, y) != 0
}

// Empty returns true if neither player has a stone at (x, y).
func (b Board) Empty(x, y int) bool {
	return (b.planes[0]|b.planes[1])&bit(x, y) == 0
}

// Set puts a stone for p at (x, y), removing any opposing stone there.
// It is meant for setting up positions, not for playing moves.
func (b *Board) Set(p Player, x, y int) {
	b.planes[p] |= bit(x, y)
	b.planes[p.Opponent()] &^= bit(x, y)
}

// Clear empties the square at (x, y).
func (b *Board) Clear(x, y int) {
	b.planes[0] &^= bit(x, y)
	b.planes[1] &^= bit(x, y)
}

// Plane returns p's stones as a bitmask, bit x*Dim+y for square (x, y).
func (b Board) Plane(p Player) uint64 {
	return b.planes[p]
}

// Count returns the number of stones p has on the board.
func (b Board) Count(p Player) int {
	return bits.OnesCount64(b.planes[p])
}

// Differential is the material balance from p's point of view: own stones
// minus opponent stones. It is the static evaluation used by minimax.
func (b Board) Differential(p Player) int {
	return b.Count(p) - b.Count(p.Opponent())
}

// TilesPlayed returns the total number of stones on the board.
func (b Board) TilesPlayed() int {
	return bits.OnesCount64(b.planes[0] | b.planes[1])
}

// flankLength returns how many opponent stones would be flipped along
// direction (dx, dy) if p placed at (x, y). It returns 0 if the line is
// not closed off by one of p's stones.
func (b Board) flankLength(p Player, x, y, dx, dy int) int {
	opp := p.Opponent()
	n := 0
	cx, cy := x+dx, y+dy
	for onBoard(cx, cy) && b.At(opp, cx, cy) {
		n++
		cx += dx
		cy += dy
	}
	if n == 0 || !onBoard(cx, cy) || !b.At(p, cx, cy) {
		return 0
	}
	return n
}

// Place checks whether p may place a stone at (x, y). If the placement is
// legal and out is non-nil, out receives the resulting board, with the new
// stone placed and every flanked opponent stone flipped. With a nil out the
// call is a pure legality probe.
func (b Board) Place(p Player, x, y int, out *Board) bool {
	if !onBoard(x, y) || !b.Empty(x, y) {
		return false
	}
	var flips uint64
	for _, d := range directions {
		n := b.flankLength(p, x, y, d[0], d[1])
		if n == 0 {
			continue
		}
		if out == nil {
			return true
		}
		for i := 1; i <= n; i++ {
			flips |= bit(x+d[0]*i, y+d[1]*i)
		}
	}
	if flips == 0 {
		return false
	}
	res := b
	res.planes[p] |= flips | bit(x, y)
	res.planes[p.Opponent()] &^= flips
	*out = res
	return true
}

// Play applies m for p. A pass returns the board unchanged. The boolean
// result is false if the placement is illegal.
func (b Board) Play(p Player, m move.Move) (Board, bool) {
	if m.IsPass() {
		return b, true
	}
	var out Board
	if !b.Place(p, int(m.X), int(m.Y), &out) {
		return b, false
	}
	return out, true
}

// HasLegalMove returns true if p can place a stone anywhere.
func (b Board) HasLegalMove(p Player) bool {
	for x := 0; x < Dim; x++ {
		for y := 0; y < Dim; y++ {
			if b.Place(p, x, y, nil) {
				return true
			}
		}
	}
	return false
}

// LegalMoves returns every legal placement for p in row-major order. It
// returns an empty slice, never Pass, if p has to pass.
func (b Board) LegalMoves(p Player) []move.Move {
	moves := make([]move.Move, 0, 16)
	for x := 0; x < Dim; x++ {
		for y := 0; y < Dim; y++ {
			if b.Place(p, x, y, nil) {
				moves = append(moves, move.New(x, y))
			}
		}
	}
	return moves
}

// Winner returns Continuing if any square admits a legal placement for
// either player. Otherwise the player with strictly more stones wins, and
// equal counts are a tie.
func (b Board) Winner() Winner {
	for x := 0; x < Dim; x++ {
		for y := 0; y < Dim; y++ {
			if b.Place(Player0, x, y, nil) || b.Place(Player1, x, y, nil) {
				return Continuing
			}
		}
	}
	c0, c1 := b.Count(Player0), b.Count(Player1)
	switch {
	case c0 == c1:
		return Tie
	case c1 > c0:
		return Player1Wins
	}
	return Player0Wins
}
