package zobrist

import (
	"math/bits"

	"lukechampine.com/frand"

	"github.com/domino14/reversi/board"
)

const bignum = 1<<63 - 2

// Zobrist generates a zobrist hash for a Reversi position: the stones on
// the board plus the player on turn.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	player1Turn uint64
	posTable    [board.NumSquares][2]uint64
	initialized bool
}

func (z *Zobrist) Initialize() {
	for i := 0; i < board.NumSquares; i++ {
		for j := 0; j < 2; j++ {
			z.posTable[i][j] = frand.Uint64n(bignum) + 1
		}
	}
	z.player1Turn = frand.Uint64n(bignum) + 1
	z.initialized = true
}

func (z *Zobrist) Initialized() bool {
	return z.initialized
}

func (z *Zobrist) Hash(b board.Board, onTurn board.Player) uint64 {
	key := uint64(0)
	for _, p := range []board.Player{board.Player0, board.Player1} {
		plane := b.Plane(p)
		for plane != 0 {
			sq := bits.TrailingZeros64(plane)
			key ^= z.posTable[sq][p]
			plane &= plane - 1
		}
	}
	if onTurn == board.Player1 {
		key ^= z.player1Turn
	}
	return key
}

// AddMove updates key for the transition from before to after. Every
// square that changed owner is XORed out and back in, and the side to
// move always flips, so a pass changes only the turn component.
func (z *Zobrist) AddMove(key uint64, before, after board.Board) uint64 {
	for _, p := range []board.Player{board.Player0, board.Player1} {
		changed := before.Plane(p) ^ after.Plane(p)
		for changed != 0 {
			sq := bits.TrailingZeros64(changed)
			key ^= z.posTable[sq][p]
			changed &= changed - 1
		}
	}
	return key ^ z.player1Turn
}
