package board

// This file contains some sample positions, used solely for testing.

const (
	// PassForX is a position where x has no legal placement and o has
	// exactly one, at (0,2). After o plays it the game is over.
	PassForX = "ox....../......../......../......../......../......../......../........"

	// FullTie is a completely filled board with 32 stones for each player.
	FullTie = "xxxxxxxx/oooooooo/xxxxxxxx/oooooooo/xxxxxxxx/oooooooo/xxxxxxxx/oooooooo"

	// NoMovesLeft has empty squares, but neither player can place anywhere.
	// x has more stones.
	NoMovesLeft = "xxx...../x......./......../......../......../......../......../.......o"

	// Midgame is an arbitrary position from a random game, x to move.
	Midgame = "......../..o...../..ooox../.xxoxx../..xooo../...o.o../......../........"
)

// MustParseBPS parses a position or panics. For tests.
func MustParseBPS(bps string) Board {
	b, err := ParseBPS(bps)
	if err != nil {
		panic(err)
	}
	return b
}
