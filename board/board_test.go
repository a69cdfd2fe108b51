package board

import (
	"encoding/binary"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"github.com/domino14/reversi/move"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func seededRNG(seed uint64) *frand.RNG {
	s := make([]byte, 32)
	binary.LittleEndian.PutUint64(s, seed)
	return frand.NewCustom(s, 1024, 12)
}

// randomPositions plays random games from the opening and collects every
// position (and the player on turn) along the way.
func randomPositions(seed uint64, games int) ([]Board, []Player) {
	rng := seededRNG(seed)
	var boards []Board
	var players []Player
	for g := 0; g < games; g++ {
		b := NewBoard()
		p := Player0
		for b.Winner() == Continuing {
			boards = append(boards, b)
			players = append(players, p)
			moves := b.LegalMoves(p)
			if len(moves) > 0 {
				b, _ = b.Play(p, moves[rng.Intn(len(moves))])
			}
			p = p.Opponent()
		}
		boards = append(boards, b)
		players = append(players, p)
	}
	return boards, players
}

// legalByDefinition re-derives legality straight from the flanking rule.
func legalByDefinition(b Board, p Player, x, y int) bool {
	if !b.Empty(x, y) {
		return false
	}
	for _, d := range directions {
		cx, cy := x+d[0], y+d[1]
		seen := 0
		for onBoard(cx, cy) && b.At(p.Opponent(), cx, cy) {
			seen++
			cx += d[0]
			cy += d[1]
		}
		if seen > 0 && onBoard(cx, cy) && b.At(p, cx, cy) {
			return true
		}
	}
	return false
}

func TestOpening(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.Equal(b.Count(Player0), 2)
	is.Equal(b.Count(Player1), 2)
	is.Equal(b.LegalMoves(Player0), []move.Move{
		move.New(2, 3), move.New(3, 2), move.New(4, 5), move.New(5, 4)})
	for _, m := range b.LegalMoves(Player0) {
		after, ok := b.Play(Player0, m)
		is.True(ok)
		is.Equal(after.Differential(Player0), 3)
	}
	is.Equal(b.Winner(), Continuing)
}

func TestPlaceProperties(t *testing.T) {
	is := is.New(t)
	boards, _ := randomPositions(42, 20)
	for _, b := range boards {
		for _, p := range []Player{Player0, Player1} {
			for x := 0; x < Dim; x++ {
				for y := 0; y < Dim; y++ {
					legal := b.Place(p, x, y, nil)
					is.Equal(legal, legalByDefinition(b, p, x, y))
					var out Board
					is.Equal(b.Place(p, x, y, &out), legal)
					if !legal {
						continue
					}
					flipped := b.Count(p.Opponent()) - out.Count(p.Opponent())
					is.True(flipped > 0)
					is.Equal(out.Count(p), b.Count(p)+flipped+1)
					is.Equal(out.TilesPlayed(), b.TilesPlayed()+1)
					is.Equal(out.planes[0]&out.planes[1], uint64(0))
				}
			}
		}
	}
}

func TestPlaceDoesNotMutate(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	before := b
	var out Board
	is.True(b.Place(Player0, 2, 3, &out))
	is.Equal(b, before)
	is.True(out != before)
	is.True(out.At(Player0, 2, 3))
	is.True(out.At(Player0, 3, 3))
}

func TestPlaceOccupiedOrOffBoard(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.True(!b.Place(Player0, 3, 3, nil))
	is.True(!b.Place(Player0, -1, 0, nil))
	is.True(!b.Place(Player0, 0, 8, nil))
	is.True(!b.Place(Player0, 0, 0, nil))
	_, ok := b.Play(Player0, move.New(0, 0))
	is.True(!ok)
	after, ok := b.Play(Player0, move.Pass)
	is.True(ok)
	is.Equal(after, b)
}

func TestFlipsMultipleLines(t *testing.T) {
	is := is.New(t)
	b := MustParseBPS("x.x...../.oo...../xo....../......../......../......../......../........")
	var out Board
	// (2,2) closes three lines at once: left, up and up-left.
	is.True(b.Place(Player0, 2, 2, &out))
	is.True(out.At(Player0, 2, 1))
	is.True(out.At(Player0, 1, 2))
	is.True(out.At(Player0, 1, 1))
	is.Equal(out.Count(Player1), 0)
	is.Equal(out.Count(Player0), 7)
}

func TestWinner(t *testing.T) {
	is := is.New(t)
	is.Equal(MustParseBPS(FullTie).Winner(), Tie)
	is.Equal(MustParseBPS(NoMovesLeft).Winner(), Player0Wins)
	is.Equal(MustParseBPS(PassForX).Winner(), Continuing)

	b := MustParseBPS(NoMovesLeft)
	b.Set(Player1, 7, 6)
	b.Set(Player1, 7, 5)
	b.Set(Player1, 6, 7)
	b.Set(Player1, 6, 6)
	is.Equal(b.Winner(), Player1Wins)
}

func TestWinnerContinuingIffAnyLegal(t *testing.T) {
	is := is.New(t)
	boards, _ := randomPositions(7, 10)
	for _, b := range boards {
		anyLegal := b.HasLegalMove(Player0) || b.HasLegalMove(Player1)
		w := b.Winner()
		is.Equal(w == Continuing, anyLegal)
		if !anyLegal {
			is.Equal(w == Tie, b.Count(Player0) == b.Count(Player1))
		}
	}
}

func TestForcedPass(t *testing.T) {
	is := is.New(t)
	b := MustParseBPS(PassForX)
	is.True(!b.HasLegalMove(Player0))
	is.Equal(b.LegalMoves(Player0), []move.Move{})
	is.Equal(b.LegalMoves(Player1), []move.Move{move.New(0, 2)})
	after, ok := b.Play(Player1, move.New(0, 2))
	is.True(ok)
	is.Equal(after.Winner(), Player1Wins)
}

func TestBPS(t *testing.T) {
	is := is.New(t)
	for _, bps := range []string{PassForX, FullTie, NoMovesLeft, Midgame} {
		b, err := ParseBPS(bps)
		is.NoErr(err)
		is.Equal(b.ToBPS(), bps)
	}
	is.Equal(NewBoard().ToBPS(), "......../......../......../...ox.../...xo.../......../......../........")
	_, err := ParseBPS("xo/ox")
	is.True(err != nil)
	_, err = ParseBPS("xxxxxxxx/oooooooo/xxxxxxxx/oooooooo/xxxxxxxx/oooooooo/xxxxxxxx/ooooooo?")
	is.True(err != nil)
}

func TestDisplayText(t *testing.T) {
	is := is.New(t)
	expected := "  0 1 2 3 4 5 6 7 \n" +
		"0 . . . . . . . . \n" +
		"1 . . . . . . . . \n" +
		"2 . . . . . . . . \n" +
		"3 . . . o x . . . \n" +
		"4 . . . x o . . . \n" +
		"5 . . . . . . . . \n" +
		"6 . . . . . . . . \n" +
		"7 . . . . . . . . \n"
	is.Equal(NewBoard().ToDisplayText(), expected)
}

func TestParsePlayer(t *testing.T) {
	is := is.New(t)
	p, err := ParsePlayer("o")
	is.NoErr(err)
	is.Equal(p, Player1)
	p, err = ParsePlayer("0")
	is.NoErr(err)
	is.Equal(p, Player0)
	_, err = ParsePlayer("z")
	is.True(err != nil)
}

func BenchmarkLegalMoves(b *testing.B) {
	bd := MustParseBPS(Midgame)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bd.LegalMoves(Player0)
	}
}
