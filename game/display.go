package game

import (
	"fmt"
	"strings"

	"github.com/domino14/reversi/board"
)

func addText(lines []string, row int, hpad int, text string) {
	if row >= len(lines) {
		return
	}
	lines[row] = lines[row] + strings.Repeat(" ", hpad) + text
}

func (g *Game) sideText(p board.Player) string {
	marker := " "
	if g.Playing() && g.onturn == p {
		marker = "->"
	}
	return fmt.Sprintf("%2s %v %-14s %2d", marker, p, g.playerName(p), g.board.Count(p))
}

// ToDisplayText turns the current state of the game into a displayable
// string: the board with both players, disc counts and the last move
// beside it.
func (g *Game) ToDisplayText() string {
	bts := strings.Split(strings.TrimRight(g.board.ToDisplayText(), "\n"), "\n")
	hpadding := 3
	addText(bts, 1, hpadding, g.sideText(board.Player0))
	addText(bts, 2, hpadding, g.sideText(board.Player1))

	addText(bts, 4, hpadding, fmt.Sprintf("Turn %d", len(g.history)+1))
	if n := len(g.history); n > 0 {
		last := g.history[n-1]
		addText(bts, 5, hpadding, fmt.Sprintf("Last: %s played %s", last.Player, last.Move))
	}
	if !g.Playing() {
		addText(bts, 7, hpadding, "Game is over. "+g.ResultText())
	}
	return strings.Join(bts, "\n") + "\n" + g.board.ToBPS() + " " + g.onturn.String() + "\n"
}
