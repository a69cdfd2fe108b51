package board

import (
	"fmt"
	"strconv"
	"strings"
)

// ToDisplayText dumps the grid with row and column labels. Empty squares
// are shown as `.`, player 0 as `x` and player 1 as `o`.
func (b Board) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString("  ")
	for y := 0; y < Dim; y++ {
		sb.WriteString(strconv.Itoa(y))
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')
	for x := 0; x < Dim; x++ {
		sb.WriteString(strconv.Itoa(x))
		sb.WriteByte(' ')
		for y := 0; y < Dim; y++ {
			sb.WriteByte(b.squareChar(x, y))
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b Board) squareChar(x, y int) byte {
	switch {
	case b.At(Player0, x, y):
		return Player0.Mark()
	case b.At(Player1, x, y):
		return Player1.Mark()
	}
	return '.'
}

// ToBPS returns the board position string: the rows from 0 to 7 separated
// by slashes, using the same characters as ToDisplayText.
func (b Board) ToBPS() string {
	rows := make([]string, Dim)
	for x := 0; x < Dim; x++ {
		row := make([]byte, Dim)
		for y := 0; y < Dim; y++ {
			row[y] = b.squareChar(x, y)
		}
		rows[x] = string(row)
	}
	return strings.Join(rows, "/")
}

// ParseBPS parses a board position string as produced by ToBPS.
func ParseBPS(bps string) (Board, error) {
	var b Board
	rows := strings.Split(strings.TrimSpace(bps), "/")
	if len(rows) != Dim {
		return b, fmt.Errorf("%w: expected %d rows, got %d", ErrBadPosition, Dim, len(rows))
	}
	for x, row := range rows {
		if len(row) != Dim {
			return b, fmt.Errorf("%w: row %d has %d squares", ErrBadPosition, x, len(row))
		}
		for y := 0; y < Dim; y++ {
			switch row[y] {
			case '.':
			case Player0.Mark():
				b.Set(Player0, x, y)
			case Player1.Mark():
				b.Set(Player1, x, y)
			default:
				return b, fmt.Errorf("%w: unexpected character %q in row %d", ErrBadPosition, row[y], x)
			}
		}
	}
	return b, nil
}

// ParsePlayer parses a player mark (`x` or `o`) or index (`0` or `1`).
func ParsePlayer(s string) (Player, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x", "0":
		return Player0, nil
	case "o", "1":
		return Player1, nil
	}
	return Player0, fmt.Errorf("%w: unknown player %q", ErrBadPosition, s)
}
