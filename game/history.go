package game

import (
	"gopkg.in/yaml.v3"

	"github.com/domino14/reversi/board"
)

type historyDoc struct {
	ID      string    `yaml:"id"`
	Players [2]string `yaml:"players"`
	Start   string    `yaml:"start"`
	Turns   []Turn    `yaml:"turns"`
	Result  string    `yaml:"result"`
}

// HistoryYAML serializes the game record.
func (g *Game) HistoryYAML() ([]byte, error) {
	start := g.board
	if len(g.history) > 0 {
		start = g.history[0].before
	}
	doc := historyDoc{
		ID:      g.id,
		Players: [2]string{g.playerName(board.Player0), g.playerName(board.Player1)},
		Start:   start.ToBPS(),
		Turns:   g.history,
		Result:  g.ResultText(),
	}
	return yaml.Marshal(doc)
}
