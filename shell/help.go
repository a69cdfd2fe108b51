package shell

import (
	"embed"
	"io/fs"
	"strings"
)

//go:embed helptext/*.txt
var helptext embed.FS

var helpTopics = []string{
	"new", "load", "play", "aiplay", "minimax", "mcts", "analyze",
	"export", "autoplay", "set", "setconfig",
}

func usage() string {
	dat, err := fs.ReadFile(helptext, "helptext/usage.txt")
	if err != nil {
		return "Error loading helptext: " + err.Error()
	}
	return string(dat)
}

func usageTopic(topic string) string {
	dat, err := fs.ReadFile(helptext, "helptext/"+topic+".txt")
	if err != nil {
		return "There is no help text for the topic " + topic
	}
	return string(dat)
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(strings.TrimRight(usage(), "\n")), nil
	}
	return msg(strings.TrimRight(usageTopic(cmd.args[0]), "\n")), nil
}
