package automatic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

// AnalyzeLogFile reads a turn log written by StartCompVCompGames and
// summarizes the finished games in it. Rows of different games may
// interleave. Games without an end row were cut off and are skipped.
func AnalyzeLogFile(filepath string) (*Summary, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return analyzeLog(file)
}

func analyzeLog(rd io.Reader) (*Summary, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = len(logHeader)

	s := NewSummary()
	unfinished := map[string]bool{}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if record[0] == logHeader[0] {
			// this is the header line
			continue
		}
		var nums [3]int
		for i, field := range []string{record[1], record[5], record[6]} {
			nums[i], err = strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("game %s: %w", record[0], err)
			}
		}
		if record[3] != endOfGame {
			unfinished[record[0]] = true
			continue
		}
		delete(unfinished, record[0])
		s.addResult(nums[1], nums[2], nums[0])
	}
	if len(unfinished) > 0 {
		log.Info().Int("games", len(unfinished)).Msg("skipping-unfinished-games")
	}
	return s, nil
}
