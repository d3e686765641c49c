package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/gacha/internal/domain/model"
)

const minFields = 4

// Row is one raw historical result: a player on a team at one Worlds.
type Row struct {
	Line   int
	Year   int
	Team   string
	Player string
	Result model.Result
}

// ParseStats counts rows the parser could not use.
type ParseStats struct {
	Rows      int // data lines read, header excluded
	Malformed int // fewer than four fields, bad year or unknown result
}

// ParseRows reads `year,team,player,result` rows. The first line is a header
// and is skipped. Each line is decoded on its own, so a row with a stray
// quote, fewer than four fields, a non-numeric year or an unknown result is
// dropped alone without failing the parse; extra fields are ignored. Blank
// lines are skipped and not counted.
func ParseRows(r io.Reader) ([]Row, ParseStats, error) {
	scanner := bufio.NewScanner(r)

	var (
		rows  []Row
		stats ParseStats
		line  int
	)
	for scanner.Scan() {
		line++
		if line == 1 {
			continue
		}
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		stats.Rows++

		rec, err := splitLine(text)
		if err != nil {
			stats.Malformed++
			continue
		}
		row, ok := parseRecord(rec)
		if !ok {
			stats.Malformed++
			continue
		}
		row.Line = line
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return rows, stats, nil
}

// splitLine decodes one CSV line. Quoted fields may hold commas but must be
// closed on the same line.
func splitLine(text string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	return reader.Read()
}

func parseRecord(rec []string) (Row, bool) {
	if len(rec) < minFields {
		return Row{}, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(rec[0]))
	if err != nil {
		return Row{}, false
	}
	result, err := model.ParseResult(rec[3])
	if err != nil {
		return Row{}, false
	}
	return Row{
		Year:   year,
		Team:   strings.TrimSpace(rec[1]),
		Player: strings.TrimSpace(rec[2]),
		Result: result,
	}, true
}
