package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/contactkeval/option-mc/internal/logger"
)

const dateLayout = "2006-01-02"

// LoadCSVBars reads daily bars from a date,open,high,low,close[,volume] file.
// A header row is skipped; bars are returned sorted by date.
func LoadCSVBars(path string) ([]Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars file: %w", err)
	}
	defer f.Close()

	bars, err := ReadCSVBars(f)
	if err != nil {
		return nil, fmt.Errorf("read bars file %s: %w", path, err)
	}
	logger.Debugf("loaded %d bars from %s", len(bars), path)
	return bars, nil
}

// ReadCSVBars parses bars from r. See LoadCSVBars for the format.
func ReadCSVBars(r io.Reader) ([]Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	var out []Bar
	for i, row := range records {
		if len(row) < 5 {
			return nil, fmt.Errorf("line %d: want at least 5 fields, got %d", i+1, len(row))
		}

		date, err := time.Parse(dateLayout, strings.TrimSpace(row[0]))
		if err != nil {
			if i == 0 {
				continue // header
			}
			return nil, fmt.Errorf("line %d: bad date %q", i+1, row[0])
		}

		vals := make([]float64, 5)
		for j := 1; j < len(row) && j <= 5; j++ {
			vals[j-1], err = strconv.ParseFloat(strings.TrimSpace(row[j]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d field %d: %w", i+1, j+1, err)
			}
		}
		if vals[3] <= 0 {
			return nil, fmt.Errorf("line %d: close must be positive, got %g", i+1, vals[3])
		}

		out = append(out, Bar{Date: date, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3], Vol: vals[4]})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
