// Package report renders pricing runs for people and plotting tools:
// a text summary, the run as JSON, and the terminal price histogram as
// JSON and CSV.
package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
)

func WriteJSON(run Run, outdir string) error {
	return writeJSONFile(run, filepath.Join(outdir, "pricing.json"))
}

func WriteHistogramJSON(h Histogram, outdir string) error {
	return writeJSONFile(h, filepath.Join(outdir, "histogram.json"))
}

func writeJSONFile(v any, path string) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// WriteHistogramCSV writes one row per bin: lower edge, upper edge, count, density.
func WriteHistogramCSV(h Histogram, outdir string) (err error) {
	f, err := os.Create(filepath.Join(outdir, "histogram.csv"))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	headers := []string{"bin_lo", "bin_hi", "count", "density"}
	if err := w.Write(headers); err != nil {
		return err
	}
	for i, c := range h.Counts {
		row := []string{
			decimal.NewFromFloat(h.Edges[i]).StringFixed(4),
			decimal.NewFromFloat(h.Edges[i+1]).StringFixed(4),
			decimal.NewFromInt(int64(c)).String(),
			decimal.NewFromFloat(h.Density[i]).StringFixed(8),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
