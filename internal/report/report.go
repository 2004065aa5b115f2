// Package report writes pricing and heatmap results to disk as JSON and
// CSV files.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/contactkeval/option-lattice/internal/grid"
	"github.com/contactkeval/option-lattice/internal/pricing"
)

// PricingReport pairs a request with its result so a written file is
// self-describing.
type PricingReport struct {
	Request pricing.Request `json:"request"`
	Result  pricing.Result  `json:"result"`
}

// WriteResultJSON writes result.json into outdir.
func WriteResultJSON(req pricing.Request, res *pricing.Result, outdir string) error {
	b, err := json.MarshalIndent(PricingReport{Request: req, Result: *res}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "result.json"), b, 0644)
}

// WriteHeatmapJSON writes heatmap.json into outdir.
func WriteHeatmapJSON(res *grid.Result, outdir string) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "heatmap.json"), b, 0644)
}

// WriteHeatmapCSV writes heatmap_call.csv and heatmap_put.csv into
// outdir. Rows are volatilities, columns are spot prices, mirroring the
// heatmap orientation of the web view.
func WriteHeatmapCSV(res *grid.Result, outdir string) error {
	if err := writeMatrixCSV(filepath.Join(outdir, "heatmap_call.csv"), res.Spots, res.Vols, res.Call); err != nil {
		return err
	}
	return writeMatrixCSV(filepath.Join(outdir, "heatmap_put.csv"), res.Spots, res.Vols, res.Put)
}

func writeMatrixCSV(path string, spots, vols []float64, matrix [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	headers := []string{"vol"}
	for _, s := range spots {
		headers = append(headers, fmt.Sprintf("%.2f", s))
	}
	if err := w.Write(headers); err != nil {
		return err
	}
	for i, row := range matrix {
		rec := []string{fmt.Sprintf("%.2f", vols[i])}
		for _, v := range row {
			rec = append(rec, fmt.Sprintf("%.2f", v))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
