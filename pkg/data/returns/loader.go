package returns

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mkrivan/garchcal/pkg/series"
)

// Document mirrors the JSON file produced by the returns fetch script.
// Only the returns array feeds the engine, the rest is kept for display.
type Document struct {
	Returns     []float64 `json:"returns"`
	LastUpdated string    `json:"last_updated"`
	Info        string    `json:"info"`
	DateRange   string    `json:"date_range"`
	DataPoints  int       `json:"data_points"`
	Symbol      string    `json:"symbol"`
}

func Load(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("unable to read returns file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("unable to parse returns file: %w", err)
	}

	if len(doc.Returns) == 0 {
		return Document{}, fmt.Errorf("%s: %w", path, series.ErrNoData)
	}
	return doc, nil
}

func (d Document) Series() series.Series {
	return series.Series(d.Returns)
}
