package returns

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mkrivan/garchcal/pkg/series"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "returns.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `{
		"returns": [0.01, -0.02, 0.005],
		"last_updated": "2026-08-01",
		"info": "daily log returns",
		"date_range": "2016-08-01 to 2026-08-01",
		"data_points": 3,
		"symbol": "BTC"
	}`)

	doc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Symbol != "BTC" || doc.DataPoints != 3 {
		t.Errorf("unexpected metadata: %+v", doc)
	}
	if got := doc.Series(); len(got) != 3 || got[1] != -0.02 {
		t.Errorf("unexpected series: %v", got)
	}
}

func TestLoad_EmptyReturns(t *testing.T) {
	path := writeFile(t, `{"returns": [], "symbol": "BTC"}`)

	_, err := Load(path)
	if !errors.Is(err, series.ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := writeFile(t, `{"returns": [0.01`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed document")
	}
}
