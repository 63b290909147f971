package duckdb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/mkrivan/garchcal/pkg/series"
)

// Reader loads return series kept in a DuckDB file, one table per
// symbol.
type Reader struct {
	dataSourceName string
	db             *sql.DB
}

func NewReader(dataSourceName string) *Reader {
	return &Reader{
		dataSourceName: dataSourceName,
	}
}

func (r *Reader) Connect() error {
	db, err := sql.Open("duckdb", r.dataSourceName)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	r.db = db
	return nil
}

func (r *Reader) Close() {
	_ = r.db.Close()
}

func (r *Reader) LoadReturns(ctx context.Context, symbol string) (series.Series, error) {

	query := fmt.Sprintf(`SELECT ret FROM %s_returns ORDER BY ts`, symbol)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error preparing query: %w", err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var s series.Series
	for rows.Next() {
		var ret float64
		if err := rows.Scan(&ret); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		s = append(s, ret)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error scanning rows: %w", err)
	}

	if len(s) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, series.ErrNoData)
	}
	return s, nil
}
