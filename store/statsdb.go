package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/nci/floodcube/processor"
)

// StatsDB persists per-run, per-date flood statistics to an embedded
// sqlite database so successive runs over the same area accumulate a
// queryable history.
type StatsDB struct {
	*sql.DB
}

// NewStatsDB opens (creating if needed) the statistics database.
func NewStatsDB(path string) (*StatsDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id INTEGER PRIMARY KEY AUTOINCREMENT,
			started TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			expression TEXT,
			threshold DOUBLE,
			filter_window INTEGER
		);
		CREATE TABLE IF NOT EXISTS date_stats (
			run_id INTEGER,
			date TEXT,
			mean DOUBLE,
			min DOUBLE,
			max DOUBLE,
			flooded_ratio DOUBLE,
			valid_cells INTEGER,
			defined INTEGER,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("stats db %v schema: %v", path, err)
	}

	return &StatsDB{db}, nil
}

// RecordRun registers a run and returns its id for the per-date rows.
func (db *StatsDB) RecordRun(expression string, threshold float64, filterWindow int) (int64, error) {
	res, err := db.Exec(
		"INSERT INTO runs (expression, threshold, filter_window) VALUES (?, ?, ?)",
		expression, threshold, filterWindow)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// RecordStats stores one date's statistics. Undefined records keep the
// date row but carry NULL statistics, so "no valid cells" stays
// distinguishable from a genuine zero.
func (db *StatsDB) RecordStats(runID int64, ds processor.DateStats) error {
	var mean, min, max, ratio interface{}
	if ds.Defined {
		mean, min, max, ratio = ds.Mean, ds.Min, ds.Max, ds.FloodedRatio
	}
	_, err := db.Exec(
		`INSERT INTO date_stats (run_id, date, mean, min, max, flooded_ratio, valid_cells, defined)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, ds.Date.Format("2006-01-02"), mean, min, max, ratio, ds.ValidCells, ds.Defined)
	return err
}
