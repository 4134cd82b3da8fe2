package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"VolumeSentinel/internal/model"
)

const dateLayout = "2006-01-02"

// SQLiteRecorder persists run outputs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode allows concurrent readers
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id         TEXT PRIMARY KEY,
			started_at INTEGER NOT NULL,
			symbol     TEXT,
			bar_count  INTEGER,
			day_count  INTEGER,
			row_count  INTEGER,
			value_area REAL,
			method     TEXT,
			status     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS daily_profiles (
			run_id TEXT NOT NULL,
			date   TEXT NOT NULL,
			poc    REAL,
			val    REAL,
			vah    REAL,
			PRIMARY KEY (run_id, date)
		)`,

		`CREATE TABLE IF NOT EXISTS feature_rows (
			run_id               TEXT NOT NULL,
			date                 TEXT NOT NULL,
			prior_poc            REAL,
			prior_val            REAL,
			prior_vah            REAL,
			open                 REAL,
			prev_close           REAL,
			close                REAL,
			next_close           REAL,
			open_above_prior_val INTEGER,
			open_above_prior_vah INTEGER,
			fwd_return           REAL,
			target               INTEGER,
			PRIMARY KEY (run_id, date)
		)`,

		`CREATE TABLE IF NOT EXISTS predictions (
			run_id               TEXT NOT NULL,
			date                 TEXT NOT NULL,
			classifier           TEXT,
			open_above_prior_val INTEGER,
			open_above_prior_vah INTEGER,
			label                INTEGER,
			probability          REAL,
			signal               TEXT,
			PRIMARY KEY (run_id, date)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO runs
		(id, started_at, symbol, bar_count, day_count, row_count, value_area, method, status)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		run.ID, run.StartedAt.Unix(), run.Symbol, run.Bars, run.Days, run.Rows,
		run.ValueArea, run.Method, run.Status,
	)
	return err
}

// RecordProfiles stores undefined levels as NULL.
func (r *SQLiteRecorder) RecordProfiles(runID string, profiles []model.DailyProfile) error {
	return r.batch(`INSERT INTO daily_profiles (run_id, date, poc, val, vah) VALUES (?,?,?,?,?)`,
		len(profiles), func(stmt *sql.Stmt, i int) error {
			p := profiles[i]
			_, err := stmt.Exec(runID, p.Date.Format(dateLayout), p.POC, p.VAL, p.VAH)
			return err
		})
}

func (r *SQLiteRecorder) RecordFeatures(runID string, rows []model.FeatureRow) error {
	return r.batch(`INSERT INTO feature_rows
		(run_id, date, prior_poc, prior_val, prior_vah, open, prev_close, close, next_close,
		 open_above_prior_val, open_above_prior_vah, fwd_return, target)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		len(rows), func(stmt *sql.Stmt, i int) error {
			f := rows[i]
			_, err := stmt.Exec(runID, f.Date.Format(dateLayout),
				f.PriorPOC, f.PriorVAL, f.PriorVAH,
				f.Open, f.PrevClose, f.Close, f.NextClose,
				f.OpenAbovePriorVAL, f.OpenAbovePriorVAH, f.Return, f.Target,
			)
			return err
		})
}

func (r *SQLiteRecorder) RecordPrediction(runID string, pred *model.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO predictions
		(run_id, date, classifier, open_above_prior_val, open_above_prior_vah, label, probability, signal)
		VALUES (?,?,?,?,?,?,?,?)`,
		runID, pred.Date.Format(dateLayout), pred.Classifier,
		pred.OpenAbovePriorVAL, pred.OpenAbovePriorVAH,
		pred.Label, pred.Probability, string(pred.Signal),
	)
	return err
}

// batch runs n executions of one prepared statement in a single transaction.
func (r *SQLiteRecorder) batch(query string, n int, exec func(stmt *sql.Stmt, i int) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if err := exec(stmt, i); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Info("closing sqlite recorder")
	return r.db.Close()
}
