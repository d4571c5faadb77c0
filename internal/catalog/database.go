package catalog

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound           = errors.New("score not found in catalog")
	ErrInvalidTransaction = errors.New("transaction failed")
)

// ScoreRecord is one row of the scores table: the read statistics of a
// score file at the time it was last catalogued.
type ScoreRecord struct {
	Path         string
	LastModified int64
	Checksum     []byte
	Measures     int
	Spanners     int
	Repaired     int
	Discarded    int
	Warnings     int
	RunID        string
}

// RunRecord is one row of the runs table, describing a full catalog update.
type RunRecord struct {
	ID       string
	Started  int64
	Files    int
	Failures int
}

// Transaction is the write surface exposed to WithTx callbacks.
type Transaction interface {
	UpsertScore(record *ScoreRecord) error
}

type DB struct {
	db *sql.DB
}

func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys and WAL mode
	if _, err := db.Exec(`
        PRAGMA foreign_keys = ON;
        PRAGMA journal_mode = WAL;
    `); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set PRAGMA: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{db: db}, nil
}

func (db *DB) WithTx(fn func(Transaction) error) error {
	tx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	defer tx.Rollback()

	if err := fn(&sqliteTx{tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}

	return nil
}

func (db *DB) GetScore(path string) (*ScoreRecord, error) {
	var record ScoreRecord
	var runID sql.NullString
	err := db.db.QueryRow(`
        SELECT path, last_modified, checksum, measures, spanners,
               repaired, discarded, warnings, run_id
        FROM scores WHERE path = ?
    `, path).Scan(
		&record.Path, &record.LastModified, &record.Checksum,
		&record.Measures, &record.Spanners, &record.Repaired,
		&record.Discarded, &record.Warnings, &runID,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query score: %w", err)
	}

	record.RunID = runID.String
	return &record, nil
}

func (db *DB) AllScores() ([]ScoreRecord, error) {
	rows, err := db.db.Query(`
        SELECT path, last_modified, checksum, measures, spanners,
               repaired, discarded, warnings, run_id
        FROM scores ORDER BY path
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	return scanScoreRecords(rows)
}

// BrokenScores returns the scores whose last read needed connector repair
// or dropped elements.
func (db *DB) BrokenScores() ([]ScoreRecord, error) {
	rows, err := db.db.Query(`
        SELECT path, last_modified, checksum, measures, spanners,
               repaired, discarded, warnings, run_id
        FROM scores
        WHERE discarded > 0 OR repaired > 0
        ORDER BY path
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query broken scores: %w", err)
	}
	defer rows.Close()

	return scanScoreRecords(rows)
}

func (db *DB) UpsertScore(record *ScoreRecord) error {
	return db.WithTx(func(tx Transaction) error {
		return tx.UpsertScore(record)
	})
}

func (db *DB) InsertRun(run *RunRecord) error {
	_, err := db.db.Exec(`
        INSERT INTO runs (id, started, files, failures)
        VALUES (?, ?, ?, ?)
    `, run.ID, run.Started, run.Files, run.Failures)

	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

func (db *DB) LastRun() (*RunRecord, error) {
	var run RunRecord
	err := db.db.QueryRow(`
        SELECT id, started, files, failures
        FROM runs ORDER BY started DESC, id DESC LIMIT 1
    `).Scan(&run.ID, &run.Started, &run.Files, &run.Failures)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last run: %w", err)
	}

	return &run, nil
}

func (db *DB) DeleteScore(path string) error {
	result, err := db.db.Exec("DELETE FROM scores WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("failed to delete score: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (db *DB) Clear() error {
	_, err := db.db.Exec(`
        DELETE FROM scores;
        DELETE FROM runs;
    `)
	if err != nil {
		return fmt.Errorf("failed to clear database: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

func scanScoreRecords(rows *sql.Rows) ([]ScoreRecord, error) {
	var records []ScoreRecord
	for rows.Next() {
		var record ScoreRecord
		var runID sql.NullString
		if err := rows.Scan(
			&record.Path, &record.LastModified, &record.Checksum,
			&record.Measures, &record.Spanners, &record.Repaired,
			&record.Discarded, &record.Warnings, &runID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan score record: %w", err)
		}
		record.RunID = runID.String
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating score records: %w", err)
	}

	return records, nil
}
