package catalog

import (
	"database/sql"
	"fmt"
)

type sqliteTx struct {
	tx *sql.Tx
}

func (tx *sqliteTx) UpsertScore(record *ScoreRecord) error {
	var runID any
	if record.RunID != "" {
		runID = record.RunID
	}

	_, err := tx.tx.Exec(`
        INSERT INTO scores (path, last_modified, checksum, measures,
                            spanners, repaired, discarded, warnings, run_id)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(path) DO UPDATE SET
            last_modified = excluded.last_modified,
            checksum = excluded.checksum,
            measures = excluded.measures,
            spanners = excluded.spanners,
            repaired = excluded.repaired,
            discarded = excluded.discarded,
            warnings = excluded.warnings,
            run_id = excluded.run_id
    `, record.Path, record.LastModified, record.Checksum, record.Measures,
		record.Spanners, record.Repaired, record.Discarded, record.Warnings,
		runID)

	if err != nil {
		return fmt.Errorf("failed to upsert score in transaction: %w", err)
	}

	return nil
}
