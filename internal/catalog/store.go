package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store keeps the catalog of a score directory: it walks the root for
// score files, reads each one, and records the read statistics.
type Store struct {
	db   *DB
	root string
	exts []string
}

func NewStore(db *DB, root string, exts []string) *Store {
	if len(exts) == 0 {
		exts = []string{".mscx"}
	}
	return &Store{
		db:   db,
		root: root,
		exts: exts,
	}
}

// UpdateOne reads a single score file and upserts its record. The record
// keeps no run id; only full updates are tracked as runs.
func (s *Store) UpdateOne(path string) error {
	fileInfo, err := scanFile(path)
	if err != nil {
		return fmt.Errorf("failed to scan file: %w", err)
	}

	return s.processFile(fileInfo, "")
}

// UpdateAll walks the root, reads every score file, and records the
// update as a run. Files that fail to read are counted as failures and
// leave their previous record untouched.
func (s *Store) UpdateAll() (*RunRecord, error) {
	started := time.Now().Unix()

	files, err := scanDirectory(s.root, s.exts)
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	run := &RunRecord{
		ID:      uuid.NewString(),
		Started: started,
		Files:   len(files),
	}
	run.Failures = s.processFiles(files, run.ID)

	if err := s.db.InsertRun(run); err != nil {
		return nil, err
	}

	return run, nil
}

// Recompute drops all records and rebuilds the catalog from scratch.
func (s *Store) Recompute() (*RunRecord, error) {
	if err := s.db.Clear(); err != nil {
		return nil, fmt.Errorf("failed to clear database: %w", err)
	}
	return s.UpdateAll()
}

func (s *Store) Get(path string) (*ScoreRecord, error) {
	return s.db.GetScore(path)
}

func (s *Store) All() ([]ScoreRecord, error) {
	return s.db.AllScores()
}

func (s *Store) Broken() ([]ScoreRecord, error) {
	return s.db.BrokenScores()
}

func (s *Store) LastRun() (*RunRecord, error) {
	return s.db.LastRun()
}
