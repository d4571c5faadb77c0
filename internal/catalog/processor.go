package catalog

import (
	"fmt"
	"sync"

	"github.com/FigmentBoy/MuseScore/internal/mscx"
	"github.com/FigmentBoy/MuseScore/internal/utils"
)

func (s *Store) processFile(file *FileInfo, runID string) error {
	_, stats, err := mscx.ReadScore(file.Content, mscx.WithDocName(file.Path))
	if err != nil {
		return fmt.Errorf("failed to read score: %w", err)
	}

	return s.db.WithTx(func(tx Transaction) error {
		return tx.UpsertScore(&ScoreRecord{
			Path:         file.Path,
			LastModified: file.LastModified,
			Checksum:     utils.ComputeChecksum(file.Content),
			Measures:     stats.Measures,
			Spanners:     stats.Spanners,
			Repaired:     stats.Repaired,
			Discarded:    stats.Discarded,
			Warnings:     stats.Warnings,
			RunID:        runID,
		})
	})
}

func (s *Store) processFiles(files []*FileInfo, runID string) int {
	var wg sync.WaitGroup
	errors := make(chan error, len(files))
	semaphore := make(chan struct{}, 4) // Limit concurrent operations

	for _, file := range files {
		wg.Add(1)
		go func(f *FileInfo) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			if err := s.processFile(f, runID); err != nil {
				log.Warningf("failed to process file %s: %v", f.Path, err)
				errors <- err
			}
		}(file)
	}

	wg.Wait()
	close(errors)

	failures := 0
	for range errors {
		failures++
	}

	return failures
}
