package api

import (
	"encoding/hex"

	"github.com/FigmentBoy/MuseScore/internal/catalog"
)

// Catalog is the RPC surface over a catalog store. Errors travel in-band
// in the result so that every call returns a well-formed JSON response.
type Catalog struct {
	store *catalog.Store
}

func NewCatalog(store *catalog.Store) *Catalog {
	return &Catalog{store: store}
}

// ScoreInfo is the wire form of one catalogued score.
type ScoreInfo struct {
	Path         string `json:"path"`
	LastModified int64  `json:"last_modified"`
	Checksum     string `json:"checksum"`
	Measures     int    `json:"measures"`
	Spanners     int    `json:"spanners"`
	Repaired     int    `json:"repaired"`
	Discarded    int    `json:"discarded"`
	Warnings     int    `json:"warnings"`
	RunID        string `json:"run_id,omitempty"`
}

type ListParams struct{}

type ListResult struct {
	Scores []ScoreInfo `json:"scores"`
	Error  string      `json:"error,omitempty"`
}

type GetParams struct {
	Path string `json:"path"`
}

type GetResult struct {
	Score ScoreInfo `json:"score"`
	Error string    `json:"error,omitempty"`
}

func (c *Catalog) List(params *ListParams, result *ListResult) error {
	records, err := c.store.All()
	if err != nil {
		result.Error = err.Error()
		return nil
	}
	result.Scores = scoreInfos(records)
	return nil
}

func (c *Catalog) Broken(params *ListParams, result *ListResult) error {
	records, err := c.store.Broken()
	if err != nil {
		result.Error = err.Error()
		return nil
	}
	result.Scores = scoreInfos(records)
	return nil
}

func (c *Catalog) Get(params *GetParams, result *GetResult) error {
	record, err := c.store.Get(params.Path)
	if err != nil {
		result.Error = err.Error()
		return nil
	}
	result.Score = scoreInfo(record)
	return nil
}

func scoreInfo(record *catalog.ScoreRecord) ScoreInfo {
	return ScoreInfo{
		Path:         record.Path,
		LastModified: record.LastModified,
		Checksum:     hex.EncodeToString(record.Checksum),
		Measures:     record.Measures,
		Spanners:     record.Spanners,
		Repaired:     record.Repaired,
		Discarded:    record.Discarded,
		Warnings:     record.Warnings,
		RunID:        record.RunID,
	}
}

func scoreInfos(records []catalog.ScoreRecord) []ScoreInfo {
	infos := make([]ScoreInfo, len(records))
	for i := range records {
		infos[i] = scoreInfo(&records[i])
	}
	return infos
}
