package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/offerta-labs/citemark/internal/core/domain"
)

// loadRecord builds the file record a command operates on. When
// recordPath is set the record is decoded from a JSON file (the shape
// the analysis backend produces); otherwise it is assembled from the
// document location and any --citation flags.
func loadRecord(location, recordPath string, citations []string) (domain.FileRecord, error) {
	if recordPath != "" {
		return readRecordFile(recordPath)
	}

	if location == "" {
		return domain.FileRecord{}, fmt.Errorf("%w: no document given", domain.ErrInvalidInput)
	}

	name := filepath.Base(location)
	return domain.FileRecord{
		ID:        "local-" + name,
		Name:      name,
		Type:      domain.FileTypeFromPath(location),
		URL:       location,
		Citations: citations,
	}, nil
}

func readRecordFile(path string) (domain.FileRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.FileRecord{}, fmt.Errorf("read record file: %w", err)
	}

	var rec domain.FileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.FileRecord{}, fmt.Errorf("parse record file: %w", err)
	}
	if rec.URL == "" && rec.BlobURL == "" {
		return domain.FileRecord{}, fmt.Errorf("%w: record file has no url", domain.ErrInvalidInput)
	}
	if rec.Type == "" {
		rec.Type = domain.FileTypeFromPath(rec.URL)
	}
	if rec.Name == "" {
		rec.Name = filepath.Base(rec.URL)
	}
	if rec.ID == "" {
		rec.ID = "local-" + rec.Name
	}
	return rec, nil
}
