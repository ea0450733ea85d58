// Package store persists the two run artifacts: the raw candidate
// sequence fetched from the search service and the final filtered
// record sequence. Both are plain JSON arrays on disk.

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/repoharvest/ci-crawler/internal/model"
)

// LoadCandidates reads the checkpoint file. A missing file means no
// checkpoint; it reports found=false without an error.
func LoadCandidates(path string) ([]model.Candidate, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read candidates file: %w", err)
	}

	var candidates []model.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, false, fmt.Errorf("failed to decode candidates file: %w", err)
	}

	return candidates, true, nil
}

// SaveCandidates writes the checkpoint file after a successful fetch.
func SaveCandidates(path string, candidates []model.Candidate) error {
	return writeJson(path, candidates)
}

// LoadRecords reads the output file.
func LoadRecords(path string) ([]model.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}

	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records file: %w", err)
	}

	return records, nil
}

// SaveRecords overwrites the output file in full. Written once, after
// all candidates are resolved.
func SaveRecords(path string, records []model.Record) error {
	return writeJson(path, records)
}

func writeJson(path string, value interface{}) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
