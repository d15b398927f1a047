package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lumbunglabs/kasir/internal/history"
)

// Store persists the receipt log as one JSON array on disk, the same
// whole-log read-modify-write model the browser till used with
// localStorage. A single till writes it; last writer wins on the whole
// file. Field names inside the array follow the legacy contract, so an
// existing log can be pointed at directly.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Append(ctx context.Context, rec history.Record) error {
	recs, err := s.read()
	if err != nil {
		return err
	}

	recs = append(recs, rec)

	return s.write(recs)
}

func (s *Store) List(ctx context.Context) ([]history.Record, error) {
	return s.read()
}

func (s *Store) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing receipt log: %w", err)
	}

	return nil
}

func (s *Store) read() ([]history.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading receipt log: %w", err)
	}

	var recs []history.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decoding receipt log %s: %w", s.path, err)
	}

	return recs, nil
}

func (s *Store) write(recs []history.Record) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encoding receipt log: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing receipt log: %w", err)
	}

	return nil
}
