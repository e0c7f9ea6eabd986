// Package jsonfile keeps transactions in a single JSON document on disk.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/aqlanhadi/slipscan/extractor/common"
	"github.com/aqlanhadi/slipscan/ledger"
	"github.com/aqlanhadi/slipscan/logger"
)

type Store struct {
	filename string
	mu       sync.Mutex
}

func New(filename string) *Store {
	return &Store{filename: filename}
}

// List reads every stored transaction. A missing file is an empty store.
func (s *Store) List(ctx context.Context) ([]common.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Write merges txns into the file by reference id.
func (s *Store) Write(ctx context.Context, txns []common.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return err
	}

	merged, created, updated := ledger.Upsert(existing, txns)

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.filename, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.filename, err)
	}

	log := logger.FromContext(ctx)
	log.Debug().
		Str("file", s.filename).
		Int("created", created).
		Int("updated", updated).
		Msg("transactions saved")
	return nil
}

func (s *Store) Close() error { return nil }

func (s *Store) load() ([]common.Transaction, error) {
	data, err := os.ReadFile(s.filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var txns []common.Transaction
	if err := json.Unmarshal(data, &txns); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.filename, err)
	}
	return txns, nil
}
