package scanner

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"sort"
	"sync"

	"github.com/gtank/cryptopasta"
)

const hashTag = "slipscan-item"

// Seen records processed items by id and by content hash, so a renamed copy
// of a slip is still recognised.
type Seen struct {
	mu     sync.Mutex
	path   string
	ids    map[string]struct{}
	hashes map[string]struct{}
}

type seenFile struct {
	IDs    []string `json:"ids"`
	Hashes []string `json:"hashes"`
}

func NewSeen() *Seen {
	return &Seen{ids: map[string]struct{}{}, hashes: map[string]struct{}{}}
}

// LoadSeen reads the ledger at path. A missing file starts an empty ledger
// that Save will create.
func LoadSeen(path string) (*Seen, error) {
	s := NewSeen()
	s.path = path
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	var f seenFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	for _, id := range f.IDs {
		s.ids[id] = struct{}{}
	}
	for _, h := range f.Hashes {
		s.hashes[h] = struct{}{}
	}
	return s, nil
}

func contentHash(it Item) string {
	content := it.content()
	if len(content) == 0 {
		return ""
	}
	return hex.EncodeToString(cryptopasta.Hash(hashTag, content))
}

func (s *Seen) Has(it Item) bool {
	h := contentHash(it)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[it.ID]; ok && it.ID != "" {
		return true
	}
	_, ok := s.hashes[h]
	return ok && h != ""
}

func (s *Seen) Add(it Item) {
	h := contentHash(it)
	s.mu.Lock()
	defer s.mu.Unlock()
	if it.ID != "" {
		s.ids[it.ID] = struct{}{}
	}
	if h != "" {
		s.hashes[h] = struct{}{}
	}
}

// Save writes the ledger back to the path it was loaded from.
func (s *Seen) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return nil
	}

	f := seenFile{IDs: keys(s.ids), Hashes: keys(s.hashes)}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
