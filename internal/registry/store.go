package registry

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-masp/internal/storage"
)

// ErrNoBundle is returned when no bundle has been persisted yet.
var ErrNoBundle = errors.New("no registry bundle stored")

var keyCurrent = []byte("g/current")

// Store persists the last loaded bundle so the daemon can start without
// its registry file.
type Store struct {
	db storage.DB
}

// NewStore creates a bundle store on top of db.
func NewStore(db storage.DB) *Store {
	return &Store{db: db}
}

// Save replaces the stored bundle.
func (s *Store) Save(b *Bundle) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal registry bundle: %w", err)
	}
	if err := s.db.Put(keyCurrent, data); err != nil {
		return fmt.Errorf("save registry bundle: %w", err)
	}
	return nil
}

// Load returns the stored bundle.
func (s *Store) Load() (*Bundle, error) {
	data, err := s.db.Get(keyCurrent)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoBundle
	}
	if err != nil {
		return nil, fmt.Errorf("load registry bundle: %w", err)
	}
	return ParseJSON(data)
}
