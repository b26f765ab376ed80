package notes

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Klingon-tech/klingnet-masp/internal/storage"
	"github.com/zeebo/blake3"
)

// ErrNoSnapshot is returned when no note snapshot exists for an account.
var ErrNoSnapshot = errors.New("no note snapshot for account")

var prefixSnapshot = []byte("n/")

// Snapshot is the latest note set reported for a shielded account.
type Snapshot struct {
	Account     string `json:"account"`
	Notes       []Note `json:"notes"`
	Fingerprint string `json:"fingerprint"`
	SyncedAt    int64  `json:"synced_at"` // Unix seconds.
}

// Store persists one note snapshot per account.
type Store struct {
	db storage.DB
}

// NewStore creates a snapshot store on top of db.
func NewStore(db storage.DB) *Store {
	return &Store{db: db}
}

func snapshotKey(account string) []byte {
	key := make([]byte, 0, len(prefixSnapshot)+len(account))
	key = append(key, prefixSnapshot...)
	return append(key, account...)
}

// Put replaces the account's snapshot and returns its fingerprint. An
// unchanged fingerprint means the sync reported the same notes.
func (s *Store) Put(account string, notes []Note) (string, error) {
	if account == "" {
		return "", fmt.Errorf("account is required")
	}
	snap := Snapshot{
		Account:     account,
		Notes:       notes,
		Fingerprint: Fingerprint(notes),
		SyncedAt:    time.Now().Unix(),
	}
	if snap.Notes == nil {
		snap.Notes = []Note{}
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot %s: %w", account, err)
	}
	if err := s.db.Put(snapshotKey(account), data); err != nil {
		return "", fmt.Errorf("save snapshot %s: %w", account, err)
	}
	return snap.Fingerprint, nil
}

// Get returns the stored snapshot for account.
func (s *Store) Get(account string) (*Snapshot, error) {
	data, err := s.db.Get(snapshotKey(account))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, account)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", account, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %s: %w", account, err)
	}
	return &snap, nil
}

// Delete removes the account's snapshot.
func (s *Store) Delete(account string) error {
	return s.db.Delete(snapshotKey(account))
}

// Accounts lists the accounts that have a stored snapshot.
func (s *Store) Accounts() ([]string, error) {
	var out []string
	err := s.db.ForEach(prefixSnapshot, func(key, _ []byte) error {
		out = append(out, string(key[len(prefixSnapshot):]))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return out, nil
}

// Fingerprint is a BLAKE3 digest over the notes in the given order.
func Fingerprint(notes []Note) string {
	h := blake3.New()
	for _, n := range notes {
		h.Write([]byte(n.AssetAddress))
		h.Write([]byte{0})
		h.Write([]byte(n.Value.String()))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
