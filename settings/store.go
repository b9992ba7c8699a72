// Package settings provides an in-memory settings store that satisfies
// compaction.SettingsManager.
//
// The store keeps its state as a single JSON document so hosts can seed it
// from whatever they persist and read it back with Bytes. How the document
// is persisted is up to the host.
package settings

import (
	"fmt"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/youssefsiam38/agentbudget/compaction"
)

// DefaultReserveTokens is the reserve reported when the document has none.
const DefaultReserveTokens = 16384

const reserveTokensPath = "compaction.reserveTokens"

// Store is a JSON-document settings store. It is safe for concurrent use,
// but a read followed by ApplyOverrides is still two separate operations.
type Store struct {
	mu  sync.RWMutex
	doc []byte
}

var _ compaction.SettingsManager = (*Store)(nil)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{doc: []byte(`{}`)}
}

// NewStoreFromJSON seeds a store with an existing settings document.
func NewStoreFromJSON(doc []byte) (*Store, error) {
	if len(doc) == 0 {
		return NewStore(), nil
	}
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("settings: invalid JSON document")
	}
	if !gjson.ParseBytes(doc).IsObject() {
		return nil, fmt.Errorf("settings: document must be a JSON object")
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	return &Store{doc: cp}, nil
}

// GetCompactionReserveTokens returns compaction.reserveTokens, or
// DefaultReserveTokens when it is missing or not a number.
func (s *Store) GetCompactionReserveTokens() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := gjson.GetBytes(s.doc, reserveTokensPath)
	if res.Type != gjson.Number {
		return DefaultReserveTokens
	}
	return int(res.Int())
}

// ApplyOverrides merges the override into the document. Only fields the
// override carries are touched.
func (s *Store) ApplyOverrides(overrides compaction.Overrides) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := sjson.SetBytes(s.doc, reserveTokensPath, overrides.Compaction.ReserveTokens)
	if err != nil {
		return
	}
	s.doc = doc
}

// Bytes returns a copy of the current document.
func (s *Store) Bytes() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := make([]byte, len(s.doc))
	copy(cp, s.doc)
	return cp
}

// Get returns the raw value at a gjson path, for hosts that keep other
// settings in the same document.
func (s *Store) Get(path string) gjson.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return gjson.GetBytes(s.doc, path)
}
