package keystore

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// clientKeyField is the YAML field holding the pairing key.
const clientKeyField = "client_key"

// filePerm restricts the config file to the owner: it holds the pairing key.
const filePerm = 0o600

// ErrSaveFailed is returned when the pairing key cannot be persisted.
// It is a persistence error, distinct from the connection errors the
// failure classifier inspects.
var ErrSaveFailed = errors.New("keystore: save failed")

// Store persists the TV pairing key inside the YAML configuration file.
//
// The store is stateless between calls: every Load reads the file and every
// Save performs a read-modify-write so that unrelated configuration fields
// are preserved. Callers never need to hold the full prior contents.
type Store struct {
	path string
}

// New creates a Store backed by the YAML file at path.
//
// The file does not need to exist yet; Save treats a missing or unreadable
// file as empty prior state.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the pairing key from the store.
//
// Returns:
//   - string: The stored key (empty when absent)
//   - bool: Whether a key was present
//   - error: If the file exists but cannot be read or parsed
func (s *Store) Load() (string, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading key store: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", false, fmt.Errorf("parsing key store: %w", err)
	}

	key, ok := extractKey(doc)
	return key, ok, nil
}

// Save writes the pairing key to the store, preserving all other fields.
//
// The existing file is read first and only the client_key field is replaced.
// A read failure is tolerated and treated as empty prior state — losing
// comments or unrelated fields is worse than re-pairing, but an unreadable
// file must not block persisting a freshly issued key. A write failure
// surfaces as ErrSaveFailed.
//
// Parameters:
//   - key: The pairing key to persist
//
// Returns:
//   - error: nil on success, or a wrapped ErrSaveFailed
func (s *Store) Save(key string) error {
	doc := map[string]any{}
	if data, err := os.ReadFile(s.path); err == nil {
		// Best effort: an unparseable file also counts as empty prior state.
		var existing map[string]any
		if yaml.Unmarshal(data, &existing) == nil && existing != nil {
			doc = existing
		}
	}

	setKey(doc, key)

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: marshalling: %w", ErrSaveFailed, err)
	}

	if err := os.WriteFile(s.path, out, filePerm); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	return nil
}

// extractKey pulls the client key from a parsed config document.
// The key lives under the tv section; the flat top-level form from older
// config files is still honoured on read.
func extractKey(doc map[string]any) (string, bool) {
	if tv, ok := doc["tv"].(map[string]any); ok {
		if key, ok := tv[clientKeyField].(string); ok && key != "" {
			return key, true
		}
	}
	if key, ok := doc[clientKeyField].(string); ok && key != "" {
		return key, true
	}
	return "", false
}

// setKey writes the client key into the tv section, creating it if needed.
func setKey(doc map[string]any, key string) {
	tv, ok := doc["tv"].(map[string]any)
	if !ok {
		tv = map[string]any{}
		doc["tv"] = tv
	}
	tv[clientKeyField] = key
	// Drop a stale flat-form key so the file has a single source of truth.
	delete(doc, clientKeyField)
}
