package beans

import (
	"strings"

	"github.com/0xalexb/hjarta-beans/config"
)

// Store holds flat key/value configuration entries in first-insertion order.
// It does not validate key syntax; malformed keys surface during resolution.
// A Store is filled once at configuration time and is not safe for concurrent mutation.
type Store struct {
	keys   []string
	values map[string]string
}

// NewStore creates a Store seeded with the given properties.
func NewStore(props ...config.Property) *Store {
	store := &Store{
		keys:   make([]string, 0, len(props)),
		values: make(map[string]string, len(props)),
	}

	for _, prop := range props {
		store.Set(prop.Key, prop.Value)
	}

	return store
}

// Set stores value under key. Writing an existing key overwrites the value but keeps its position.
func (s *Store) Set(key, value string) {
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}

	s.values[key] = value
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool) {
	value, ok := s.values[key]

	return value, ok
}

// Len returns the number of distinct keys.
func (s *Store) Len() int {
	return len(s.keys)
}

// EntriesWithPrefix returns the entries whose key starts with prefix.
// The returned keys have the prefix removed.
func (s *Store) EntriesWithPrefix(prefix string) config.Properties {
	var entries config.Properties

	for _, key := range s.keys {
		suffix, found := strings.CutPrefix(key, prefix)
		if !found {
			continue
		}

		entries = append(entries, config.Property{Key: suffix, Value: s.values[key]})
	}

	return entries
}
