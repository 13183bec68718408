package properties

import (
	"errors"
	"sort"
	"strings"
)

const (
	propertyKeyRequiredMessageConstant = "property key must be provided"
	setPropertyErrorTemplateConstant   = "failed to set property %s: %w"
)

// ErrPropertyKeyRequired indicates SetProperty was called with an empty key.
var ErrPropertyKeyRequired = errors.New(propertyKeyRequiredMessageConstant)

// Entry is a single key/value pair.
type Entry struct {
	Key   string
	Value string
}

// Store receives published properties.
type Store interface {
	SetProperty(key string, value string) error
	Property(key string) (string, bool)
	Entries() []Entry
}

// MapStore is an in-memory Store.
type MapStore struct {
	values map[string]string
}

// NewMapStore creates an empty MapStore.
func NewMapStore() *MapStore {
	return &MapStore{values: make(map[string]string)}
}

// SetProperty records value under key, replacing any previous value.
func (store *MapStore) SetProperty(key string, value string) error {
	if len(strings.TrimSpace(key)) == 0 {
		return ErrPropertyKeyRequired
	}
	if store.values == nil {
		store.values = make(map[string]string)
	}
	store.values[key] = value
	return nil
}

// Property returns the value stored under key.
func (store *MapStore) Property(key string) (string, bool) {
	value, exists := store.values[key]
	return value, exists
}

// Entries returns every stored property ordered by key.
func (store *MapStore) Entries() []Entry {
	entries := make([]Entry, 0, len(store.values))
	for key, value := range store.values {
		entries = append(entries, Entry{Key: key, Value: value})
	}
	sort.Slice(entries, func(leftIndex int, rightIndex int) bool {
		return entries[leftIndex].Key < entries[rightIndex].Key
	})
	return entries
}

// Len reports the number of stored properties.
func (store *MapStore) Len() int {
	return len(store.values)
}
