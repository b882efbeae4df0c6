// Package store persists the whole marketplace as one JSON document with a
// record list per collection. Every operation is a full
// read-modify-write of the document, serialized behind a single mutex so
// concurrent requests cannot lose each other's updates.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// Collection names inside the document.
const (
	Users   = "users"
	Animals = "animals"
	Orders  = "orders"
)

// ErrNotFound is returned when no record matches the requested id or field.
var ErrNotFound = errors.New("item not found")

// Record is one untyped document entry. Typed models move in and out via
// Encode/Decode.
type Record = map[string]any

type document map[string][]Record

// Store is a JSON-file backed document store.
type Store struct {
	path string
	mu   sync.Mutex
}

// New opens the document at path, creating an empty one when the file does
// not exist yet.
func New(path string) (*Store, error) {
	s := &Store{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		empty := document{Users: {}, Animals: {}, Orders: {}}
		if err := s.write(empty); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat database: %w", err)
	}
	return s, nil
}

func (s *Store) read() (document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read database: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse database: %w", err)
	}
	if doc == nil {
		doc = document{}
	}
	return doc, nil
}

func (s *Store) write(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode database: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write database: %w", err)
	}
	return nil
}

// GetCollection returns the records of the named collection, or an empty
// slice when the collection is absent.
func (s *Store) GetCollection(name string) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	records := doc[name]
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// ReplaceCollection overwrites the named collection and persists the full
// document. The records argument may be a []Record or any slice of
// JSON-encodable values.
func (s *Store) ReplaceCollection(name string, records any) error {
	encoded, err := EncodeAll(records)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceLocked(name, encoded)
}

func (s *Store) replaceLocked(name string, records []Record) error {
	doc, err := s.read()
	if err != nil {
		return err
	}
	doc[name] = records
	return s.write(doc)
}

// FindByID returns the first record whose "id" field equals id.
func (s *Store) FindByID(name, id string) (Record, error) {
	return s.FindByField(name, "id", id)
}

// FindByField scans the collection for the first record whose field equals
// value, returning ErrNotFound when nothing matches.
func (s *Store) FindByField(name, field string, value any) (Record, error) {
	records, err := s.GetCollection(name)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec[field] == value {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

// AddItem appends one record to the collection and persists.
func (s *Store) AddItem(name string, item any) error {
	rec, err := Encode(item)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	doc[name] = append(doc[name], rec)
	return s.write(doc)
}

// UpdateItem shallow-merges patch onto the record matching id: patch fields
// overwrite, all others are preserved. Returns the merged record.
func (s *Store) UpdateItem(name, id string, patch Record) (Record, error) {
	return s.UpdateItemBy(name, "id", id, patch)
}

// UpdateItemBy is UpdateItem keyed by an arbitrary field, for collections
// whose records carry a business key instead of a generated id. The full
// read-merge-write cycle runs under the store mutex.
func (s *Store) UpdateItemBy(name, field string, value any, patch Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	for i, rec := range doc[name] {
		if rec[field] == value {
			for k, v := range patch {
				rec[k] = v
			}
			doc[name][i] = rec
			if err := s.write(doc); err != nil {
				return nil, err
			}
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

// DeleteItem removes the record matching id and persists.
func (s *Store) DeleteItem(name, id string) error {
	return s.DeleteItemBy(name, "id", id)
}

// DeleteItemBy removes the records whose field equals value.
func (s *Store) DeleteItemBy(name, field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	records := doc[name]
	filtered := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec[field] != value {
			filtered = append(filtered, rec)
		}
	}
	if len(filtered) == len(records) {
		return ErrNotFound
	}
	doc[name] = filtered
	return s.write(doc)
}

// Encode converts a typed value into a Record via a JSON round trip.
func Encode(item any) (Record, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return rec, nil
}

// EncodeAll converts a slice of typed values into records.
func EncodeAll(items any) ([]Record, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, nil
}

// Decode converts a Record into a typed model.
func Decode[T any](rec Record) (T, error) {
	var out T
	data, err := json.Marshal(rec)
	if err != nil {
		return out, fmt.Errorf("decode record: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode record: %w", err)
	}
	return out, nil
}

// DecodeAll converts a slice of records into typed models.
func DecodeAll[T any](recs []Record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		item, err := Decode[T](rec)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
