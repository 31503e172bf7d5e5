package store

import (
	internalErrors "github.com/gcbaptista/go-school-search/internal/errors"
	"github.com/gcbaptista/go-school-search/model"
)

// RecordStore holds the ordered collection of schools. A record's position is
// its identity and is never reused or compacted.
//
// The store is only appended to while the index is being built. After that it
// is read-only and safe for concurrent readers.
type RecordStore struct {
	schools []model.School
}

// NewRecordStore creates an empty store with room for capacity records.
func NewRecordStore(capacity int) *RecordStore {
	return &RecordStore{schools: make([]model.School, 0, capacity)}
}

// Append adds a school and returns its position.
func (rs *RecordStore) Append(s model.School) uint32 {
	rs.schools = append(rs.schools, s)
	return uint32(len(rs.schools) - 1)
}

// Get returns the school at position pos.
func (rs *RecordStore) Get(pos uint32) (model.School, error) {
	if int(pos) >= len(rs.schools) {
		return model.School{}, internalErrors.NewRecordNotFoundError(pos)
	}
	return rs.schools[pos], nil
}

// MustGet returns the school at pos and panics if pos was never assigned.
// Positions taken from the index built alongside this store are always valid.
func (rs *RecordStore) MustGet(pos uint32) model.School {
	s, err := rs.Get(pos)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of records.
func (rs *RecordStore) Len() int {
	return len(rs.schools)
}
