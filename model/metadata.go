package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Metadata represents JSONB metadata stored in PostgreSQL.
type Metadata map[string]interface{}

// Value implements the driver.Valuer interface for database storage.
func (m Metadata) Value() (driver.Value, error) {
	return m.Marshal()
}

// Scan implements the sql.Scanner interface for database retrieval.
func (m *Metadata) Scan(value interface{}) error {
	return m.Unmarshal(value)
}

// Marshal converts Metadata to JSON bytes.
func (m Metadata) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal converts JSON bytes or Metadata to Metadata.
func (m *Metadata) Unmarshal(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}

	if s, ok := value.(Metadata); ok {
		*m = s
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(b, m)
}

// Filter is an equality/conjunction predicate over stored metadata. A nil or
// empty filter matches every record. Matching uses JSONB containment in the
// store, so values must compare after a JSON round trip.
type Filter map[string]interface{}

// Matches reports whether the given metadata satisfies every filter entry.
// Used by in-memory callers; the database applies the same predicate via @>.
func (f Filter) Matches(meta Metadata) bool {
	for k, want := range f {
		got, ok := meta[k]
		if !ok {
			return false
		}
		wb, err := json.Marshal(want)
		if err != nil {
			return false
		}
		gb, err := json.Marshal(got)
		if err != nil {
			return false
		}
		if string(wb) != string(gb) {
			return false
		}
	}
	return true
}
