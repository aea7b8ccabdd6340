package db

import (
	"errors"
	"strconv"
)

// IndexKind selects the index type of a single field.
type IndexKind int

const (
	// IndexAscending is a regular ascending B-tree index.
	IndexAscending IndexKind = iota
	// IndexSphere2D is a spherical geometry index over GeoJSON values.
	IndexSphere2D
)

func (k IndexKind) String() string {
	if k == IndexSphere2D {
		return "2dsphere"
	}
	return "1"
}

// IndexField describes one single-field index.
type IndexField struct {
	Name string
	Kind IndexKind
}

// IndexDefinition is the full set of indexes for one collection.
type IndexDefinition struct {
	Collection string
	Fields     []IndexField
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Collection == "" {
		return errors.New("collection name is required")
	}
	if !IsValidIdentifier(idx.Collection) {
		return errors.New("collection name contains invalid characters")
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]bool)
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			return errors.New("field name is required at index " + strconv.Itoa(i))
		}
		if seen[f.Name] {
			return errors.New("duplicate field name: " + f.Name)
		}
		seen[f.Name] = true
	}

	return nil
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
