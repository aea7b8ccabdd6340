package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_Simple(t *testing.T) {
	idx := NewIndex("places").
		Ascending("place", "type").
		Sphere2D("location").
		MustBuild()

	if err := idx.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx.Collection != "places" {
		t.Errorf("collection = %q, want places", idx.Collection)
	}
	if len(idx.Fields) != 3 {
		t.Fatalf("fields count = %d, want 3", len(idx.Fields))
	}
	if idx.Fields[0].Name != "place" || idx.Fields[0].Kind != IndexAscending {
		t.Errorf("field[0] = %+v, want place ascending", idx.Fields[0])
	}
	if idx.Fields[2].Name != "location" || idx.Fields[2].Kind != IndexSphere2D {
		t.Errorf("field[2] = %+v, want location 2dsphere", idx.Fields[2])
	}
}

func TestIndexBuilder_String(t *testing.T) {
	idx := NewIndex("tweets").Ascending("username").Sphere2D("location").MustBuild()

	got := idx.String()
	want := "createIndexes tweets username:1 location:2dsphere"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestIndexBuilder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		b       *IndexBuilder
		wantErr string
	}{
		{"empty collection", NewIndex("").Ascending("a"), "collection name is required"},
		{"bad collection", NewIndex("bad name").Ascending("a"), "invalid characters"},
		{"no fields", NewIndex("c"), "at least one field"},
		{"duplicate", NewIndex("c").Ascending("a").Sphere2D("a"), "duplicate field name"},
		{"empty field", NewIndex("c").Ascending(""), "field name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.b.Build()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestIndexBuilder_MustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewIndex("").MustBuild()
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"region_geometries", true},
		{"census-filters", true},
		{"", false},
		{"a.b", false},
		{"a b", false},
	}
	for _, tc := range tests {
		if got := IsValidIdentifier(tc.s); got != tc.want {
			t.Errorf("IsValidIdentifier(%q) = %v, want %v", tc.s, got, tc.want)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	e := &Error{Op: OpFind, Err: ErrNotFound}
	if e.Error() != "find: db: document not found" {
		t.Errorf("Error() = %q", e.Error())
	}
	if e.Unwrap() != ErrNotFound {
		t.Error("Unwrap() mismatch")
	}
}
