package db

import "strings"

// IndexBuilder is a fluent builder for collection index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts building the indexes of a collection.
func NewIndex(collection string) *IndexBuilder {
	return &IndexBuilder{
		def: IndexDefinition{Collection: collection},
	}
}

// Ascending adds an ascending index per field.
func (b *IndexBuilder) Ascending(names ...string) *IndexBuilder {
	for _, name := range names {
		b.def.Fields = append(b.def.Fields, IndexField{Name: name, Kind: IndexAscending})
	}
	return b
}

// Sphere2D adds a 2dsphere index on a GeoJSON field.
func (b *IndexBuilder) Sphere2D(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{Name: name, Kind: IndexSphere2D})
	return b
}

// Build validates and returns the index definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return &b.def, nil
}

// MustBuild calls Build and panics on error.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// String returns a debug representation resembling a createIndexes call.
func (idx *IndexDefinition) String() string {
	parts := []string{"createIndexes", idx.Collection}
	for i := range idx.Fields {
		f := &idx.Fields[i]
		parts = append(parts, f.Name+":"+f.Kind.String())
	}
	return strings.Join(parts, " ")
}
