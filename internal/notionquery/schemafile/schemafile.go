// Package schemafile reads database schemas from YAML for the command line.
//
//	database: 0f1e2d3c4b5a69788796a5b4c3d2e1f0
//	properties:
//	  Name:      {type: title, key: true}
//	  Country:   {type: relation, fetch_related: true}
//	  CreatedBy: {type: created_by, include: [name, email]}
package schemafile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/longkey1/notionquery/internal/notionquery/schema"
)

// File is the YAML layout of a schema file
type File struct {
	// Database is the database ID. DatabaseName is used to look it up among
	// the inline databases of top-level pages when the ID is not known.
	Database     string              `yaml:"database"`
	DatabaseName string              `yaml:"database_name"`
	Properties   map[string]Property `yaml:"properties"`
}

// Property is the YAML layout of one property
type Property struct {
	Type         string   `yaml:"type"`
	Key          bool     `yaml:"key"`
	Include      []string `yaml:"include"`
	FetchRelated bool     `yaml:"fetch_related"`
}

// Load reads and parses a schema file
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return Parse(data)
}

// Parse parses schema file contents and validates every property
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}
	if len(f.Properties) == 0 {
		return nil, fmt.Errorf("schema file declares no properties")
	}
	if _, err := f.Schema(""); err != nil {
		return nil, err
	}
	return &f, nil
}

// Schema builds the database schema. id overrides the database ID of the file
// when non-empty.
func (f *File) Schema(id string) (*schema.Database, error) {
	if id == "" {
		id = f.Database
	}

	props := make(map[string]schema.Property, len(f.Properties))
	for name, p := range f.Properties {
		prop, err := p.build()
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		props[name] = prop
	}

	return schema.NewDatabase(id, props), nil
}

func (p Property) build() (schema.Property, error) {
	b, err := schema.Of(schema.PropertyType(p.Type))
	if err != nil {
		return nil, err
	}

	switch {
	case len(p.Include) > 0:
		fields := make([]schema.UserField, len(p.Include))
		for i, f := range p.Include {
			fields[i] = schema.UserField(f)
		}
		prop, err := b.Include(fields...)
		if err != nil {
			return nil, err
		}
		return prop.WithKey(p.Key), nil
	case p.FetchRelated:
		prop, err := b.FetchRelated(true)
		if err != nil {
			return nil, err
		}
		return prop.WithKey(p.Key), nil
	default:
		return b.Key(p.Key), nil
	}
}
