package schema

import "sort"

// Database pairs a database ID with the properties to extract from its rows,
// keyed by output field name. The field name doubles as the remote property name.
type Database struct {
	ID         string
	Properties map[string]Property
}

// NewDatabase creates a database schema. The map is copied.
func NewDatabase(id string, props map[string]Property) *Database {
	db := &Database{
		ID:         id,
		Properties: make(map[string]Property, len(props)),
	}
	for name, p := range props {
		db.Set(name, p)
	}
	return db
}

// Set adds or replaces the property for name
func (d *Database) Set(name string, p Property) *Database {
	if d.Properties == nil {
		d.Properties = make(map[string]Property)
	}
	d.Properties[name] = p
	return d
}

// Names returns the output field names in sorted order
func (d *Database) Names() []string {
	names := make([]string, 0, len(d.Properties))
	for name := range d.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Keys returns the sorted names of properties flagged as keys
func (d *Database) Keys() []string {
	var keys []string
	for _, name := range d.Names() {
		if d.Properties[name].IsKey() {
			keys = append(keys, name)
		}
	}
	return keys
}

// ResolvedRelations returns the sorted names of relation properties whose IDs
// are resolved to titles
func (d *Database) ResolvedRelations() []string {
	var names []string
	for _, name := range d.Names() {
		if rel, ok := d.Properties[name].(*RelationProperty); ok && rel.FetchRelated() {
			names = append(names, name)
		}
	}
	return names
}
