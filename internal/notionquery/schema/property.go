// Package schema declares which database properties a query returns and how
// each one is decoded.
package schema

import (
	"errors"
	"fmt"
)

// ErrInvalidProperty is wrapped by every property construction error
var ErrInvalidProperty = errors.New("invalid property schema")

// PropertyType is the Notion type tag of a database property
type PropertyType string

const (
	TypeTitle          PropertyType = "title"
	TypeRichText       PropertyType = "rich_text"
	TypeNumber         PropertyType = "number"
	TypeSelect         PropertyType = "select"
	TypeMultiSelect    PropertyType = "multi_select"
	TypeDate           PropertyType = "date"
	TypePeople         PropertyType = "people"
	TypeFiles          PropertyType = "files"
	TypeCheckbox       PropertyType = "checkbox"
	TypeURL            PropertyType = "url"
	TypeEmail          PropertyType = "email"
	TypePhoneNumber    PropertyType = "phone_number"
	TypeFormula        PropertyType = "formula"
	TypeRelation       PropertyType = "relation"
	TypeRollup         PropertyType = "rollup"
	TypeCreatedTime    PropertyType = "created_time"
	TypeCreatedBy      PropertyType = "created_by"
	TypeLastEditedTime PropertyType = "last_edited_time"
	TypeLastEditedBy   PropertyType = "last_edited_by"
	TypeStatus         PropertyType = "status"
	TypeUniqueID       PropertyType = "unique_id"
)

var knownTypes = map[PropertyType]struct{}{
	TypeTitle: {}, TypeRichText: {}, TypeNumber: {}, TypeSelect: {}, TypeMultiSelect: {},
	TypeDate: {}, TypePeople: {}, TypeFiles: {}, TypeCheckbox: {}, TypeURL: {}, TypeEmail: {},
	TypePhoneNumber: {}, TypeFormula: {}, TypeRelation: {}, TypeRollup: {}, TypeCreatedTime: {},
	TypeCreatedBy: {}, TypeLastEditedTime: {}, TypeLastEditedBy: {}, TypeStatus: {}, TypeUniqueID: {},
}

// Valid reports whether t is a known property type
func (t PropertyType) Valid() bool {
	_, ok := knownTypes[t]
	return ok
}

// IsUser reports whether t references a user
func (t PropertyType) IsUser() bool {
	return t == TypeCreatedBy || t == TypeLastEditedBy
}

// UserField is a user attribute that can be included in a decoded user value
type UserField string

const (
	UserFieldID        UserField = "id"
	UserFieldName      UserField = "name"
	UserFieldAvatarURL UserField = "avatar_url"
	UserFieldEmail     UserField = "email"
)

// Valid reports whether f is a known user field
func (f UserField) Valid() bool {
	switch f {
	case UserFieldID, UserFieldName, UserFieldAvatarURL, UserFieldEmail:
		return true
	}
	return false
}

// Property describes one output column. The implementations are
// *BaseProperty, *UserProperty and *RelationProperty.
type Property interface {
	Type() PropertyType
	// IsKey is advisory metadata for the caller; decoding ignores it.
	IsKey() bool

	sealed()
}

// BaseProperty is a property without type-specific options
type BaseProperty struct {
	kind PropertyType
	key  bool
}

func (p *BaseProperty) Type() PropertyType { return p.kind }
func (p *BaseProperty) IsKey() bool { return p.key }
func (*BaseProperty) sealed() {}

// UserProperty is a created_by or last_edited_by property
type UserProperty struct {
	BaseProperty
	include []UserField
}

// Include returns the requested user fields in declaration order. An empty
// result means the decoded value is the bare user ID.
func (p *UserProperty) Include() []UserField {
	return append([]UserField(nil), p.include...)
}

// WithKey returns a copy of p with the key flag set
func (p *UserProperty) WithKey(isKey bool) *UserProperty {
	c := *p
	c.include = p.Include()
	c.key = isKey
	return &c
}

// RelationProperty is a relation property
type RelationProperty struct {
	BaseProperty
	fetchRelated bool
}

// FetchRelated reports whether related page IDs are resolved to titles
func (p *RelationProperty) FetchRelated() bool { return p.fetchRelated }

// WithKey returns a copy of p with the key flag set
func (p *RelationProperty) WithKey(isKey bool) *RelationProperty {
	c := *p
	c.key = isKey
	return &c
}

// Builder constructs a property of one type
type Builder struct {
	kind PropertyType
}

// Of returns a builder for properties of type t
func Of(t PropertyType) (Builder, error) {
	if !t.Valid() {
		return Builder{}, fmt.Errorf("%w: unknown property type %q", ErrInvalidProperty, t)
	}
	return Builder{kind: t}, nil
}

// MustOf is like Of but panics on an unknown type
func MustOf(t PropertyType) Builder {
	b, err := Of(t)
	if err != nil {
		panic(err)
	}
	return b
}

// Key builds a property with the given key flag and no other options.
// Relation and user types still get their own variant.
func (b Builder) Key(isKey bool) Property {
	base := BaseProperty{kind: b.kind, key: isKey}
	switch {
	case b.kind == TypeRelation:
		return &RelationProperty{BaseProperty: base}
	case b.kind.IsUser():
		return &UserProperty{BaseProperty: base}
	default:
		return &base
	}
}

// Include builds a user property decoding to an object with exactly the given
// fields. Duplicates are dropped, keeping the first occurrence.
func (b Builder) Include(fields ...UserField) (*UserProperty, error) {
	if !b.kind.IsUser() {
		return nil, fmt.Errorf("%w: include is only valid for created_by and last_edited_by, not %q", ErrInvalidProperty, b.kind)
	}

	seen := make(map[UserField]struct{}, len(fields))
	include := make([]UserField, 0, len(fields))
	for _, f := range fields {
		if !f.Valid() {
			return nil, fmt.Errorf("%w: unknown user field %q", ErrInvalidProperty, f)
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		include = append(include, f)
	}

	return &UserProperty{
		BaseProperty: BaseProperty{kind: b.kind},
		include:      include,
	}, nil
}

// FetchRelated builds a relation property
func (b Builder) FetchRelated(fetch bool) (*RelationProperty, error) {
	if b.kind != TypeRelation {
		return nil, fmt.Errorf("%w: fetchRelated is only valid for relation, not %q", ErrInvalidProperty, b.kind)
	}
	return &RelationProperty{
		BaseProperty: BaseProperty{kind: TypeRelation},
		fetchRelated: fetch,
	}, nil
}
