package notionquery

import (
	"encoding/json"

	"github.com/longkey1/notionquery/internal/notion/types"
	"github.com/longkey1/notionquery/internal/notionquery/schema"
)

// Row is one database row decoded against a schema. Fields holds one entry
// per schema property; a nil value means the property was absent or empty.
type Row struct {
	PageID string
	Fields map[string]any
}

// MarshalJSON flattens the row into a single object keyed by field name plus
// "pageId". pageId always reflects the row's own page.
func (r Row) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		m[k] = v
	}
	m["pageId"] = r.PageID
	return json.Marshal(m)
}

// RelatedPage is a resolved relation entry
type RelatedPage struct {
	ID    string  `json:"id"`
	Title *string `json:"title"`
}

// RelationSet collects related page IDs awaiting resolution. IDs are kept in
// first-seen order without duplicates.
type RelationSet struct {
	ids  []string
	seen map[string]struct{}
}

// NewRelationSet creates a set holding ids
func NewRelationSet(ids ...string) *RelationSet {
	s := &RelationSet{seen: make(map[string]struct{})}
	s.Add(ids...)
	return s
}

// Add queues ids that are not already present
func (s *RelationSet) Add(ids ...string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	for _, id := range ids {
		if _, ok := s.seen[id]; ok {
			continue
		}
		s.seen[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
}

// IDs returns the distinct IDs in first-seen order
func (s *RelationSet) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Len returns the number of distinct IDs
func (s *RelationSet) Len() int {
	return len(s.ids)
}

// TransformRow decodes page against db. Relation IDs of properties that fetch
// related pages are added to acc; nothing else is mutated.
func TransformRow(page *types.Page, db *schema.Database, acc *RelationSet) Row {
	row := Row{
		PageID: page.ID,
		Fields: make(map[string]any, len(db.Properties)),
	}

	for name, prop := range db.Properties {
		value, ok := page.Properties[name]
		if !ok {
			row.Fields[name] = nil
			continue
		}
		row.Fields[name] = decodeProperty(prop, &value, acc)
	}

	return row
}

// decodeProperty converts one property payload according to its declared type.
// The remote payload is never trusted to match: missing sub-payloads decode to nil.
func decodeProperty(prop schema.Property, value *types.PropertyValue, acc *RelationSet) any {
	switch p := prop.(type) {
	case *schema.RelationProperty:
		return decodeRelation(p, value, acc)
	case *schema.UserProperty:
		return decodeUser(p, value)
	}

	switch prop.Type() {
	case schema.TypeTitle:
		return firstPlainText(value.Title)
	case schema.TypeRichText:
		return firstPlainText(value.RichText)
	case schema.TypeNumber:
		if value.Number == nil {
			return nil
		}
		return *value.Number
	case schema.TypeSelect:
		if value.Select == nil || value.Select.Name == "" {
			return nil
		}
		return value.Select.Name
	case schema.TypeMultiSelect:
		if value.MultiSelect == nil {
			return nil
		}
		names := make([]string, 0, len(value.MultiSelect))
		for _, opt := range value.MultiSelect {
			names = append(names, opt.Name)
		}
		return names
	case schema.TypeDate:
		if value.Date == nil || value.Date.Start == "" {
			return nil
		}
		return value.Date.Start
	case schema.TypeCheckbox:
		if value.Checkbox == nil {
			return nil
		}
		return *value.Checkbox
	default:
		if raw := value.Payload(string(prop.Type())); raw != nil {
			return raw
		}
		return nil
	}
}

func decodeRelation(p *schema.RelationProperty, value *types.PropertyValue, acc *RelationSet) any {
	if value.Relation == nil {
		return nil
	}

	ids := make([]string, 0, len(value.Relation))
	for _, rel := range value.Relation {
		ids = append(ids, rel.ID)
	}

	if p.FetchRelated() && acc != nil {
		acc.Add(ids...)
	}

	return ids
}

func decodeUser(p *schema.UserProperty, value *types.PropertyValue) any {
	var user *types.User
	switch p.Type() {
	case schema.TypeCreatedBy:
		user = value.CreatedBy
	case schema.TypeLastEditedBy:
		user = value.LastEditedBy
	}
	if user == nil {
		return nil
	}

	include := p.Include()
	if len(include) == 0 {
		return user.ID
	}

	result := make(map[string]any, len(include))
	for _, field := range include {
		switch field {
		case schema.UserFieldID:
			result[string(field)] = nonEmpty(user.ID)
		case schema.UserFieldName:
			result[string(field)] = nonEmpty(user.Name)
		case schema.UserFieldAvatarURL:
			if user.AvatarURL == nil {
				result[string(field)] = nil
			} else {
				result[string(field)] = nonEmpty(*user.AvatarURL)
			}
		case schema.UserFieldEmail:
			if user.Person == nil {
				result[string(field)] = nil
			} else {
				result[string(field)] = nonEmpty(user.Person.Email)
			}
		}
	}
	return result
}

// firstPlainText returns the plain text of the first segment, or nil when
// there is no segment or it is empty
func firstPlainText(texts []types.RichText) any {
	if len(texts) == 0 {
		return nil
	}
	return nonEmpty(texts[0].PlainText)
}

func nonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
