package types

import (
	"context"
	"encoding/json"
)

// Client defines the remote Notion operations the query engine depends on
type Client interface {
	// Search lists pages (or databases) visible to the integration
	Search(ctx context.Context, opts *SearchOptions) (*PaginatedList[Page], error)

	// RetrievePage retrieves a single page with its full property set
	RetrievePage(ctx context.Context, pageID string) (*Page, error)

	// ListBlockChildren lists the child blocks of a page or block
	ListBlockChildren(ctx context.Context, blockID string, cursor string) (*PaginatedList[Block], error)

	// QueryDatabase queries a database. The payload is sent as the request body
	// and may carry filter, sorts, start_cursor and page_size.
	QueryDatabase(ctx context.Context, databaseID string, payload map[string]any) (*PaginatedList[Page], error)
}

// SearchOptions contains options for Search
type SearchOptions struct {
	Query       string
	StartCursor string
	PageSize    int
	ObjectType  string // "page" or "database"; empty searches both
	Sort        string // "ascending" or "descending"
}

// PaginatedList is the envelope of every list-returning Notion endpoint
type PaginatedList[T any] struct {
	Object     string  `json:"object"`
	Results    []T     `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// Cursor returns the continuation token, or "" when the list is exhausted
func (l *PaginatedList[T]) Cursor() string {
	if l == nil || l.NextCursor == nil {
		return ""
	}
	return *l.NextCursor
}

// Page represents a Notion page or a database row
type Page struct {
	Object         string                   `json:"object"`
	ID             string                   `json:"id"`
	CreatedTime    string                   `json:"created_time,omitempty"`
	LastEditedTime string                   `json:"last_edited_time,omitempty"`
	Parent         Parent                   `json:"parent"`
	Archived       bool                     `json:"archived,omitempty"`
	Properties     map[string]PropertyValue `json:"properties"`
	URL            string                   `json:"url,omitempty"`
}

// Parent represents the parent of a page
type Parent struct {
	Type       string `json:"type"`
	DatabaseID string `json:"database_id,omitempty"`
	PageID     string `json:"page_id,omitempty"`
	Workspace  bool   `json:"workspace,omitempty"`
	BlockID    string `json:"block_id,omitempty"`
}

// TitleProperty returns the page's title-typed property, whatever its name
func (p *Page) TitleProperty() (PropertyValue, bool) {
	for _, prop := range p.Properties {
		if prop.Type == "title" {
			return prop, true
		}
	}
	return PropertyValue{}, false
}

// PropertyValue is one property payload of a page. The populated field depends
// on Type; the undecoded payload of every key is kept so callers can address
// sub-payloads that have no typed field.
type PropertyValue struct {
	ID             string        `json:"id,omitempty"`
	Type           string        `json:"type"`
	Title          []RichText    `json:"title,omitempty"`
	RichText       []RichText    `json:"rich_text,omitempty"`
	Number         *float64      `json:"number,omitempty"`
	Select         *SelectValue  `json:"select,omitempty"`
	MultiSelect    []SelectValue `json:"multi_select,omitempty"`
	Status         *SelectValue  `json:"status,omitempty"`
	Date           *DateValue    `json:"date,omitempty"`
	Checkbox       *bool         `json:"checkbox,omitempty"`
	Relation       []Relation    `json:"relation,omitempty"`
	CreatedBy      *User         `json:"created_by,omitempty"`
	LastEditedBy   *User         `json:"last_edited_by,omitempty"`
	CreatedTime    *string       `json:"created_time,omitempty"`
	LastEditedTime *string       `json:"last_edited_time,omitempty"`

	raw map[string]json.RawMessage
}

// UnmarshalJSON decodes the typed fields and keeps the raw payload by key
func (p *PropertyValue) UnmarshalJSON(data []byte) error {
	type alias PropertyValue
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = PropertyValue(a)
	p.raw = raw
	return nil
}

// Payload returns the raw sub-payload stored under key, or nil when the key
// is missing or null
func (p *PropertyValue) Payload(key string) json.RawMessage {
	v, ok := p.raw[key]
	if !ok || string(v) == "null" {
		return nil
	}
	return v
}

// User represents a Notion user
type User struct {
	Object    string  `json:"object"`
	ID        string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Type      string  `json:"type,omitempty"`
	Person    *Person `json:"person,omitempty"`
}

// Person represents a person user
type Person struct {
	Email string `json:"email"`
}

// RichText represents rich text content
type RichText struct {
	Type      string  `json:"type"`
	PlainText string  `json:"plain_text"`
	Href      *string `json:"href,omitempty"`
}

// SelectValue represents a select, multi_select or status option
type SelectValue struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// DateValue represents a date value
type DateValue struct {
	Start    string  `json:"start"`
	End      *string `json:"end,omitempty"`
	TimeZone *string `json:"time_zone,omitempty"`
}

// Relation represents one referenced page of a relation property
type Relation struct {
	ID string `json:"id"`
}

// Block represents a child block. Only child_database blocks carry a payload
// the engine reads.
type Block struct {
	Object        string         `json:"object"`
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	HasChildren   bool           `json:"has_children"`
	ChildDatabase *ChildDatabase `json:"child_database,omitempty"`
	ChildPage     *ChildPage     `json:"child_page,omitempty"`
}

// ChildDatabase is the payload of a child_database block
type ChildDatabase struct {
	Title string `json:"title"`
}

// ChildPage is the payload of a child_page block
type ChildPage struct {
	Title string `json:"title"`
}

// APIError represents an error from the Notion API
type APIError struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}
