package notionquery

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longkey1/notionquery/internal/notionquery/schema"
)

func TestTransformRow_TitleAndTags(t *testing.T) {
	db := schema.NewDatabase("db1", map[string]schema.Property{
		"Name": schema.MustOf(schema.TypeTitle).Key(true),
		"Tags": schema.MustOf(schema.TypeMultiSelect).Key(false),
	})
	page := pageJSON(t, `{"id":"p1","properties":{
		"Name":{"type":"title","title":[{"plain_text":"Alpha"}]},
		"Tags":{"type":"multi_select","multi_select":[{"name":"x"},{"name":"y"}]}}}`)

	got := TransformRow(&page, db, NewRelationSet())

	want := Row{
		PageID: "p1",
		Fields: map[string]any{
			"Name": "Alpha",
			"Tags": []string{"x", "y"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TransformRow() mismatch (-want +got):\n%s", diff)
	}
}

func TestTransformRow_DecodeByDeclaredType(t *testing.T) {
	tests := []struct {
		name    string
		prop    schema.Property
		payload string
		want    any
	}{
		{"title first segment", schema.MustOf(schema.TypeTitle).Key(false), `{"type":"title","title":[{"plain_text":"a"},{"plain_text":"b"}]}`, "a"},
		{"title empty", schema.MustOf(schema.TypeTitle).Key(false), `{"type":"title","title":[]}`, nil},
		{"rich text", schema.MustOf(schema.TypeRichText).Key(false), `{"type":"rich_text","rich_text":[{"plain_text":"note"}]}`, "note"},
		{"rich text empty segment", schema.MustOf(schema.TypeRichText).Key(false), `{"type":"rich_text","rich_text":[{"plain_text":""}]}`, nil},
		{"number", schema.MustOf(schema.TypeNumber).Key(false), `{"type":"number","number":3.5}`, 3.5},
		{"number zero", schema.MustOf(schema.TypeNumber).Key(false), `{"type":"number","number":0}`, 0.0},
		{"number null", schema.MustOf(schema.TypeNumber).Key(false), `{"type":"number","number":null}`, nil},
		{"select", schema.MustOf(schema.TypeSelect).Key(false), `{"type":"select","select":{"id":"s","name":"Open"}}`, "Open"},
		{"select unset", schema.MustOf(schema.TypeSelect).Key(false), `{"type":"select","select":null}`, nil},
		{"multi select empty", schema.MustOf(schema.TypeMultiSelect).Key(false), `{"type":"multi_select","multi_select":[]}`, []string{}},
		{"date", schema.MustOf(schema.TypeDate).Key(false), `{"type":"date","date":{"start":"2024-01-02","end":"2024-01-05"}}`, "2024-01-02"},
		{"date unset", schema.MustOf(schema.TypeDate).Key(false), `{"type":"date","date":null}`, nil},
		{"checkbox false", schema.MustOf(schema.TypeCheckbox).Key(false), `{"type":"checkbox","checkbox":false}`, false},
		{"checkbox true", schema.MustOf(schema.TypeCheckbox).Key(false), `{"type":"checkbox","checkbox":true}`, true},
		{"relation ids", schema.MustOf(schema.TypeRelation).Key(false), `{"type":"relation","relation":[{"id":"r1"},{"id":"r2"}]}`, []string{"r1", "r2"}},
		{"created by id", schema.MustOf(schema.TypeCreatedBy).Key(false), `{"type":"created_by","created_by":{"object":"user","id":"u1","name":"Ann"}}`, "u1"},
		{
			"created by email only",
			mustInclude(schema.TypeCreatedBy, schema.UserFieldEmail),
			`{"type":"created_by","created_by":{"object":"user","id":"u1","name":"Ann","person":{"email":"ann@example.com"}}}`,
			map[string]any{"email": "ann@example.com"},
		},
		{
			"created by email missing",
			mustInclude(schema.TypeCreatedBy, schema.UserFieldEmail),
			`{"type":"created_by","created_by":{"object":"user","id":"u1","name":"Ann"}}`,
			map[string]any{"email": nil},
		},
		{
			"last edited by name and avatar",
			mustInclude(schema.TypeLastEditedBy, schema.UserFieldID, schema.UserFieldName, schema.UserFieldAvatarURL),
			`{"type":"last_edited_by","last_edited_by":{"object":"user","id":"u2","name":"Bo","avatar_url":null}}`,
			map[string]any{"id": "u2", "name": "Bo", "avatar_url": nil},
		},
		{"url raw payload", schema.MustOf(schema.TypeURL).Key(false), `{"type":"url","url":"https://example.com"}`, json.RawMessage(`"https://example.com"`)},
		{"formula raw payload", schema.MustOf(schema.TypeFormula).Key(false), `{"type":"formula","formula":{"type":"number","number":2}}`, json.RawMessage(`{"type":"number","number":2}`)},
		{"created time raw payload", schema.MustOf(schema.TypeCreatedTime).Key(true), `{"type":"created_time","created_time":"2024-01-02T03:04:00.000Z"}`, json.RawMessage(`"2024-01-02T03:04:00.000Z"`)},
		{"url null", schema.MustOf(schema.TypeURL).Key(false), `{"type":"url","url":null}`, nil},
		{"declared number but remote text", schema.MustOf(schema.TypeNumber).Key(false), `{"type":"rich_text","rich_text":[{"plain_text":"7"}]}`, nil},
		{"declared multi select but remote select", schema.MustOf(schema.TypeMultiSelect).Key(false), `{"type":"select","select":{"name":"x"}}`, nil},
		{"declared user but remote text", mustInclude(schema.TypeCreatedBy, schema.UserFieldName), `{"type":"rich_text","rich_text":[]}`, nil},
		{"declared relation but remote number", mustFetchRelated(), `{"type":"number","number":1}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := schema.NewDatabase("db1", map[string]schema.Property{"Field": tt.prop})
			page := pageJSON(t, `{"id":"p1","properties":{"Field":`+tt.payload+`}}`)

			got := TransformRow(&page, db, NewRelationSet())

			if diff := cmp.Diff(tt.want, got.Fields["Field"]); diff != "" {
				t.Errorf("decoded value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTransformRow_AbsentPropertyIsNil(t *testing.T) {
	db := schema.NewDatabase("db1", map[string]schema.Property{
		"Tags":    schema.MustOf(schema.TypeMultiSelect).Key(false),
		"Checked": schema.MustOf(schema.TypeCheckbox).Key(false),
		"Related": mustFetchRelated(),
	})
	page := pageJSON(t, `{"id":"p1","properties":{}}`)
	acc := NewRelationSet()

	got := TransformRow(&page, db, acc)

	require.Len(t, got.Fields, 3)
	for _, name := range []string{"Tags", "Checked", "Related"} {
		v, ok := got.Fields[name]
		assert.True(t, ok, "field %s should be present", name)
		assert.Nil(t, v, "field %s should be nil", name)
	}
	assert.Zero(t, acc.Len())
}

func TestTransformRow_PageIDIgnoresSchema(t *testing.T) {
	db := schema.NewDatabase("db1", map[string]schema.Property{
		"pageId": schema.MustOf(schema.TypeRichText).Key(false),
	})
	page := pageJSON(t, `{"id":"p1","properties":{"pageId":{"type":"rich_text","rich_text":[{"plain_text":"spoofed"}]}}}`)

	row := TransformRow(&page, db, nil)
	assert.Equal(t, "p1", row.PageID)

	data, err := json.Marshal(row)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "p1", decoded["pageId"])
}

func TestTransformRow_QueuesOnlyFetchedRelations(t *testing.T) {
	db := schema.NewDatabase("db1", map[string]schema.Property{
		"Country": mustFetchRelated(),
		"Plain":   schema.MustOf(schema.TypeRelation).Key(false),
	})
	page := pageJSON(t, `{"id":"p1","properties":{
		"Country":{"type":"relation","relation":[{"id":"r1"},{"id":"r2"},{"id":"r1"}]},
		"Plain":{"type":"relation","relation":[{"id":"x9"}]}}}`)
	acc := NewRelationSet("r2")

	row := TransformRow(&page, db, acc)

	assert.Equal(t, []string{"r1", "r2", "r1"}, row.Fields["Country"])
	assert.Equal(t, []string{"r2", "r1"}, acc.IDs())
}

func TestRelationSet(t *testing.T) {
	var s RelationSet
	s.Add("a", "b", "a")
	s.Add("c", "b")

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"a", "b", "c"}, s.IDs())

	ids := s.IDs()
	ids[0] = "z"
	assert.Equal(t, []string{"a", "b", "c"}, s.IDs())
}
