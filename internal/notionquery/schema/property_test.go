package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf(t *testing.T) {
	for _, pt := range []PropertyType{TypeTitle, TypeRichText, TypeNumber, TypeStatus, TypeUniqueID, TypeRollup} {
		_, err := Of(pt)
		assert.NoError(t, err, pt)
	}

	_, err := Of("button")
	assert.ErrorIs(t, err, ErrInvalidProperty)

	assert.Panics(t, func() { MustOf("") })
}

func TestBuilderKey(t *testing.T) {
	tests := []struct {
		name  string
		kind  PropertyType
		check func(t *testing.T, p Property)
	}{
		{"base", TypeNumber, func(t *testing.T, p Property) {
			_, ok := p.(*BaseProperty)
			assert.True(t, ok)
		}},
		{"relation", TypeRelation, func(t *testing.T, p Property) {
			rel, ok := p.(*RelationProperty)
			require.True(t, ok)
			assert.False(t, rel.FetchRelated())
		}},
		{"user", TypeLastEditedBy, func(t *testing.T, p Property) {
			user, ok := p.(*UserProperty)
			require.True(t, ok)
			assert.Empty(t, user.Include())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MustOf(tt.kind).Key(true)
			assert.Equal(t, tt.kind, p.Type())
			assert.True(t, p.IsKey())
			tt.check(t, p)
		})
	}
}

func TestBuilderInclude(t *testing.T) {
	p, err := MustOf(TypeCreatedBy).Include(UserFieldEmail, UserFieldName, UserFieldEmail)
	require.NoError(t, err)
	assert.Equal(t, TypeCreatedBy, p.Type())
	assert.Equal(t, []UserField{UserFieldEmail, UserFieldName}, p.Include())

	fields := p.Include()
	fields[0] = UserFieldID
	assert.Equal(t, []UserField{UserFieldEmail, UserFieldName}, p.Include())

	_, err = MustOf(TypeTitle).Include(UserFieldName)
	assert.ErrorIs(t, err, ErrInvalidProperty)

	_, err = MustOf(TypeCreatedBy).Include("phone")
	assert.ErrorIs(t, err, ErrInvalidProperty)
}

func TestBuilderFetchRelated(t *testing.T) {
	p, err := MustOf(TypeRelation).FetchRelated(true)
	require.NoError(t, err)
	assert.True(t, p.FetchRelated())
	assert.False(t, p.IsKey())

	keyed := p.WithKey(true)
	assert.True(t, keyed.IsKey())
	assert.True(t, keyed.FetchRelated())
	assert.False(t, p.IsKey())

	_, err = MustOf(TypeNumber).FetchRelated(true)
	assert.ErrorIs(t, err, ErrInvalidProperty)
}

func TestDatabase(t *testing.T) {
	fetch, err := MustOf(TypeRelation).FetchRelated(true)
	require.NoError(t, err)

	props := map[string]Property{
		"Name":    MustOf(TypeTitle).Key(true),
		"Country": fetch,
		"Links":   MustOf(TypeRelation).Key(false),
	}
	db := NewDatabase("db1", props)
	props["Extra"] = MustOf(TypeURL).Key(false)

	assert.Equal(t, []string{"Country", "Links", "Name"}, db.Names())
	assert.Equal(t, []string{"Name"}, db.Keys())
	assert.Equal(t, []string{"Country"}, db.ResolvedRelations())

	db.Set("Name", MustOf(TypeRichText).Key(false))
	assert.Equal(t, TypeRichText, db.Properties["Name"].Type())
	assert.Empty(t, db.Keys())

	var empty Database
	empty.Set("Tags", MustOf(TypeMultiSelect).Key(false))
	assert.Equal(t, []string{"Tags"}, empty.Names())
}
