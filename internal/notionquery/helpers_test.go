package notionquery

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/longkey1/notionquery/internal/notion/types"
	"github.com/longkey1/notionquery/internal/notionquery/schema"
)

var errFake = errors.New("fake failure")

// fakeClient is an in-memory types.Client. Unset hooks fail the test call
// with errFake.
type fakeClient struct {
	search   func(ctx context.Context, opts *types.SearchOptions) (*types.PaginatedList[types.Page], error)
	retrieve func(ctx context.Context, pageID string) (*types.Page, error)
	children func(ctx context.Context, blockID, cursor string) (*types.PaginatedList[types.Block], error)
	query    func(ctx context.Context, databaseID string, payload map[string]any) (*types.PaginatedList[types.Page], error)

	mu            sync.Mutex
	retrieveCalls map[string]int
	queryPayloads []map[string]any
}

var _ types.Client = (*fakeClient)(nil)

func (f *fakeClient) Search(ctx context.Context, opts *types.SearchOptions) (*types.PaginatedList[types.Page], error) {
	if f.search == nil {
		return nil, errFake
	}
	return f.search(ctx, opts)
}

func (f *fakeClient) RetrievePage(ctx context.Context, pageID string) (*types.Page, error) {
	f.mu.Lock()
	if f.retrieveCalls == nil {
		f.retrieveCalls = make(map[string]int)
	}
	f.retrieveCalls[pageID]++
	f.mu.Unlock()

	if f.retrieve == nil {
		return nil, errFake
	}
	return f.retrieve(ctx, pageID)
}

func (f *fakeClient) ListBlockChildren(ctx context.Context, blockID, cursor string) (*types.PaginatedList[types.Block], error) {
	if f.children == nil {
		return nil, errFake
	}
	return f.children(ctx, blockID, cursor)
}

func (f *fakeClient) QueryDatabase(ctx context.Context, databaseID string, payload map[string]any) (*types.PaginatedList[types.Page], error) {
	f.mu.Lock()
	f.queryPayloads = append(f.queryPayloads, payload)
	f.mu.Unlock()

	if f.query == nil {
		return nil, errFake
	}
	return f.query(ctx, databaseID, payload)
}

func (f *fakeClient) calls(pageID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.retrieveCalls[pageID]
}

func (f *fakeClient) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.retrieveCalls {
		n += c
	}
	return n
}

// listOf wraps results in a list envelope; next == "" ends pagination
func listOf[T any](results []T, next string) *types.PaginatedList[T] {
	l := &types.PaginatedList[T]{Object: "list", Results: results}
	if next != "" {
		l.NextCursor = &next
		l.HasMore = true
	}
	return l
}

// pageJSON decodes a page the way the REST client would
func pageJSON(t *testing.T, s string) types.Page {
	t.Helper()
	var p types.Page
	require.NoError(t, json.Unmarshal([]byte(s), &p))
	return p
}

// titledPage returns a page whose title property is named "Name"
func titledPage(t *testing.T, id, title string) *types.Page {
	t.Helper()
	p := pageJSON(t, `{"object":"page","id":"`+id+`","properties":{"Name":{"type":"title","title":[{"type":"text","plain_text":"`+title+`"}]}}}`)
	return &p
}

func ptr[T any](v T) *T {
	return &v
}

func mustInclude(pt schema.PropertyType, fields ...schema.UserField) schema.Property {
	p, err := schema.MustOf(pt).Include(fields...)
	if err != nil {
		panic(err)
	}
	return p
}

func mustFetchRelated() schema.Property {
	p, err := schema.MustOf(schema.TypeRelation).FetchRelated(true)
	if err != nil {
		panic(err)
	}
	return p
}
