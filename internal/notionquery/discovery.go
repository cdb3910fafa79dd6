package notionquery

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/longkey1/notionquery/internal/notion/types"
)

// ErrDatabaseNotFound is returned when no inline database matches a name
var ErrDatabaseNotFound = errors.New("database not found")

// TopLevelPage is a page the integration sees as a root
type TopLevelPage struct {
	PageID     string       `json:"page_id"`
	PageName   string       `json:"page_name"`
	PageParent types.Parent `json:"page_parent"`
}

// InlineDatabase is a database embedded in a page as a child block
type InlineDatabase struct {
	DatabaseID   string `json:"databaseId"`
	DatabaseName string `json:"databaseName"`
}

// IsTopLevel reports whether parent marks a page as a root: either the
// workspace itself or a page reference the integration cannot see.
func IsTopLevel(parent types.Parent) bool {
	return parent.Type == "workspace" || (parent.Type == "page_id" && parent.PageID == "")
}

// ListAllPages returns every page shared with the integration
func (e *Engine) ListAllPages(ctx context.Context) ([]types.Page, error) {
	pages, err := Paginate(ctx, func(ctx context.Context, cursor string) (*types.PaginatedList[types.Page], error) {
		e.logger.Debug("searching pages", zap.String("cursor", cursor))
		return e.client.Search(ctx, &types.SearchOptions{
			ObjectType:  "page",
			StartCursor: cursor,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search pages: %w", err)
	}
	return pages, nil
}

// ListTopLevelPages returns the pages whose parent is the workspace or an
// inaccessible page. A page without a title gets an empty name.
func (e *Engine) ListTopLevelPages(ctx context.Context) ([]TopLevelPage, error) {
	pages, err := e.ListAllPages(ctx)
	if err != nil {
		return nil, err
	}

	var result []TopLevelPage
	for i := range pages {
		page := &pages[i]
		if !IsTopLevel(page.Parent) {
			continue
		}
		if pageTitle(page) == nil {
			e.logger.Debug("top-level page has no title", zap.String("page_id", page.ID))
		}
		result = append(result, SummarizePage(page))
	}

	return result, nil
}

// SummarizePage projects a page to its ID, title and parent
func SummarizePage(page *types.Page) TopLevelPage {
	var name string
	if title := pageTitle(page); title != nil {
		name = *title
	}
	return TopLevelPage{
		PageID:     page.ID,
		PageName:   name,
		PageParent: page.Parent,
	}
}

// ListInlineDatabases returns the databases embedded directly in a page
func (e *Engine) ListInlineDatabases(ctx context.Context, pageID string) ([]InlineDatabase, error) {
	blocks, err := Paginate(ctx, func(ctx context.Context, cursor string) (*types.PaginatedList[types.Block], error) {
		e.logger.Debug("listing block children", zap.String("block_id", pageID), zap.String("cursor", cursor))
		return e.client.ListBlockChildren(ctx, pageID, cursor)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list children of %s: %w", pageID, err)
	}

	var result []InlineDatabase
	for _, block := range blocks {
		if block.Type != "child_database" {
			continue
		}

		var name string
		if block.ChildDatabase != nil {
			name = block.ChildDatabase.Title
		}

		result = append(result, InlineDatabase{
			DatabaseID:   block.ID,
			DatabaseName: name,
		})
	}

	return result, nil
}

// FindInlineDatabase walks the top-level pages in order and returns the first
// inline database named name
func (e *Engine) FindInlineDatabase(ctx context.Context, name string) (*InlineDatabase, error) {
	pages, err := e.ListTopLevelPages(ctx)
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		databases, err := e.ListInlineDatabases(ctx, page.PageID)
		if err != nil {
			return nil, err
		}
		for i := range databases {
			if databases[i].DatabaseName == name {
				return &databases[i], nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrDatabaseNotFound, name)
}

// pageTitle returns the first text segment of the page's title property, or
// nil when the page has no title property or the title is empty
func pageTitle(page *types.Page) *string {
	prop, ok := page.TitleProperty()
	if !ok {
		return nil
	}
	if s, ok := firstPlainText(prop.Title).(string); ok {
		return &s
	}
	return nil
}
