package notionquery

import (
	"context"
	"fmt"
	"maps"

	"go.uber.org/zap"

	"github.com/longkey1/notionquery/internal/notion/types"
	"github.com/longkey1/notionquery/internal/notionquery/schema"
)

// QueryDatabase queries db once and decodes the returned rows. Only the first
// result page of the remote query is read; use QueryDatabaseAll to follow
// cursors. extra is merged into the request body (filter, sorts, page_size...)
// and is not modified.
func (e *Engine) QueryDatabase(ctx context.Context, db *schema.Database, extra map[string]any) ([]Row, error) {
	if err := checkSchema(db); err != nil {
		return nil, err
	}

	resp, err := e.client.QueryDatabase(ctx, db.ID, queryPayload(extra, ""))
	if err != nil {
		e.logger.Error("failed to query database", zap.String("database_id", db.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to query database %s: %w", db.ID, err)
	}

	return e.decodeRows(ctx, db, resp.Results), nil
}

// QueryDatabaseAll is like QueryDatabase but follows next_cursor until the
// remote query is exhausted. Relation lookups are deduplicated across all pages.
func (e *Engine) QueryDatabaseAll(ctx context.Context, db *schema.Database, extra map[string]any) ([]Row, error) {
	if err := checkSchema(db); err != nil {
		return nil, err
	}

	pages, err := Paginate(ctx, func(ctx context.Context, cursor string) (*types.PaginatedList[types.Page], error) {
		e.logger.Debug("querying database", zap.String("database_id", db.ID), zap.String("cursor", cursor))
		return e.client.QueryDatabase(ctx, db.ID, queryPayload(extra, cursor))
	})
	if err != nil {
		e.logger.Error("failed to query database", zap.String("database_id", db.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to query database %s: %w", db.ID, err)
	}

	return e.decodeRows(ctx, db, pages), nil
}

// decodeRows transforms every page, resolves the collected relation IDs in a
// single batch and rewrites the resolved relation fields
func (e *Engine) decodeRows(ctx context.Context, db *schema.Database, pages []types.Page) []Row {
	pending := NewRelationSet()

	rows := make([]Row, 0, len(pages))
	for i := range pages {
		rows = append(rows, TransformRow(&pages[i], db, pending))
	}

	var titles map[string]*string
	if pending.Len() > 0 {
		e.logger.Debug("resolving related pages", zap.Int("count", pending.Len()))
		titles = e.ResolveRelations(ctx, pending.IDs())
	}

	applyRelations(rows, db, titles)

	return rows
}

// applyRelations replaces the ID lists of resolved relation fields with
// {id, title} pairs, keeping their order. Absent fields stay nil.
func applyRelations(rows []Row, db *schema.Database, titles map[string]*string) {
	fields := db.ResolvedRelations()
	if len(fields) == 0 {
		return
	}

	for _, row := range rows {
		for _, name := range fields {
			ids, ok := row.Fields[name].([]string)
			if !ok {
				continue
			}
			related := make([]RelatedPage, len(ids))
			for i, id := range ids {
				related[i] = RelatedPage{ID: id, Title: titles[id]}
			}
			row.Fields[name] = related
		}
	}
}

func queryPayload(extra map[string]any, cursor string) map[string]any {
	payload := make(map[string]any, len(extra)+1)
	maps.Copy(payload, extra)
	if cursor != "" {
		payload["start_cursor"] = cursor
	}
	return payload
}

func checkSchema(db *schema.Database) error {
	if db == nil || db.ID == "" {
		return fmt.Errorf("database schema requires an ID")
	}
	return nil
}
