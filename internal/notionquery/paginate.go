package notionquery

import (
	"context"

	"github.com/longkey1/notionquery/internal/notion/types"
)

// ListFunc fetches one page of results. cursor is "" for the first page.
type ListFunc[T any] func(ctx context.Context, cursor string) (*types.PaginatedList[T], error)

// Paginate calls list until it stops returning a next cursor and returns the
// concatenated results in page order. Pages are requested one after another;
// the first failure aborts the whole aggregation. A remote that never stops
// returning a cursor makes Paginate loop until ctx is done or a call fails.
func Paginate[T any](ctx context.Context, list ListFunc[T]) ([]T, error) {
	var (
		results []T
		cursor  string
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := list(ctx, cursor)
		if err != nil {
			return nil, err
		}

		results = append(results, page.Results...)

		cursor = page.Cursor()
		if cursor == "" {
			return results, nil
		}
	}
}
