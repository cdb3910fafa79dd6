package notionquery

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ResolveRelations fetches each distinct page in ids once and maps it to the
// first text segment of its title. A page that cannot be fetched, or has no
// title, maps to nil; failures never abort the batch.
func (e *Engine) ResolveRelations(ctx context.Context, ids []string) map[string]*string {
	distinct := NewRelationSet(ids...).IDs()
	titles := make([]*string, len(distinct))

	var g errgroup.Group
	g.SetLimit(e.relationConcurrency)

	for i, id := range distinct {
		i, id := i, id
		g.Go(func() error {
			page, err := e.client.RetrievePage(ctx, id)
			if err != nil {
				e.logger.Warn("failed to fetch related page",
					zap.String("page_id", id),
					zap.Error(err))
				return nil
			}
			titles[i] = pageTitle(page)
			return nil
		})
	}

	// Workers report failures through the logger only
	_ = g.Wait()

	result := make(map[string]*string, len(distinct))
	for i, id := range distinct {
		result[id] = titles[i]
	}
	return result
}
