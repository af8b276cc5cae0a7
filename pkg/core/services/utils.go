package services

import (
	"context"
	"fmt"

	"github.com/jaeyoung-onebird/workproof/pkg/core/pager"
)

// maxPages bounds collectAllPages against a backend that never reports the last page
const maxPages = 1000

// Translator renders localized messages
type Translator interface {
	T(key string, data map[string]any) string
}

// collectAllPages walks a paginated listing from page 1 until the pager reports no next page
func collectAllPages[T any](ctx context.Context, fetch pager.FetchFunc[T], q pager.Query) ([]T, error) {
	q.Page = 1
	q.Size = pager.ClampSize(q.Size)

	var all []T
	for range maxPages {
		page, err := fetch(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", q.Page, err)
		}
		all = append(all, page.Items...)

		p := pager.Pager{Page: q.Page, Size: q.Size, Total: page.Total}
		if len(page.Items) == 0 || !p.HasNext() {
			return all, nil
		}
		q.Page++
	}

	return nil, fmt.Errorf("listing did not end after %d pages", maxPages)
}
