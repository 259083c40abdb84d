package identity

import "context"

// maxPages guards against an upstream that never reports the end of a list.
const maxPages = 10000

// PageFunc fetches one page of a list endpoint.
type PageFunc[T any] func(ctx context.Context, opts ListOptions) (*Page[T], error)

// CollectAll pages through a list endpoint and returns every result.
// Paging stops at the first short or empty page, or once Count results were seen.
func CollectAll[T any](ctx context.Context, query string, pageSize int, fetch PageFunc[T]) ([]T, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var all []T
	offset := 0
	for i := 0; i < maxPages; i++ {
		page, err := fetch(ctx, ListOptions{Offset: offset, Limit: pageSize, Query: query})
		if err != nil {
			return nil, err
		}
		all = append(all, page.ResultSet...)
		offset += len(page.ResultSet)

		if len(page.ResultSet) == 0 || len(page.ResultSet) < pageSize || offset >= page.Count {
			break
		}
	}
	return all, nil
}
