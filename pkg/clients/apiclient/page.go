package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

// Page is the envelope the backend wraps paginated lists in
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
	Pages int `json:"pages"`
}

// GetPage fetches one page of T from path
func GetPage[T any](ctx context.Context, c *Client, path string, query url.Values) (*Page[T], error) {
	var page Page[T]
	if err := c.Do(ctx, http.MethodGet, path, query, nil, &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return &page, nil
}
