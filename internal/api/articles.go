// articles.go covers the crawled-articles endpoints, including the
// categories normalization the backend makes necessary.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// CategoryList normalizes the backend's categories field, which may arrive as
// a JSON array, a comma-separated string, a single string, or nothing at all.
// After decoding it is always a plain string slice.
type CategoryList []string

// UnmarshalJSON accepts array, string, and null encodings.
func (cl *CategoryList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*cl = CategoryList{}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*cl = CategoryList(list)
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*cl = CategoryList{}
		return nil
	}

	parts := strings.Split(single, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	*cl = CategoryList(out)
	return nil
}

// ArticleParams filter the article listing.
type ArticleParams struct {
	Page     int
	PerPage  int
	Source   string
	Category string
	Search   string
}

// ListArticles returns one page of articles.
func (c *Client) ListArticles(ctx context.Context, params ArticleParams) (*ArticleList, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(params.PerPage))
	}
	if params.Source != "" {
		q.Set("source", params.Source)
	}
	if params.Category != "" {
		q.Set("category", params.Category)
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}

	var resp ArticleList
	if err := c.doJSON(ctx, http.MethodGet, "/api/articles/", q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetArticle fetches a single article by id.
func (c *Client) GetArticle(ctx context.Context, articleID int) (*Article, error) {
	var resp Article
	if err := c.doJSON(ctx, http.MethodGet, "/api/articles/"+strconv.Itoa(articleID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ArticleSources lists the distinct sources articles were crawled from.
func (c *Client) ArticleSources(ctx context.Context) ([]string, error) {
	var resp []string
	if err := c.doJSON(ctx, http.MethodGet, "/api/articles/sources/list", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ArticleCategories lists the distinct article categories.
func (c *Client) ArticleCategories(ctx context.Context) ([]string, error) {
	var resp []string
	if err := c.doJSON(ctx, http.MethodGet, "/api/articles/categories/list", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
