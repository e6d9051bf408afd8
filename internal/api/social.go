// social.go covers the social-media analytics endpoints backing the
// dashboard screens.
package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// SocialPostParams filter the paged social post listing. Zero values are
// omitted from the request.
type SocialPostParams struct {
	Page      int
	PerPage   int
	Platform  string
	Author    string
	DateFrom  string // YYYY-MM-DD
	DateTo    string // YYYY-MM-DD
	Search    string
	Sentiment string
}

func (p SocialPostParams) values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	if p.Platform != "" {
		q.Set("platform", p.Platform)
	}
	if p.Author != "" {
		q.Set("author", p.Author)
	}
	if p.DateFrom != "" {
		q.Set("date_from", p.DateFrom)
	}
	if p.DateTo != "" {
		q.Set("date_to", p.DateTo)
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Sentiment != "" {
		q.Set("sentiment", p.Sentiment)
	}
	return q
}

// ListSocialPosts returns one page of social posts matching the filters.
func (c *Client) ListSocialPosts(ctx context.Context, params SocialPostParams) (*SocialPostList, error) {
	var resp SocialPostList
	if err := c.doJSON(ctx, http.MethodGet, "/api/social-media/", params.values(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SocialStats returns the analytics overview.
func (c *Client) SocialStats(ctx context.Context) (*SocialStats, error) {
	var resp SocialStats
	if err := c.doJSON(ctx, http.MethodGet, "/api/social-media/stats", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TopSocialPosts returns the highest-engagement posts, optionally filtered
// by platform.
func (c *Client) TopSocialPosts(ctx context.Context, limit int, platform string) ([]SocialPost, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if platform != "" {
		q.Set("platform", platform)
	}

	var resp []SocialPost
	if err := c.doJSON(ctx, http.MethodGet, "/api/social-media/top", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// RecentSocialPosts returns the most recent posts.
func (c *Client) RecentSocialPosts(ctx context.Context, limit int, platform, search string) ([]SocialPost, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if platform != "" {
		q.Set("platform", platform)
	}
	if search != "" {
		q.Set("search", search)
	}

	var resp []SocialPost
	if err := c.doJSON(ctx, http.MethodGet, "/api/social-media/recent", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SocialPlatforms lists the platforms present in the database.
func (c *Client) SocialPlatforms(ctx context.Context) ([]string, error) {
	var resp []string
	if err := c.doJSON(ctx, http.MethodGet, "/api/social-media/platforms/list", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SocialAuthors lists authors with post counts, optionally filtered by name.
func (c *Client) SocialAuthors(ctx context.Context, limit int, search string) ([]Author, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if search != "" {
		q.Set("search", search)
	}

	var resp []Author
	if err := c.doJSON(ctx, http.MethodGet, "/api/social-media/authors/list", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
