// sources.go covers the content-source and feed management endpoints.
package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListSources returns all content sources.
func (c *Client) ListSources(ctx context.Context) ([]Source, error) {
	var resp []Source
	if err := c.doJSON(ctx, http.MethodGet, "/api/sources/", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetSource fetches a source by id.
func (c *Client) GetSource(ctx context.Context, sourceID int) (*Source, error) {
	var resp Source
	if err := c.doJSON(ctx, http.MethodGet, "/api/sources/"+strconv.Itoa(sourceID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSourceByName fetches a source by display name.
func (c *Client) GetSourceByName(ctx context.Context, name string) (*Source, error) {
	var resp Source
	if err := c.doJSON(ctx, http.MethodGet, "/api/sources/by-name/"+url.PathEscape(name), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateSource registers a new content source.
func (c *Client) CreateSource(ctx context.Context, s *Source) (*Source, error) {
	var resp Source
	if err := c.doJSON(ctx, http.MethodPost, "/api/sources/", nil, s, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateSource updates a content source.
func (c *Client) UpdateSource(ctx context.Context, sourceID int, s *Source) (*Source, error) {
	var resp Source
	if err := c.doJSON(ctx, http.MethodPut, "/api/sources/"+strconv.Itoa(sourceID), nil, s, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteSource removes a source. When permanent is false the source is only
// deactivated server-side.
func (c *Client) DeleteSource(ctx context.Context, sourceID int, permanent bool) error {
	q := url.Values{"permanent": {strconv.FormatBool(permanent)}}
	return c.doJSON(ctx, http.MethodDelete, "/api/sources/"+strconv.Itoa(sourceID), q, nil, nil)
}

// SourceCategories lists the distinct source categories.
func (c *Client) SourceCategories(ctx context.Context) ([]string, error) {
	var resp []string
	if err := c.doJSON(ctx, http.MethodGet, "/api/sources/categories", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SourceFeeds lists the feeds attached to a source.
func (c *Client) SourceFeeds(ctx context.Context, sourceID int) ([]Feed, error) {
	var resp []Feed
	if err := c.doJSON(ctx, http.MethodGet, "/api/sources/"+strconv.Itoa(sourceID)+"/feeds", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// AddSourceFeed attaches a feed to a source.
func (c *Client) AddSourceFeed(ctx context.Context, sourceID int, f *Feed) (*Feed, error) {
	var resp Feed
	if err := c.doJSON(ctx, http.MethodPost, "/api/sources/"+strconv.Itoa(sourceID)+"/feeds", nil, f, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateSourceFeed updates a feed.
func (c *Client) UpdateSourceFeed(ctx context.Context, feedID int, f *Feed) (*Feed, error) {
	var resp Feed
	if err := c.doJSON(ctx, http.MethodPut, "/api/sources/feeds/"+strconv.Itoa(feedID), nil, f, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteSourceFeed removes a feed.
func (c *Client) DeleteSourceFeed(ctx context.Context, feedID int) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/sources/feeds/"+strconv.Itoa(feedID), nil, nil, nil)
}
