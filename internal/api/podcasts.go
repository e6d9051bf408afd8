// podcasts.go covers the finished-podcast CRUD and catalogue endpoints.
package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// PodcastParams filter the podcast listing.
type PodcastParams struct {
	Page    int
	PerPage int
	Search  string
}

// ListPodcasts returns one page of finished podcasts.
func (c *Client) ListPodcasts(ctx context.Context, params PodcastParams) (*PodcastList, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(params.PerPage))
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}

	var resp PodcastList
	if err := c.doJSON(ctx, http.MethodGet, "/api/podcasts/", q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPodcast fetches a podcast by numeric id.
func (c *Client) GetPodcast(ctx context.Context, podcastID int) (*Podcast, error) {
	var resp Podcast
	if err := c.doJSON(ctx, http.MethodGet, "/api/podcasts/"+strconv.Itoa(podcastID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPodcastByIdentifier fetches a podcast by its string identifier.
func (c *Client) GetPodcastByIdentifier(ctx context.Context, identifier string) (*Podcast, error) {
	var resp Podcast
	if err := c.doJSON(ctx, http.MethodGet, "/api/podcasts/by-identifier/"+url.PathEscape(identifier), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreatePodcast stores a new podcast record.
func (c *Client) CreatePodcast(ctx context.Context, p *Podcast) (*Podcast, error) {
	var resp Podcast
	if err := c.doJSON(ctx, http.MethodPost, "/api/podcasts/", nil, p, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdatePodcast updates an existing podcast record.
func (c *Client) UpdatePodcast(ctx context.Context, podcastID int, p *Podcast) (*Podcast, error) {
	var resp Podcast
	if err := c.doJSON(ctx, http.MethodPut, "/api/podcasts/"+strconv.Itoa(podcastID), nil, p, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeletePodcast removes a podcast record.
func (c *Client) DeletePodcast(ctx context.Context, podcastID int) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/podcasts/"+strconv.Itoa(podcastID), nil, nil, nil)
}

// PodcastFormats lists the supported podcast formats.
func (c *Client) PodcastFormats(ctx context.Context) ([]string, error) {
	var resp []string
	if err := c.doJSON(ctx, http.MethodGet, "/api/podcasts/formats", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// PodcastLanguageCodes lists the supported TTS language codes.
func (c *Client) PodcastLanguageCodes(ctx context.Context) ([]Language, error) {
	var resp []Language
	if err := c.doJSON(ctx, http.MethodGet, "/api/podcasts/language-codes", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// PodcastTTSEngines lists the available text-to-speech engines.
func (c *Client) PodcastTTSEngines(ctx context.Context) ([]string, error) {
	var resp []string
	if err := c.doJSON(ctx, http.MethodGet, "/api/podcasts/tts-engines", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
