// Package paging tracks pagination and filter state for list screens. The
// backend owns the totals; a Pager only remembers the requested window and
// folds the server's answer back in. A monotonically increasing request token
// keeps slow responses from overwriting newer ones.
package paging

import "github.com/beifong-dev/studio/internal/api"

// DefaultPerPage is the page size used when none is configured.
const DefaultPerPage = 10

// Pager tracks one list's page window.
type Pager struct {
	page       int
	perPage    int
	totalPages int
	total      int
	token      uint64
}

// NewPager creates a Pager starting at page 1.
func NewPager(perPage int) *Pager {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return &Pager{page: 1, perPage: perPage}
}

// Page returns the current 1-based page.
func (p *Pager) Page() int { return p.page }

// PerPage returns the page size.
func (p *Pager) PerPage() int { return p.perPage }

// TotalPages returns the page count last reported by the server.
func (p *Pager) TotalPages() int { return p.totalPages }

// Total returns the item count last reported by the server.
func (p *Pager) Total() int { return p.total }

// Token returns the token identifying the most recent request. Responses
// carrying an older token must be dropped.
func (p *Pager) Token() uint64 { return p.token }

// NextToken invalidates all in-flight requests and returns the token for a
// new one.
func (p *Pager) NextToken() uint64 {
	p.token++
	return p.token
}

// Stale reports whether a response token is no longer current.
func (p *Pager) Stale(token uint64) bool { return token != p.token }

// Apply folds the server-reported window into the pager when the token is
// still current. Returns false for stale responses.
func (p *Pager) Apply(token uint64, pg api.Pagination) bool {
	if p.Stale(token) {
		return false
	}
	if pg.Page > 0 {
		p.page = pg.Page
	}
	if pg.PerPage > 0 {
		p.perPage = pg.PerPage
	}
	p.totalPages = pg.TotalPages
	p.total = pg.Total
	return true
}

// Next advances one page, clamped to the last known page. Returns true when
// the page changed.
func (p *Pager) Next() bool {
	if p.totalPages > 0 && p.page >= p.totalPages {
		return false
	}
	p.page++
	return true
}

// Prev goes back one page, clamped to the first. Returns true when the page
// changed.
func (p *Pager) Prev() bool {
	if p.page <= 1 {
		return false
	}
	p.page--
	return true
}

// Reset returns to the first page and invalidates in-flight requests.
func (p *Pager) Reset() {
	p.page = 1
	p.NextToken()
}

// Filters holds the social feed filter set. The zero value means unfiltered.
type Filters struct {
	Platform  string
	Author    string
	DateFrom  string
	DateTo    string
	Search    string
	Sentiment string
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// FilteredPager couples a Pager with a filter set. Changing any filter
// returns to page 1, so a narrowed result set is never viewed from a page
// that no longer exists.
type FilteredPager struct {
	Pager
	filters Filters
}

// NewFilteredPager creates a FilteredPager starting at page 1, unfiltered.
func NewFilteredPager(perPage int) *FilteredPager {
	fp := &FilteredPager{}
	fp.Pager = *NewPager(perPage)
	return fp
}

// Filters returns the current filter set.
func (fp *FilteredPager) Filters() Filters { return fp.filters }

// SetFilters replaces the filter set. Any change resets to page 1 and
// invalidates in-flight requests; setting identical filters is a no-op.
// Returns true when something changed.
func (fp *FilteredPager) SetFilters(f Filters) bool {
	if f == fp.filters {
		return false
	}
	fp.filters = f
	fp.Reset()
	return true
}

// ClearFilters drops every filter, resetting to page 1 if any was set.
func (fp *FilteredPager) ClearFilters() bool {
	return fp.SetFilters(Filters{})
}
