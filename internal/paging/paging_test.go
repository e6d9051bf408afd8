package paging

import (
	"testing"

	"github.com/beifong-dev/studio/internal/api"
)

func TestPagerNextPrevClamping(t *testing.T) {
	p := NewPager(10)
	tok := p.NextToken()
	p.Apply(tok, api.Pagination{Total: 25, Page: 1, PerPage: 10, TotalPages: 3})

	if !p.Next() || p.Page() != 2 {
		t.Fatalf("Next: page = %d, want 2", p.Page())
	}
	if !p.Next() || p.Page() != 3 {
		t.Fatalf("Next: page = %d, want 3", p.Page())
	}
	if p.Next() {
		t.Error("Next past the last page must be a no-op")
	}
	if p.Page() != 3 {
		t.Errorf("page = %d after clamped Next, want 3", p.Page())
	}

	p.Prev()
	p.Prev()
	if p.Page() != 1 {
		t.Fatalf("page = %d, want 1", p.Page())
	}
	if p.Prev() {
		t.Error("Prev before the first page must be a no-op")
	}
}

func TestPagerStaleResponseDropped(t *testing.T) {
	p := NewPager(10)
	oldTok := p.NextToken()
	newTok := p.NextToken()

	if p.Apply(oldTok, api.Pagination{Total: 99, Page: 5, PerPage: 10, TotalPages: 10}) {
		t.Error("Apply must reject a stale token")
	}
	if p.Page() != 1 || p.Total() != 0 {
		t.Errorf("stale apply leaked: page=%d total=%d", p.Page(), p.Total())
	}

	if !p.Apply(newTok, api.Pagination{Total: 30, Page: 1, PerPage: 10, TotalPages: 3}) {
		t.Error("Apply must accept the current token")
	}
	if p.Total() != 30 || p.TotalPages() != 3 {
		t.Errorf("total=%d totalPages=%d", p.Total(), p.TotalPages())
	}
}

func TestFilterChangeResetsToFirstPage(t *testing.T) {
	fp := NewFilteredPager(10)
	tok := fp.NextToken()
	fp.Apply(tok, api.Pagination{Total: 50, Page: 1, PerPage: 10, TotalPages: 5})
	fp.Next()
	fp.Next()
	if fp.Page() != 3 {
		t.Fatalf("page = %d, want 3", fp.Page())
	}

	if !fp.SetFilters(Filters{Platform: "twitter"}) {
		t.Fatal("SetFilters must report a change")
	}
	if fp.Page() != 1 {
		t.Errorf("page = %d after filter change, want 1", fp.Page())
	}
	if fp.Stale(tok) != true {
		t.Error("filter change must invalidate in-flight requests")
	}
}

func TestSetFiltersIdenticalIsNoop(t *testing.T) {
	fp := NewFilteredPager(10)
	fp.SetFilters(Filters{Search: "ai"})
	fp.Next()
	page := fp.Page()
	tok := fp.Token()

	if fp.SetFilters(Filters{Search: "ai"}) {
		t.Error("identical filters must not report a change")
	}
	if fp.Page() != page || fp.Token() != tok {
		t.Error("identical filters must not reset paging")
	}
}

func TestClearFilters(t *testing.T) {
	fp := NewFilteredPager(10)
	fp.SetFilters(Filters{Platform: "mastodon", Sentiment: "positive"})
	fp.Next()

	if !fp.ClearFilters() {
		t.Fatal("ClearFilters must report a change")
	}
	if !fp.Filters().IsZero() {
		t.Errorf("filters = %+v, want zero", fp.Filters())
	}
	if fp.Page() != 1 {
		t.Errorf("page = %d, want 1", fp.Page())
	}

	if fp.ClearFilters() {
		t.Error("clearing already-clear filters must be a no-op")
	}
}

func TestNewPagerDefaults(t *testing.T) {
	p := NewPager(0)
	if p.PerPage() != DefaultPerPage {
		t.Errorf("perPage = %d, want %d", p.PerPage(), DefaultPerPage)
	}
	if p.Page() != 1 {
		t.Errorf("page = %d, want 1", p.Page())
	}
}
