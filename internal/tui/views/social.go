// social.go implements the social media dashboard view: a paginated,
// filterable post feed plus stats and top-posts panes.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/beifong-dev/studio/internal/api"
	"github.com/beifong-dev/studio/internal/paging"
	"github.com/beifong-dev/studio/internal/tui"
)

// SocialPane identifies the active pane of the social dashboard.
type SocialPane int

const (
	PaneFeed SocialPane = iota
	PaneStats
	PaneTop
)

// RefreshSocialMsg asks the app to reload the feed page with current filters.
type RefreshSocialMsg struct{}

// RefreshSocialStatsMsg asks the app to reload stats and top posts.
type RefreshSocialStatsMsg struct{}

// filterField indexes the filter form inputs.
type filterField int

const (
	fieldPlatform filterField = iota
	fieldAuthor
	fieldDateFrom
	fieldDateTo
	fieldSearch
	fieldSentiment
	fieldCount
)

var filterLabels = [fieldCount]string{"platform", "author", "from (YYYY-MM-DD)", "to (YYYY-MM-DD)", "search", "sentiment"}

// SocialModel is the view model for the social dashboard.
type SocialModel struct {
	pane  SocialPane
	pager *paging.FilteredPager

	posts   []api.SocialPost
	stats   *api.SocialStats
	top     []api.SocialPost
	cursor  int
	loading bool
	err     error

	// Filter form state.
	filtering   bool
	filterInput [fieldCount]textinput.Model
	activeField filterField

	width  int
	height int
}

// NewSocialModel creates a new SocialModel.
func NewSocialModel(perPage, width, height int) SocialModel {
	m := SocialModel{
		pager:  paging.NewFilteredPager(perPage),
		width:  width,
		height: height,
	}
	for i := range m.filterInput {
		ti := textinput.New()
		ti.Placeholder = filterLabels[i]
		ti.CharLimit = 100
		ti.Width = 30
		m.filterInput[i] = ti
	}
	return m
}

// Pager exposes the pagination and filter state for issuing requests.
func (m *SocialModel) Pager() *paging.FilteredPager { return m.pager }

// Filtering reports whether the filter form is open and capturing keys.
func (m *SocialModel) Filtering() bool { return m.filtering }

// SetLoading marks the feed as waiting for a page.
func (m *SocialModel) SetLoading() {
	m.loading = true
	m.err = nil
}

// ApplyPosts folds a loaded feed page into the view, dropping stale pages.
func (m *SocialModel) ApplyPosts(msg tui.SocialPostsLoadedMsg) {
	if m.pager.Stale(msg.Token) {
		return
	}
	m.loading = false
	if msg.Err != nil {
		m.err = msg.Err
		return
	}
	m.pager.Apply(msg.Token, msg.Page)
	m.posts = msg.Posts
	if m.cursor >= len(m.posts) {
		m.cursor = 0
	}
}

// ApplyStats folds the stats response into the view.
func (m *SocialModel) ApplyStats(msg tui.SocialStatsLoadedMsg) {
	if msg.Err != nil {
		m.err = msg.Err
		return
	}
	m.stats = msg.Stats
}

// ApplyTop folds the top-posts response into the view.
func (m *SocialModel) ApplyTop(msg tui.TopPostsLoadedMsg) {
	if msg.Err != nil {
		m.err = msg.Err
		return
	}
	m.top = msg.Posts
}

// Update handles messages for the social view.
func (m SocialModel) Update(msg tea.Msg) (SocialModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilterForm(msg)
		}
		return m.handleKey(msg.String())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m SocialModel) handleKey(keyStr string) (SocialModel, tea.Cmd) {
	switch keyStr {
	case "1":
		m.pane = PaneFeed
	case "2":
		m.pane = PaneStats
		return m, statsRefreshCmd
	case "3":
		m.pane = PaneTop
		return m, statsRefreshCmd
	case tui.KeyUp, "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case tui.KeyDown, "j":
		if m.cursor < len(m.posts)-1 {
			m.cursor++
		}
	case tui.KeyLeft, "h":
		if m.pane == PaneFeed && m.pager.Prev() {
			return m, socialRefreshCmd
		}
	case tui.KeyRight, "l":
		if m.pane == PaneFeed && m.pager.Next() {
			return m, socialRefreshCmd
		}
	case "f":
		if m.pane == PaneFeed {
			m.openFilterForm()
		}
	case "c":
		if m.pane == PaneFeed && m.pager.ClearFilters() {
			for i := range m.filterInput {
				m.filterInput[i].Reset()
			}
			return m, socialRefreshCmd
		}
	case "R":
		if m.pane == PaneFeed {
			return m, socialRefreshCmd
		}
		return m, statsRefreshCmd
	}
	return m, nil
}

func (m *SocialModel) openFilterForm() {
	m.filtering = true
	m.activeField = fieldPlatform
	f := m.pager.Filters()
	values := [fieldCount]string{f.Platform, f.Author, f.DateFrom, f.DateTo, f.Search, f.Sentiment}
	for i := range m.filterInput {
		m.filterInput[i].SetValue(values[i])
		m.filterInput[i].Blur()
	}
	m.filterInput[m.activeField].Focus()
}

func (m SocialModel) updateFilterForm(msg tea.KeyMsg) (SocialModel, tea.Cmd) {
	switch msg.String() {
	case tui.KeyEsc:
		m.filtering = false
		return m, nil
	case tui.KeyTab, tui.KeyDown:
		m.filterInput[m.activeField].Blur()
		m.activeField = (m.activeField + 1) % fieldCount
		m.filterInput[m.activeField].Focus()
		return m, nil
	case tui.KeyUp:
		m.filterInput[m.activeField].Blur()
		m.activeField = (m.activeField + fieldCount - 1) % fieldCount
		m.filterInput[m.activeField].Focus()
		return m, nil
	case tui.KeyEnter:
		m.filtering = false
		changed := m.pager.SetFilters(paging.Filters{
			Platform:  strings.TrimSpace(m.filterInput[fieldPlatform].Value()),
			Author:    strings.TrimSpace(m.filterInput[fieldAuthor].Value()),
			DateFrom:  strings.TrimSpace(m.filterInput[fieldDateFrom].Value()),
			DateTo:    strings.TrimSpace(m.filterInput[fieldDateTo].Value()),
			Search:    strings.TrimSpace(m.filterInput[fieldSearch].Value()),
			Sentiment: strings.TrimSpace(m.filterInput[fieldSentiment].Value()),
		})
		if changed {
			return m, socialRefreshCmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput[m.activeField], cmd = m.filterInput[m.activeField].Update(msg)
	return m, cmd
}

func socialRefreshCmd() tea.Msg { return RefreshSocialMsg{} }

func statsRefreshCmd() tea.Msg { return RefreshSocialStatsMsg{} }

// View renders the social view.
func (m SocialModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Social Media"))
	b.WriteString("  ")
	b.WriteString(m.renderPaneTabs())
	b.WriteString("\n\n")

	if m.filtering {
		b.WriteString(m.renderFilterForm())
		return tui.BoxStyle.Width(m.width - 4).Render(b.String())
	}

	switch m.pane {
	case PaneFeed:
		b.WriteString(m.renderFeed())
	case PaneStats:
		b.WriteString(m.renderStats())
	case PaneTop:
		b.WriteString(m.renderTop())
	}

	return tui.BoxStyle.Width(m.width - 4).Render(b.String())
}

func (m SocialModel) renderPaneTabs() string {
	names := []string{"1:Feed", "2:Stats", "3:Top"}
	for i := range names {
		if SocialPane(i) == m.pane {
			names[i] = tui.SelectedStyle.Render(names[i])
		} else {
			names[i] = tui.DimStyle.Render(names[i])
		}
	}
	return strings.Join(names, " ")
}

func (m SocialModel) renderFeed() string {
	var b strings.Builder

	switch {
	case m.loading:
		b.WriteString(tui.DimStyle.Render("Loading posts..."))
	case m.err != nil:
		b.WriteString(tui.ErrorStyle.Render(fmt.Sprintf("Failed to load posts: %v", m.err)))
	case len(m.posts) == 0:
		b.WriteString(tui.DimStyle.Render("No posts match the current filters."))
	default:
		for i, p := range m.posts {
			b.WriteString(m.renderPostLine(i, p))
		}
	}

	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render(fmt.Sprintf("Page %d/%d · %d posts",
		m.pager.Page(), maxInt(m.pager.TotalPages(), 1), m.pager.Total())))
	if !m.pager.Filters().IsZero() {
		b.WriteString(tui.WarningStyle.Render("  [filtered]"))
	}
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render(tui.HelpLine(
		tui.DefaultKeyMap.Left, tui.DefaultKeyMap.Right,
		tui.DefaultKeyMap.Filter, tui.DefaultKeyMap.Refresh) + " · c: clear filters · 1/2/3: pane"))
	return b.String()
}

func (m SocialModel) renderPostLine(i int, p api.SocialPost) string {
	author := p.AuthorName
	if author == "" {
		author = p.AuthorHandle
	}
	engagement := p.ReactionsCount + p.LikesCount + p.SharesCount + p.RepostsCount
	header := fmt.Sprintf("%s %s %s",
		tui.SelectedStyle.Render("["+p.Platform+"]"),
		author,
		tui.DimStyle.Render(p.PostDate))
	line := fmt.Sprintf("%s\n  %s\n  %s\n",
		header,
		truncate(strings.ReplaceAll(p.Message, "\n", " "), m.width-10),
		tui.DimStyle.Render(fmt.Sprintf("%d comments · %d engagement · %s", p.CommentsCount, engagement, p.Sentiment)))
	if i == m.cursor {
		return tui.SelectedStyle.Render(">") + " " + line
	}
	return "  " + line
}

func (m SocialModel) renderStats() string {
	if m.stats == nil {
		return tui.DimStyle.Render("Loading stats...")
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Total posts:    %d\n", m.stats.TotalPosts))
	b.WriteString(fmt.Sprintf("Facebook posts: %d\n", m.stats.FacebookPosts))
	b.WriteString(fmt.Sprintf("X posts:        %d\n", m.stats.XPosts))
	b.WriteString(fmt.Sprintf("Unique authors: %d\n", m.stats.UniqueAuthors))
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("R: Refresh · 1/2/3: Pane"))
	return b.String()
}

func (m SocialModel) renderTop() string {
	if len(m.top) == 0 {
		return tui.DimStyle.Render("Loading top posts...")
	}
	var b strings.Builder
	for i, p := range m.top {
		engagement := p.ReactionsCount + p.LikesCount + p.SharesCount + p.RepostsCount
		b.WriteString(fmt.Sprintf("%2d. %s %s (%d engagement)\n",
			i+1,
			tui.SelectedStyle.Render("["+p.Platform+"]"),
			truncate(strings.ReplaceAll(p.Message, "\n", " "), m.width-30),
			engagement))
	}
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("R: Refresh · 1/2/3: Pane"))
	return b.String()
}

func (m SocialModel) renderFilterForm() string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Filter posts"))
	b.WriteString("\n\n")
	for i := range m.filterInput {
		label := fmt.Sprintf("%-20s", filterLabels[i])
		if filterField(i) == m.activeField {
			label = tui.SelectedStyle.Render(label)
		} else {
			label = tui.DimStyle.Render(label)
		}
		b.WriteString(label + m.filterInput[i].View() + "\n")
	}
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("Tab: Next field · Enter: Apply · Esc: Cancel"))
	return b.String()
}
