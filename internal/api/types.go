// types.go defines the wire types returned by the Podcast Studio backend.
package api

import (
	"bytes"
	"encoding/json"
)

// SessionResponse is returned when creating or resuming an agent session.
type SessionResponse struct {
	SessionID string `json:"session_id"`
	Created   bool   `json:"created,omitempty"`
}

// ChatResponse is the immediate response to a chat submission. With the
// backend's task queue, IsProcessing is almost always true and the final
// answer arrives through status polling.
type ChatResponse struct {
	SessionID      string          `json:"session_id"`
	Response       string          `json:"response,omitempty"`
	IsProcessing   bool            `json:"is_processing"`
	ProcessType    string          `json:"process_type,omitempty"`
	Stage          string          `json:"stage,omitempty"`
	SessionState   json.RawMessage `json:"session_state,omitempty"`
	ElapsedSeconds int             `json:"elapsed_seconds,omitempty"`
	Error          ErrorFlag       `json:"error,omitempty"`
}

// StatusResponse is returned by the status-poll endpoint. While an operation
// runs it carries progress information; once finished it carries the final
// response and session state.
type StatusResponse struct {
	SessionID      string          `json:"session_id"`
	IsProcessing   bool            `json:"is_processing"`
	Progress       int             `json:"progress,omitempty"`
	Message        string          `json:"message,omitempty"`
	ProcessType    string          `json:"process_type,omitempty"`
	ElapsedSeconds int             `json:"elapsed_seconds,omitempty"`
	Response       string          `json:"response,omitempty"`
	Stage          string          `json:"stage,omitempty"`
	SessionState   json.RawMessage `json:"session_state,omitempty"`
	Error          ErrorFlag       `json:"error,omitempty"`
}

// ErrorFlag tolerates the backend's loose error field, which is sometimes a
// boolean, sometimes a message string, and usually absent.
type ErrorFlag struct {
	Set     bool
	Message string
}

// UnmarshalJSON accepts true/false, a string, or null.
func (e *ErrorFlag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte("false")) {
		*e = ErrorFlag{}
		return nil
	}
	if bytes.Equal(data, []byte("true")) {
		*e = ErrorFlag{Set: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*e = ErrorFlag{Set: s != "", Message: s}
	return nil
}

// MarshalJSON emits the flag in its most informative form.
func (e ErrorFlag) MarshalJSON() ([]byte, error) {
	switch {
	case e.Message != "":
		return json.Marshal(e.Message)
	case e.Set:
		return json.Marshal(true)
	default:
		return json.Marshal(false)
	}
}

// HistoryMessage is a single transcript entry from session history.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HistoryResponse is the full message history plus the latest state blob.
type HistoryResponse struct {
	SessionID    string           `json:"session_id"`
	Messages     []HistoryMessage `json:"messages"`
	State        json.RawMessage  `json:"state,omitempty"`
	IsProcessing bool             `json:"is_processing"`
	ProcessType  string           `json:"process_type,omitempty"`
}

// LatestMessageResponse wraps the most recent transcript entry.
type LatestMessageResponse struct {
	LatestMessage *HistoryMessage `json:"latest_message"`
}

// SessionSummary is one row of the sessions listing.
type SessionSummary struct {
	SessionID string `json:"session_id"`
	Topic     string `json:"topic"`
	Stage     string `json:"stage"`
	UpdatedAt string `json:"updated_at"`
}

// Pagination describes a page window as reported by the backend.
type Pagination struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next,omitempty"`
	HasPrev    bool `json:"has_prev,omitempty"`
}

// SessionList is the paginated sessions listing.
type SessionList struct {
	Sessions   []SessionSummary `json:"sessions"`
	Pagination Pagination       `json:"pagination"`
}

// DeleteResponse acknowledges a deletion.
type DeleteResponse struct {
	Status    string `json:"status,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Deleted   bool   `json:"deleted,omitempty"`
}

// Podcast is a finished podcast as stored by the backend.
type Podcast struct {
	ID           int    `json:"id"`
	Identifier   string `json:"identifier,omitempty"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Format       string `json:"format,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	TTSEngine    string `json:"tts_engine,omitempty"`
	BannerImg    string `json:"banner_img,omitempty"`
	AudioFile    string `json:"audio_file,omitempty"`
	ScriptText   string `json:"script_text,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// PodcastList is a paginated podcast listing.
type PodcastList struct {
	Items      []Podcast `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	TotalPages int       `json:"total_pages"`
}

// Article is a crawled article. Categories is normalized on decode: the
// backend variously returns a list, a comma-separated string, or nothing.
type Article struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	URL         string       `json:"url,omitempty"`
	Source      string       `json:"source,omitempty"`
	Summary     string       `json:"summary,omitempty"`
	Content     string       `json:"content,omitempty"`
	Categories  CategoryList `json:"categories"`
	PublishedAt string       `json:"published_at,omitempty"`
}

// ArticleList is a paginated article listing.
type ArticleList struct {
	Items      []Article `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	TotalPages int       `json:"total_pages"`
}

// Source is an RSS/content source definition.
type Source struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url,omitempty"`
	Category string `json:"category,omitempty"`
	Active   bool   `json:"active,omitempty"`
}

// Feed is a single feed attached to a source.
type Feed struct {
	ID       int    `json:"id"`
	SourceID int    `json:"source_id"`
	URL      string `json:"url"`
	Active   bool   `json:"active,omitempty"`
}

// SocialPost is one social-media post with engagement counters.
type SocialPost struct {
	ID               int            `json:"id"`
	PostID           string         `json:"post_id"`
	Platform         string         `json:"platform"`
	Message          string         `json:"message,omitempty"`
	AuthorName       string         `json:"author_name,omitempty"`
	AuthorHandle     string         `json:"author_handle,omitempty"`
	AuthorIsVerified bool           `json:"author_is_verified,omitempty"`
	PostURL          string         `json:"post_url,omitempty"`
	PostDate         string         `json:"post_date,omitempty"`
	PostDatetime     string         `json:"post_datetime,omitempty"`
	CommentsCount    int            `json:"comments_count,omitempty"`
	ReactionsCount   int            `json:"reactions_count,omitempty"`
	SharesCount      int            `json:"shares_count,omitempty"`
	RepostsCount     int            `json:"reposts_count,omitempty"`
	LikesCount       int            `json:"likes_count,omitempty"`
	ViewsCount       int            `json:"views_count,omitempty"`
	BookmarksCount   int            `json:"bookmarks_count,omitempty"`
	HasImage         bool           `json:"has_image,omitempty"`
	ImageURL         string         `json:"image_url,omitempty"`
	Sentiment        string         `json:"sentiment,omitempty"`
	ExtraData        map[string]any `json:"extra_data,omitempty"`
}

// SocialPostList is a paginated social post listing.
type SocialPostList struct {
	Items      []SocialPost `json:"items"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
	TotalPages int          `json:"total_pages"`
	HasNext    bool         `json:"has_next,omitempty"`
	HasPrev    bool         `json:"has_prev,omitempty"`
}

// SocialStats is the analytics overview for the social dashboard.
type SocialStats struct {
	TotalPosts    int              `json:"total_posts"`
	FacebookPosts int              `json:"facebook_posts"`
	XPosts        int              `json:"x_posts"`
	UniqueAuthors int              `json:"unique_authors"`
	Engagement    []map[string]any `json:"engagement,omitempty"`
	TopAuthors    []map[string]any `json:"top_authors,omitempty"`
	PostsByDate   []map[string]any `json:"posts_by_date,omitempty"`
}

// Author is an author aggregate from the social dashboard.
type Author struct {
	AuthorName string `json:"author_name"`
	PostCount  int    `json:"post_count"`
}

// Task is a scheduled backend task definition.
type Task struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Schedule string `json:"schedule,omitempty"`
	Enabled  bool   `json:"enabled,omitempty"`
}

// TaskExecution is a single run record of a task.
type TaskExecution struct {
	ID         int    `json:"id"`
	TaskID     int    `json:"task_id"`
	Status     string `json:"status,omitempty"`
	StartedAt  string `json:"started_at,omitempty"`
	FinishedAt string `json:"finished_at,omitempty"`
	Output     string `json:"output,omitempty"`
}

// TaskExecutionList is a paginated execution listing.
type TaskExecutionList struct {
	Items      []TaskExecution `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	TotalPages int             `json:"total_pages"`
}

// Language is one entry of the podcast language catalogue.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
