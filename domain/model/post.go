package model

import "time"

// Post lifecycle statuses
const (
	StatusScheduled  = "scheduled"
	StatusProcessing = "processing"
	StatusPublished  = "published"
	StatusFailed     = "failed"
)

// ScheduledPost represents one row of the imported schedule: a video to be
// published to YouTube at a given instant. ScheduledTimestamp is the
// authoritative field for due-comparison; ScheduledDate/ScheduledTime are the
// human-entered pair it was derived from.
type ScheduledPost struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`

	ScheduledDate      string    `json:"scheduled_date"` // YYYY-MM-DD
	ScheduledTime      string    `json:"scheduled_time"` // HH:MM
	ScheduledTimestamp time.Time `json:"scheduled_timestamp"`

	Platform    string `json:"platform"` // 'YouTube' or 'YouTube Shorts'
	Title       string `json:"title"`
	Description string `json:"description"`
	Hashtags    string `json:"hashtags"`
	Prompt      string `json:"prompt"`
	VideoFile   string `json:"video_file"` // filename to resolve in Google Drive

	Status string `json:"status"`

	PublishedAt  *time.Time `json:"published_at,omitempty"`
	ExternalID   *string    `json:"external_id,omitempty"`
	PublishedURL *string    `json:"published_url,omitempty"`

	ErrorMessage *string `json:"error_message,omitempty"`
	RetryCount   int     `json:"retry_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostStatusUpdate carries the optional fields written alongside a status
// transition. Outcome fields are set on publish, ErrorMessage on failure.
type PostStatusUpdate struct {
	PublishedAt  *time.Time
	ExternalID   *string
	PublishedURL *string
	ErrorMessage *string
	RetryCount   *int
}

// Log is an append-only audit record, optionally linked to a post
type Log struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"`
	PostID    *int64    `json:"post_id,omitempty"`
	Level     string    `json:"level"` // info | warning | error
	Message   string    `json:"message"`
	Details   *string   `json:"details,omitempty"` // JSON string with additional context
	CreatedAt time.Time `json:"created_at"`
}

const (
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)
