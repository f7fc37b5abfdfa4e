package dto

import (
	"time"

	"autopost/domain/model"
)

// ExcelUploadRequest carries a base64-encoded .xlsx schedule
type ExcelUploadRequest struct {
	FileContent string `json:"file_content" binding:"required"`
}

// ExcelUploadResponse reports the import outcome row by row
type ExcelUploadResponse struct {
	Success   bool     `json:"success"`
	TotalRows int      `json:"total_rows"`
	ValidRows int      `json:"valid_rows"`
	Errors    []string `json:"errors,omitempty"`
}

// PostListRequest filters the posts listing
type PostListRequest struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
}

// DashboardResponse aggregates the posting overview for one user
type DashboardResponse struct {
	Upcoming       []*model.ScheduledPost `json:"upcoming"`
	PublishedToday []*model.ScheduledPost `json:"published_today"`
	RecentFailed   []*model.ScheduledPost `json:"recent_failed"`
}

// SchedulerStatusResponse mirrors the scheduler's in-memory state
type SchedulerStatusResponse struct {
	Running    bool `json:"running"`
	Processing bool `json:"processing"`
}

// SettingsUpdateRequest updates user preferences; nil fields are left untouched
type SettingsUpdateRequest struct {
	Timezone             *string `json:"timezone,omitempty"`
	DriveFolderID        *string `json:"drive_folder_id,omitempty"`
	DriveFolderName      *string `json:"drive_folder_name,omitempty"`
	NotificationsEnabled *bool   `json:"notifications_enabled,omitempty"`
}

// VideoUploadOptions is the content metadata submitted with an upload
type VideoUploadOptions struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags,omitempty"`
	PrivacyStatus string   `json:"privacy_status"` // public | private | unlisted
}

// VideoUploadResult is returned by the video publisher on success
type VideoUploadResult struct {
	VideoID     string    `json:"video_id"`
	VideoURL    string    `json:"video_url"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
}
