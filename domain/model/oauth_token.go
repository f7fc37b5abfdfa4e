package model

import "time"

// Google OAuth providers. Drive and YouTube are authorized separately so a
// user can connect one without the other.
const (
	ProviderGoogleDrive   = "google_drive"
	ProviderGoogleYouTube = "google_youtube"
)

// OAuthToken stores Google OAuth credentials per user and provider
type OAuthToken struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	Provider     string     `json:"provider"`
	AccessToken  string     `json:"access_token"`
	RefreshToken *string    `json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Scope        *string    `json:"scope,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// UserSettings holds per-user preferences used by import and publishing
type UserSettings struct {
	ID                   int64     `json:"id"`
	UserID               int64     `json:"user_id"`
	Timezone             string    `json:"timezone"`
	DriveFolderID        *string   `json:"drive_folder_id,omitempty"`
	DriveFolderName      *string   `json:"drive_folder_name,omitempty"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// DefaultTimezone is applied when a user has no settings row yet
const DefaultTimezone = "America/Sao_Paulo"
