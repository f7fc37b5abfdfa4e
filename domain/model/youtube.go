package model

import "time"

// YouTubeChannel describes the authenticated user's channel
type YouTubeChannel struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CustomURL       string    `json:"custom_url,omitempty"`
	PublishedAt     time.Time `json:"published_at"`
	ThumbnailURL    string    `json:"thumbnail_url,omitempty"`
	ViewCount       int64     `json:"view_count"`
	SubscriberCount int64     `json:"subscriber_count"`
	VideoCount      int64     `json:"video_count"`
}
