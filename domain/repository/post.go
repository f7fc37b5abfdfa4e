package repository

import (
	"context"
	"time"

	"autopost/domain/model"
)

// IPost defines persistence operations for scheduled posts
type IPost interface {
	CreatePosts(ctx context.Context, posts []*model.ScheduledPost) error
	GetByID(ctx context.Context, id int64) (*model.ScheduledPost, error)
	GetByUser(ctx context.Context, userID int64, limit int) ([]*model.ScheduledPost, error)
	GetByStatus(ctx context.Context, userID int64, status string) ([]*model.ScheduledPost, error)
	// GetDuePosts returns posts with status=scheduled and timestamp <= now,
	// ordered by scheduled timestamp ascending.
	GetDuePosts(ctx context.Context, now time.Time) ([]*model.ScheduledPost, error)
	GetPublishedToday(ctx context.Context, userID int64) ([]*model.ScheduledPost, error)
	GetRecentFailed(ctx context.Context, userID int64, limit int) ([]*model.ScheduledPost, error)
	UpdateStatus(ctx context.Context, id int64, status string, updates *model.PostStatusUpdate) error
}

// ILog defines the append-only audit log sink
type ILog interface {
	CreateLog(ctx context.Context, entry *model.Log) error
	GetByPost(ctx context.Context, postID int64, limit int) ([]*model.Log, error)
	GetByUser(ctx context.Context, userID int64, limit int) ([]*model.Log, error)
}
