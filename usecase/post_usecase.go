package usecase

import (
	"context"
	"encoding/base64"
	"fmt"

	"autopost/domain/dto"
	"autopost/domain/model"
	"autopost/domain/repository"
	"autopost/infrastructure/cache"
	"autopost/infrastructure/excelsheet"
	"autopost/infrastructure/logger"
)

type IPostUsecase interface {
	UploadExcel(ctx context.Context, userID int64, req *dto.ExcelUploadRequest) (*dto.ExcelUploadResponse, error)
	List(ctx context.Context, userID int64, req *dto.PostListRequest) ([]*model.ScheduledPost, error)
	GetByID(ctx context.Context, userID, postID int64) (*model.ScheduledPost, error)
	Retry(ctx context.Context, userID, postID int64) error
	Dashboard(ctx context.Context, userID int64) (*dto.DashboardResponse, error)
	Upcoming(ctx context.Context, userID int64) ([]*model.ScheduledPost, error)
	PublishedToday(ctx context.Context, userID int64) ([]*model.ScheduledPost, error)
	RecentFailed(ctx context.Context, userID int64, limit int) ([]*model.ScheduledPost, error)
	GetLogs(ctx context.Context, userID int64, postID int64, limit int) ([]*model.Log, error)
}

const defaultListLimit = 100

type postUsecase struct {
	postRepo     repository.IPost
	logRepo      repository.ILog
	settingsRepo repository.IUserSettings
	dashboard    cache.IDashboardCache
}

func NewPostUsecase(
	postRepo repository.IPost,
	logRepo repository.ILog,
	settingsRepo repository.IUserSettings,
	dashboard cache.IDashboardCache,
) IPostUsecase {
	return &postUsecase{
		postRepo:     postRepo,
		logRepo:      logRepo,
		settingsRepo: settingsRepo,
		dashboard:    dashboard,
	}
}

// UploadExcel imports a base64-encoded .xlsx schedule. Valid YouTube rows are
// stored as scheduled posts; invalid rows are reported back with their row
// numbers without failing the whole import.
func (u *postUsecase) UploadExcel(ctx context.Context, userID int64, req *dto.ExcelUploadRequest) (*dto.ExcelUploadResponse, error) {
	data, err := base64.StdEncoding.DecodeString(req.FileContent)
	if err != nil {
		return nil, fmt.Errorf("invalid file content: %w", err)
	}

	timezone := model.DefaultTimezone
	settings, err := u.settingsRepo.GetSettings(ctx, userID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warning("Unable to load user settings, using default timezone")
	} else if settings != nil && settings.Timezone != "" {
		timezone = settings.Timezone
	}

	result, err := excelsheet.ParseExcelFile(data, timezone)
	if err != nil {
		return nil, err
	}

	if result.ValidRows > 0 {
		posts := excelsheet.ToScheduledPosts(result.Posts, userID)
		if err := u.postRepo.CreatePosts(ctx, posts); err != nil {
			return nil, err
		}
		if err := u.dashboard.InvalidateDashboard(ctx, userID); err != nil {
			logger.GetLogger().WithField("error", err).Warning("Unable to invalidate dashboard cache")
		}
	}

	return &dto.ExcelUploadResponse{
		Success:   result.ValidRows > 0,
		TotalRows: result.TotalRows,
		ValidRows: result.ValidRows,
		Errors:    result.Errors,
	}, nil
}

func (u *postUsecase) List(ctx context.Context, userID int64, req *dto.PostListRequest) ([]*model.ScheduledPost, error) {
	if req.Status != "" {
		return u.postRepo.GetByStatus(ctx, userID, req.Status)
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	return u.postRepo.GetByUser(ctx, userID, limit)
}

func (u *postUsecase) GetByID(ctx context.Context, userID, postID int64) (*model.ScheduledPost, error) {
	post, err := u.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || post.UserID != userID {
		return nil, nil
	}
	return post, nil
}

// Retry puts a failed post back into the schedule. The error message is
// cleared and the retry count incremented; the scheduler picks the post up on
// its next pass.
func (u *postUsecase) Retry(ctx context.Context, userID, postID int64) error {
	post, err := u.GetByID(ctx, userID, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return fmt.Errorf("post not found")
	}
	if post.Status != model.StatusFailed {
		return fmt.Errorf("only failed posts can be retried, current status: %s", post.Status)
	}

	retryCount := post.RetryCount + 1
	return u.postRepo.UpdateStatus(ctx, postID, model.StatusScheduled, &model.PostStatusUpdate{
		RetryCount: &retryCount,
	})
}

func (u *postUsecase) Dashboard(ctx context.Context, userID int64) (*dto.DashboardResponse, error) {
	var cached dto.DashboardResponse
	hit, err := u.dashboard.GetDashboard(ctx, userID, &cached)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warning("Dashboard cache read failed")
	}
	if hit {
		return &cached, nil
	}

	upcoming, err := u.postRepo.GetByStatus(ctx, userID, model.StatusScheduled)
	if err != nil {
		return nil, err
	}
	publishedToday, err := u.postRepo.GetPublishedToday(ctx, userID)
	if err != nil {
		return nil, err
	}
	recentFailed, err := u.postRepo.GetRecentFailed(ctx, userID, 10)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		Upcoming:       upcoming,
		PublishedToday: publishedToday,
		RecentFailed:   recentFailed,
	}
	if err := u.dashboard.SetDashboard(ctx, userID, resp); err != nil {
		logger.GetLogger().WithField("error", err).Warning("Dashboard cache write failed")
	}
	return resp, nil
}

func (u *postUsecase) Upcoming(ctx context.Context, userID int64) ([]*model.ScheduledPost, error) {
	return u.postRepo.GetByStatus(ctx, userID, model.StatusScheduled)
}

func (u *postUsecase) PublishedToday(ctx context.Context, userID int64) ([]*model.ScheduledPost, error) {
	return u.postRepo.GetPublishedToday(ctx, userID)
}

func (u *postUsecase) RecentFailed(ctx context.Context, userID int64, limit int) ([]*model.ScheduledPost, error) {
	if limit <= 0 {
		limit = 10
	}
	return u.postRepo.GetRecentFailed(ctx, userID, limit)
}

func (u *postUsecase) GetLogs(ctx context.Context, userID int64, postID int64, limit int) ([]*model.Log, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if postID > 0 {
		post, err := u.GetByID(ctx, userID, postID)
		if err != nil {
			return nil, err
		}
		if post == nil {
			return nil, fmt.Errorf("post not found")
		}
		return u.logRepo.GetByPost(ctx, postID, limit)
	}
	return u.logRepo.GetByUser(ctx, userID, limit)
}
