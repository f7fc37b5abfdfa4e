package usecase_test

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xuri/excelize/v2"

	"autopost/domain/dto"
	"autopost/domain/model"
	"autopost/usecase"
)

type MockDashboardCache struct {
	mock.Mock
}

func (m *MockDashboardCache) GetDashboard(ctx context.Context, userID int64, dest interface{}) (bool, error) {
	args := m.Called(ctx, userID, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockDashboardCache) SetDashboard(ctx context.Context, userID int64, value interface{}) error {
	args := m.Called(ctx, userID, value)
	return args.Error(0)
}

func (m *MockDashboardCache) InvalidateDashboard(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func encodeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		assert.NoError(t, err)
		assert.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	assert.NoError(t, err)
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newPostUsecaseFixture() (usecase.IPostUsecase, *MockPostRepository, *MockLogRepository, *MockUserSettingsRepository, *MockDashboardCache) {
	postRepo := new(MockPostRepository)
	logRepo := new(MockLogRepository)
	settingsRepo := new(MockUserSettingsRepository)
	dashboard := new(MockDashboardCache)
	u := usecase.NewPostUsecase(postRepo, logRepo, settingsRepo, dashboard)
	return u, postRepo, logRepo, settingsRepo, dashboard
}

func TestUploadExcel(t *testing.T) {
	u, postRepo, _, settingsRepo, dashboard := newPostUsecaseFixture()
	ctx := context.Background()

	content := encodeWorkbook(t, [][]interface{}{
		{"Date", "Time", "Platform", "Title", "Description", "Hashtags", "Prompt", "Video File"},
		{"2026-09-01", "10:30", "YouTube Shorts", "First", "Desc", "#a", "", "first.mp4"},
		{"2026-09-02", "11:00", "Instagram", "Skipped", "", "", "", "skipped.mp4"},
		{"2026-09-03", "12:00", "YouTube", "", "", "", "", "untitled.mp4"},
	})

	settingsRepo.On("GetSettings", ctx, int64(7)).
		Return(&model.UserSettings{UserID: 7, Timezone: "UTC"}, nil).Once()
	postRepo.On("CreatePosts", ctx, mock.MatchedBy(func(posts []*model.ScheduledPost) bool {
		return len(posts) == 1 &&
			posts[0].UserID == 7 &&
			posts[0].Title == "First" &&
			posts[0].VideoFile == "first.mp4" &&
			posts[0].Status == model.StatusScheduled
	})).Return(nil).Once()
	dashboard.On("InvalidateDashboard", ctx, int64(7)).Return(nil).Once()

	res, err := u.UploadExcel(ctx, 7, &dto.ExcelUploadRequest{FileContent: content})

	assert.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.TotalRows)
	assert.Equal(t, 1, res.ValidRows)
	assert.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "Row 4")
	postRepo.AssertExpectations(t)
}

func TestUploadExcel_InvalidBase64(t *testing.T) {
	u, _, _, _, _ := newPostUsecaseFixture()

	_, err := u.UploadExcel(context.Background(), 7, &dto.ExcelUploadRequest{FileContent: "not-base64!!"})

	assert.Error(t, err)
}

func TestRetry(t *testing.T) {
	u, postRepo, _, _, _ := newPostUsecaseFixture()
	ctx := context.Background()

	msg := "upload failed"
	post := &model.ScheduledPost{ID: 4, UserID: 7, Status: model.StatusFailed, ErrorMessage: &msg, RetryCount: 1}

	postRepo.On("GetByID", ctx, int64(4)).Return(post, nil).Once()
	postRepo.On("UpdateStatus", ctx, int64(4), model.StatusScheduled, mock.MatchedBy(func(u *model.PostStatusUpdate) bool {
		return u != nil && u.RetryCount != nil && *u.RetryCount == 2
	})).Return(nil).Once()

	err := u.Retry(ctx, 7, 4)

	assert.NoError(t, err)
	postRepo.AssertExpectations(t)
}

func TestRetry_OnlyFailedPosts(t *testing.T) {
	u, postRepo, _, _, _ := newPostUsecaseFixture()
	ctx := context.Background()

	post := &model.ScheduledPost{ID: 4, UserID: 7, Status: model.StatusPublished}
	postRepo.On("GetByID", ctx, int64(4)).Return(post, nil).Once()

	err := u.Retry(ctx, 7, 4)

	assert.EqualError(t, err, "only failed posts can be retried, current status: published")
	postRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRetry_OtherUsersPostIsHidden(t *testing.T) {
	u, postRepo, _, _, _ := newPostUsecaseFixture()
	ctx := context.Background()

	post := &model.ScheduledPost{ID: 4, UserID: 99, Status: model.StatusFailed}
	postRepo.On("GetByID", ctx, int64(4)).Return(post, nil).Once()

	err := u.Retry(ctx, 7, 4)

	assert.EqualError(t, err, "post not found")
}

func TestList_ByStatus(t *testing.T) {
	u, postRepo, _, _, _ := newPostUsecaseFixture()
	ctx := context.Background()

	expected := []*model.ScheduledPost{{ID: 1}}
	postRepo.On("GetByStatus", ctx, int64(7), model.StatusFailed).Return(expected, nil).Once()

	posts, err := u.List(ctx, 7, &dto.PostListRequest{Status: model.StatusFailed})

	assert.NoError(t, err)
	assert.Equal(t, expected, posts)
}

func TestList_DefaultLimit(t *testing.T) {
	u, postRepo, _, _, _ := newPostUsecaseFixture()
	ctx := context.Background()

	postRepo.On("GetByUser", ctx, int64(7), 100).Return([]*model.ScheduledPost{}, nil).Once()

	_, err := u.List(ctx, 7, &dto.PostListRequest{})

	assert.NoError(t, err)
	postRepo.AssertExpectations(t)
}

func TestRecentFailed_DefaultLimit(t *testing.T) {
	u, postRepo, _, _, _ := newPostUsecaseFixture()
	ctx := context.Background()

	postRepo.On("GetRecentFailed", ctx, int64(7), 10).Return([]*model.ScheduledPost{{ID: 3}}, nil).Once()

	posts, err := u.RecentFailed(ctx, 7, 0)

	assert.NoError(t, err)
	assert.Len(t, posts, 1)
	postRepo.AssertExpectations(t)
}

func TestDashboard_CacheMiss(t *testing.T) {
	u, postRepo, _, _, dashboard := newPostUsecaseFixture()
	ctx := context.Background()

	dashboard.On("GetDashboard", ctx, int64(7), mock.Anything).Return(false, nil).Once()
	postRepo.On("GetByStatus", ctx, int64(7), model.StatusScheduled).Return([]*model.ScheduledPost{{ID: 1}}, nil).Once()
	postRepo.On("GetPublishedToday", ctx, int64(7)).Return([]*model.ScheduledPost{}, nil).Once()
	postRepo.On("GetRecentFailed", ctx, int64(7), 10).Return([]*model.ScheduledPost{}, nil).Once()
	dashboard.On("SetDashboard", ctx, int64(7), mock.Anything).Return(nil).Once()

	res, err := u.Dashboard(ctx, 7)

	assert.NoError(t, err)
	assert.Len(t, res.Upcoming, 1)
	dashboard.AssertExpectations(t)
}

func TestDashboard_CacheHit(t *testing.T) {
	u, postRepo, _, _, dashboard := newPostUsecaseFixture()
	ctx := context.Background()

	dashboard.On("GetDashboard", ctx, int64(7), mock.Anything).Return(true, nil).Once()

	_, err := u.Dashboard(ctx, 7)

	assert.NoError(t, err)
	postRepo.AssertNotCalled(t, "GetByStatus", mock.Anything, mock.Anything, mock.Anything)
}
