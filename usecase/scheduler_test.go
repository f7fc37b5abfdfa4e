package usecase_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"autopost/domain/dto"
	"autopost/domain/model"
	"autopost/usecase"
)

// Mock implementations
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) CreatePosts(ctx context.Context, posts []*model.ScheduledPost) error {
	args := m.Called(ctx, posts)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id int64) (*model.ScheduledPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScheduledPost), args.Error(1)
}

func (m *MockPostRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*model.ScheduledPost, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ScheduledPost), args.Error(1)
}

func (m *MockPostRepository) GetByStatus(ctx context.Context, userID int64, status string) ([]*model.ScheduledPost, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ScheduledPost), args.Error(1)
}

func (m *MockPostRepository) GetDuePosts(ctx context.Context, now time.Time) ([]*model.ScheduledPost, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ScheduledPost), args.Error(1)
}

func (m *MockPostRepository) GetPublishedToday(ctx context.Context, userID int64) ([]*model.ScheduledPost, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ScheduledPost), args.Error(1)
}

func (m *MockPostRepository) GetRecentFailed(ctx context.Context, userID int64, limit int) ([]*model.ScheduledPost, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ScheduledPost), args.Error(1)
}

func (m *MockPostRepository) UpdateStatus(ctx context.Context, id int64, status string, updates *model.PostStatusUpdate) error {
	args := m.Called(ctx, id, status, updates)
	return args.Error(0)
}

type MockLogRepository struct {
	mock.Mock
}

func (m *MockLogRepository) CreateLog(ctx context.Context, entry *model.Log) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLogRepository) GetByPost(ctx context.Context, postID int64, limit int) ([]*model.Log, error) {
	args := m.Called(ctx, postID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Log), args.Error(1)
}

func (m *MockLogRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*model.Log, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Log), args.Error(1)
}

type MockUserSettingsRepository struct {
	mock.Mock
}

func (m *MockUserSettingsRepository) GetSettings(ctx context.Context, userID int64) (*model.UserSettings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserSettings), args.Error(1)
}

func (m *MockUserSettingsRepository) UpsertSettings(ctx context.Context, settings *model.UserSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

type MockFileLocator struct {
	mock.Mock
}

func (m *MockFileLocator) FindFileByName(ctx context.Context, userID int64, fileName string, folderID string) (*model.DriveFile, error) {
	args := m.Called(ctx, userID, fileName, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DriveFile), args.Error(1)
}

func (m *MockFileLocator) OpenStream(ctx context.Context, userID int64, fileID string) (io.ReadCloser, error) {
	args := m.Called(ctx, userID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockFileLocator) ListFiles(ctx context.Context, userID int64, folderID string) ([]*model.DriveFile, error) {
	args := m.Called(ctx, userID, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.DriveFile), args.Error(1)
}

func (m *MockFileLocator) GetFolderInfo(ctx context.Context, userID int64, folderID string) (*model.DriveFolder, error) {
	args := m.Called(ctx, userID, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DriveFolder), args.Error(1)
}

type MockVideoPublisher struct {
	mock.Mock
}

func (m *MockVideoPublisher) UploadVideo(ctx context.Context, userID int64, media io.Reader, opts *dto.VideoUploadOptions) (*dto.VideoUploadResult, error) {
	args := m.Called(ctx, userID, media, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VideoUploadResult), args.Error(1)
}

func (m *MockVideoPublisher) GetChannelInfo(ctx context.Context, userID int64) (*model.YouTubeChannel, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.YouTubeChannel), args.Error(1)
}

func scheduledPost(id int64, videoFile string) *model.ScheduledPost {
	return &model.ScheduledPost{
		ID:        id,
		UserID:    7,
		Title:     "Morning Short",
		VideoFile: videoFile,
		Status:    model.StatusScheduled,
	}
}

func newSchedulerFixture() (*usecase.Scheduler, *MockPostRepository, *MockLogRepository, *MockUserSettingsRepository, *MockFileLocator, *MockVideoPublisher) {
	postRepo := new(MockPostRepository)
	logRepo := new(MockLogRepository)
	settingsRepo := new(MockUserSettingsRepository)
	files := new(MockFileLocator)
	publisher := new(MockVideoPublisher)
	s := usecase.NewScheduler(postRepo, logRepo, settingsRepo, files, publisher, "* * * * *")
	return s, postRepo, logRepo, settingsRepo, files, publisher
}

func TestComposeDescription(t *testing.T) {
	assert.Equal(t, "desc\n\n#tag", usecase.ComposeDescription("desc", "#tag"))
	assert.Equal(t, "#tag", usecase.ComposeDescription("", "#tag"))
	assert.Equal(t, "desc", usecase.ComposeDescription("desc", ""))
	assert.Equal(t, "", usecase.ComposeDescription("", ""))
}

func TestProcessDuePosts_Success(t *testing.T) {
	s, postRepo, logRepo, settingsRepo, files, publisher := newSchedulerFixture()
	ctx := context.Background()

	post := scheduledPost(1, "video.mp4")
	post.Description = "A nice day"
	post.Hashtags = "#shorts #fun"
	folderID := "folder-1"

	postRepo.On("GetDuePosts", ctx, mock.AnythingOfType("time.Time")).
		Return([]*model.ScheduledPost{post}, nil).Once()
	postRepo.On("UpdateStatus", ctx, int64(1), model.StatusProcessing, (*model.PostStatusUpdate)(nil)).
		Return(nil).Once()
	settingsRepo.On("GetSettings", ctx, int64(7)).
		Return(&model.UserSettings{UserID: 7, DriveFolderID: &folderID}, nil).Once()
	files.On("FindFileByName", ctx, int64(7), "video.mp4", "folder-1").
		Return(&model.DriveFile{ID: "file-1", Name: "video.mp4"}, nil).Once()
	files.On("OpenStream", ctx, int64(7), "file-1").
		Return(io.NopCloser(strings.NewReader("bytes")), nil).Once()
	publisher.On("UploadVideo", ctx, int64(7), mock.Anything, mock.MatchedBy(func(opts *dto.VideoUploadOptions) bool {
		return opts.Title == "Morning Short" &&
			opts.Description == "A nice day\n\n#shorts #fun" &&
			opts.PrivacyStatus == "public"
	})).Return(&dto.VideoUploadResult{
		VideoID:  "yt-1",
		VideoURL: "https://www.youtube.com/watch?v=yt-1",
		Title:    "Morning Short",
	}, nil).Once()
	postRepo.On("UpdateStatus", ctx, int64(1), model.StatusPublished, mock.MatchedBy(func(u *model.PostStatusUpdate) bool {
		return u != nil && u.PublishedAt != nil &&
			u.ExternalID != nil && *u.ExternalID == "yt-1" &&
			u.PublishedURL != nil && *u.PublishedURL == "https://www.youtube.com/watch?v=yt-1"
	})).Return(nil).Once()
	logRepo.On("CreateLog", ctx, mock.MatchedBy(func(entry *model.Log) bool {
		return entry.Level == model.LogLevelInfo &&
			strings.Contains(entry.Message, "https://www.youtube.com/watch?v=yt-1")
	})).Return(nil).Once()

	err := s.ProcessDuePosts(ctx)

	assert.NoError(t, err)
	postRepo.AssertExpectations(t)
	logRepo.AssertExpectations(t)
	settingsRepo.AssertExpectations(t)
	files.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestProcessDuePosts_FileNotFound(t *testing.T) {
	s, postRepo, logRepo, settingsRepo, files, publisher := newSchedulerFixture()
	ctx := context.Background()

	post := scheduledPost(3, "missing.mp4")

	postRepo.On("GetDuePosts", ctx, mock.AnythingOfType("time.Time")).
		Return([]*model.ScheduledPost{post}, nil).Once()
	postRepo.On("UpdateStatus", ctx, int64(3), model.StatusProcessing, (*model.PostStatusUpdate)(nil)).
		Return(nil).Once()
	settingsRepo.On("GetSettings", ctx, int64(7)).
		Return(nil, nil).Once()
	files.On("FindFileByName", ctx, int64(7), "missing.mp4", "").
		Return(nil, nil).Once()
	postRepo.On("UpdateStatus", ctx, int64(3), model.StatusFailed, mock.MatchedBy(func(u *model.PostStatusUpdate) bool {
		return u != nil && u.ErrorMessage != nil &&
			*u.ErrorMessage == "Video file not found in Google Drive: missing.mp4"
	})).Return(nil).Once()
	logRepo.On("CreateLog", ctx, mock.MatchedBy(func(entry *model.Log) bool {
		return entry.Level == model.LogLevelError &&
			strings.Contains(entry.Message, "Failed to publish post") &&
			entry.Details != nil &&
			strings.Contains(*entry.Details, "missing.mp4")
	})).Return(nil).Once()

	// Batch swallows the per-post failure
	err := s.ProcessDuePosts(ctx)

	assert.NoError(t, err)
	postRepo.AssertExpectations(t)
	logRepo.AssertExpectations(t)
	publisher.AssertNotCalled(t, "UploadVideo", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessDuePosts_FailureIsolation(t *testing.T) {
	s, postRepo, logRepo, settingsRepo, files, publisher := newSchedulerFixture()
	ctx := context.Background()

	first := scheduledPost(10, "broken.mp4")
	second := scheduledPost(11, "fine.mp4")

	postRepo.On("GetDuePosts", ctx, mock.AnythingOfType("time.Time")).
		Return([]*model.ScheduledPost{first, second}, nil).Once()
	settingsRepo.On("GetSettings", ctx, int64(7)).Return(nil, nil).Twice()
	postRepo.On("UpdateStatus", ctx, mock.AnythingOfType("int64"), model.StatusProcessing, (*model.PostStatusUpdate)(nil)).
		Return(nil).Twice()

	files.On("FindFileByName", ctx, int64(7), "broken.mp4", "").
		Return(nil, errors.New("drive unavailable")).Once()
	postRepo.On("UpdateStatus", ctx, int64(10), model.StatusFailed, mock.Anything).Return(nil).Once()
	logRepo.On("CreateLog", ctx, mock.MatchedBy(func(entry *model.Log) bool {
		return entry.Level == model.LogLevelError
	})).Return(nil).Once()

	files.On("FindFileByName", ctx, int64(7), "fine.mp4", "").
		Return(&model.DriveFile{ID: "file-2"}, nil).Once()
	files.On("OpenStream", ctx, int64(7), "file-2").
		Return(io.NopCloser(strings.NewReader("bytes")), nil).Once()
	publisher.On("UploadVideo", ctx, int64(7), mock.Anything, mock.Anything).
		Return(&dto.VideoUploadResult{VideoID: "yt-2", VideoURL: "url"}, nil).Once()
	postRepo.On("UpdateStatus", ctx, int64(11), model.StatusPublished, mock.Anything).Return(nil).Once()
	logRepo.On("CreateLog", ctx, mock.MatchedBy(func(entry *model.Log) bool {
		return entry.Level == model.LogLevelInfo
	})).Return(nil).Once()

	err := s.ProcessDuePosts(ctx)

	assert.NoError(t, err)
	postRepo.AssertExpectations(t)
	files.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestProcessDuePosts_SkipsWhileBatchInFlight(t *testing.T) {
	s, postRepo, logRepo, settingsRepo, files, publisher := newSchedulerFixture()
	ctx := context.Background()

	post := scheduledPost(20, "slow.mp4")
	entered := make(chan struct{})
	release := make(chan struct{})

	postRepo.On("GetDuePosts", ctx, mock.AnythingOfType("time.Time")).
		Return([]*model.ScheduledPost{post}, nil).Once()
	postRepo.On("UpdateStatus", ctx, int64(20), model.StatusProcessing, (*model.PostStatusUpdate)(nil)).
		Return(nil).Once()
	settingsRepo.On("GetSettings", ctx, int64(7)).Return(nil, nil).Once()
	files.On("FindFileByName", ctx, int64(7), "slow.mp4", "").
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(&model.DriveFile{ID: "file-3"}, nil).Once()
	files.On("OpenStream", ctx, int64(7), "file-3").
		Return(io.NopCloser(strings.NewReader("bytes")), nil).Once()
	publisher.On("UploadVideo", ctx, int64(7), mock.Anything, mock.Anything).
		Return(&dto.VideoUploadResult{VideoID: "yt-3", VideoURL: "url"}, nil).Once()
	postRepo.On("UpdateStatus", ctx, int64(20), model.StatusPublished, mock.Anything).Return(nil).Once()
	logRepo.On("CreateLog", ctx, mock.Anything).Return(nil).Once()

	done := make(chan error, 1)
	go func() { done <- s.ProcessDuePosts(ctx) }()
	<-entered

	// Second batch arriving mid-flight is dropped without touching the store
	assert.True(t, s.Status().Processing)
	assert.NoError(t, s.ProcessDuePosts(ctx))

	close(release)
	assert.NoError(t, <-done)
	assert.False(t, s.Status().Processing)

	postRepo.AssertExpectations(t)
	publisher.AssertNumberOfCalls(t, "UploadVideo", 1)
}

func TestProcessDuePosts_AscendingOrder(t *testing.T) {
	s, postRepo, logRepo, settingsRepo, files, _ := newSchedulerFixture()
	ctx := context.Background()

	first := scheduledPost(31, "a.mp4")
	second := scheduledPost(32, "b.mp4")
	third := scheduledPost(33, "c.mp4")

	postRepo.On("GetDuePosts", ctx, mock.AnythingOfType("time.Time")).
		Return([]*model.ScheduledPost{first, second, third}, nil).Once()
	postRepo.On("UpdateStatus", ctx, mock.AnythingOfType("int64"), model.StatusProcessing, (*model.PostStatusUpdate)(nil)).
		Return(nil).Times(3)
	settingsRepo.On("GetSettings", ctx, int64(7)).Return(nil, nil).Times(3)

	var attempted []string
	files.On("FindFileByName", ctx, int64(7), mock.AnythingOfType("string"), "").
		Run(func(args mock.Arguments) {
			attempted = append(attempted, args.String(2))
		}).
		Return(nil, nil).Times(3)
	postRepo.On("UpdateStatus", ctx, mock.AnythingOfType("int64"), model.StatusFailed, mock.Anything).
		Return(nil).Times(3)
	logRepo.On("CreateLog", ctx, mock.Anything).Return(nil).Times(3)

	err := s.ProcessDuePosts(ctx)

	assert.NoError(t, err)
	assert.Equal(t, []string{"a.mp4", "b.mp4", "c.mp4"}, attempted)
	postRepo.AssertExpectations(t)
}

func TestProcessNow_NotFound(t *testing.T) {
	s, postRepo, _, _, _, _ := newSchedulerFixture()
	ctx := context.Background()

	postRepo.On("GetByID", ctx, int64(99)).Return(nil, nil).Once()

	err := s.ProcessNow(ctx, 99)

	assert.EqualError(t, err, "post not found")
}

func TestProcessNow_WrongStatus(t *testing.T) {
	s, postRepo, _, _, _, _ := newSchedulerFixture()
	ctx := context.Background()

	post := scheduledPost(5, "video.mp4")
	post.Status = model.StatusPublished
	postRepo.On("GetByID", ctx, int64(5)).Return(post, nil).Once()

	err := s.ProcessNow(ctx, 5)

	assert.EqualError(t, err, "cannot process post with status: published")
}

func TestProcessNow_FailedPostIsEligible(t *testing.T) {
	s, postRepo, logRepo, settingsRepo, files, publisher := newSchedulerFixture()
	ctx := context.Background()

	post := scheduledPost(6, "video.mp4")
	post.Status = model.StatusFailed

	postRepo.On("GetByID", ctx, int64(6)).Return(post, nil).Once()
	postRepo.On("UpdateStatus", ctx, int64(6), model.StatusProcessing, (*model.PostStatusUpdate)(nil)).
		Return(nil).Once()
	settingsRepo.On("GetSettings", ctx, int64(7)).Return(nil, nil).Once()
	files.On("FindFileByName", ctx, int64(7), "video.mp4", "").
		Return(&model.DriveFile{ID: "file-6"}, nil).Once()
	files.On("OpenStream", ctx, int64(7), "file-6").
		Return(io.NopCloser(strings.NewReader("bytes")), nil).Once()
	publisher.On("UploadVideo", ctx, int64(7), mock.Anything, mock.Anything).
		Return(&dto.VideoUploadResult{VideoID: "yt-6", VideoURL: "url"}, nil).Once()
	postRepo.On("UpdateStatus", ctx, int64(6), model.StatusPublished, mock.Anything).Return(nil).Once()
	logRepo.On("CreateLog", ctx, mock.Anything).Return(nil).Once()

	err := s.ProcessNow(ctx, 6)

	assert.NoError(t, err)
	postRepo.AssertExpectations(t)
}

func TestProcessNow_PropagatesPipelineError(t *testing.T) {
	s, postRepo, logRepo, settingsRepo, files, _ := newSchedulerFixture()
	ctx := context.Background()

	post := scheduledPost(8, "gone.mp4")

	postRepo.On("GetByID", ctx, int64(8)).Return(post, nil).Once()
	postRepo.On("UpdateStatus", ctx, int64(8), model.StatusProcessing, (*model.PostStatusUpdate)(nil)).
		Return(nil).Once()
	settingsRepo.On("GetSettings", ctx, int64(7)).Return(nil, nil).Once()
	files.On("FindFileByName", ctx, int64(7), "gone.mp4", "").Return(nil, nil).Once()
	postRepo.On("UpdateStatus", ctx, int64(8), model.StatusFailed, mock.Anything).Return(nil).Once()
	logRepo.On("CreateLog", ctx, mock.Anything).Return(nil).Once()

	err := s.ProcessNow(ctx, 8)

	assert.EqualError(t, err, "Video file not found in Google Drive: gone.mp4")
}

func TestSchedulerStartStop(t *testing.T) {
	s, _, _, _, _, _ := newSchedulerFixture()

	status := s.Status()
	assert.False(t, status.Running)
	assert.False(t, status.Processing)

	s.Start()
	assert.True(t, s.Status().Running)

	// Second Start is a no-op
	s.Start()
	assert.True(t, s.Status().Running)

	s.Stop()
	assert.False(t, s.Status().Running)

	// Second Stop is a no-op
	s.Stop()
	assert.False(t, s.Status().Running)
}
