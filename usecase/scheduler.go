package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"autopost/domain/dto"
	"autopost/domain/model"
	"autopost/domain/repository"
	"autopost/infrastructure/logger"
	"autopost/infrastructure/pubsub"
)

type IScheduler interface {
	Start()
	Stop()
	ProcessDuePosts(ctx context.Context) error
	ProcessNow(ctx context.Context, postID int64) error
	Status() dto.SchedulerStatusResponse
}

// Scheduler drives due posts through the publish pipeline on a fixed cadence.
// Batches run strictly sequentially; a tick that fires while the previous
// batch is still running is skipped, not queued.
type Scheduler struct {
	postRepo     repository.IPost
	logRepo      repository.ILog
	settingsRepo repository.IUserSettings
	files        repository.IFileLocator
	publisher    repository.IVideoPublisher
	events       pubsub.IEventPublisher
	eventTopic   string
	cronSpec     string

	cron    *cron.Cron
	entryID cron.EntryID

	mu         sync.Mutex
	running    bool
	processing bool

	now func() time.Time
}

func NewScheduler(
	postRepo repository.IPost,
	logRepo repository.ILog,
	settingsRepo repository.IUserSettings,
	files repository.IFileLocator,
	publisher repository.IVideoPublisher,
	cronSpec string,
) *Scheduler {
	return &Scheduler{
		postRepo:     postRepo,
		logRepo:      logRepo,
		settingsRepo: settingsRepo,
		files:        files,
		publisher:    publisher,
		cronSpec:     cronSpec,
		now:          time.Now,
	}
}

// WithEvents enables publish notifications on the scheduler (fluent)
func (s *Scheduler) WithEvents(events pubsub.IEventPublisher, topic string) *Scheduler {
	s.events = events
	s.eventTopic = topic
	return s
}

// Start begins the minute cadence. Calling Start on a running scheduler is a
// no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		logger.GetLogger().Info("Scheduler already running")
		return
	}

	s.cron = cron.New()
	spec := s.cronSpec
	if spec == "" {
		spec = "* * * * *"
	}
	entryID, err := s.cron.AddFunc(spec, s.tick)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Invalid scheduler cron spec")
		return
	}
	s.entryID = entryID
	s.cron.Start()
	s.running = true
	logger.GetLogger().WithField("spec", spec).Info("Scheduler started")
}

// Stop halts the cadence. In-flight batch work is not interrupted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cron.Stop()
	s.cron = nil
	s.running = false
	logger.GetLogger().Info("Scheduler stopped")
}

// tick runs on its own goroutine per cron activation; overlap handling lives
// in ProcessDuePosts so manual runs obey the same guard.
func (s *Scheduler) tick() {
	if err := s.ProcessDuePosts(context.Background()); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error processing posts")
	}
}

// ProcessDuePosts publishes every due post in scheduled order. Only one batch
// runs at a time; a call arriving mid-batch is skipped, not queued. A failing
// post is recorded and does not stop the rest of the batch.
func (s *Scheduler) ProcessDuePosts(ctx context.Context) error {
	s.mu.Lock()
	if s.processing {
		s.mu.Unlock()
		logger.GetLogger().Info("Previous job still processing, skipping...")
		return nil
	}
	s.processing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.processing = false
		s.mu.Unlock()
	}()

	duePosts, err := s.postRepo.GetDuePosts(ctx, s.now())
	if err != nil {
		return err
	}
	if len(duePosts) == 0 {
		return nil
	}

	logger.GetLogger().WithField("count", len(duePosts)).Info("Found posts to process")

	// Sequential on purpose, the upload APIs are rate limited
	for _, post := range duePosts {
		if err := s.processPost(ctx, post); err != nil {
			logger.GetLogger().
				WithField("postId", post.ID).
				WithField("error", err).
				Error("Failed to process post")
		}
	}
	return nil
}

// ProcessNow runs the pipeline for one post outside the cadence. Only posts
// in scheduled or failed state are eligible.
func (s *Scheduler) ProcessNow(ctx context.Context, postID int64) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return fmt.Errorf("post not found")
	}
	if post.Status != model.StatusScheduled && post.Status != model.StatusFailed {
		return fmt.Errorf("cannot process post with status: %s", post.Status)
	}
	return s.processPost(ctx, post)
}

// Status reports the in-memory scheduler state
func (s *Scheduler) Status() dto.SchedulerStatusResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dto.SchedulerStatusResponse{
		Running:    s.running,
		Processing: s.processing,
	}
}

func (s *Scheduler) processPost(ctx context.Context, post *model.ScheduledPost) error {
	lg := logger.GetLogger().WithField("postId", post.ID).WithField("videoFile", post.VideoFile)
	lg.Info("Processing post")

	if err := s.postRepo.UpdateStatus(ctx, post.ID, model.StatusProcessing, nil); err != nil {
		return s.failPost(ctx, post, err)
	}

	settings, err := s.settingsRepo.GetSettings(ctx, post.UserID)
	if err != nil {
		return s.failPost(ctx, post, err)
	}
	folderID := ""
	if settings != nil && settings.DriveFolderID != nil {
		folderID = *settings.DriveFolderID
	}

	lg.Info("Searching for file")
	driveFile, err := s.files.FindFileByName(ctx, post.UserID, post.VideoFile, folderID)
	if err != nil {
		return s.failPost(ctx, post, err)
	}
	if driveFile == nil {
		return s.failPost(ctx, post, fmt.Errorf("Video file not found in Google Drive: %s", post.VideoFile))
	}

	lg.WithField("fileId", driveFile.ID).Info("Found file")
	stream, err := s.files.OpenStream(ctx, post.UserID, driveFile.ID)
	if err != nil {
		return s.failPost(ctx, post, err)
	}
	defer stream.Close()

	lg.WithField("title", post.Title).Info("Uploading to YouTube")
	result, err := s.publisher.UploadVideo(ctx, post.UserID, stream, &dto.VideoUploadOptions{
		Title:         post.Title,
		Description:   ComposeDescription(post.Description, post.Hashtags),
		PrivacyStatus: "public",
	})
	if err != nil {
		return s.failPost(ctx, post, err)
	}

	lg.WithField("videoUrl", result.VideoURL).Info("Successfully uploaded")

	publishedAt := s.now()
	if err := s.postRepo.UpdateStatus(ctx, post.ID, model.StatusPublished, &model.PostStatusUpdate{
		PublishedAt:  &publishedAt,
		ExternalID:   &result.VideoID,
		PublishedURL: &result.VideoURL,
	}); err != nil {
		return s.failPost(ctx, post, err)
	}

	details, _ := json.Marshal(map[string]interface{}{
		"videoId":     result.VideoID,
		"videoUrl":    result.VideoURL,
		"title":       result.Title,
		"publishedAt": result.PublishedAt,
	})
	detailsStr := string(details)
	if err := s.logRepo.CreateLog(ctx, &model.Log{
		UserID:  &post.UserID,
		PostID:  &post.ID,
		Level:   model.LogLevelInfo,
		Message: fmt.Sprintf("Successfully published to YouTube: %s", result.VideoURL),
		Details: &detailsStr,
	}); err != nil {
		lg.WithField("error", err).Warning("Unable to write publish log")
	}

	s.notify(ctx, pubsub.PostEvent{
		PostID:     post.ID,
		UserID:     post.UserID,
		Status:     model.StatusPublished,
		VideoID:    result.VideoID,
		VideoURL:   result.VideoURL,
		OccurredAt: publishedAt,
	})
	return nil
}

// failPost records the failure on the post and in the logs, then returns the
// original error so callers can decide whether to propagate it
func (s *Scheduler) failPost(ctx context.Context, post *model.ScheduledPost, cause error) error {
	lg := logger.GetLogger().WithField("postId", post.ID)
	lg.WithField("error", cause).Error("Error processing post")

	msg := cause.Error()
	if err := s.postRepo.UpdateStatus(ctx, post.ID, model.StatusFailed, &model.PostStatusUpdate{
		ErrorMessage: &msg,
	}); err != nil {
		lg.WithField("error", err).Error("Unable to mark post failed")
	}

	details, _ := json.Marshal(map[string]interface{}{
		"error":     msg,
		"postId":    post.ID,
		"videoFile": post.VideoFile,
	})
	detailsStr := string(details)
	if err := s.logRepo.CreateLog(ctx, &model.Log{
		UserID:  &post.UserID,
		PostID:  &post.ID,
		Level:   model.LogLevelError,
		Message: fmt.Sprintf("Failed to publish post: %s", msg),
		Details: &detailsStr,
	}); err != nil {
		lg.WithField("error", err).Warning("Unable to write failure log")
	}

	s.notify(ctx, pubsub.PostEvent{
		PostID:     post.ID,
		UserID:     post.UserID,
		Status:     model.StatusFailed,
		Error:      msg,
		OccurredAt: s.now(),
	})
	return cause
}

func (s *Scheduler) notify(ctx context.Context, event pubsub.PostEvent) {
	if s.events == nil {
		return
	}
	if settings, err := s.settingsRepo.GetSettings(ctx, event.UserID); err == nil &&
		settings != nil && !settings.NotificationsEnabled {
		return
	}
	if _, err := s.events.PublishPostEvent(ctx, s.eventTopic, event); err != nil {
		logger.GetLogger().WithField("error", err).Warning("Unable to publish post event")
	}
}

// ComposeDescription appends hashtags after the description, separated by a
// blank line. Hashtags alone are used when the description is empty.
func ComposeDescription(description, hashtags string) string {
	if hashtags == "" {
		return description
	}
	if description == "" {
		return hashtags
	}
	return description + "\n\n" + hashtags
}
