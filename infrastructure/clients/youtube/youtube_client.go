package youtube

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"time"

	"autopost/domain/dto"
	"autopost/domain/model"
	"autopost/domain/repository"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// People & Blogs - suitable for Shorts
const defaultCategoryID = "22"

// Client implements the video publisher against the YouTube Data API v3
type Client struct {
	tokens repository.ITokenProvider
}

func NewYouTubeClient(tokens repository.ITokenProvider) repository.IVideoPublisher {
	return &Client{tokens: tokens}
}

func (c *Client) service(ctx context.Context, userID int64) (*youtube.Service, error) {
	accessToken, err := c.tokens.GetValidAccessToken(ctx, userID, model.ProviderGoogleYouTube)
	if err != nil {
		return nil, err
	}
	svc, err := youtube.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return svc, nil
}

// UploadVideo performs a resumable upload of the media stream and returns the
// public identifiers of the created video.
func (c *Client) UploadVideo(ctx context.Context, userID int64, media io.Reader, opts *dto.VideoUploadOptions) (*dto.VideoUploadResult, error) {
	svc, err := c.service(ctx, userID)
	if err != nil {
		return nil, err
	}

	privacy := opts.PrivacyStatus
	if privacy == "" {
		privacy = "public"
	}
	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       opts.Title,
			Description: opts.Description,
			Tags:        opts.Tags,
			CategoryId:  defaultCategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           privacy,
			SelfDeclaredMadeForKids: false,
		},
	}

	response, err := svc.Videos.Insert([]string{"snippet", "status"}, video).
		Media(media, googleapi.ContentType("video/*")).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%s", extractUploadError(err))
	}

	publishedAt := time.Now().UTC()
	title := opts.Title
	if response.Snippet != nil {
		if response.Snippet.Title != "" {
			title = response.Snippet.Title
		}
		if t, pErr := time.Parse(time.RFC3339, response.Snippet.PublishedAt); pErr == nil {
			publishedAt = t
		}
	}

	return &dto.VideoUploadResult{
		VideoID:     response.Id,
		VideoURL:    fmt.Sprintf("https://www.youtube.com/watch?v=%s", response.Id),
		Title:       title,
		PublishedAt: publishedAt,
	}, nil
}

// GetChannelInfo retrieves the authenticated user's channel
func (c *Client) GetChannelInfo(ctx context.Context, userID int64) (*model.YouTubeChannel, error) {
	svc, err := c.service(ctx, userID)
	if err != nil {
		return nil, err
	}

	response, err := svc.Channels.List([]string{"snippet", "statistics"}).Mine(true).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel info: %w", err)
	}
	if len(response.Items) == 0 {
		return nil, fmt.Errorf("no channel found for authenticated user")
	}

	channel := response.Items[0]
	publishedAt, _ := time.Parse(time.RFC3339, channel.Snippet.PublishedAt)

	ytChannel := &model.YouTubeChannel{
		ID:          channel.Id,
		Title:       channel.Snippet.Title,
		Description: channel.Snippet.Description,
		CustomURL:   channel.Snippet.CustomUrl,
		PublishedAt: publishedAt,
	}
	if channel.Snippet.Thumbnails != nil && channel.Snippet.Thumbnails.Default != nil {
		ytChannel.ThumbnailURL = channel.Snippet.Thumbnails.Default.Url
	}
	if channel.Statistics != nil {
		ytChannel.ViewCount = int64(channel.Statistics.ViewCount)
		ytChannel.SubscriberCount = int64(channel.Statistics.SubscriberCount)
		ytChannel.VideoCount = int64(channel.Statistics.VideoCount)
	}
	return ytChannel, nil
}

// extractUploadError pulls the richest message available out of an API error
func extractUploadError(err error) string {
	if apiErr, ok := err.(*googleapi.Error); ok {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if len(apiErr.Errors) > 0 && apiErr.Errors[0].Message != "" {
			return apiErr.Errors[0].Message
		}
	}
	if err != nil {
		return err.Error()
	}
	return "Failed to upload video to YouTube"
}

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration converts an ISO 8601 duration (PT1M30S) to seconds
func ParseDuration(isoDuration string) int {
	m := durationPattern.FindStringSubmatch(isoDuration)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(zeroDefault(m[1]))
	minutes, _ := strconv.Atoi(zeroDefault(m[2]))
	seconds, _ := strconv.Atoi(zeroDefault(m[3]))
	return hours*3600 + minutes*60 + seconds
}

// IsShortVideo reports whether a video qualifies as a YouTube Short:
// under 60 seconds and vertical when dimensions are known.
func IsShortVideo(durationSeconds, width, height int) bool {
	if durationSeconds >= 60 {
		return false
	}
	if width > 0 && height > 0 {
		return height > width
	}
	return true
}

func zeroDefault(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
