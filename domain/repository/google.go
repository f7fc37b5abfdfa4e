package repository

import (
	"context"
	"io"

	"autopost/domain/dto"
	"autopost/domain/model"
)

// ITokenProvider yields a currently valid access token for a user and Google
// provider, refreshing (and persisting the rotation) when expired. Returns an
// error when no usable credential exists.
type ITokenProvider interface {
	GetValidAccessToken(ctx context.Context, userID int64, provider string) (string, error)
}

// IFileLocator resolves files in the user's Google Drive and opens byte
// streams for them.
type IFileLocator interface {
	FindFileByName(ctx context.Context, userID int64, fileName string, folderID string) (*model.DriveFile, error)
	OpenStream(ctx context.Context, userID int64, fileID string) (io.ReadCloser, error)
	ListFiles(ctx context.Context, userID int64, folderID string) ([]*model.DriveFile, error)
	GetFolderInfo(ctx context.Context, userID int64, folderID string) (*model.DriveFolder, error)
}

// IVideoPublisher uploads videos to the user's YouTube channel
type IVideoPublisher interface {
	UploadVideo(ctx context.Context, userID int64, media io.Reader, opts *dto.VideoUploadOptions) (*dto.VideoUploadResult, error)
	GetChannelInfo(ctx context.Context, userID int64) (*model.YouTubeChannel, error)
}
