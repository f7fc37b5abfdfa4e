package googledrive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"autopost/domain/model"
	"autopost/domain/repository"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

// Client implements the file locator against the Google Drive v3 API. A fresh
// service is built per call so the access token is always current.
type Client struct {
	tokens repository.ITokenProvider
}

func NewDriveClient(tokens repository.ITokenProvider) repository.IFileLocator {
	return &Client{tokens: tokens}
}

func (c *Client) service(ctx context.Context, userID int64) (*drive.Service, error) {
	accessToken, err := c.tokens.GetValidAccessToken(ctx, userID, model.ProviderGoogleDrive)
	if err != nil {
		return nil, err
	}
	svc, err := drive.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	return svc, nil
}

// FindFileByName resolves a file by exact name, optionally scoped to a folder.
// Returns nil when no match exists.
func (c *Client) FindFileByName(ctx context.Context, userID int64, fileName string, folderID string) (*model.DriveFile, error) {
	svc, err := c.service(ctx, userID)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("name='%s'", strings.ReplaceAll(fileName, "'", "\\'"))
	if folderID != "" {
		query = fmt.Sprintf("'%s' in parents and %s", folderID, query)
	}

	res, err := svc.Files.List().
		Q(query).
		Fields("files(id, name, mimeType, size, webViewLink)").
		PageSize(1).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("drive file search failed: %w", err)
	}
	if len(res.Files) == 0 {
		return nil, nil
	}
	return toDriveFile(res.Files[0]), nil
}

// OpenStream downloads the file content as a stream. The caller owns the
// returned ReadCloser.
func (c *Client) OpenStream(ctx context.Context, userID int64, fileID string) (io.ReadCloser, error) {
	svc, err := c.service(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("drive file download failed: %w", err)
	}
	return resp.Body, nil
}

func (c *Client) ListFiles(ctx context.Context, userID int64, folderID string) ([]*model.DriveFile, error) {
	svc, err := c.service(ctx, userID)
	if err != nil {
		return nil, err
	}

	call := svc.Files.List().
		Fields("files(id, name, mimeType, size, webViewLink)").
		PageSize(100)
	if folderID != "" {
		call = call.Q(fmt.Sprintf("'%s' in parents", folderID))
	}
	res, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("drive file listing failed: %w", err)
	}

	files := make([]*model.DriveFile, 0, len(res.Files))
	for _, f := range res.Files {
		files = append(files, toDriveFile(f))
	}
	return files, nil
}

// GetFolderInfo validates a folder id and returns its display name. Returns
// nil when the id does not reference a folder.
func (c *Client) GetFolderInfo(ctx context.Context, userID int64, folderID string) (*model.DriveFolder, error) {
	svc, err := c.service(ctx, userID)
	if err != nil {
		return nil, err
	}
	f, err := svc.Files.Get(folderID).Fields("id, name, mimeType").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("drive folder lookup failed: %w", err)
	}
	if f.MimeType != folderMimeType {
		return nil, nil
	}
	return &model.DriveFolder{ID: f.Id, Name: f.Name}, nil
}

func toDriveFile(f *drive.File) *model.DriveFile {
	return &model.DriveFile{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		WebViewLink: f.WebViewLink,
	}
}
