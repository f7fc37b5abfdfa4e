package usecase

import (
	"context"
	"fmt"
	"time"

	"autopost/domain/dto"
	"autopost/domain/model"
	"autopost/domain/repository"
)

type ISettingsUsecase interface {
	Get(ctx context.Context, userID int64) (*model.UserSettings, error)
	Update(ctx context.Context, userID int64, req *dto.SettingsUpdateRequest) (*model.UserSettings, error)
}

type settingsUsecase struct {
	settingsRepo repository.IUserSettings
	files        repository.IFileLocator
}

func NewSettingsUsecase(settingsRepo repository.IUserSettings, files repository.IFileLocator) ISettingsUsecase {
	return &settingsUsecase{settingsRepo: settingsRepo, files: files}
}

// Get returns the user's settings, falling back to defaults for users who
// never saved any
func (u *settingsUsecase) Get(ctx context.Context, userID int64) (*model.UserSettings, error) {
	settings, err := u.settingsRepo.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return &model.UserSettings{
			UserID:               userID,
			Timezone:             model.DefaultTimezone,
			NotificationsEnabled: true,
		}, nil
	}
	return settings, nil
}

// Update applies the non-nil fields of the request. A new Drive folder ID is
// verified against Drive before it is stored, and its display name recorded.
func (u *settingsUsecase) Update(ctx context.Context, userID int64, req *dto.SettingsUpdateRequest) (*model.UserSettings, error) {
	settings, err := u.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return nil, fmt.Errorf("invalid timezone: %s", *req.Timezone)
		}
		settings.Timezone = *req.Timezone
	}
	if req.DriveFolderID != nil {
		if *req.DriveFolderID == "" {
			settings.DriveFolderID = nil
			settings.DriveFolderName = nil
		} else {
			folder, err := u.files.GetFolderInfo(ctx, userID, *req.DriveFolderID)
			if err != nil {
				return nil, fmt.Errorf("unable to verify Drive folder: %w", err)
			}
			if folder == nil {
				return nil, fmt.Errorf("not a folder: %s", *req.DriveFolderID)
			}
			settings.DriveFolderID = req.DriveFolderID
			settings.DriveFolderName = &folder.Name
		}
	}
	if req.DriveFolderName != nil {
		settings.DriveFolderName = req.DriveFolderName
	}
	if req.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *req.NotificationsEnabled
	}

	if err := u.settingsRepo.UpsertSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
