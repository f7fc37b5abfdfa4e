package repository

import (
	"context"

	"autopost/domain/model"
)

type IUser interface {
	GetById(ctx context.Context, id int64) (model.User, error)
	GetByUserName(ctx context.Context, userName string) (model.User, error)
	CreateUser(ctx context.Context, user model.User) error
}

type IUserSettings interface {
	GetSettings(ctx context.Context, userID int64) (*model.UserSettings, error)
	UpsertSettings(ctx context.Context, settings *model.UserSettings) error
}

type IOAuthToken interface {
	UpsertToken(ctx context.Context, t *model.OAuthToken) error
	GetToken(ctx context.Context, userID int64, provider string) (*model.OAuthToken, error)
	DeleteToken(ctx context.Context, userID int64, provider string) error
}
