package persistence

import (
	"context"
	"database/sql"
	"time"

	"autopost/domain/model"
)

// UserSettingsRepository stores per-user preferences
type UserSettingsRepository struct{ db *sql.DB }

func NewUserSettingsRepository(db *sql.DB) *UserSettingsRepository {
	return &UserSettingsRepository{db: db}
}

func (r *UserSettingsRepository) GetSettings(ctx context.Context, userID int64) (*model.UserSettings, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, timezone, drive_folder_id, drive_folder_name, notifications_enabled, created_at, updated_at FROM user_settings WHERE user_id=$1`,
		userID)
	s := &model.UserSettings{}
	var folderID, folderName sql.NullString
	if err := row.Scan(&s.ID, &s.UserID, &s.Timezone, &folderID, &folderName, &s.NotificationsEnabled, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if folderID.Valid {
		v := folderID.String
		s.DriveFolderID = &v
	}
	if folderName.Valid {
		v := folderName.String
		s.DriveFolderName = &v
	}
	return s, nil
}

func (r *UserSettingsRepository) UpsertSettings(ctx context.Context, s *model.UserSettings) error {
	now := time.Now().UTC()
	if s.Timezone == "" {
		s.Timezone = model.DefaultTimezone
	}
	q := `INSERT INTO user_settings (user_id, timezone, drive_folder_id, drive_folder_name, notifications_enabled, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$6)
		  ON CONFLICT (user_id) DO UPDATE SET
			timezone=EXCLUDED.timezone,
			drive_folder_id=EXCLUDED.drive_folder_id,
			drive_folder_name=EXCLUDED.drive_folder_name,
			notifications_enabled=EXCLUDED.notifications_enabled,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, s.UserID, s.Timezone, s.DriveFolderID, s.DriveFolderName, s.NotificationsEnabled, now)
	return err
}
