package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"autopost/domain/model"
)

var postRows = []string{
	"id", "user_id", "scheduled_date", "scheduled_time", "scheduled_timestamp",
	"platform", "title", "description", "hashtags", "prompt", "video_file",
	"status", "published_at", "external_id", "published_url", "error_message",
	"retry_count", "created_at", "updated_at",
}

func addPostRow(rows *sqlmock.Rows, id int64, status string, ts time.Time) *sqlmock.Rows {
	return rows.AddRow(
		id, 7, "2026-09-01", "10:30", ts,
		"youtube", "Morning Short", "desc", "#shorts", "", "video.mp4",
		status, nil, nil, nil, nil,
		0, ts, ts,
	)
}

func TestPostRepository_GetDuePosts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewPostRepository(db)

	now := time.Date(2026, 9, 1, 10, 31, 0, 0, time.UTC)
	rows := sqlmock.NewRows(postRows)
	addPostRow(rows, 1, model.StatusScheduled, now.Add(-2*time.Minute))
	addPostRow(rows, 2, model.StatusScheduled, now.Add(-time.Minute))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, scheduled_date, scheduled_time, scheduled_timestamp, platform, title, description, hashtags, prompt, video_file, status, published_at, external_id, published_url, error_message, retry_count, created_at, updated_at FROM scheduled_posts WHERE status=$1 AND scheduled_timestamp<=$2 ORDER BY scheduled_timestamp ASC`)).
		WithArgs(model.StatusScheduled, now).
		WillReturnRows(rows)

	posts, err := repository.GetDuePosts(context.Background(), now)

	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, int64(1), posts[0].ID)
	require.Equal(t, int64(2), posts[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM scheduled_posts WHERE id=$1`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(postRows))

	post, err := repository.GetByID(context.Background(), 99)

	require.NoError(t, err)
	require.Nil(t, post)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_UpdateStatus_Failed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewPostRepository(db)

	msg := "Video file not found in Google Drive: video.mp4"
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE scheduled_posts SET`)).
		WithArgs(model.StatusFailed, nil, nil, nil, &msg, nil, sqlmock.AnyArg(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repository.UpdateStatus(context.Background(), 5, model.StatusFailed, &model.PostStatusUpdate{
		ErrorMessage: &msg,
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_CreatePosts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO scheduled_posts`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))
	mock.ExpectCommit()

	posts := []*model.ScheduledPost{{
		UserID:             7,
		ScheduledDate:      "2026-09-01",
		ScheduledTime:      "10:30",
		ScheduledTimestamp: time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC),
		Platform:           "youtube",
		Title:              "Morning Short",
		VideoFile:          "video.mp4",
	}}

	err = repository.CreatePosts(context.Background(), posts)

	require.NoError(t, err)
	require.Equal(t, int64(12), posts[0].ID)
	require.Equal(t, model.StatusScheduled, posts[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
