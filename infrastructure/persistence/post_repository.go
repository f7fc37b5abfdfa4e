package persistence

import (
	"context"
	"database/sql"
	"time"

	"autopost/domain/model"
)

const postColumns = `id, user_id, scheduled_date, scheduled_time, scheduled_timestamp, platform, title, description, hashtags, prompt, video_file, status, published_at, external_id, published_url, error_message, retry_count, created_at, updated_at`

// PostRepository implements scheduled post persistence on PostgreSQL
type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository { return &PostRepository{db: db} }

func (r *PostRepository) CreatePosts(ctx context.Context, posts []*model.ScheduledPost) error {
	if len(posts) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	q := `INSERT INTO scheduled_posts (user_id, scheduled_date, scheduled_time, scheduled_timestamp, platform, title, description, hashtags, prompt, video_file, status, retry_count, created_at, updated_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$13) RETURNING id`
	now := time.Now().UTC()
	for _, p := range posts {
		if p.Status == "" {
			p.Status = model.StatusScheduled
		}
		err = tx.QueryRowContext(ctx, q,
			p.UserID, p.ScheduledDate, p.ScheduledTime, p.ScheduledTimestamp,
			p.Platform, p.Title, p.Description, p.Hashtags, p.Prompt, p.VideoFile,
			p.Status, p.RetryCount, now,
		).Scan(&p.ID)
		if err != nil {
			return err
		}
		p.CreatedAt = now
		p.UpdatedAt = now
	}
	return tx.Commit()
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*model.ScheduledPost, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM scheduled_posts WHERE id=$1`, id)
	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return post, err
}

func (r *PostRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*model.ScheduledPost, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM scheduled_posts WHERE user_id=$1 ORDER BY scheduled_timestamp DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (r *PostRepository) GetByStatus(ctx context.Context, userID int64, status string) ([]*model.ScheduledPost, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM scheduled_posts WHERE user_id=$1 AND status=$2 ORDER BY scheduled_timestamp ASC`,
		userID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (r *PostRepository) GetDuePosts(ctx context.Context, now time.Time) ([]*model.ScheduledPost, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM scheduled_posts WHERE status=$1 AND scheduled_timestamp<=$2 ORDER BY scheduled_timestamp ASC`,
		model.StatusScheduled, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (r *PostRepository) GetPublishedToday(ctx context.Context, userID int64) ([]*model.ScheduledPost, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	tomorrow := today.Add(24 * time.Hour)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM scheduled_posts WHERE user_id=$1 AND status=$2 AND published_at>=$3 AND published_at<$4 ORDER BY published_at DESC`,
		userID, model.StatusPublished, today, tomorrow)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (r *PostRepository) GetRecentFailed(ctx context.Context, userID int64, limit int) ([]*model.ScheduledPost, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM scheduled_posts WHERE user_id=$1 AND status=$2 ORDER BY updated_at DESC LIMIT $3`,
		userID, model.StatusFailed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// UpdateStatus writes a status transition together with its outcome or
// failure fields. Fields left nil in updates are not modified, except that a
// transition back to scheduled clears the error message.
func (r *PostRepository) UpdateStatus(ctx context.Context, id int64, status string, updates *model.PostStatusUpdate) error {
	if updates == nil {
		updates = &model.PostStatusUpdate{}
	}
	q := `UPDATE scheduled_posts SET
		status=$1,
		published_at=COALESCE($2, published_at),
		external_id=COALESCE($3, external_id),
		published_url=COALESCE($4, published_url),
		error_message=CASE WHEN $1='scheduled' THEN NULL ELSE COALESCE($5, error_message) END,
		retry_count=COALESCE($6, retry_count),
		updated_at=$7
		WHERE id=$8`
	_, err := r.db.ExecContext(ctx, q,
		status, updates.PublishedAt, updates.ExternalID, updates.PublishedURL,
		updates.ErrorMessage, updates.RetryCount, time.Now().UTC(), id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*model.ScheduledPost, error) {
	p := &model.ScheduledPost{}
	var publishedAt sql.NullTime
	var externalID, publishedURL, errorMessage sql.NullString
	err := row.Scan(
		&p.ID, &p.UserID, &p.ScheduledDate, &p.ScheduledTime, &p.ScheduledTimestamp,
		&p.Platform, &p.Title, &p.Description, &p.Hashtags, &p.Prompt, &p.VideoFile,
		&p.Status, &publishedAt, &externalID, &publishedURL, &errorMessage,
		&p.RetryCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if publishedAt.Valid {
		p.PublishedAt = &publishedAt.Time
	}
	if externalID.Valid {
		v := externalID.String
		p.ExternalID = &v
	}
	if publishedURL.Valid {
		v := publishedURL.String
		p.PublishedURL = &v
	}
	if errorMessage.Valid {
		v := errorMessage.String
		p.ErrorMessage = &v
	}
	return p, nil
}

func scanPosts(rows *sql.Rows) ([]*model.ScheduledPost, error) {
	var list []*model.ScheduledPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
