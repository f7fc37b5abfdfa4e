package persistence

import (
	"context"
	"database/sql"
	"time"

	"autopost/domain/model"
)

// LogRepository implements the append-only audit log on PostgreSQL
type LogRepository struct {
	db *sql.DB
}

func NewLogRepository(db *sql.DB) *LogRepository { return &LogRepository{db: db} }

func (r *LogRepository) CreateLog(ctx context.Context, entry *model.Log) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO logs (user_id, post_id, level, message, details, created_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		entry.UserID, entry.PostID, entry.Level, entry.Message, entry.Details, entry.CreatedAt)
	return err
}

func (r *LogRepository) GetByPost(ctx context.Context, postID int64, limit int) ([]*model.Log, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, post_id, level, message, details, created_at FROM logs WHERE post_id=$1 ORDER BY created_at DESC LIMIT $2`,
		postID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLogs(rows)
}

func (r *LogRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*model.Log, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, post_id, level, message, details, created_at FROM logs WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLogs(rows)
}

func scanLogs(rows *sql.Rows) ([]*model.Log, error) {
	var list []*model.Log
	for rows.Next() {
		l := &model.Log{}
		var userID, postID sql.NullInt64
		var details sql.NullString
		if err := rows.Scan(&l.ID, &userID, &postID, &l.Level, &l.Message, &details, &l.CreatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			v := userID.Int64
			l.UserID = &v
		}
		if postID.Valid {
			v := postID.Int64
			l.PostID = &v
		}
		if details.Valid {
			v := details.String
			l.Details = &v
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
