package images

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/imgvault/internal/common"
	"github.com/dmitrijs2005/imgvault/internal/dbx"
	"github.com/dmitrijs2005/imgvault/internal/models"
)

// SQLRepository implements Repository over dbx.DBTX. date_uploaded is stored
// as unix microseconds so both dialects sort it the same way.
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, d dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: d}
}

func (r *SQLRepository) Create(ctx context.Context, rec *models.ImageRecord) error {
	query := r.dialect.Rebind(`
		INSERT INTO images (id, user_id, download_url, date_uploaded)
		VALUES (?, ?, ?, ?)
	`)
	if _, err := r.db.ExecContext(ctx, query, rec.ID, rec.UserID, rec.DownloadURL, rec.DateUploaded.UnixMicro()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID string) ([]models.ImageRecord, error) {
	query := r.dialect.Rebind(`
		SELECT id, user_id, download_url, date_uploaded
		FROM images
		WHERE user_id = ?
		ORDER BY date_uploaded DESC, id DESC
	`)
	return r.query(ctx, query, userID)
}

func (r *SQLRepository) FindByURL(ctx context.Context, userID, url string) ([]models.ImageRecord, error) {
	query := r.dialect.Rebind(`
		SELECT id, user_id, download_url, date_uploaded
		FROM images
		WHERE user_id = ? AND download_url = ?
	`)
	return r.query(ctx, query, userID, url)
}

func (r *SQLRepository) Delete(ctx context.Context, userID, id string) error {
	query := r.dialect.Rebind(`
		DELETE FROM images
		WHERE user_id = ? AND id = ?
	`)
	res, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLRepository) query(ctx context.Context, query string, args ...any) ([]models.ImageRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.ImageRecord
	for rows.Next() {
		var rec models.ImageRecord
		var uploaded int64
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.DownloadURL, &uploaded); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		rec.DateUploaded = time.UnixMicro(uploaded).UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
