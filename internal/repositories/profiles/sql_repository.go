package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/imgvault/internal/common"
	"github.com/dmitrijs2005/imgvault/internal/dbx"
	"github.com/dmitrijs2005/imgvault/internal/models"
)

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, d dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: d}
}

func (r *SQLRepository) Get(ctx context.Context, userID string) (*models.Profile, error) {
	query := r.dialect.Rebind(`
		SELECT user_id, email
		FROM profiles
		WHERE user_id = ?
	`)
	p := &models.Profile{}
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&p.UserID, &p.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *SQLRepository) Upsert(ctx context.Context, p *models.Profile) error {
	query := r.dialect.Rebind(`
		INSERT INTO profiles (user_id, email)
		VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET email = excluded.email
	`)
	if _, err := r.db.ExecContext(ctx, query, p.UserID, p.Email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
