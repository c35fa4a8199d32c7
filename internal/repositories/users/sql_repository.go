package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/imgvault/internal/common"
	"github.com/dmitrijs2005/imgvault/internal/dbx"
	"github.com/dmitrijs2005/imgvault/internal/models"
	"github.com/google/uuid"
)

// SQLRepository implements Repository over dbx.DBTX (satisfied by *sql.DB or
// *sql.Tx). Queries are written with '?' and rebound for the dialect.
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, d dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: d}
}

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := r.dialect.Rebind(`
		INSERT INTO users (id, email, salt, verifier, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)

	u := *user
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()

	if _, err := r.db.ExecContext(ctx, query, u.ID, u.Email, u.Salt, u.Verifier, u.CreatedAt.UnixMicro()); err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrEmailTaken
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}

func (r *SQLRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := r.dialect.Rebind(`
		SELECT id, email, salt, verifier, created_at
		FROM users
		WHERE email = ?
	`)
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *SQLRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := r.dialect.Rebind(`
		SELECT id, email, salt, verifier, created_at
		FROM users
		WHERE id = ?
	`)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var created int64
	if err := row.Scan(&user.ID, &user.Email, &user.Salt, &user.Verifier, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.CreatedAt = time.UnixMicro(created).UTC()
	return user, nil
}
