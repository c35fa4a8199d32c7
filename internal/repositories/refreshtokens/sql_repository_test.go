package refreshtokens

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/imgvault/internal/common"
	"github.com/dmitrijs2005/imgvault/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T, d dbx.Dialect) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(db, d), mock
}

// expiresAround matches a unix-micro expiry within a minute of want.
type expiresAround struct{ want time.Time }

func (e expiresAround) Match(v driver.Value) bool {
	us, ok := v.(int64)
	if !ok {
		return false
	}
	d := time.UnixMicro(us).Sub(e.want)
	return d > -time.Minute && d < time.Minute
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.DialectPostgres)

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+refresh_tokens\s*\(user_id,\s*token,\s*expires_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)`).
		WithArgs("u1", "tok", expiresAround{time.Now().Add(time.Hour)}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), "u1", "tok", time.Hour))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Error(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.DialectSQLite)

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+refresh_tokens.*VALUES\s*\(\?,\s*\?,\s*\?\)`).
		WillReturnError(errors.New("disk full"))

	err := repo.Create(context.Background(), "u1", "tok", time.Hour)
	assert.ErrorContains(t, err, "disk full")
}

func TestFind(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.DialectPostgres)
	exp := time.Now().Add(time.Hour).Truncate(time.Microsecond)

	mock.ExpectQuery(`(?s)SELECT\s+user_id,\s*expires_at\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1`).
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}).AddRow("u1", exp.UnixMicro()))

	got, err := repo.Find(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "tok", got.Token)
	assert.True(t, got.Expires.Equal(exp))
}

func TestFind_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.DialectPostgres)

	mock.ExpectQuery(`FROM\s+refresh_tokens`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t, dbx.DialectPostgres)

	mock.ExpectExec(`(?s)DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+token\s*=\s*\$1`).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "tok"))
	require.NoError(t, mock.ExpectationsWereMet())
}
