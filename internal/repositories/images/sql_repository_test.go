package images

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/imgvault/internal/common"
	"github.com/dmitrijs2005/imgvault/internal/dbx"
	"github.com/dmitrijs2005/imgvault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLRepository(db, dbx.DialectPostgres), mock
}

var cols = []string{"id", "user_id", "download_url", "date_uploaded"}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+images\s*\(id,\s*user_id,\s*download_url,\s*date_uploaded\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)`).
		WithArgs("i1", "u1", "http://s3/b/u1/x.jpeg", ts.UnixMicro()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.ImageRecord{
		ID: "i1", UserID: "u1", DownloadURL: "http://s3/b/u1/x.jpeg", DateUploaded: ts,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUser_KeepsStoreOrder(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	newer := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)FROM\s+images\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+date_uploaded\s+DESC`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("i2", "u1", "url-2", newer.UnixMicro()).
			AddRow("i1", "u1", "url-1", older.UnixMicro()))

	got, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "i2", got[0].ID)
	assert.Equal(t, "i1", got[1].ID)
	assert.True(t, got[0].DateUploaded.Equal(newer))
}

func TestListByUser_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM\s+images`).WillReturnRows(sqlmock.NewRows(cols))

	got, err := repo.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListByUser_ScanError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM\s+images`).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("i1", "u1", "url", "not-a-number"))

	_, err := repo.ListByUser(context.Background(), "u1")
	assert.Error(t, err)
}

func TestFindByURL(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)FROM\s+images\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+download_url\s*=\s*\$2`).
		WithArgs("u1", "url-1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("i1", "u1", "url-1", int64(1)).
			AddRow("i3", "u1", "url-1", int64(2)))

	got, err := repo.FindByURL(context.Background(), "u1", "url-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `(?s)DELETE\s+FROM\s+images\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+id\s*=\s*\$2`

	t.Run("deleted", func(t *testing.T) {
		mock.ExpectExec(q).WithArgs("u1", "i1").WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, repo.Delete(context.Background(), "u1", "i1"))
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectExec(q).WithArgs("u1", "i9").WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.Delete(context.Background(), "u1", "i9"), common.ErrorNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(q).WillReturnError(errors.New("boom"))
		assert.ErrorContains(t, repo.Delete(context.Background(), "u1", "i1"), "boom")
	})
}
