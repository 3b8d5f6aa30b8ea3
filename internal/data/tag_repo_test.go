package data

import (
	"context"
	"regexp"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officeplus/faq-api/internal/domain/model"
	errs "github.com/officeplus/faq-api/internal/errors"
	"github.com/officeplus/faq-api/internal/testutil"
)

var tagCols = []string{"id", "name", "description", "created_at", "updated_at"}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestTagRepo_ListWithCounts(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTagRepo(mock)
	now := testutil.TestTime()

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(ft.faq_id) AS faq_count")).
		WillReturnRows(pgxmock.NewRows(append(append([]string{}, tagCols...), "faq_count")).
			AddRow(int64(1), "hr", (*string)(nil), now, now, int64(0)).
			AddRow(int64(2), "vpn", testutil.StringPtr("network"), now, now, int64(4)))

	tags, err := repo.ListWithCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "vpn", tags[1].Name)
	assert.Equal(t, int64(4), tags[1].FAQCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagRepo_GetByID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTagRepo(mock)
	now := testutil.TestTime()

	mock.ExpectQuery(regexp.QuoteMeta("FROM tags WHERE id = $1")).WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows(tagCols).AddRow(int64(2), "vpn", testutil.StringPtr("network"), now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM tags WHERE id = $1")).WithArgs(int64(9)).
		WillReturnRows(pgxmock.NewRows(tagCols))

	tag, err := repo.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "vpn", tag.Name)

	_, err = repo.GetByID(context.Background(), 9)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
	assert.Contains(t, err.Error(), "tag 9 not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagRepo_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTagRepoWithTimeProvider(mock, NewFixedTimeProvider(testutil.TestTime()))
	now := testutil.TestTime()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tags (name, description, created_at, updated_at)")).
		WithArgs("vpn", (*string)(nil), now).
		WillReturnRows(pgxmock.NewRows(tagCols).AddRow(int64(5), "vpn", (*string)(nil), now, now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tags")).
		WithArgs("vpn", (*string)(nil), now).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "tags_name_key"})

	tag, err := repo.Create(context.Background(), &model.CreateTagRequest{Name: " vpn "})
	require.NoError(t, err)
	assert.Equal(t, int64(5), tag.ID)

	_, err = repo.Create(context.Background(), &model.CreateTagRequest{Name: "vpn"})
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))
	assert.Equal(t, "name", errs.GetField(err))
	assert.Contains(t, err.Error(), `tag "vpn" already exists`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTagRepo_UpdateAndDelete_Missing(t *testing.T) {
	mock := newMockPool(t)
	repo := NewTagRepoWithTimeProvider(mock, NewFixedTimeProvider(testutil.TestTime()))
	name := "renamed"

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE tags SET")).
		WithArgs(int64(9), &name, (*string)(nil), testutil.TestTime()).
		WillReturnRows(pgxmock.NewRows(tagCols))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tags WHERE id = $1")).WithArgs(int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	_, err := repo.Update(context.Background(), 9, &model.UpdateTagRequest{Name: &name})
	assert.True(t, errs.IsNotFound(err))

	err = repo.Delete(context.Background(), 9)
	assert.True(t, errs.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
