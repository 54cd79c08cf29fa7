package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/query"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPGRepository(sqlx.NewDb(db, "postgres")), mock
}

var categoryColumns = []string{"id", "store_id", "parent_id", "name", "description", "image_url", "created_at", "updated_at"}

func TestFindAllOnlyParents(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM categories WHERE store_id = $1 AND name ILIKE $2 AND parent_id IS NULL`)).
		WithArgs("s1", "%shoe%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM categories WHERE store_id = $1 AND name ILIKE $2 AND parent_id IS NULL ORDER BY name ASC, id ASC LIMIT 10 OFFSET 0`)).
		WithArgs("s1", "%shoe%").
		WillReturnRows(sqlmock.NewRows(categoryColumns).AddRow("c1", "s1", nil, "Shoes", nil, nil, now, now))

	items, count, err := repo.FindAll(context.Background(), &dto.CategoryFilters{
		Params:      query.Params{StoreID: "s1", Query: "shoe", Sort: "name-asc"}.Normalize(),
		OnlyParents: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].ParentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAllByParent(t *testing.T) {
	repo, mock := newMock(t)
	parent := "c1"

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM categories WHERE store_id = $1 AND parent_id = $2`)).
		WithArgs("s1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM categories WHERE store_id = $1 AND parent_id = $2 ORDER BY created_at DESC, id DESC`)).
		WithArgs("s1", "c1").
		WillReturnRows(sqlmock.NewRows(categoryColumns))

	items, count, err := repo.FindAll(context.Background(), &dto.CategoryFilters{
		Params:   query.Params{StoreID: "s1"},
		ParentID: &parent,
	})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDScopedToStore(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM categories WHERE id = $1 AND store_id = $2 LIMIT 1`)).
		WithArgs("c1", "s2").
		WillReturnRows(sqlmock.NewRows(categoryColumns))

	got, err := repo.FindByID(context.Background(), "s2", "c1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAndDelete(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectExec(`INSERT INTO categories`).
		WithArgs("c1", "s1", nil, "Shoes", nil, nil, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM categories WHERE id = $1 AND store_id = $2`)).
		WithArgs("c1", "s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := &model.Category{BaseModel: model.BaseModel{ID: "c1", CreatedAt: now, UpdatedAt: now}, StoreID: "s1", Name: "Shoes"}
	require.NoError(t, repo.Create(context.Background(), c))
	require.NoError(t, repo.Delete(context.Background(), "s1", "c1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
