package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pe-odake/Portifolio-Web/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentRepository_Create(t *testing.T) {
	ctx := context.Background()

	lockSQL := regexp.QuoteMeta(`SELECT id FROM projects WHERE id = $1 FOR UPDATE`)
	recountSQL := regexp.QuoteMeta(`UPDATE projects SET comments_count = (SELECT COUNT(*) FROM comments WHERE comments.project_id = projects.id) WHERE id = $1`)

	t.Run("Locks the project, inserts and recounts in one transaction", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewCommentRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(lockSQL).
			WithArgs(10).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectExec(recountSQL).
			WithArgs(10).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		comment := &models.Comment{Content: "Great work!", UserID: "user-a", ProjectID: 10}
		err := repo.Create(ctx, comment)
		require.NoError(t, err)
		assert.Equal(t, uint(7), comment.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insert failure rolls back without recount", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewCommentRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(lockSQL).
			WithArgs(404).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
			WillReturnError(errors.New("insert or update on table \"comments\" violates foreign key constraint"))
		mock.ExpectRollback()

		err := repo.Create(ctx, &models.Comment{Content: "orphan", UserID: "user-a", ProjectID: 404})
		require.Error(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "INTERNAL_ERROR", appErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCommentRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "content", "user_id", "project_id"}).
			AddRow(7, "Great work!", "user-a", 10)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE "comments"."id" = $1 ORDER BY "comments"."id" LIMIT $2`)).
			WithArgs(7, 1).
			WillReturnRows(rows)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
			WithArgs("user-a").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("user-a", "Sam"))

		comment, err := repo.GetByID(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "Great work!", comment.Content)
		assert.Equal(t, "Sam", comment.User.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE "comments"."id" = $1`)).
			WithArgs(99, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.GetByID(context.Background(), 99)
		require.Error(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCommentRepository_ListByProject(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "content", "user_id", "project_id"}).
		AddRow(8, "Second", "user-b", 10).
		AddRow(7, "First", "user-a", 10)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE project_id = $1 ORDER BY created_at desc LIMIT $2`)).
		WithArgs(10, 20).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" IN ($1,$2)`)).
		WithArgs("user-b", "user-a").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("user-b", "Sam").
			AddRow("user-a", "Pat"))

	comments, err := repo.ListByProject(context.Background(), 10, 20, 0)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Second", comments[0].Content)
	assert.Equal(t, "Sam", comments[0].User.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
