package server

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/pe-odake/Portifolio-Web/internal/featureflags"
	"github.com/pe-odake/Portifolio-Web/internal/repository"
	"github.com/pe-odake/Portifolio-Web/internal/service"
	"github.com/pe-odake/Portifolio-Web/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// interactionServer wires the like/comment services over a mocked database.
func interactionServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := setupMockDB(t)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	s := &Server{
		config:         testConfig(),
		featureFlags:   featureflags.NewManager(""),
		likeService:    service.NewLikeService(projectRepo, userRepo, nil),
		commentService: service.NewCommentService(commentRepo, projectRepo, userRepo, nil),
	}
	return s, mock
}

func interactionApp(s *Server) *fiber.App {
	app := fiber.New()
	app.Post("/api/like/:id", s.AuthRequired(), s.ToggleLike)
	app.Post("/api/comment/:id", s.AuthRequired(), s.CreateComment)
	app.Get("/api/projects/:id/comments", s.GetComments)
	return app
}

func bearerFor(t *testing.T, subject string) string {
	t.Helper()
	return "Bearer " + testutil.MintToken(t, testSecret, testutil.TokenOptions{
		Subject:  subject,
		Issuer:   "portfolio-auth",
		Audience: "portfolio-api",
	})
}

// expectViewerAndProject queues the user fetch and project fetch that guard
// every interaction: the acting user row, then the project with its author
// and (empty) tag preloads.
func expectViewerAndProject(mock sqlmock.Sqlmock, userID string, projectID int, status, authorID string) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs(userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "role"}).AddRow(userID, "Sam", "member"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT projects.*, false AS liked FROM "projects" WHERE "projects"."id" = $1 ORDER BY "projects"."id" LIMIT $2`)).
		WithArgs(projectID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status", "author_id", "likes_count"}).
			AddRow(projectID, "Portfolio Site", status, authorID, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(authorID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(authorID, "Pat"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "project_tags" WHERE "project_tags"."project_id" = $1`)).
		WithArgs(projectID).
		WillReturnRows(sqlmock.NewRows([]string{"project_id", "tag_id"}))
}

func TestServer_ToggleLike(t *testing.T) {
	s, mock := interactionServer(t)
	app := interactionApp(s)

	expectViewerAndProject(mock, "auth0|sam", 7, "published", "auth0|pat")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`SELECT id FROM projects WHERE id = $1 FOR UPDATE`)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM likes WHERE user_id = $1 AND project_id = $2`)).
		WithArgs("auth0|sam", 7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO likes (user_id, project_id, created_at) VALUES ($1, $2, $3) ON CONFLICT (user_id, project_id) DO NOTHING`)).
		WithArgs("auth0|sam", 7, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE projects SET likes_count = (SELECT COUNT(*) FROM likes WHERE likes.project_id = projects.id) WHERE id = $1 RETURNING likes_count`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"likes_count"}).AddRow(1))
	mock.ExpectCommit()

	req := httptest.NewRequest(http.MethodPost, "/api/like/7", nil)
	req.Header.Set("Authorization", bearerFor(t, "auth0|sam"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"success":true`)
	assert.Contains(t, body, `"liked":true`)
	assert.Contains(t, body, `"likes_count":1`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServer_ToggleLike_DraftHidden(t *testing.T) {
	s, mock := interactionServer(t)
	app := interactionApp(s)

	// A draft someone else owns reads as absent, not forbidden.
	expectViewerAndProject(mock, "auth0|sam", 7, "draft", "auth0|pat")

	req := httptest.NewRequest(http.MethodPost, "/api/like/7", nil)
	req.Header.Set("Authorization", bearerFor(t, "auth0|sam"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServer_ToggleLike_InvalidID(t *testing.T) {
	s, _ := interactionServer(t)
	app := interactionApp(s)

	req := httptest.NewRequest(http.MethodPost, "/api/like/abc", nil)
	req.Header.Set("Authorization", bearerFor(t, "auth0|sam"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ToggleLike_KillSwitch(t *testing.T) {
	s, _ := interactionServer(t)
	s.featureFlags = featureflags.NewManager("likes=off")
	app := interactionApp(s)

	req := httptest.NewRequest(http.MethodPost, "/api/like/7", nil)
	req.Header.Set("Authorization", bearerFor(t, "auth0|sam"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, "temporarily disabled")
}

func TestServer_CreateComment_JSONValidation(t *testing.T) {
	s, _ := interactionServer(t)
	app := interactionApp(s)

	req := httptest.NewRequest(http.MethodPost, "/api/comment/7", strings.NewReader(`{"content":"   "}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set("Authorization", bearerFor(t, "auth0|sam"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Content is required")
}

func TestServer_CreateComment_FormValidationRedirects(t *testing.T) {
	mr := miniredis.RunT(t)
	s, _ := interactionServer(t)
	s.redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := interactionApp(s)

	form := strings.NewReader("content=")
	req := httptest.NewRequest(http.MethodPost, "/api/comment/7", form)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	req.Header.Set(fiber.HeaderReferer, "/projects/7#comments")
	req.Header.Set("Authorization", bearerFor(t, "auth0|sam"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	// Form posts never see raw JSON errors: the browser goes back to the
	// form with the problem stashed in a flash.
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/projects/7#comments", resp.Header.Get(fiber.HeaderLocation))
	assert.NotEmpty(t, flashCookieValue(t, resp))
}

func TestServer_CreateComment_FormMissingProjectRedirects(t *testing.T) {
	mr := miniredis.RunT(t)
	s, mock := interactionServer(t)
	s.redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := interactionApp(s)

	// A draft someone else owns reads as absent; the form flow still gets
	// a flash and a redirect rather than a JSON 404.
	expectViewerAndProject(mock, "auth0|sam", 7, "draft", "auth0|pat")

	req := httptest.NewRequest(http.MethodPost, "/api/comment/7", strings.NewReader("content=Nice+one"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	req.Header.Set(fiber.HeaderReferer, "/projects/7#comments")
	req.Header.Set("Authorization", bearerFor(t, "auth0|sam"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/projects/7#comments", resp.Header.Get(fiber.HeaderLocation))
	assert.NotEmpty(t, flashCookieValue(t, resp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServer_CreateComment_FormFallbackLocation(t *testing.T) {
	s, _ := interactionServer(t)
	app := interactionApp(s)

	// No Referer: fall back to the project page.
	req := httptest.NewRequest(http.MethodPost, "/api/comment/7", strings.NewReader("content="))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	req.Header.Set("Authorization", bearerFor(t, "auth0|sam"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/projects/7", resp.Header.Get(fiber.HeaderLocation))
}

func TestServer_CreateComment_FormSuccess(t *testing.T) {
	mr := miniredis.RunT(t)
	s, mock := interactionServer(t)
	s.redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	app := interactionApp(s)

	expectViewerAndProject(mock, "auth0|sam", 7, "published", "auth0|pat")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`SELECT id FROM projects WHERE id = $1 FOR UPDATE`)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE projects SET comments_count = (SELECT COUNT(*) FROM comments WHERE comments.project_id = projects.id) WHERE id = $1`)).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// The handler re-reads the stored comment with its author preloaded.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE "comments"."id" = $1 ORDER BY "comments"."id" LIMIT $2`)).
		WithArgs(42, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "user_id", "project_id"}).
			AddRow(42, "Great project", "auth0|sam", 7))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs("auth0|sam").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("auth0|sam", "Sam"))

	req := httptest.NewRequest(http.MethodPost, "/api/comment/7", strings.NewReader("content=Great+project"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	req.Header.Set(fiber.HeaderReferer, "/projects/7")
	req.Header.Set("Authorization", bearerFor(t, "auth0|sam"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/projects/7", resp.Header.Get(fiber.HeaderLocation))
	assert.NotEmpty(t, flashCookieValue(t, resp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServer_GetComments(t *testing.T) {
	s, mock := interactionServer(t)
	app := interactionApp(s)

	t.Run("invalid id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/projects/abc/comments", nil))
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing project", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT projects.*, false AS liked FROM "projects"`)).
			WithArgs(99, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/projects/99/comments", nil))
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
