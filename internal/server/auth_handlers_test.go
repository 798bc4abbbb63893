package server

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/pe-odake/Portifolio-Web/internal/repository"
	"github.com/pe-odake/Portifolio-Web/internal/service"
	"github.com/pe-odake/Portifolio-Web/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionApp(s *Server) *fiber.App {
	app := fiber.New()
	auth := app.Group("/api/auth")
	auth.Post("/session", s.AuthRequired(), s.EstablishSession)
	auth.Delete("/session", s.AuthRequired(), s.EndSession)
	return app
}

func TestServer_EstablishSession(t *testing.T) {
	db, mock := setupMockDB(t)
	s := &Server{
		config:      testConfig(),
		userService: service.NewUserService(repository.NewUserRepository(db), repository.NewStatsRepository(db)),
	}
	app := sessionApp(s)

	// Returning user whose profile claims match the stored row: the
	// transaction reads the row and commits without an update.
	mock.ExpectBegin()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "role"}).
		AddRow("auth0|pat", "Pat", "pat@example.com", "owner")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs("auth0|pat", 1).
		WillReturnRows(rows)
	mock.ExpectCommit()

	token := testutil.MintToken(t, testSecret, testutil.TokenOptions{
		Subject:  "auth0|pat",
		Issuer:   "portfolio-auth",
		Audience: "portfolio-api",
		Name:     "Pat",
		Email:    "pat@example.com",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	body := readBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"id":"auth0|pat"`)
	assert.Contains(t, body, `"role":"owner"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServer_EndSession(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	db, mock := setupMockDB(t)
	s := &Server{
		config:      testConfig(),
		redis:       rdb,
		userService: service.NewUserService(repository.NewUserRepository(db), repository.NewStatsRepository(db)),
	}
	app := sessionApp(s)

	token := testutil.MintToken(t, testSecret, testutil.TokenOptions{
		Subject:  "auth0|pat",
		Issuer:   "portfolio-auth",
		Audience: "portfolio-api",
		Mutate: func(claims jwt.MapClaims) {
			claims["jti"] = "session-jti"
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The jti is blacklisted until the token's natural expiry.
	assert.True(t, mr.Exists("blacklist:session-jti"))
	assert.Greater(t, mr.TTL("blacklist:session-jti").Seconds(), 0.0)

	// The same token can no longer establish a session.
	req = httptest.NewRequest(http.MethodPost, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServer_EndSession_NoRedis(t *testing.T) {
	s := &Server{config: testConfig()}
	app := sessionApp(s)

	token := testutil.MintToken(t, testSecret, testutil.TokenOptions{
		Subject:  "auth0|pat",
		Issuer:   "portfolio-auth",
		Audience: "portfolio-api",
	})
	req := httptest.NewRequest(http.MethodDelete, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
