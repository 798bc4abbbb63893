package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pe-odake/Portifolio-Web/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// readBody drains and closes a test response body.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// setupMockDB creates a GORM *gorm.DB backed by sqlmock for unit tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

// --- parsePagination ---

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p := parsePagination(c, 25)
		return c.JSON(fiber.Map{"limit": p.Limit, "offset": p.Offset})
	})

	tests := []struct {
		name           string
		query          string
		expectedLimit  float64
		expectedOffset float64
	}{
		{"defaults", "", 25, 0},
		{"custom values", "?limit=10&offset=30", 10, 30},
		{"limit clamped to maximum", "?limit=5000", 100, 0},
		{"zero limit falls back to default", "?limit=0", 25, 0},
		{"negative offset floors at zero", "?offset=-5", 25, 0},
		{"non-numeric ignored", "?limit=abc&offset=xyz", 25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			var body map[string]float64
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.expectedLimit, body["limit"])
			assert.Equal(t, tt.expectedOffset, body["offset"])
		})
	}
}

// --- parseID ---

func TestParseID(t *testing.T) {
	s := &Server{}
	app := fiber.New()
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "id")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{"valid id", "/items/42", http.StatusOK},
		{"non-numeric id", "/items/abc", http.StatusBadRequest},
		{"zero id", "/items/0", http.StatusBadRequest},
		{"negative id", "/items/-3", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedStatus == http.StatusOK {
				var body map[string]float64
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, float64(42), body["id"])
			}
		})
	}
}

// --- errorStatus ---

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation error", models.NewValidationError("bad input"), fiber.StatusBadRequest},
		{"not found error", models.NewNotFoundError("Project", 7), fiber.StatusNotFound},
		{"unauthorized error", models.NewUnauthorizedError("nope"), fiber.StatusForbidden},
		{"internal error", models.NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{"plain error", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errorStatus(tt.err))
		})
	}
}

// --- currentUserID ---

func TestCurrentUserID(t *testing.T) {
	app := fiber.New()
	app.Get("/me", func(c *fiber.Ctx) error {
		c.Locals("userID", "auth0|abc")
		return c.SendString(currentUserID(c))
	})
	app.Get("/anon", func(c *fiber.Ctx) error {
		return c.SendString("[" + currentUserID(c) + "]")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, "auth0|abc", body)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/anon", nil))
	require.NoError(t, err)
	body = readBody(t, resp)
	assert.Equal(t, "[]", body)
}

// --- isFormPost ---

func TestIsFormPost(t *testing.T) {
	var got bool
	app := fiber.New()
	app.Post("/submit", func(c *fiber.Ctx) error {
		got = isFormPost(c)
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		name        string
		contentType string
		expected    bool
	}{
		{"urlencoded form", fiber.MIMEApplicationForm, true},
		{"multipart form", fiber.MIMEMultipartForm + "; boundary=x", true},
		{"json", fiber.MIMEApplicationJSON, false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/submit", nil)
			if tt.contentType != "" {
				req.Header.Set(fiber.HeaderContentType, tt.contentType)
			}
			_, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
