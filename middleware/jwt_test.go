package middleware_test

import (
	"edulearn/config"
	"edulearn/middleware"
	"edulearn/models"
	"edulearn/testutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	config.Testing()
	user := models.User{Email: "a@example.com", Fullname: "A", Role: models.RoleStudent}
	user.ID = 42

	access, err := middleware.GenerateAccessToken(user)
	require.NoError(t, err)
	id, err := middleware.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	refresh, err := middleware.GenerateRefreshToken(user)
	require.NoError(t, err)
	id, err = middleware.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	// Each token only verifies against its own secret.
	_, err = middleware.ParseRefreshToken(access)
	assert.Error(t, err)
	_, err = middleware.ParseAccessToken(refresh)
	assert.Error(t, err)
}

func TestParseRejectsBadTokens(t *testing.T) {
	cfg := config.Testing()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": 1,
		"exp":    time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte(cfg.AccessTokenSecret))
	require.NoError(t, err)

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	noUserSigned, err := noUser.SignedString([]byte(cfg.AccessTokenSecret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage": "not.a.token",
		"expired": signed,
		"no user": noUserSigned,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := middleware.ParseAccessToken(token)
			assert.Error(t, err)
		})
	}
}

func TestJWTMiddleware(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, models.RoleInstructor)
	deleted := testutil.CreateUser(t, db, models.RoleStudent)
	require.NoError(t, db.Model(&deleted).Update("is_deleted", true).Error)

	app := fiber.New()
	app.Get("/whoami", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"userId": c.Locals("userId"), "role": c.Locals("role")})
	})

	token, err := middleware.GenerateAccessToken(user)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{name: "bearer header", header: "Bearer " + token, want: fiber.StatusOK},
		{name: "cookie", cookie: token, want: fiber.StatusOK},
		{name: "missing", want: fiber.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, want: fiber.StatusUnauthorized},
		{name: "bad token", header: "Bearer abc", want: fiber.StatusUnauthorized},
		{name: "deleted user", header: testutil.Bearer(t, deleted), want: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: tt.cookie})
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequireRole(t *testing.T) {
	db := testutil.NewDB(t)
	student := testutil.CreateUser(t, db, models.RoleStudent)

	app := fiber.New()
	app.Get("/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/no-auth", middleware.RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", testutil.Bearer(t, student))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/no-auth", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/plain", func(c *fiber.Ctx) error { return assert.AnError })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fiber", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/plain", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
