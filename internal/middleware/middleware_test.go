package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodgram/domain"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(jwtService jwt.JWTService) *fiber.App {
	m := NewMiddleware()
	app := fiber.New()
	app.Get("/private", m.AuthMiddleware(jwtService), func(c *fiber.Ctx) error {
		return c.SendString(ViewerFromCtx(c).UserID)
	})
	app.Get("/admin", m.AuthMiddleware(jwtService), m.AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/public", m.OptionalAuthMiddleware(jwtService), func(c *fiber.Ctx) error {
		if ViewerFromCtx(c).IsAnonymous() {
			return c.SendString("anonymous")
		}
		return c.SendString(ViewerFromCtx(c).UserID)
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Token "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", nil)
	app := newTestApp(jwtService)

	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/private", "").StatusCode)
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/private", "garbage").StatusCode)

	token := jwtService.GenerateTokenUser("user-1", domain.RoleUser)
	assert.Equal(t, fiber.StatusOK, get(t, app, "/private", token).StatusCode)
}

func TestAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", nil)
	app := newTestApp(jwtService)

	token := jwtService.GenerateTokenUser("user-1", domain.RoleUser)
	req := httptest.NewRequest(fiber.MethodGet, "/private", nil)
	require.NoError(t, jwtService.RevokeToken(req.Context(), token))

	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/private", token).StatusCode)
}

func TestAdminOnly(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", nil)
	app := newTestApp(jwtService)

	user := jwtService.GenerateTokenUser("user-1", domain.RoleUser)
	admin := jwtService.GenerateTokenUser("admin-1", domain.RoleAdmin)

	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/admin", user).StatusCode)
	assert.Equal(t, fiber.StatusOK, get(t, app, "/admin", admin).StatusCode)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", nil)
	app := newTestApp(jwtService)

	assert.Equal(t, fiber.StatusOK, get(t, app, "/public", "").StatusCode)
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/public", "garbage").StatusCode)

	token := jwtService.GenerateTokenUser("user-1", domain.RoleUser)
	assert.Equal(t, fiber.StatusOK, get(t, app, "/public", token).StatusCode)
}

type unreachableDenylist struct{}

func (unreachableDenylist) Revoke(context.Context, string, time.Duration) error {
	return errors.New("connection refused")
}

func (unreachableDenylist) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("connection refused")
}

func TestDenylistOutageIsServiceUnavailable(t *testing.T) {
	jwtService := jwt.NewJWTService("secret", unreachableDenylist{})
	app := newTestApp(jwtService)
	token := jwtService.GenerateTokenUser("user-1", domain.RoleUser)

	assert.Equal(t, fiber.StatusServiceUnavailable, get(t, app, "/private", token).StatusCode)
	assert.Equal(t, fiber.StatusServiceUnavailable, get(t, app, "/public", token).StatusCode)
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/public", "garbage").StatusCode)
}
