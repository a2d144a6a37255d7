package middleware

import (
	"errors"
	"strings"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type (
	Middleware interface {
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		AdminOnly() fiber.Handler
		CORSMiddleware() fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

// bearerToken accepts both "Bearer <jwt>" and the "Token <jwt>" scheme used
// by the frontend.
func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok {
		return "", false
	}
	switch strings.ToLower(scheme) {
	case "bearer", "token":
		token = strings.TrimSpace(token)
		return token, token != ""
	default:
		return "", false
	}
}

// tokenError rejects a bad token with 401 and a failing denylist lookup
// with 503.
func tokenError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrTokenInvalid) || errors.Is(err, domain.ErrTokenExpired) || errors.Is(err, domain.ErrTokenRevoked) {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
	}
	return presenters.ErrorResponse(c, fiber.StatusServiceUnavailable, domain.MessageFailedProcessRequest, err)
}

func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedUnauthorized, domain.ErrTokenNotFound)
		}

		userID, role, err := jwtService.GetUserIDByToken(c.UserContext(), token)
		if err != nil {
			return tokenError(c, err)
		}

		c.Locals("token", token)
		c.Locals("user_id", userID)
		c.Locals("role", role)
		return c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a valid token is sent
// and lets anonymous requests through otherwise.
func (m *middleware) OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return c.Next()
		}

		userID, role, err := jwtService.GetUserIDByToken(c.UserContext(), token)
		if err != nil {
			return tokenError(c, err)
		}

		c.Locals("token", token)
		c.Locals("user_id", userID)
		c.Locals("role", role)
		return c.Next()
	}
}

// AdminOnly must run after AuthMiddleware.
func (m *middleware) AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if role != domain.RoleAdmin {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MesaageUserNotAllowed, domain.ErrUserNotAllowed)
		}
		return c.Next()
	}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept,Authorization",
		ExposeHeaders: "Content-Disposition",
	})
}

// ViewerFromCtx reads the identity stored by the auth middlewares. Anonymous
// requests produce a zero Viewer.
func ViewerFromCtx(c *fiber.Ctx) domain.Viewer {
	userID, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)
	return domain.Viewer{UserID: userID, Role: role}
}
