package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"

	"assistance-service/internal/utils"
)

// TokenClaims is the gateway-issued JWT payload.
type TokenClaims struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// UserIDKey is the fiber local under which middleware stores the caller id.
const UserIDKey = "auth_user_id"

// NewJWTMiddleware validates the gateway bearer token and stores the caller
// identity in request locals. When the gateway already terminated auth and
// forwards X-User-ID, that header wins and the token is not required.
func NewJWTMiddleware(secret string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if userID := c.Get("X-User-ID"); userID != "" {
			c.Locals(UserIDKey, userID)
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(http.StatusUnauthorized).JSON(
				utils.CreateErrorResponse("UNAUTHORIZED", "Missing credentials"))
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &TokenClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.UserID == "" {
			return c.Status(http.StatusUnauthorized).JSON(
				utils.CreateErrorResponse("UNAUTHORIZED", "Invalid token"))
		}

		c.Locals(UserIDKey, claims.UserID)
		return c.Next()
	}
}

// CallerID extracts the authenticated caller from request locals.
func CallerID(c fiber.Ctx) string {
	if v, ok := c.Locals(UserIDKey).(string); ok {
		return v
	}
	return ""
}
