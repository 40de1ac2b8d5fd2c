package session

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// LocalsKey is where Require stores the resolved UserSession.
const LocalsKey = "session"

// Require runs after the JWT middleware. The token's sid claim must name a
// live session owned by the token's user_id; the session's activity time is
// refreshed on every request.
func Require(store Store, log *zap.Logger) fiber.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		claims, ok := tokenClaims(c)
		if !ok {
			return unauthorized(c)
		}
		sid, _ := claims["sid"].(string)
		if sid == "" {
			return unauthorized(c)
		}

		s, err := store.Get(c.UserContext(), sid)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				log.Error("session lookup", zap.Error(err))
			}
			return unauthorized(c)
		}
		if uid, ok := claimInt(claims, "user_id"); !ok || uid != s.UserID {
			return unauthorized(c)
		}

		if err := store.Touch(c.UserContext(), sid, time.Now().UTC()); err != nil && !errors.Is(err, ErrNotFound) {
			log.Warn("session touch", zap.String("sid", sid), zap.Error(err))
		}
		c.Locals(LocalsKey, s)
		return c.Next()
	}
}

// FromCtx returns the session stored by Require.
func FromCtx(c *fiber.Ctx) (UserSession, bool) {
	s, ok := c.Locals(LocalsKey).(UserSession)
	return s, ok
}

func tokenClaims(c *fiber.Ctx) (jwt.MapClaims, bool) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok || tok == nil {
		return nil, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	return claims, ok
}

func claimInt(claims jwt.MapClaims, name string) (int, bool) {
	switch v := claims[name].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired session"})
}
