package middleware

import (
	"encoding/json"
	"errors"
	"strings"

	"portfolio-backend/internal/application/policies/scope"
	"portfolio-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Sessions are written by the identity service; this module only reads them.
const (
	SessionCookieName  = "portfolio.sid"
	SessionRedisPrefix = "session:"
)

// SessionActor is the JSON stored under session:<sid>.
type SessionActor struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Host     string `json:"host"`
}

// Actor converts the stored session into a scope.Actor. Sessions with an
// unparsable user id or unknown role are rejected.
func (s SessionActor) Actor() (scope.Actor, bool) {
	id, err := uuid.Parse(s.UserID)
	if err != nil || !constants.IsValidRole(s.Role) {
		return scope.Actor{}, false
	}
	return scope.Actor{
		UserID:   id,
		Username: s.Username,
		Role:     constants.Role(s.Role),
		Host:     strings.TrimSpace(s.Host),
	}, true
}

// SessionID extracts the session id from the cookie or a Bearer token.
// Signed cookies of the form "s:<id>.<sig>" are reduced to <id>.
func SessionID(c *fiber.Ctx) string {
	sid := c.Cookies(SessionCookieName)
	if sid == "" {
		if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
			sid = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		}
	}
	if strings.HasPrefix(sid, "s:") {
		sid = strings.SplitN(sid[2:], ".", 2)[0]
	}
	return sid
}

// Session resolves the actor from Redis and stores it in Locals. Requests
// without a valid session continue anonymously; RequireAuth rejects them.
func Session(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := SessionID(c)
		if sid == "" || rdb == nil {
			return c.Next()
		}
		b, err := rdb.Get(c.UserContext(), SessionRedisPrefix+sid).Bytes()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				log.Warn().Err(err).Msg("Session lookup failed")
			}
			return c.Next()
		}
		var stored SessionActor
		if err := json.Unmarshal(b, &stored); err != nil {
			log.Warn().Err(err).Msg("Malformed session payload")
			return c.Next()
		}
		if actor, ok := stored.Actor(); ok {
			SetActor(c, actor)
		}
		return c.Next()
	}
}
