package middleware

import (
	"errors"
	"log/slog"
	"time"

	"storefront/internal/session"

	"github.com/gofiber/fiber/v2"
)

const sessionLocal = "session"

// SessionConfig configures Sessions.
type SessionConfig struct {
	Store      session.Store
	CookieName string
	TTL        time.Duration
	Secure     bool
	Log        *slog.Logger
}

// CurrentSession returns the session loaded by Sessions.
func CurrentSession(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(sessionLocal).(*session.Session)
	return sess
}

// Sessions loads the visitor's session from the cookie, or starts a new one,
// and saves it after the handler ran if it changed.
func Sessions(cfg SessionConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		var sess *session.Session
		if id := c.Cookies(cfg.CookieName); id != "" {
			loaded, err := cfg.Store.Load(ctx, id)
			switch {
			case err == nil:
				sess = loaded
			case errors.Is(err, session.ErrNotFound):
			default:
				cfg.Log.Error("failed to load session", "error", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "Could not load session",
				})
			}
		}
		if sess == nil {
			sess = session.New()
		}
		c.Locals(sessionLocal, sess)

		err := c.Next()

		if sess.Dirty() {
			if saveErr := cfg.Store.Save(ctx, sess); saveErr != nil {
				cfg.Log.Error("failed to save session", "session_id", sess.ID(), "error", saveErr)
				return saveErr
			}
			sess.MarkClean()
			c.Cookie(&fiber.Cookie{
				Name:     cfg.CookieName,
				Value:    sess.ID(),
				Path:     "/",
				Expires:  time.Now().Add(cfg.TTL),
				HTTPOnly: true,
				Secure:   cfg.Secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		return err
	}
}
