package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"animehub/pkg/models"
)

const sessionName = "animehub_session"

// Sessions is the cookie-backed identity adapter for the server-rendered
// surface. It resolves to the same Claims the token adapter produces.
type Sessions struct {
	store *sessions.CookieStore
}

func NewSessions(secret string, secure bool) *Sessions {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}
}

func (s *Sessions) get(c *gin.Context) *sessions.Session {
	// Get returns a fresh session when the cookie is absent or broken
	sess, _ := s.store.Get(c.Request, sessionName)
	return sess
}

func (s *Sessions) SetUser(c *gin.Context, u *models.User) error {
	sess := s.get(c)
	sess.Values["user_id"] = u.ID
	sess.Values["email"] = u.Email
	sess.Values["name"] = u.Name
	return sess.Save(c.Request, c.Writer)
}

func (s *Sessions) Clear(c *gin.Context) error {
	sess := s.get(c)
	delete(sess.Values, "user_id")
	delete(sess.Values, "email")
	delete(sess.Values, "name")
	sess.Options.MaxAge = -1
	return sess.Save(c.Request, c.Writer)
}

// User returns the session identity, or nil when not logged in.
func (s *Sessions) User(c *gin.Context) *Claims {
	sess := s.get(c)
	id, ok := sess.Values["user_id"].(int64)
	if !ok {
		return nil
	}
	email, _ := sess.Values["email"].(string)
	name, _ := sess.Values["name"].(string)
	return &Claims{UserID: id, Email: email, Name: name}
}

// Flash queues a one-shot message ("success" or "error") for the next
// rendered page.
func (s *Sessions) Flash(c *gin.Context, kind, msg string) {
	sess := s.get(c)
	sess.AddFlash(msg, kind)
	if err := sess.Save(c.Request, c.Writer); err != nil {
		logrus.WithError(err).Warn("save flash")
	}
}

// Flashes drains and returns queued messages of the given kind.
func (s *Sessions) Flashes(c *gin.Context, kind string) []string {
	sess := s.get(c)
	raw := sess.Flashes(kind)
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(c.Request, c.Writer)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// RequireSession guards the interactive surface. Plain navigation redirects
// to the login page with a flash; HTMX requests get an inline error
// fragment instead, so the partial swap shows the message in place.
func RequireSession(s *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := s.User(c)
		if user == nil {
			if c.GetHeader("HX-Request") != "" {
				c.HTML(http.StatusOK, "partials/error.html", gin.H{
					"error": "You need to log in to do that",
				})
			} else {
				s.Flash(c, "error", "You need to log in")
				c.Redirect(http.StatusSeeOther, "/login")
			}
			c.Abort()
			return
		}
		c.Set(CtxClaimsKey, user)
		c.Next()
	}
}
