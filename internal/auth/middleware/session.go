package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taskfolio/taskfolio-web/internal/apiclient"
	"github.com/taskfolio/taskfolio-web/internal/auth"
	"github.com/taskfolio/taskfolio-web/internal/auth/domain"
	"github.com/taskfolio/taskfolio-web/internal/logging"
)

// SessionStore persists browser sessions.
type SessionStore interface {
	New() *domain.Session
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type SessionOptions struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Sessions loads (or starts) the browser session, binds a backend client to
// its cookies, initialises the auth context and writes the session back
// after the handler when anything changed.
func Sessions(store SessionStore, client *apiclient.Client, opts SessionOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		logger := logging.New(ctx)

		sess, isNew := loadSession(ctx, c, store, opts.CookieName)
		if isNew {
			logger.LogInfof("session", "starting session_id=%s", sess.ID)
		}
		// The cookie is (re)issued on every request so its expiry slides with
		// the stored session.
		setSessionCookie(c, opts, sess.ID)

		jar := apiclient.NewJar(sess.Cookies)
		api := client.WithJar(jar)
		ac := auth.NewContext(api, jar, sess)
		ac.OnRenew(func() string {
			id := store.New().ID
			setSessionCookie(c, opts, id)
			return id
		})
		ac.Init(ctx)

		c.Set(auth.CtxAuth, ac)
		c.Set(auth.CtxAPI, api)

		c.Next()

		if old := ac.Replaced(); old != "" {
			if !isNew {
				if err := store.Delete(ctx, old); err != nil {
					logger.LogError("session_delete", err)
				}
			}
			logger.LogInfof("session", "rotated session_id=%s", ac.Session().ID)
		}
		if isNew || ac.Dirty() {
			if err := store.Save(ctx, ac.Session()); err != nil {
				logger.LogError("session_save", err)
			}
			return
		}
		if err := store.Touch(ctx, sess.ID); err != nil {
			logger.LogError("session_touch", err)
		}
	}
}

// setSessionCookie replaces any session cookie already queued on the response.
func setSessionCookie(c *gin.Context, opts SessionOptions, id string) {
	header := c.Writer.Header()
	var kept []string
	for _, v := range header.Values("Set-Cookie") {
		if !strings.HasPrefix(v, opts.CookieName+"=") {
			kept = append(kept, v)
		}
	}
	header.Del("Set-Cookie")
	for _, v := range kept {
		header.Add("Set-Cookie", v)
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     opts.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func loadSession(ctx context.Context, c *gin.Context, store SessionStore, cookieName string) (*domain.Session, bool) {
	id, err := c.Cookie(cookieName)
	if err != nil || id == "" {
		return store.New(), true
	}
	if _, err := uuid.Parse(id); err != nil {
		return store.New(), true
	}

	sess, err := store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			logging.New(ctx).LogError("session_load", err)
		}
		return store.New(), true
	}
	return sess, false
}

// RequireUser redirects anonymous visitors to the login page.
func RequireUser(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac := auth.FromGin(c)
		if ac == nil || !ac.IsAuthenticated() {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
