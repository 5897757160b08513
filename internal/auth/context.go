package auth

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/taskfolio/taskfolio-web/internal/apiclient"
	"github.com/taskfolio/taskfolio-web/internal/auth/domain"
	"github.com/taskfolio/taskfolio-web/internal/logging"
)

const (
	CtxAuth = "auth_context"
	CtxAPI  = "api_client"
)

// API is the part of the backend client the auth context drives.
type API interface {
	Auth(ctx context.Context) (*domain.User, error)
	Login(ctx context.Context, in apiclient.LoginRequest) (*domain.User, error)
	Logout(ctx context.Context) error
}

// Context holds the current user of one browser session. It is the only
// state shared between views, and it is only ever written from backend
// responses: the auth probe, login and logout.
type Context struct {
	api     API
	jar     *apiclient.Jar
	session *domain.Session
	dirty   bool

	renew    func() string
	replaced string
}

// NewContext binds a session to the API client that carries its cookies.
func NewContext(api API, jar *apiclient.Jar, session *domain.Session) *Context {
	return &Context{api: api, jar: jar, session: session}
}

// Init probes the backend once per session. Any failure, a 401 included,
// leaves the session anonymous and is not surfaced.
func (a *Context) Init(ctx context.Context) {
	if a.session.Probed {
		return
	}
	user, err := a.api.Auth(ctx)
	if err != nil {
		logging.New(ctx).LogInfof("auth_probe", "treating session as anonymous: %v", err)
		user = nil
	}
	a.session.User = user
	a.session.Probed = true
	a.dirty = true
}

func (a *Context) User() *domain.User {
	return a.session.User
}

func (a *Context) IsAuthenticated() bool {
	return a.session.User != nil
}

// Login posts credentials. On success the returned user replaces the
// stored one; on failure the stored user is untouched and err is returned
// for display.
func (a *Context) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := a.api.Login(ctx, apiclient.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	a.session.User = user
	a.session.Probed = true
	a.dirty = true
	a.rotate()
	return user, nil
}

// Logout posts the logout request and then clears the user and the backend
// cookies whatever the outcome. Request errors are only logged.
func (a *Context) Logout(ctx context.Context) {
	if err := a.api.Logout(ctx); err != nil {
		logging.New(ctx).LogWarnf("logout", "logout request failed, clearing session anyway: %v", err)
	}
	a.session.User = nil
	a.session.Probed = true
	a.jar.Clear()
	a.dirty = true
	a.rotate()
}

// OnRenew installs the function that issues a fresh session ID. Login and
// logout move the session to a new ID so an ID known before the change of
// identity stops working.
func (a *Context) OnRenew(renew func() string) {
	a.renew = renew
}

func (a *Context) rotate() {
	if a.renew == nil {
		return
	}
	if a.replaced == "" {
		a.replaced = a.session.ID
	}
	a.session.ID = a.renew()
	a.dirty = true
}

// Replaced returns the session ID given up by a rotation, if any.
func (a *Context) Replaced() string {
	return a.replaced
}

// Observe clears the user when a backend call reports the session is no
// longer valid.
func (a *Context) Observe(err error) {
	if a.session.User != nil && apiclient.IsUnauthorized(err) {
		a.session.User = nil
		a.dirty = true
	}
}

// SetFlash queues a one-shot message for the next rendered page.
func (a *Context) SetFlash(msg string) {
	a.session.Flash = msg
	a.dirty = true
}

// PopFlash returns and clears the queued message.
func (a *Context) PopFlash() string {
	msg := a.session.PopFlash()
	if msg != "" {
		a.dirty = true
	}
	return msg
}

// Dirty reports whether the session must be written back.
func (a *Context) Dirty() bool {
	return a.dirty || a.jar.Changed()
}

// Session returns the session record with the current cookies folded in.
func (a *Context) Session() *domain.Session {
	if a.jar != nil {
		a.session.Cookies = a.jar.Snapshot()
	}
	return a.session
}

// FromGin returns the auth context installed by the session middleware.
func FromGin(c *gin.Context) *Context {
	if v, ok := c.Get(CtxAuth); ok {
		if ac, ok := v.(*Context); ok {
			return ac
		}
	}
	return nil
}

// APIFromGin returns the backend client bound to the request's session.
func APIFromGin(c *gin.Context) *apiclient.Client {
	if v, ok := c.Get(CtxAPI); ok {
		if api, ok := v.(*apiclient.Client); ok {
			return api
		}
	}
	return nil
}
