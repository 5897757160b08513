package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskfolio/taskfolio-web/internal/apiclient"
	"github.com/taskfolio/taskfolio-web/internal/auth/domain"
)

type fakeAPI struct {
	authUser  *domain.User
	authErr   error
	loginUser *domain.User
	loginErr  error
	logoutErr error

	authCalls   int
	loginCalls  int
	logoutCalls int
	lastLogin   apiclient.LoginRequest
}

func (f *fakeAPI) Auth(ctx context.Context) (*domain.User, error) {
	f.authCalls++
	return f.authUser, f.authErr
}

func (f *fakeAPI) Login(ctx context.Context, in apiclient.LoginRequest) (*domain.User, error) {
	f.loginCalls++
	f.lastLogin = in
	return f.loginUser, f.loginErr
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

var ada = &domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}

func TestContext_Init(t *testing.T) {
	t.Run("stores the probed user", func(t *testing.T) {
		api := &fakeAPI{authUser: ada}
		ac := NewContext(api, apiclient.NewJar(nil), &domain.Session{ID: "s1"})

		ac.Init(context.Background())

		assert.True(t, ac.IsAuthenticated())
		assert.Equal(t, ada, ac.User())
		assert.True(t, ac.Dirty())
	})

	t.Run("401 leaves the session anonymous", func(t *testing.T) {
		api := &fakeAPI{authErr: &apiclient.APIError{Operation: "auth", Status: http.StatusUnauthorized}}
		ac := NewContext(api, apiclient.NewJar(nil), &domain.Session{ID: "s1"})

		ac.Init(context.Background())

		assert.False(t, ac.IsAuthenticated())
		assert.Nil(t, ac.User())
		assert.True(t, ac.Session().Probed)
	})

	t.Run("probes once per session", func(t *testing.T) {
		api := &fakeAPI{authUser: ada}
		sess := &domain.Session{ID: "s1"}
		NewContext(api, apiclient.NewJar(nil), sess).Init(context.Background())
		ac := NewContext(api, apiclient.NewJar(nil), sess)
		ac.Init(context.Background())

		assert.Equal(t, 1, api.authCalls)
		assert.False(t, ac.Dirty())
	})
}

func TestContext_Login(t *testing.T) {
	t.Run("success replaces the user", func(t *testing.T) {
		api := &fakeAPI{loginUser: ada}
		ac := NewContext(api, apiclient.NewJar(nil), &domain.Session{ID: "s1", Probed: true})

		user, err := ac.Login(context.Background(), "ada@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, ada, user)
		assert.Equal(t, ada, ac.User())
		assert.Equal(t, "ada@example.com", api.lastLogin.Email)
	})

	t.Run("failure is returned and state kept", func(t *testing.T) {
		api := &fakeAPI{loginErr: &apiclient.APIError{Operation: "login", Status: 400, Message: "Invalid credentials"}}
		ac := NewContext(api, apiclient.NewJar(nil), &domain.Session{ID: "s1", Probed: true})

		_, err := ac.Login(context.Background(), "ada@example.com", "wrong-pass1")
		require.Error(t, err)
		assert.Equal(t, "Invalid credentials", apiclient.UserMessage(err, "fallback"))
		assert.False(t, ac.IsAuthenticated())
		assert.False(t, ac.Dirty())
	})
}

func TestContext_Logout(t *testing.T) {
	for name, logoutErr := range map[string]error{
		"request succeeds": nil,
		"request fails":    errors.New("connection refused"),
	} {
		t.Run(name, func(t *testing.T) {
			api := &fakeAPI{logoutErr: logoutErr}
			jar := apiclient.NewJar(map[string]string{"connect.sid": "abc"})
			ac := NewContext(api, jar, &domain.Session{ID: "s1", Probed: true, User: ada})

			ac.Logout(context.Background())

			assert.Equal(t, 1, api.logoutCalls)
			assert.False(t, ac.IsAuthenticated())
			assert.Empty(t, ac.Session().Cookies)
			assert.True(t, ac.Dirty())
		})
	}
}

func TestContext_RenewsSessionID(t *testing.T) {
	ids := []string{"s2", "s3"}
	renew := func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	api := &fakeAPI{loginUser: ada}
	jar := apiclient.NewJar(map[string]string{"connect.sid": "abc"})
	ac := NewContext(api, jar, &domain.Session{ID: "s1", Probed: true, Flash: "hello"})
	ac.OnRenew(renew)
	assert.Empty(t, ac.Replaced())

	_, err := ac.Login(context.Background(), "ada@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "s2", ac.Session().ID)
	assert.Equal(t, "s1", ac.Replaced())
	assert.Equal(t, ada, ac.User())
	assert.Equal(t, "hello", ac.Session().Flash)
	assert.Equal(t, "abc", ac.Session().Cookies["connect.sid"])

	ac.Logout(context.Background())
	assert.Equal(t, "s3", ac.Session().ID)
	assert.Equal(t, "s1", ac.Replaced(), "the stored record is the first ID")

	t.Run("failed login keeps the ID", func(t *testing.T) {
		api := &fakeAPI{loginErr: errors.New("boom")}
		ac := NewContext(api, apiclient.NewJar(nil), &domain.Session{ID: "s1", Probed: true})
		ac.OnRenew(func() string { return "never" })

		_, err := ac.Login(context.Background(), "ada@example.com", "secret123")
		require.Error(t, err)
		assert.Equal(t, "s1", ac.Session().ID)
		assert.Empty(t, ac.Replaced())
	})
}

func TestContext_Observe(t *testing.T) {
	ac := NewContext(&fakeAPI{}, apiclient.NewJar(nil), &domain.Session{ID: "s1", Probed: true, User: ada})

	ac.Observe(errors.New("network down"))
	assert.True(t, ac.IsAuthenticated())
	assert.False(t, ac.Dirty())

	ac.Observe(&apiclient.APIError{Status: http.StatusForbidden})
	assert.True(t, ac.IsAuthenticated())

	ac.Observe(&apiclient.APIError{Status: http.StatusUnauthorized})
	assert.False(t, ac.IsAuthenticated())
	assert.True(t, ac.Dirty())
}

func TestContext_Flash(t *testing.T) {
	ac := NewContext(&fakeAPI{}, nil, &domain.Session{ID: "s1", Probed: true})

	assert.Equal(t, "", ac.PopFlash())
	assert.False(t, ac.Dirty())

	ac.SetFlash("Login successful!")
	assert.Equal(t, "Login successful!", ac.PopFlash())
	assert.Equal(t, "", ac.PopFlash())
}
