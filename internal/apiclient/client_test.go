package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskfolio/taskfolio-web/internal/logging"
	"github.com/taskfolio/taskfolio-web/internal/projects/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	client, err := New(Options{BaseURL: server.URL + "/api/"})
	require.NoError(t, err)
	return client, server
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := New(Options{BaseURL: "/api"})
	assert.Error(t, err)
}

func TestClient_Auth(t *testing.T) {
	t.Run("returns the session user and sends jar cookies", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/users/auth", r.URL.Path)
			ck, err := r.Cookie("connect.sid")
			require.NoError(t, err)
			assert.Equal(t, "s%3Aabc", ck.Value)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"user":{"_id":"u1","name":"Ada","email":"ada@example.com"}}`))
		})

		jar := NewJar(map[string]string{"connect.sid": "s%3Aabc"})
		user, err := client.WithJar(jar).Auth(context.Background())
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, "Ada", user.Name)
		assert.False(t, jar.Changed())
	})

	t.Run("401 is reported as unauthorized", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Not authenticated"}`))
		})

		user, err := client.Auth(context.Background())
		assert.Nil(t, user)
		require.Error(t, err)
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("2xx without a user is anonymous", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		})

		user, err := client.Auth(context.Background())
		assert.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestClient_Login(t *testing.T) {
	t.Run("stores the session cookie", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			var body LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ada@example.com", body.Email)
			assert.Equal(t, "secret123", body.Password)

			http.SetCookie(w, &http.Cookie{Name: "connect.sid", Value: "fresh", Path: "/"})
			_, _ = w.Write([]byte(`{"user":{"id":"u1","name":"Ada"}}`))
		})

		jar := NewJar(nil)
		user, err := client.WithJar(jar).Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.True(t, jar.Changed())
		assert.Equal(t, map[string]string{"connect.sid": "fresh"}, jar.Snapshot())
	})

	t.Run("backend message is surfaced", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Email or password is not correct"}`))
		})

		_, err := client.Login(context.Background(), LoginRequest{Email: "a@b.co", Password: "x"})
		require.Error(t, err)
		assert.Equal(t, "Email or password is not correct", UserMessage(err, "Login failed. Please try again."))
	})

	t.Run("falls back when the backend sends no message", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`<html>oops</html>`))
		})

		_, err := client.Login(context.Background(), LoginRequest{})
		require.Error(t, err)
		assert.False(t, IsUnauthorized(err))
		assert.Equal(t, "Login failed. Please try again.", UserMessage(err, "Login failed. Please try again."))
	})

	t.Run("missing user is an error", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		_, err := client.Login(context.Background(), LoginRequest{})
		assert.Error(t, err)
	})
}

func TestClient_LogoutExpiresCookie(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/logout", r.URL.Path)
		http.SetCookie(w, &http.Cookie{Name: "connect.sid", Value: "", MaxAge: -1})
		w.WriteHeader(http.StatusNoContent)
	})

	jar := NewJar(map[string]string{"connect.sid": "old", "theme": "dark"})
	require.NoError(t, client.WithJar(jar).Logout(context.Background()))
	assert.Equal(t, map[string]string{"theme": "dark"}, jar.Snapshot())
	assert.True(t, jar.Changed())
}

func TestClient_Register(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ada", body["name"])
		assert.Equal(t, "secret123", body["confirmPassword"])
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"User registered"}`))
	})

	err := client.Register(context.Background(), RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "secret123", ConfirmPassword: "secret123",
	})
	assert.NoError(t, err)
}

func TestClient_ListProjects(t *testing.T) {
	t.Run("sends the committed search term once", func(t *testing.T) {
		var calls int32
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			assert.Equal(t, "/api/projects", r.URL.Path)
			assert.Equal(t, "alpha", r.URL.Query().Get("search"))
			_, _ = w.Write([]byte(`[{"id":"p1","name":"Alpha","dueDate":"2025-07-01","status":"completed","owner":{"id":"u1","name":"Ada"}}]`))
		})

		items, err := client.ListProjects(context.Background(), "  alpha ")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Alpha", items[0].Name)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("blank search omits the parameter", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.URL.RawQuery)
			_, _ = w.Write([]byte(`[]`))
		})

		items, err := client.ListProjects(context.Background(), "   ")
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestClient_ProjectCRUD(t *testing.T) {
	var seen []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.EscapedPath())
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"_id":"a/b","name":"Alpha","dueDate":"2025-07-01T00:00:00.000Z","status":"in-progress","owner":{"_id":"u1"}}`))
		case http.MethodPost, http.MethodPut:
			var in domain.ProjectInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "Alpha", in.Name)
			assert.Equal(t, "2025-07-01", in.DueDate)
			_, _ = w.Write([]byte(`{"id":"a/b","name":"Alpha","dueDate":"2025-07-01","status":"not-started"}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()
	in := domain.ProjectInput{Name: "Alpha", DueDate: "2025-07-01", Status: domain.StatusNotStarted}

	p, err := client.GetProject(ctx, "a/b")
	require.NoError(t, err)
	assert.Equal(t, "a/b", p.ID)

	require.NoError(t, client.CreateProject(ctx, in))
	require.NoError(t, client.UpdateProject(ctx, "a/b", in))
	require.NoError(t, client.DeleteProject(ctx, "a/b"))

	assert.Equal(t, []string{
		"GET /api/projects/a%2Fb",
		"POST /api/projects",
		"PUT /api/projects/a%2Fb",
		"DELETE /api/projects/a%2Fb",
	}, seen)
}

func TestClient_WritesIgnoreResponseBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"p1","dueDate":"07/01/2025","status":42}`))
	})
	in := domain.ProjectInput{Name: "Alpha", DueDate: "2025-07-01", Status: domain.StatusNotStarted}

	assert.NoError(t, client.CreateProject(context.Background(), in))
	assert.NoError(t, client.UpdateProject(context.Background(), "p1", in))
}

func TestClient_UploadImage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/files/upload", r.URL.Path)
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "cover.png", header.Filename)
		assert.Equal(t, "png-bytes", string(data))
		_, _ = w.Write([]byte(`{"imageId":"img1","imageUrl":"https://cdn.example.com/img1.png"}`))
	})

	img, err := client.UploadImage(context.Background(), "/tmp/cover.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "img1", img.ImageID)
	assert.Equal(t, "https://cdn.example.com/img1.png", img.ImageURL)
}

func TestClient_PropagatesRequestID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "rid-1", r.Header.Get("X-Request-Id"))
		_, _ = w.Write([]byte(`[]`))
	})

	ctx := logging.WithRequestID(context.Background(), "rid-1")
	_, err := client.ListProjects(ctx, "")
	assert.NoError(t, err)
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client, err := New(Options{BaseURL: server.URL})
	require.NoError(t, err)
	server.Close()

	_, err = client.ListProjects(context.Background(), "")
	require.Error(t, err)
	assert.False(t, IsUnauthorized(err))
	assert.Equal(t, "Failed", UserMessage(err, "Failed"))
}

func TestClient_Ping(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	status, err := client.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)
}
