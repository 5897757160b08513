package bootstrap

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/taskfolio/taskfolio-web/internal/api/http"
	"github.com/taskfolio/taskfolio-web/internal/api/http/middleware"
	"github.com/taskfolio/taskfolio-web/internal/apiclient"
	authhttp "github.com/taskfolio/taskfolio-web/internal/auth/http"
	authmw "github.com/taskfolio/taskfolio-web/internal/auth/middleware"
	authservice "github.com/taskfolio/taskfolio-web/internal/auth/service"
	projecthttp "github.com/taskfolio/taskfolio-web/internal/projects/http"
	projectservice "github.com/taskfolio/taskfolio-web/internal/projects/service"
	"github.com/taskfolio/taskfolio-web/internal/web"
)

const loginPath = "/user/login"

type RouterDeps struct {
	ServiceName    string
	Version        string
	API            *apiclient.Client
	Sessions       authmw.SessionStore
	SessionOptions authmw.SessionOptions
	// AllowedOrigins for the JSON session endpoint; empty allows none.
	AllowedOrigins []string
	Backend        httpapi.BackendStatus
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestIDMiddleware())
	if len(dep.AllowedOrigins) > 0 {
		// Engine-level so preflights, which match no route, still get answered.
		r.Use(apiCORS(dep.AllowedOrigins))
	}
	r.HTMLRender = renderer

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Backend)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	app := r.Group("")
	app.Use(authmw.Sessions(dep.Sessions, dep.API, dep.SessionOptions))

	app.GET("/", func(c *gin.Context) {
		web.HTML(c, http.StatusOK, "home", "", nil)
	})
	web.RegisterValidation(app)

	authHandler := authhttp.New(authservice.NewAuthService())
	authHandler.Register(app)

	authHandler.RegisterAPI(app.Group("/api"))

	projectHandler := projecthttp.New(projectservice.NewProjectService())
	projectHandler.Register(app.Group("/projects"), authmw.RequireUser(loginPath))

	return r, nil
}

// apiCORS applies the CORS policy to /api paths only.
func apiCORS(origins []string) gin.HandlerFunc {
	handler := cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: true,
	})
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			return
		}
		handler(c)
	}
}
