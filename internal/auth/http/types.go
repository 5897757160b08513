package http

import (
	"github.com/taskfolio/taskfolio-web/internal/auth/domain"
	"github.com/taskfolio/taskfolio-web/internal/auth/service"
	"github.com/taskfolio/taskfolio-web/internal/forms"
	"github.com/taskfolio/taskfolio-web/internal/web"
)

type Handler struct {
	authService *service.AuthService
}

func New(authService *service.AuthService) *Handler {
	return &Handler{
		authService: authService,
	}
}

// loginView is the login page. The password is never echoed back.
type loginView struct {
	web.FormState
	Form forms.Login
}

type registerView struct {
	web.FormState
	Form forms.Register
}

type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *domain.User `json:"user"`
}
