package http

import (
	"github.com/taskfolio/taskfolio-web/internal/forms"
	"github.com/taskfolio/taskfolio-web/internal/projects/service"
	"github.com/taskfolio/taskfolio-web/internal/web"
)

// Handler bundles the dependencies for the project views.
type Handler struct {
	svc *service.ProjectService
}

func New(svc *service.ProjectService) *Handler {
	return &Handler{svc: svc}
}

type listView struct {
	Search string
	Cards  []Card
	Error  string
	CanAdd bool
}

// formView backs the add and edit pages.
type formView struct {
	web.FormState
	ID         string
	Form       forms.Project
	Notice     string
	LoadFailed bool
}

type deleteView struct {
	ID    string
	Error string
}
