package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/taskfolio/taskfolio-web/internal/forms"
	"github.com/taskfolio/taskfolio-web/internal/logging"
	"github.com/taskfolio/taskfolio-web/internal/projects/domain"
)

const (
	LoadFailed   = "Failed to load project"
	ListFailed   = "Failed to load projects"
	AddFailed    = "Failed to add project"
	UpdateFailed = "Failed to update project"
	DeleteFailed = "Failed to delete project"
	UploadFailed = "Image upload failed"
)

var ErrNotAnImage = errors.New("only image files can be uploaded")

// Backend is the project side of the REST client, bound to one session.
type Backend interface {
	ListProjects(ctx context.Context, search string) ([]domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	CreateProject(ctx context.Context, in domain.ProjectInput) error
	UpdateProject(ctx context.Context, id string, in domain.ProjectInput) error
	DeleteProject(ctx context.Context, id string) error
	UploadImage(ctx context.Context, filename string, r io.Reader) (*domain.Image, error)
}

// ProjectService runs the project views' flows against the backend.
type ProjectService struct{}

func NewProjectService() *ProjectService {
	return &ProjectService{}
}

// List fetches the collection filtered by the committed search term.
func (s *ProjectService) List(ctx context.Context, api Backend, search string) ([]domain.Project, error) {
	items, err := api.ListProjects(ctx, strings.TrimSpace(search))
	if err != nil {
		logging.New(ctx).LogError("list_projects", err)
		return nil, err
	}
	return items, nil
}

// Get loads one project for the edit view.
func (s *ProjectService) Get(ctx context.Context, api Backend, id string) (*domain.Project, error) {
	p, err := api.GetProject(ctx, id)
	if err != nil {
		logging.New(ctx).LogError("get_project", err)
		return nil, err
	}
	return p, nil
}

// Create validates and submits the add form. A non-nil Errors means no
// request was made.
func (s *ProjectService) Create(ctx context.Context, api Backend, form *forms.Project) (forms.Errors, error) {
	form.Normalize()
	if errs := forms.Validate(form); errs != nil {
		return errs, nil
	}
	// The add view never carries an image.
	in := form.Input()
	in.ImageID, in.ImageURL = "", ""

	if err := api.CreateProject(ctx, in); err != nil {
		logging.New(ctx).LogError("create_project", err)
		return nil, err
	}
	logging.New(ctx).LogInfof("create_project", "project %q created", in.Name)
	return nil, nil
}

// Update validates and submits the edit form as a single PUT.
func (s *ProjectService) Update(ctx context.Context, api Backend, id string, form *forms.Project) (forms.Errors, error) {
	form.Normalize()
	if errs := forms.Validate(form); errs != nil {
		return errs, nil
	}
	if err := api.UpdateProject(ctx, id, form.Input()); err != nil {
		logging.New(ctx).LogError("update_project", err)
		return nil, err
	}
	return nil, nil
}

func (s *ProjectService) Delete(ctx context.Context, api Backend, id string) error {
	if err := api.DeleteProject(ctx, id); err != nil {
		logging.New(ctx).LogError("delete_project", err)
		return err
	}
	logging.New(ctx).LogInfof("delete_project", "project_id=%s deleted", id)
	return nil
}

// UploadImage sends an image to the file endpoint. contentType is the part
// header the browser sent; anything that is not image/* is refused before
// reaching the backend.
func (s *ProjectService) UploadImage(ctx context.Context, api Backend, filename, contentType string, r io.Reader) (*domain.Image, error) {
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnImage
	}
	img, err := api.UploadImage(ctx, filename, r)
	if err != nil {
		logging.New(ctx).LogError("upload_image", err)
		return nil, err
	}
	return img, nil
}
