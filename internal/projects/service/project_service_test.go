package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskfolio/taskfolio-web/internal/forms"
	"github.com/taskfolio/taskfolio-web/internal/projects/domain"
)

type fakeBackend struct {
	search  []string
	created []domain.ProjectInput
	updated map[string]domain.ProjectInput
	deleted []string
	uploads int
	err     error
}

func (f *fakeBackend) ListProjects(_ context.Context, search string) ([]domain.Project, error) {
	f.search = append(f.search, search)
	return []domain.Project{{ID: "p1"}}, f.err
}

func (f *fakeBackend) GetProject(_ context.Context, id string) (*domain.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Project{ID: id}, nil
}

func (f *fakeBackend) CreateProject(_ context.Context, in domain.ProjectInput) error {
	f.created = append(f.created, in)
	return f.err
}

func (f *fakeBackend) UpdateProject(_ context.Context, id string, in domain.ProjectInput) error {
	if f.updated == nil {
		f.updated = map[string]domain.ProjectInput{}
	}
	f.updated[id] = in
	return f.err
}

func (f *fakeBackend) DeleteProject(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeBackend) UploadImage(_ context.Context, _ string, r io.Reader) (*domain.Image, error) {
	f.uploads++
	_, _ = io.ReadAll(r)
	return &domain.Image{ImageID: "img1", ImageURL: "https://cdn.test/img1.png"}, f.err
}

func TestProjectService_List(t *testing.T) {
	api := &fakeBackend{}
	items, err := NewProjectService().List(context.Background(), api, "  alpha  ")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, []string{"alpha"}, api.search)
}

func TestProjectService_Create(t *testing.T) {
	svc := NewProjectService()

	t.Run("invalid form is not sent", func(t *testing.T) {
		api := &fakeBackend{}
		errs, err := svc.Create(context.Background(), api, &forms.Project{Name: "ab", DueDate: "2025-07-01", Status: "completed"})
		require.NoError(t, err)
		assert.Equal(t, "Name must be at least 3 characters", errs.Get("name"))
		assert.Empty(t, api.created)
	})

	t.Run("image fields are dropped", func(t *testing.T) {
		api := &fakeBackend{}
		errs, err := svc.Create(context.Background(), api, &forms.Project{
			Name: " Gamma ", DueDate: "2025-07-01", Status: "completed", ImageID: "x", ImageURL: "https://x",
		})
		require.NoError(t, err)
		assert.Nil(t, errs)
		require.Len(t, api.created, 1)
		assert.Equal(t, "Gamma", api.created[0].Name)
		assert.Empty(t, api.created[0].ImageID)
		assert.Empty(t, api.created[0].ImageURL)
	})

	t.Run("backend error is returned", func(t *testing.T) {
		api := &fakeBackend{err: errors.New("boom")}
		errs, err := svc.Create(context.Background(), api, &forms.Project{Name: "Gamma", DueDate: "2025-07-01", Status: "completed"})
		assert.Nil(t, errs)
		assert.Error(t, err)
	})
}

func TestProjectService_UpdateKeepsImage(t *testing.T) {
	api := &fakeBackend{}
	errs, err := NewProjectService().Update(context.Background(), api, "p1", &forms.Project{
		Name: "Gamma", DueDate: "2025-07-01", Status: "in-progress", ImageID: "img1", ImageURL: "https://cdn.test/img1.png",
	})
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, "img1", api.updated["p1"].ImageID)
}

func TestProjectService_UploadImage(t *testing.T) {
	svc := NewProjectService()

	api := &fakeBackend{}
	_, err := svc.UploadImage(context.Background(), api, "notes.txt", "text/plain", strings.NewReader("hi"))
	assert.ErrorIs(t, err, ErrNotAnImage)
	assert.Zero(t, api.uploads)

	img, err := svc.UploadImage(context.Background(), api, "a.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "img1", img.ImageID)
	assert.Equal(t, 1, api.uploads)
}

func TestProjectService_Delete(t *testing.T) {
	api := &fakeBackend{}
	require.NoError(t, NewProjectService().Delete(context.Background(), api, "p1"))
	assert.Equal(t, []string{"p1"}, api.deleted)
}
