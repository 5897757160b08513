package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/taskfolio/taskfolio-web/internal/projects/domain"
)

// ListProjects fetches the collection. A blank search fetches everything;
// otherwise the trimmed term is sent as the search query parameter.
func (c *Client) ListProjects(ctx context.Context, search string) ([]domain.Project, error) {
	var query url.Values
	if term := strings.TrimSpace(search); term != "" {
		query = url.Values{"search": {term}}
	}

	req, err := c.newJSONRequest(ctx, http.MethodGet, "/projects", query, nil)
	if err != nil {
		return nil, err
	}
	var out []domain.Project
	if err := c.do(ctx, "list_projects", c.defaultClient, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, projectPath(id), nil, nil)
	if err != nil {
		return nil, err
	}
	var out domain.Project
	if err := c.do(ctx, "get_project", c.defaultClient, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProject posts a new project. Any 2xx counts as created; the
// response body is not read, so an odd echo of the record cannot turn a
// committed write into a failure.
func (c *Client) CreateProject(ctx context.Context, in domain.ProjectInput) error {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/projects", nil, in)
	if err != nil {
		return err
	}
	return c.do(ctx, "create_project", c.defaultClient, req, nil)
}

// UpdateProject replaces a project. Like CreateProject it ignores the body.
func (c *Client) UpdateProject(ctx context.Context, id string, in domain.ProjectInput) error {
	req, err := c.newJSONRequest(ctx, http.MethodPut, projectPath(id), nil, in)
	if err != nil {
		return err
	}
	return c.do(ctx, "update_project", c.defaultClient, req, nil)
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	req, err := c.newJSONRequest(ctx, http.MethodDelete, projectPath(id), nil, nil)
	if err != nil {
		return err
	}
	return c.do(ctx, "delete_project", c.defaultClient, req, nil)
}

func projectPath(id string) string {
	return "/projects/" + url.PathEscape(id)
}
