package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/taskfolio/taskfolio-web/internal/projects/domain"
)

// UploadImage posts one file as multipart field "file" and returns the
// stored image reference.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (*domain.Image, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("copy upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out domain.Image
	if err := c.do(ctx, "upload_image", c.uploadClient, req, &out); err != nil {
		return nil, err
	}
	if out.ImageURL == "" {
		return nil, fmt.Errorf("upload_image: response has no imageUrl")
	}
	return &out, nil
}
