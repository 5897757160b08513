package domain

import (
	"encoding/json"
	"fmt"
	"time"

	authdomain "github.com/taskfolio/taskfolio-web/internal/auth/domain"
)

// DateLayout is the wire and form format of a due date.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every status in display order.
func Statuses() []Status {
	return []Status{StatusNotStarted, StatusInProgress, StatusCompleted}
}

func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Label is the human readable status. Unknown values render as not started.
func (s Status) Label() string {
	switch s {
	case StatusCompleted:
		return "Completed"
	case StatusInProgress:
		return "In Progress"
	default:
		return "Not Started"
	}
}

// Image is the reference returned by the file upload endpoint.
type Image struct {
	ImageID  string `json:"imageId"`
	ImageURL string `json:"imageUrl"`
}

// Project is one record of the backend's project collection.
type Project struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	DueDate     time.Time       `json:"dueDate"`
	Status      Status          `json:"status"`
	ImageID     string          `json:"imageId,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Owner       authdomain.User `json:"owner"`
}

// OwnedBy reports whether u is the project's owner. A nil user owns nothing.
func (p Project) OwnedBy(u *authdomain.User) bool {
	return u != nil && u.ID != "" && p.Owner.ID == u.ID
}

func (p *Project) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          string          `json:"id"`
		MongoID     string          `json:"_id"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		DueDate     string          `json:"dueDate"`
		Status      Status          `json:"status"`
		ImageID     string          `json:"imageId"`
		ImageURL    string          `json:"imageUrl"`
		Owner       authdomain.User `json:"owner"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	due, err := ParseDueDate(raw.DueDate)
	if err != nil {
		return err
	}

	*p = Project{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		DueDate:     due,
		Status:      raw.Status,
		ImageID:     raw.ImageID,
		ImageURL:    raw.ImageURL,
		Owner:       raw.Owner,
	}
	if p.ID == "" {
		p.ID = raw.MongoID
	}
	return nil
}

// ParseDueDate accepts RFC 3339 timestamps and plain dates. An empty value
// is the zero time.
func ParseDueDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q: %w", s, err)
	}
	return t, nil
}

// ProjectInput is the body of create and update requests.
type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Status      Status `json:"status"`
	ImageID     string `json:"imageId,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}
