package domain

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// User is the backend's view of the signed-in account. The web app only
// ever holds a read-only copy of it.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UnmarshalJSON accepts both "id" and the document-store style "_id".
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      string `json:"id"`
		MongoID string `json:"_id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.ID = raw.ID
	if u.ID == "" {
		u.ID = raw.MongoID
	}
	u.Name = raw.Name
	u.Email = raw.Email
	return nil
}

// Session is the per-browser state kept between requests: the backend's
// session cookies and the user snapshot derived from the last auth probe,
// login or logout.
type Session struct {
	ID        string            `json:"id"`
	Cookies   map[string]string `json:"cookies,omitempty"`
	User      *User             `json:"user,omitempty"`
	Probed    bool              `json:"probed"`
	Flash     string            `json:"flash,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// PopFlash returns the pending flash message and clears it.
func (s *Session) PopFlash() string {
	msg := s.Flash
	s.Flash = ""
	return msg
}
