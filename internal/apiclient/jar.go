package apiclient

import (
	"net/http"
	"sync"
	"time"
)

// Jar holds the backend cookies of one browser session by name. It is safe
// for concurrent use and can be snapshotted for persistence.
type Jar struct {
	mu      sync.Mutex
	values  map[string]string
	changed bool
}

// NewJar seeds a jar from a persisted snapshot.
func NewJar(values map[string]string) *Jar {
	j := &Jar{values: make(map[string]string, len(values))}
	for k, v := range values {
		j.values[k] = v
	}
	return j
}

// Snapshot copies the current cookies.
func (j *Jar) Snapshot() map[string]string {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make(map[string]string, len(j.values))
	for k, v := range j.values {
		out[k] = v
	}
	return out
}

// Changed reports whether the backend added, replaced or removed a cookie
// since the jar was created.
func (j *Jar) Changed() bool {
	if j == nil {
		return false
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.changed
}

// Clear drops every cookie.
func (j *Jar) Clear() {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.values) > 0 {
		j.values = make(map[string]string)
		j.changed = true
	}
}

func (j *Jar) apply(req *http.Request) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	for name, value := range j.values {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}

func (j *Jar) update(cookies []*http.Cookie) {
	if j == nil || len(cookies) == 0 {
		return
	}
	now := time.Now()

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.values == nil {
		j.values = make(map[string]string)
	}
	for _, ck := range cookies {
		expired := ck.MaxAge < 0 || (!ck.Expires.IsZero() && ck.Expires.Before(now)) || ck.Value == ""
		old, exists := j.values[ck.Name]
		switch {
		case expired && exists:
			delete(j.values, ck.Name)
			j.changed = true
		case !expired && (!exists || old != ck.Value):
			j.values[ck.Name] = ck.Value
			j.changed = true
		}
	}
}
