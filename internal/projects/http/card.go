package http

import (
	"strings"

	authdomain "github.com/taskfolio/taskfolio-web/internal/auth/domain"
	"github.com/taskfolio/taskfolio-web/internal/projects/domain"
	"github.com/taskfolio/taskfolio-web/internal/web"
)

const (
	previewLines = 2
	previewRunes = 120
)

// Card is one project tile of the list view.
type Card struct {
	ID          string
	Name        string
	OwnerName   string
	DueDate     string
	Status      domain.Status
	StatusLabel string
	ImageURL    string
	CanEdit     bool
	Description string
	Preview     string
	Overflows   bool
}

// NewCard builds the tile for p as seen by viewer, who may be nil.
func NewCard(p domain.Project, viewer *authdomain.User) Card {
	status := p.Status
	if !status.Valid() {
		status = domain.StatusNotStarted
	}
	prev, overflows := preview(p.Description)
	return Card{
		ID:          p.ID,
		Name:        p.Name,
		OwnerName:   p.Owner.Name,
		DueDate:     web.FormatDate(p.DueDate),
		Status:      status,
		StatusLabel: p.Status.Label(),
		ImageURL:    p.ImageURL,
		CanEdit:     p.OwnedBy(viewer),
		Description: p.Description,
		Preview:     prev,
		Overflows:   overflows,
	}
}

func NewCards(items []domain.Project, viewer *authdomain.User) []Card {
	cards := make([]Card, 0, len(items))
	for _, p := range items {
		cards = append(cards, NewCard(p, viewer))
	}
	return cards
}

// preview clamps a description to its first lines and runes. The flag is
// set when anything was cut.
func preview(desc string) (string, bool) {
	desc = strings.TrimSpace(strings.ReplaceAll(desc, "\r\n", "\n"))
	lines := strings.Split(desc, "\n")
	cut := false
	if len(lines) > previewLines {
		lines = lines[:previewLines]
		cut = true
	}
	text := strings.Join(lines, " ")
	if r := []rune(text); len(r) > previewRunes {
		text = strings.TrimSpace(string(r[:previewRunes]))
		cut = true
	}
	if cut {
		text += "..."
	}
	return text, cut
}
