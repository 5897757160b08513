package web

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/taskfolio/taskfolio-web/internal/auth"
	authdomain "github.com/taskfolio/taskfolio-web/internal/auth/domain"
)

// Nav is the navigation shell state: who is signed in, which route is
// active, and the one-shot flash message.
type Nav struct {
	Path  string
	User  *authdomain.User
	Flash string
}

func (n Nav) IsAuthenticated() bool {
	return n.User != nil
}

func (n Nav) HomeActive() bool {
	return n.Path == "/"
}

func (n Nav) ProjectsActive() bool {
	return strings.HasPrefix(n.Path, "/projects")
}

// Page is the data handed to the layout template.
type Page struct {
	Title   string
	Nav     Nav
	Content any
}

// NavFor builds the shell for the current request, consuming the pending
// flash message.
func NavFor(c *gin.Context) Nav {
	nav := Nav{Path: c.Request.URL.Path}
	if ac := auth.FromGin(c); ac != nil {
		nav.User = ac.User()
		nav.Flash = ac.PopFlash()
	}
	return nav
}

// HTML renders page inside the shell.
func HTML(c *gin.Context, status int, page, title string, content any) {
	c.HTML(status, page, Page{
		Title:   title,
		Nav:     NavFor(c),
		Content: content,
	})
}
