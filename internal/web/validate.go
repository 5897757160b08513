package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskfolio/taskfolio-web/internal/forms"
)

type normalizer interface {
	Normalize()
}

// formFactories maps the blur validation route parameter to a fresh form.
var formFactories = map[string]func() normalizer{
	"login":    func() normalizer { return &forms.Login{} },
	"register": func() normalizer { return &forms.Register{} },
	"project":  func() normalizer { return &forms.Project{} },
}

type fieldValidationResponse struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// validateField serves blur validation: the browser posts the whole form
// plus the name of the field that lost focus.
func validateField(c *gin.Context) {
	factory, ok := formFactories[c.Param("form")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown form"})
		return
	}

	form := factory()
	if err := c.ShouldBind(form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	form.Normalize()

	field := c.PostForm("field")
	c.JSON(http.StatusOK, fieldValidationResponse{
		Field: field,
		Error: forms.ValidateField(form, field),
	})
}

// RegisterValidation attaches the blur validation endpoint.
func RegisterValidation(r gin.IRouter) {
	r.POST("/forms/:form/validate", validateField)
}
