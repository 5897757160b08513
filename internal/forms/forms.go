// Package forms holds the declarative validation schemas of the login,
// register and project forms.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/taskfolio/taskfolio-web/internal/projects/domain"
)

// Errors maps a form field name to its first failing rule's message.
type Errors map[string]string

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e Errors) Get(field string) string {
	return e[field]
}

type Login struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8"`
}

type Register struct {
	Name            string `form:"name" validate:"required,person_name,max=100"`
	Email           string `form:"email" validate:"required,email,max=100"`
	Password        string `form:"password" validate:"required,min=8,letter_and_digit,max=50"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password"`
}

// Project backs both the add and the edit views. The image fields are only
// carried through the edit view.
type Project struct {
	Name        string `form:"name" validate:"required,min=3,max=100"`
	Description string `form:"description" validate:"max=500"`
	DueDate     string `form:"dueDate" validate:"required,date_only"`
	Status      string `form:"status" validate:"required,project_status"`
	ImageID     string `form:"imageId"`
	ImageURL    string `form:"imageUrl"`
}

// Normalize trims every value and lower-cases the email, matching what is
// sent to the backend.
func (f *Login) Normalize() {
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Password = strings.TrimSpace(f.Password)
}

func (f *Register) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Password = strings.TrimSpace(f.Password)
	f.ConfirmPassword = strings.TrimSpace(f.ConfirmPassword)
}

// Normalize trims the name and the date; the description is kept verbatim
// so line breaks survive.
func (f *Project) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.DueDate = strings.TrimSpace(f.DueDate)
	f.Status = strings.TrimSpace(f.Status)
	f.ImageID = strings.TrimSpace(f.ImageID)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
}

// Input converts a validated form to the backend request body.
func (f *Project) Input() domain.ProjectInput {
	return domain.ProjectInput{
		Name:        f.Name,
		Description: f.Description,
		DueDate:     f.DueDate,
		Status:      domain.Status(f.Status),
		ImageID:     f.ImageID,
		ImageURL:    f.ImageURL,
	}
}

// ProjectFrom fills a form from a stored project, formatting the due date
// the way the date input expects.
func ProjectFrom(p *domain.Project) Project {
	f := Project{
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		ImageID:     p.ImageID,
		ImageURL:    p.ImageURL,
	}
	if !p.DueDate.IsZero() {
		f.DueDate = p.DueDate.Format(domain.DateLayout)
	}
	if f.Status == "" {
		f.Status = string(domain.StatusNotStarted)
	}
	return f
}

var (
	namePattern   = regexp.MustCompile(`^[a-zA-Z '\-,.]+$`)
	letterPattern = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern  = regexp.MustCompile(`[0-9]`)

	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		mustRegister(v, "person_name", func(fl validator.FieldLevel) bool {
			return namePattern.MatchString(fl.Field().String())
		})
		mustRegister(v, "letter_and_digit", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return letterPattern.MatchString(s) && digitPattern.MatchString(s)
		})
		mustRegister(v, "date_only", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(domain.DateLayout, fl.Field().String())
			return err == nil
		})
		mustRegister(v, "project_status", func(fl validator.FieldLevel) bool {
			return domain.Status(fl.Field().String()).Valid()
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("forms: register %s: %v", tag, err))
	}
}

// Validate runs every rule of form (a pointer to one of the form structs)
// and returns the first message per failing field. A nil result means the
// form may be submitted.
func Validate(form any) Errors {
	return collect(form, engine().Struct(form))
}

// ValidateField runs only the rules of one field, for blur validation. The
// whole form is passed so cross-field rules can see their peers.
func ValidateField(form any, field string) string {
	errs := Validate(form)
	return errs[field]
}

func collect(form any, err error) Errors {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Only reachable when form is not a struct pointer.
		return Errors{"form": err.Error()}
	}

	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = message(form, fe)
	}
	return out
}
