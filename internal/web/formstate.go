package web

import "github.com/taskfolio/taskfolio-web/internal/forms"

// FormState is what every form view carries besides its values: per-field
// errors and the message of a failed submission.
type FormState struct {
	Errors forms.Errors
	Error  string
}

// FieldRef is the argument of the "field-error" partial.
type FieldRef struct {
	Name   string
	Errors forms.Errors
}

func (s FormState) Field(name string) FieldRef {
	return FieldRef{Name: name, Errors: s.Errors}
}
