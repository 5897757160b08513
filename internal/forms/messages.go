package forms

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var labels = map[string]string{
	"name":            "Name",
	"email":           "Email",
	"password":        "Password",
	"confirmPassword": "Confirm password",
	"description":     "Description",
	"dueDate":         "Due date",
	"status":          "Status",
}

func message(form any, fe validator.FieldError) string {
	field := fe.Field()
	label := labels[field]
	if label == "" {
		label = field
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return label + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "person_name":
		return label + " must only contain letters, spaces and characters: '-,."
	case "letter_and_digit":
		return label + " must contain at least one letter and one number"
	case "eqfield":
		if _, ok := form.(*Register); ok {
			return "Passwords must match"
		}
		return label + " does not match"
	case "date_only":
		return label + " must be a valid date"
	case "project_status":
		return "Invalid status"
	}
	return label + " is invalid"
}
