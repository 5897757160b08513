package service

import (
	"context"

	"github.com/taskfolio/taskfolio-web/internal/apiclient"
	"github.com/taskfolio/taskfolio-web/internal/auth"
	"github.com/taskfolio/taskfolio-web/internal/auth/domain"
	"github.com/taskfolio/taskfolio-web/internal/forms"
	"github.com/taskfolio/taskfolio-web/internal/logging"
)

const (
	LoginFailed    = "Login failed. Please try again."
	RegisterFailed = "Registration failed. Please try again."
)

// Registrar is the backend call behind the register form.
type Registrar interface {
	Register(ctx context.Context, in apiclient.RegisterRequest) error
}

// AuthService runs the login and register flows: normalise, validate, then
// submit to the backend.
type AuthService struct{}

func NewAuthService() *AuthService {
	return &AuthService{}
}

// Login validates the form and signs in through the auth context. A non-nil
// Errors means nothing was sent.
func (s *AuthService) Login(ctx context.Context, ac *auth.Context, form *forms.Login) (*domain.User, forms.Errors, error) {
	form.Normalize()
	if errs := forms.Validate(form); errs != nil {
		return nil, errs, nil
	}

	user, err := ac.Login(ctx, form.Email, form.Password)
	if err != nil {
		logging.New(ctx).LogWarnf("login", "login rejected: %v", err)
		return nil, nil, err
	}
	logging.New(ctx).LogInfof("login", "user_id=%s signed in", user.ID)
	return user, nil, nil
}

// Register validates the form and creates the account. Registration does
// not sign the user in.
func (s *AuthService) Register(ctx context.Context, api Registrar, form *forms.Register) (forms.Errors, error) {
	form.Normalize()
	if errs := forms.Validate(form); errs != nil {
		return errs, nil
	}

	err := api.Register(ctx, apiclient.RegisterRequest{
		Name:            form.Name,
		Email:           form.Email,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err != nil {
		logging.New(ctx).LogWarnf("register", "registration rejected: %v", err)
		return nil, err
	}
	return nil, nil
}
