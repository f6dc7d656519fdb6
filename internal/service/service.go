// Package service runs the console's use cases on top of the API client, the
// session store and the notice queue.
package service

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/Faiz-1107/AMK-Project-Management/internal/apiclient"
	"github.com/Faiz-1107/AMK-Project-Management/internal/models"
	v "github.com/Faiz-1107/AMK-Project-Management/internal/validation"
)

var (
	ErrMalformedLogin = errors.New("login response without token or user")
	ErrForbidden      = errors.New("not allowed for this role")
	ErrSelfDelete     = errors.New("cannot delete the signed-in user")
	ErrUserNotFound   = errors.New("user not found")
)

// Backend is the management API as the services use it.
type Backend interface {
	Login(ctx context.Context, in apiclient.LoginRequest) (apiclient.LoginResponse, error)
	SignUp(ctx context.Context, in apiclient.SignUpRequest) (apiclient.MessageResponse, error)
	ListUsers(ctx context.Context) ([]models.Account, error)
	Me(ctx context.Context) (models.Account, error)
	AddUser(ctx context.Context, in apiclient.CreateUserRequest) (apiclient.MessageResponse, error)
	UpdateUser(ctx context.Context, id string, in apiclient.UpdateUserRequest) (apiclient.MessageResponse, error)
	DeleteUser(ctx context.Context, id string) (apiclient.MessageResponse, error)
}

// FormError carries per-field messages back to the form that was submitted.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	return "form has invalid fields"
}

func validate(form v.Validator) error {
	err := form.Validate()
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		return &FormError{Fields: v.FieldErrors(err)}
	}
	return err
}

// Fields returns the per-field messages of err, if it is a FormError.
func Fields(err error) map[string]string {
	var fe *FormError
	if errors.As(err, &fe) {
		return fe.Fields
	}
	return nil
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
