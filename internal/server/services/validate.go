package services

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/seniko/internal/common"
	"github.com/dmitrijs2005/seniko/internal/server/auth"
	"github.com/go-playground/validator/v10"
)

const (
	minPasswordLength = 5
	// bcrypt ignores input past this length; longer passwords are refused
	// rather than silently truncated.
	maxPasswordBytes = auth.MaxPasswordBytes
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError names the offending input field. It matches
// common.ErrValidation under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return common.ErrValidation
}

// RegisterRequest is the input of UserService.Register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// LoginRequest is the input of UserService.Login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return &ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	return nil
}

func validateRegister(req RegisterRequest) error {
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if strings.TrimSpace(req.Username) == "" {
		return &ValidationError{Field: "username", Message: "must not be empty"}
	}
	if err := validate.Var(req.Password, fmt.Sprintf("min=%d", minPasswordLength)); err != nil {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters long", minPasswordLength),
		}
	}
	if len(req.Password) > maxPasswordBytes {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("must be at most %d bytes long", maxPasswordBytes),
		}
	}
	return nil
}

func validateLogin(req LoginRequest) error {
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if req.Password == "" {
		return &ValidationError{Field: "password", Message: "must not be empty"}
	}
	return nil
}
