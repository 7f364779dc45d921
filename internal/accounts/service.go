// Package accounts implements registration, login and the account diagnostics.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/PaulBabatuyi/authapi/internal/apperr"
	"github.com/PaulBabatuyi/authapi/internal/auth"
	"github.com/PaulBabatuyi/authapi/internal/data"
	"github.com/PaulBabatuyi/authapi/internal/normalize"
)

// Validation limits.
const (
	MinPasswordLength = 6
	MinFullNameLength = 2
)

// Client-facing messages. Login uses one message for every credential failure.
const (
	msgAllFieldsRequired  = "all fields are required"
	msgPasswordsMismatch  = "passwords do not match"
	msgPasswordTooShort   = "password must be at least 6 characters long"
	msgPasswordTooLong    = "password must be at most 72 bytes long"
	msgFullNameTooShort   = "full name must be at least 2 characters long"
	msgInvalidEmail       = "please provide a valid email address"
	msgEmailTaken         = "user with this email already exists"
	msgCredentialsMissing = "email and password are required"
	msgInvalidCredentials = "invalid email or password"
)

// emailShape accepts local@domain.tld without whitespace.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterInput is the registration request.
type RegisterInput struct {
	FullName        string `json:"fullName" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,simple_email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginInput is the login request.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Service validates account requests and talks to the AccountStore.
type Service struct {
	store    data.AccountStore
	validate *validator.Validate
	now      func() time.Time
	log      zerolog.Logger
}

// NewService returns a Service backed by store.
func NewService(store data.AccountStore, log zerolog.Logger) *Service {
	v := validator.New()
	_ = v.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	return &Service{
		store:    store,
		validate: v,
		now:      time.Now,
		log:      log.With().Str("component", "accounts").Logger(),
	}
}

// Register validates in and creates the account. The unique email index is
// the only duplicate guard; there is no existence pre-check.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*data.Account, error) {
	in.FullName = normalize.Name(in.FullName)
	in.Email = normalize.Email(in.Email)

	if in.FullName == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, apperr.Validation(msgAllFieldsRequired)
	}
	if in.Password != in.ConfirmPassword {
		return nil, apperr.Validation(msgPasswordsMismatch)
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, registerValidationError(err)
	}
	// bcrypt limit is in bytes; the validator counts runes
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, apperr.Validation(msgPasswordTooLong)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	a := &data.Account{
		FullName:  in.FullName,
		Email:     in.Email,
		Password:  hash,
		CreatedAt: s.timestamp(),
	}
	if err := s.store.Create(ctx, a); err != nil {
		if errors.Is(err, data.ErrDuplicateEmail) {
			return nil, apperr.Conflict(msgEmailTaken)
		}
		return nil, storeError("create account", err)
	}

	s.log.Info().Str("account_id", a.ID.Hex()).Msg("account registered")
	return a, nil
}

// Login checks the credentials and records the login time.
func (s *Service) Login(ctx context.Context, in LoginInput) (*data.Account, error) {
	in.Email = normalize.Email(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.Validation(msgCredentialsMissing)
	}

	a, err := s.store.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, storeError("find account", err)
	}
	// no stored hash can match a password bcrypt refused to hash
	if a == nil || len(in.Password) > auth.MaxPasswordBytes {
		_ = auth.CheckDummy(in.Password)
		return nil, apperr.Auth(msgInvalidCredentials)
	}

	if err := auth.CheckPassword(a.Password, in.Password); err != nil {
		if !errors.Is(err, auth.ErrMismatch) {
			// unreadable hash; treat as a failed login but keep the evidence
			s.log.Error().Err(err).Str("account_id", a.ID.Hex()).Msg("stored password hash is malformed")
		}
		return nil, apperr.Auth(msgInvalidCredentials)
	}

	last := s.timestamp()
	if last.Before(a.CreatedAt) {
		last = a.CreatedAt
	}
	if a.LastLogin != nil && last.Before(*a.LastLogin) {
		last = *a.LastLogin
	}
	a.LastLogin = &last

	if err := s.store.Save(ctx, a); err != nil {
		return nil, storeError("record login", err)
	}
	return a, nil
}

// Count returns the number of registered accounts.
func (s *Service) Count(ctx context.Context) (int64, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, storeError("count accounts", err)
	}
	return n, nil
}

// List returns every account without password hashes.
func (s *Service) List(ctx context.Context) ([]*data.Account, error) {
	list, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, storeError("list accounts", err)
	}
	return list, nil
}

// Clear deletes every account. Diagnostic use only.
func (s *Service) Clear(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, storeError("clear accounts", err)
	}
	s.log.Warn().Int64("deleted", n).Msg("all accounts cleared")
	return n, nil
}

// timestamp is the current time at the precision MongoDB stores.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func registerValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation(err.Error())
	}
	switch fe := verrs[0]; fe.Field() {
	case "Password":
		return apperr.Validation(msgPasswordTooShort)
	case "FullName":
		return apperr.Validation(msgFullNameTooShort)
	case "Email":
		return apperr.Validation(msgInvalidEmail)
	case "ConfirmPassword":
		return apperr.Validation(msgPasswordsMismatch)
	default:
		return apperr.Validation(fe.Error())
	}
}

func storeError(op string, err error) error {
	if errors.Is(err, data.ErrUnavailable) {
		return apperr.Unavailable(op, err)
	}
	return apperr.Store(op, err)
}
