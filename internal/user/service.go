package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Registration struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

// Validate returns every field error at once, keyed by JSON field name.
func (r Registration) Validate() map[string][]string {
	errs := map[string][]string{}
	if strings.TrimSpace(r.Username) == "" {
		errs["username"] = append(errs["username"], "This field is required.")
	} else if len(r.Username) > 150 {
		errs["username"] = append(errs["username"], "Ensure this field has no more than 150 characters.")
	}
	if r.Password == "" {
		errs["password"] = append(errs["password"], "This field is required.")
	} else if len(r.Password) < minPasswordLength {
		errs["password"] = append(errs["password"], "Ensure this field has at least 8 characters.")
	}
	if r.PasswordConfirm == "" {
		errs["password_confirm"] = append(errs["password_confirm"], "This field is required.")
	}
	if len(errs) == 0 && r.Password != r.PasswordConfirm {
		errs["non_field_errors"] = append(errs["non_field_errors"], "Passwords don't match")
	}
	return errs
}

func (s *Service) GetByID(ctx context.Context, id int) (User, error) {
	return s.repo.GetByID(ctx, id)
}

// Register stores a new active user with a hashed password. The registration
// must already be valid.
func (s *Service) Register(ctx context.Context, r Registration) (User, error) {
	if _, err := s.repo.GetByUsername(ctx, r.Username); err == nil {
		return User{}, ErrUsernameExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	return s.repo.Create(ctx, User{
		Username:   r.Username,
		Email:      r.Email,
		Password:   string(hashed),
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		IsActive:   true,
		DateJoined: time.Now().UTC(),
	})
}

// Authenticate checks the password before the account state.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return User{}, ErrInactiveUser
	}
	return u, nil
}

// SetActive enables or disables the named account. Disabled accounts cannot
// log in.
func (s *Service) SetActive(ctx context.Context, username string, active bool) (User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return User{}, err
	}
	if err := s.repo.SetActive(ctx, u.ID, active); err != nil {
		return User{}, err
	}
	u.IsActive = active
	return u, nil
}
