package auth

import (
	"strings"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/validator"
)

type RegisterRequest struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Role      user.Role `json:"role"`
	ManagerID *string   `json:"manager_id"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	validateEmail(&errs, r.Email)
	validatePassword(&errs, r.Password)

	if r.Role == "" {
		r.Role = user.RoleEmployee
	}
	if !r.Role.Valid() {
		errs.Add("role", "role must be employee or manager")
	}

	if r.ManagerID != nil {
		id := strings.TrimSpace(*r.ManagerID)
		if id == "" {
			r.ManagerID = nil
		} else if !validator.IsValidUUID(id) {
			errs.Add("manager_id", "manager_id must be a valid UUID")
		} else {
			r.ManagerID = &id
		}
	}

	return errs.OrNil()
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	validateEmail(&errs, r.Email)
	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	}

	return errs.OrNil()
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.RefreshToken) {
		errs.Add("refresh_token", "refresh_token is required")
	}
	return errs.OrNil()
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken           string            `json:"access_token"`
	AccessTokenExpiresIn  int64             `json:"access_token_expires_in"`
	RefreshToken          string            `json:"refresh_token"`
	RefreshTokenExpiresIn int64             `json:"refresh_token_expires_in"`
	User                  user.UserResponse `json:"user"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}

func validateEmail(errs *validator.ValidationErrors, email string) {
	switch {
	case email == "":
		errs.Add("email", "email is required")
	case len(email) > 254:
		errs.Add("email", "email must not exceed 254 characters")
	case !validator.IsValidEmail(email):
		errs.Add("email", "email must be a valid email address")
	}
}

func validatePassword(errs *validator.ValidationErrors, password string) {
	switch {
	case validator.IsEmpty(password):
		errs.Add("password", "password is required")
	case len(password) < 8:
		errs.Add("password", "password must be at least 8 characters long")
	case len(password) > 72:
		errs.Add("password", "password must not exceed 72 characters")
	}
}
