package auth

import (
	"testing"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequestValidate(t *testing.T) {
	blank := "  "
	req := RegisterRequest{Name: " Asha ", Email: " Asha@Example.com ", Password: "password123", ManagerID: &blank}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Asha", req.Name)
	assert.Equal(t, "asha@example.com", req.Email)
	assert.Equal(t, user.RoleEmployee, req.Role)
	assert.Nil(t, req.ManagerID)

	bad := "not-a-uuid"
	invalid := RegisterRequest{Email: "nope", Password: "short", Role: "admin", ManagerID: &bad}
	err := invalid.Validate()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	for _, f := range []string{"name", "email", "password", "role", "manager_id"} {
		assert.Contains(t, fields, f)
	}
}

func TestLoginRequestValidate(t *testing.T) {
	ok := LoginRequest{Email: "a@example.com", Password: "x"}
	assert.NoError(t, ok.Validate())

	missing := LoginRequest{}
	assert.Error(t, missing.Validate())
}
