package validate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aydenq/members-only/internal/models"
)

func TestSignupFormValid(t *testing.T) {
	v := New()

	tests := []models.SignupForm{
		{Username: "alice", Password: "secret1", Email: "a@b.com"},
		{Username: "Bob42", Password: "x", Email: ""}, // email is optional
		{Username: "a1b2c3d4e5f6g7h8i9j0", Password: "12345678901234567890", Email: "long@example.org"},
	}
	for _, form := range tests {
		require.Nil(t, v.Struct(form), "form %+v", form)
	}
}

func TestSignupFormFirstViolation(t *testing.T) {
	v := New()

	tests := []struct {
		name  string
		form  models.SignupForm
		field string
		rule  string
	}{
		{"missing username", models.SignupForm{Password: "x", Email: "a@b.com"}, "username", "required"},
		{"non-alphanumeric username", models.SignupForm{Username: "al!ce", Password: "x", Email: "a@b.com"}, "username", "alphanum"},
		{"username too long", models.SignupForm{Username: "a123456789012345678901", Password: "x"}, "username", "max"},
		{"missing password", models.SignupForm{Username: "alice", Email: "a@b.com"}, "password", "required"},
		{"password too long", models.SignupForm{Username: "alice", Password: "123456789012345678901"}, "password", "max"},
		{"malformed email", models.SignupForm{Username: "alice", Password: "x", Email: "not-an-email"}, "email", "email"},
		// The first violated rule wins even when several fields are bad.
		{"first of several", models.SignupForm{Username: "al!ce", Password: "", Email: "nope"}, "username", "alphanum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ferr := v.Struct(tt.form)
			require.NotNil(t, ferr)
			require.Equal(t, tt.field, ferr.Field)
			require.Equal(t, tt.rule, ferr.Rule)
			require.Contains(t, ferr.Message, `"`+tt.field+`"`)
		})
	}
}

func TestSignupMessagesNameTheConstraint(t *testing.T) {
	v := New()

	ferr := v.Struct(models.SignupForm{Username: "al!ce", Password: "x"})
	require.NotNil(t, ferr)
	require.Equal(t, `"username" must only contain alpha-numeric characters`, ferr.Message)

	ferr = v.Struct(models.SignupForm{Username: "alice", Password: "123456789012345678901"})
	require.NotNil(t, ferr)
	require.Equal(t, `"password" length must be less than or equal to 20 characters long`, ferr.Message)
}

func TestLoginForm(t *testing.T) {
	v := New()

	require.Nil(t, v.Struct(models.LoginForm{Email: "a@b.com", Password: "secret1"}))

	ferr := v.Struct(models.LoginForm{Password: "secret1"})
	require.NotNil(t, ferr)
	require.Equal(t, "email", ferr.Field)
	require.Equal(t, "required", ferr.Rule)

	ferr = v.Struct(models.LoginForm{Email: "a@b.com"})
	require.NotNil(t, ferr)
	require.Equal(t, "password", ferr.Field)
	require.Equal(t, "required", ferr.Rule)
}
