package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegister_ValidatesInput(t *testing.T) {
	t.Parallel()

	svc := NewUserService(nil, nil, []byte("secret"), time.Hour, nil)

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{
			name:    "missing username",
			input:   RegisterInput{Email: "ada@example.com", Password: "longenough"},
			wantErr: ErrMissingCredentials,
		},
		{
			name:    "missing email",
			input:   RegisterInput{Username: "ada", Password: "longenough"},
			wantErr: ErrMissingCredentials,
		},
		{
			name:    "missing password",
			input:   RegisterInput{Username: "ada", Email: "ada@example.com"},
			wantErr: ErrMissingCredentials,
		},
		{
			name:    "invalid email",
			input:   RegisterInput{Username: "ada", Email: "nope", Password: "longenough"},
			wantErr: ErrInvalidEmail,
		},
		{
			name:    "short password",
			input:   RegisterInput{Username: "ada", Email: "ada@example.com", Password: "short"},
			wantErr: ErrPasswordTooShort,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Register(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLogin_RejectsBlankCredentials(t *testing.T) {
	t.Parallel()

	svc := NewUserService(nil, nil, []byte("secret"), time.Hour, nil)

	_, err := svc.Login(context.Background(), "", "password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "ada@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
