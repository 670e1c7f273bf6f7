package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	interrors "github.com/aionx/connect-dashboard/internal/errors"
	"github.com/aionx/connect-dashboard/session"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid", password: "Password1", wantErr: false},
		{name: "too short", password: "Pas1", wantErr: true},
		{name: "no uppercase", password: "password1", wantErr: true},
		{name: "no lowercase", password: "PASSWORD1", wantErr: true},
		{name: "no number", password: "Passwordx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := session.ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.True(t, interrors.IsValidationError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
