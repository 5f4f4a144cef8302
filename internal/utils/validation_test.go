package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "numeric chat id",
			id:      "123456789",
			wantErr: false,
		},
		{
			name:    "api key",
			id:      "bot-frontend_1.0",
			wantErr: false,
		},
		{
			name:    "empty ID",
			id:      "",
			wantErr: true,
			errMsg:  "id cannot be empty",
		},
		{
			name:    "ID too long",
			id:      strings.Repeat("a", 65),
			wantErr: true,
			errMsg:  "id too long (max 64 characters)",
		},
		{
			name:    "ID with invalid characters",
			id:      "user<script>",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
		{
			name:    "ID with spaces",
			id:      "user 1",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateVehicleNumber(t *testing.T) {
	tests := []struct {
		number  string
		wantErr bool
	}{
		{"5", false},
		{"28к", false},
		{"15а", false},
		{"1-bis", false},
		{"", true},
		{"5_1", true},
		{"5 1", true},
		{strings.Repeat("7", 17), true},
		{strings.Repeat("к", 16), false},
	}

	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			err := ValidateVehicleNumber(tt.number)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
