package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "alice_99", false},
		{"Valid With Hyphen", "video-maker", false},
		{"Too Short", "ab", true},
		{"Too Long", strings.Repeat("a", 31), true},
		{"Illegal Characters", "alice!", true},
		{"Leading Underscore", "_alice", true},
		{"Trailing Hyphen", "alice-", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "alice@example.com", false},
		{"Valid Subdomain", "a.b@mail.example.co", false},
		{"Missing At", "aliceexample.com", true},
		{"Missing TLD", "alice@example", true},
		{"Too Long", strings.Repeat("a", 250) + "@x.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "Sup3rSecret!", false},
		{"Too Short", "Sh0rt!", true},
		{"Too Long", strings.Repeat("Aa1!", 40), true},
		{"No Uppercase", "sup3rsecret!pass", true},
		{"No Lowercase", "SUP3RSECRET!PASS", true},
		{"No Digit", "SuperSecret!Pass", true},
		{"No Special", "Sup3rSecretPass", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
