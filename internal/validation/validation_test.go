package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "SecurePass12!@", false},
		{"Exactly Min Length", "Abcdefghij1!", false},
		{"Exactly Max Length", "A" + strings.Repeat("b", 125) + "1!", false},
		{"Too Short", "Small1!", true},
		{"Too Long", "A" + strings.Repeat("b", 126) + "1!", true},
		{"No Upper", "securepass12!", true},
		{"No Lower", "SECUREPASS12!", true},
		{"No Digit", "SecurePass!!", true},
		{"No Special", "SecurePass123", true},
		{"Digits And Special Only", "1234567890!@", true},
		{"Unicode Characters", "ÅngstromPass12!", false},
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

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "test_user123", false},
		{"Valid With Hyphen", "test-user", false},
		{"Too Short", "tu", true},
		{"Too Long", strings.Repeat("a", 31), true},
		{"Illegal Chars", "user@123", true},
		{"Starts Dash", "-user", true},
		{"Ends Underscore", "user_", true},
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
	t.Parallel()
	assert.NoError(t, ValidateEmail("alice@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("a@b"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@example.com"))
}

func TestParseLegacyLink(t *testing.T) {
	t.Parallel()

	link, err := ParseLegacyLink("Docs|https://example.com/docs")
	require.NoError(t, err)
	assert.Equal(t, "Docs", link.Name)
	assert.Equal(t, "https://example.com/docs", link.URL)

	link, err = ParseLegacyLink("https://example.com")
	require.NoError(t, err)
	assert.Empty(t, link.Name)
	assert.Equal(t, "https://example.com", link.URL)

	link, err = ParseLegacyLink(" Repo | https://example.com/repo ")
	require.NoError(t, err)
	assert.Equal(t, "Repo", link.Name)
	assert.Equal(t, "https://example.com/repo", link.URL)

	_, err = ParseLegacyLink("")
	assert.Error(t, err)

	_, err = ParseLegacyLink("Name|")
	assert.Error(t, err)
}

func TestParseLegacyLinks(t *testing.T) {
	t.Parallel()

	links, err := ParseLegacyLinks([]string{"A|https://a", "", "  ", "https://b"})
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "A", links[0].Name)
	assert.Equal(t, "https://b", links[1].URL)

	_, err = ParseLegacyLinks([]string{"A|https://a", "bad|"})
	assert.Error(t, err)
}
