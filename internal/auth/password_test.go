package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("Passw0rd", 4)
	assert.NoError(t, err)
	assert.NotEqual(t, "Passw0rd", hash)

	assert.NoError(t, ComparePassword(hash, "Passw0rd"))
	assert.Error(t, ComparePassword(hash, "wrong-pass1"))
}

func TestValidatePasswordPolicy(t *testing.T) {
	cases := []struct {
		password string
		valid    bool
	}{
		{"Passw0rd", true},
		{"abcdefg1", true},
		{"1234abcd", true},
		{"short1", false},
		{"onlyletters", false},
		{"12345678", false},
		{"", false},
		{"a1" + strings.Repeat("x", 70), true},
		{"a1" + strings.Repeat("x", 71), false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.valid, ValidatePasswordPolicy(tc.password), "password %q", tc.password)
	}
}
