package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wallcheck/wallcheck/internal/validate"
)

func TestIsDomain(t *testing.T) {
	valid := []string{
		"example.com",
		"www.example.com",
		"a.b.c.example.co.uk",
		"xn--bcher-kva.example",
	}
	for _, d := range valid {
		assert.True(t, validate.IsDomain(d), "expected %q to be valid", d)
	}

	invalid := []string{
		"",
		"example",
		"-example.com",
		"example-.com",
		"has space.com",
		"exa_mple.com",
		"example.com/path",
		"8.8.8.8",
	}
	for _, d := range invalid {
		assert.False(t, validate.IsDomain(d), "expected %q to be invalid", d)
	}
}

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "example.com"},
		{"  example.com  ", "example.com"},
		{"Example.COM", "example.com"},
		{"example.com.", "example.com"},
		{" WWW.Example.Com. ", "www.example.com"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, validate.NormalizeDomain(tc.in))
	}
}
