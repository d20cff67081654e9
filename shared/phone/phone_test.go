package phone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lodge/shared/phone"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain number unchanged",
			input: "9876543210",
			want:  "9876543210",
		},
		{
			name:  "spaces stripped",
			input: "98765 43210",
			want:  "9876543210",
		},
		{
			name:  "dashes stripped",
			input: "98765-43210",
			want:  "9876543210",
		},
		{
			name:  "parentheses stripped",
			input: "(987) 654-3210",
			want:  "9876543210",
		},
		{
			name:  "country code preserved",
			input: "+91 98765 43210",
			want:  "+919876543210",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, phone.Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"98765 43210",
		"(040) 2345-6789",
		"+91-98765-43210",
		"9876543210",
	}

	for _, input := range inputs {
		once := phone.Normalize(input)

		assert.Equal(t, once, phone.Normalize(once))
	}
}
