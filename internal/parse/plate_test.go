package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlate(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  string
		expectErr bool
	}{
		{
			name:     "Already normalized",
			raw:      "ABC1234",
			expected: "ABC1234",
		},
		{
			name:     "Lowercase",
			raw:      "abc1234",
			expected: "ABC1234",
		},
		{
			name:     "Surrounding whitespace",
			raw:      "  ABC1234  ",
			expected: "ABC1234",
		},
		{
			name:     "Hyphen separator",
			raw:      "ABC-1234",
			expected: "ABC1234",
		},
		{
			name:     "Inner spaces",
			raw:      "ABC 1234",
			expected: "ABC1234",
		},
		{
			name:     "Mixed case with hyphen",
			raw:      "xYz-9876",
			expected: "XYZ9876",
		},
		{
			name:      "Too short",
			raw:       "ABC123",
			expectErr: true,
		},
		{
			name:      "Too long",
			raw:       "ABC12345",
			expectErr: true,
		},
		{
			name:      "Illegal characters",
			raw:       "ABC12!4",
			expectErr: true,
		},
		{
			name:      "Empty",
			raw:       "",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			plate, err := NormalizePlate(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, plate)
			}
		})
	}
}
