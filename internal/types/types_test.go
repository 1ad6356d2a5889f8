package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseVariant(t *testing.T) {
	tests := []struct {
		input    string
		expected Variant
		hasError bool
	}{
		{input: "", expected: VariantEvents},
		{input: "events", expected: VariantEvents},
		{input: " Commits ", expected: VariantCommits},
		{input: "REPOS", expected: VariantRepos},
		{input: "stars", hasError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseVariant(tt.input)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}
