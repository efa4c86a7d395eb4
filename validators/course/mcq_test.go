package courseValidator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMCQErrors(t *testing.T) {
	tests := []struct {
		name     string
		question string
		options  []string
		correct  string
		wantKeys []string
	}{
		{"valid", "2 + 2?", []string{"3", "4"}, "4", nil},
		{"trimmed answer", "2 + 2?", []string{" 3", "4 "}, " 4", nil},
		{"blank question", "  ", []string{"3", "4"}, "4", []string{"question"}},
		{"one option", "2 + 2?", []string{"4"}, "4", []string{"option"}},
		{"empty option", "2 + 2?", []string{"4", " "}, "4", []string{"option"}},
		{"duplicate options", "2 + 2?", []string{"4", "4"}, "4", []string{"option"}},
		{"answer not an option", "2 + 2?", []string{"3", "5"}, "4", []string{"correctAns"}},
		{"missing answer", "2 + 2?", []string{"3", "4"}, "", []string{"correctAns"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := MCQErrors(tc.question, tc.options, tc.correct)
			assert.Len(t, errs, len(tc.wantKeys))
			for _, k := range tc.wantKeys {
				assert.Contains(t, errs, k)
			}
		})
	}
}
