package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain lowercase", "walk home safely", "walk home safely"},
		{"uppercase", "Walk Home Safely", "walk home safely"},
		{"diacritics and leet", "Àw3s000me!!!", "awesome"},
		{"leet map", "h3ll0 w0rld", "helo world"},
		{"spacing attack", "M 4 5 k e d   t e r m!", "maskedterm"},
		{"real words untouched", "Masked term", "masked term"},
		{"inner separators", "f_u-u...ck", "fuck"},
		{"separator to space", "stop! go", "stop go"},
		{"repeated chars", "awesommme", "awesome"},
		{"zero width", "he\u200bll\u200do\ufeff", "helo"},
		{"short words survive", "a i walk home", "a i walk home"},
		{"doubled letters collapse", "see you soon", "se you son"},
		{"whitespace collapse", "  many    extra   spaces  ", "many extra spaces"},
		{"unmapped digits kept", "suite 269", "suite 269"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Àw3s000me!!!",
		"M 4 5 k e d   t e r m!",
		"f_u-u...ck",
		"plain text already",
		"  You are amazing!  Keep shining.  ",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeInnerSeparatorRunAtEdge(t *testing.T) {
	// leading/trailing separator runs are not "inner"; they become breaks
	assert.Equal(t, "word", Normalize("...word..."))
	// a run touching a space on one side is not inner either
	assert.Equal(t, "word next", Normalize("word ...next"))
}
