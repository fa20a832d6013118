package moderation

import (
	"errors"
	"strings"
	"testing"

	"github.com/ceh6514/mavwalk/server/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine matches by substring against its normalized term list.
type fakeEngine struct {
	terms      []string
	checkCalls int
	cleanFunc  func(string) string
}

func (e *fakeEngine) Check(text string) bool {
	e.checkCalls++
	for _, t := range e.terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func (e *fakeEngine) Clean(text string) string {
	if e.cleanFunc != nil {
		return e.cleanFunc(text)
	}
	return strings.Repeat("*", len(text))
}

func (e *fakeEngine) Add(terms []string) {
	e.terms = append(e.terms, terms...)
}

func TestClassifyObfuscatedTerm(t *testing.T) {
	engine := &fakeEngine{}
	f := NewFilter(engine, []string{"bluebonnet"})

	// the custom term was normalized before entering the dictionary, so
	// obfuscated variants of it normalize to the same form
	result, err := f.Classify("B-l-u-e-b-0-n-n-e-t is waiting")
	require.NoError(t, err)
	assert.Equal(t, CategoryProfanity, result.Category)

	result, err = f.Classify("have a wonderful walk")
	require.NoError(t, err)
	assert.Equal(t, CategoryClean, result.Category)
}

func TestClassifyEmptySkipsEngine(t *testing.T) {
	engine := &fakeEngine{}
	f := NewFilter(engine, nil)

	result, err := f.Classify("   !!! ...  ")
	require.NoError(t, err)
	assert.Equal(t, CategoryClean, result.Category)
	assert.Zero(t, engine.checkCalls)
}

func TestCleanReturnsVerbatimWhenNegative(t *testing.T) {
	engine := &fakeEngine{}
	f := NewFilter(engine, []string{"bluebonnet"})

	original := "You Are  AMAZING!!!"
	cleaned, err := f.Clean(original)
	require.NoError(t, err)
	// display text is the raw original, not the normalized form
	assert.Equal(t, original, cleaned)
}

func TestCleanMasksPositive(t *testing.T) {
	engine := &fakeEngine{}
	f := NewFilter(engine, []string{"bluebonnet"})

	cleaned, err := f.Clean("bluebonnet ahead")
	require.NoError(t, err)
	assert.NotContains(t, cleaned, "bluebonnet")
}

func TestCleanFallsBackToPlaceholder(t *testing.T) {
	engine := &fakeEngine{cleanFunc: func(s string) string { return s }}
	f := NewFilter(engine, []string{"bluebonnet"})

	// engine returned the text unchanged; the original must not leak
	cleaned, err := f.Clean("bluebonnet ahead")
	require.NoError(t, err)
	assert.Equal(t, MaskedPlaceholder, cleaned)

	engine.cleanFunc = func(string) string { return "" }
	cleaned, err = f.Clean("bluebonnet ahead")
	require.NoError(t, err)
	assert.Equal(t, MaskedPlaceholder, cleaned)
}

func TestSanitizeMessageContent(t *testing.T) {
	f := NewFilter(&fakeEngine{}, nil)

	out, err := f.SanitizeMessageContent("  You are amazing!  Keep shining.  ")
	require.NoError(t, err)
	assert.Equal(t, "You are amazing! Keep shining.", out)

	_, err = f.SanitizeMessageContent("    ")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestLazyDefaultUnavailable(t *testing.T) {
	saved := defaultEngineFactory
	defaultEngineFactory = func() (Engine, error) { return nil, errors.New("unavailable") }
	defer func() { defaultEngineFactory = saved }()

	f := NewFilter(nil, nil)
	_, err := f.Classify("some words")
	require.Error(t, err)
	assert.True(t, apperr.IsConfiguration(err))
	assert.Contains(t, err.Error(), "Check")
}

func TestLazyDefaultResolvedOnce(t *testing.T) {
	built := 0
	saved := defaultEngineFactory
	defaultEngineFactory = func() (Engine, error) {
		built++
		return &fakeEngine{}, nil
	}
	defer func() { defaultEngineFactory = saved }()

	f := NewFilter(nil, []string{"bluebonnet"})

	result, err := f.Classify("bluebonnet")
	require.NoError(t, err)
	assert.Equal(t, CategoryProfanity, result.Category)

	_, err = f.Classify("anything else")
	require.NoError(t, err)
	assert.Equal(t, 1, built)
}

func TestParseExtraTerms(t *testing.T) {
	assert.Nil(t, ParseExtraTerms(""))
	assert.Nil(t, ParseExtraTerms("  "))
	assert.Equal(t, []string{"alpha", "beta"}, ParseExtraTerms(" alpha , beta ,,"))
}
