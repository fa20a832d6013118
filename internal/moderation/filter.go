// Package moderation classifies and masks user-submitted text. Matching runs
// on normalized text so obfuscated profanity is caught; display text is only
// ever the verbatim original or a masked version, never the normalized form.
package moderation

import (
	"strings"
	"sync"

	"github.com/ceh6514/mavwalk/server/internal/apperr"
	"github.com/ceh6514/mavwalk/server/internal/textnorm"
)

// MaskedPlaceholder replaces text the engine flagged but could not rewrite.
const MaskedPlaceholder = "[masked]"

// Category values carried by a Classification.
const (
	CategoryClean     = "clean"
	CategoryProfanity = "profanity"
)

// Classification is the per-call result of Classify.
type Classification struct {
	Category string `json:"category"`
}

// Clean reports whether the classification found nothing.
func (c Classification) Clean() bool {
	return c.Category == CategoryClean
}

// Filter combines the normalizer with a detection engine. The engine is
// resolved once: either injected at construction or lazily defaulted on
// first use.
type Filter struct {
	mu           sync.Mutex
	engine       Engine
	pendingTerms []string
}

// NewFilter builds a Filter. A nil engine means "use the default engine,
// loaded lazily on first use". Extra terms (already split) are normalized
// and added to the engine's dictionary so obfuscation-aware matching also
// applies to custom terms.
func NewFilter(engine Engine, extraTerms []string) *Filter {
	f := &Filter{engine: engine}
	f.AddTerms(extraTerms)
	return f
}

// SetEngine replaces the detection engine. A nil engine is rejected
// immediately rather than discovered at classify time.
func (f *Filter) SetEngine(engine Engine) error {
	if engine == nil {
		return apperr.Configuration(
			"detection engine must not be nil; an engine must provide Check(text) and Clean(text)")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.engine = engine
	if adder, ok := engine.(TermAdder); ok && len(f.pendingTerms) > 0 {
		adder.Add(f.pendingTerms)
		f.pendingTerms = nil
	}
	return nil
}

// ParseExtraTerms splits a comma-separated config value into terms.
func ParseExtraTerms(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// AddTerms normalizes terms and feeds them to the engine's dictionary. If
// the engine is not resolved yet the terms are held and applied when it is.
func (f *Filter) AddTerms(terms []string) {
	normalized := make([]string, 0, len(terms))
	for _, t := range terms {
		if n := textnorm.Normalize(t); n != "" {
			normalized = append(normalized, n)
		}
	}
	if len(normalized) == 0 {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.engine == nil {
		f.pendingTerms = append(f.pendingTerms, normalized...)
		return
	}
	if adder, ok := f.engine.(TermAdder); ok {
		adder.Add(normalized)
	}
}

// resolveEngine returns the configured engine, building the default on first
// use. A missing default surfaces as a configuration error naming the
// expected capabilities.
func (f *Filter) resolveEngine() (Engine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.engine != nil {
		return f.engine, nil
	}

	engine, err := defaultEngineFactory()
	if err != nil || engine == nil {
		return nil, apperr.Configuration(
			"no detection engine configured and default unavailable; an engine must provide Check(text) and Clean(text)")
	}
	f.engine = engine
	if adder, ok := engine.(TermAdder); ok && len(f.pendingTerms) > 0 {
		adder.Add(f.pendingTerms)
		f.pendingTerms = nil
	}
	return f.engine, nil
}

// Classify normalizes text and asks the engine whether it contains a flagged
// term. Empty normalized text is clean without consulting the engine.
func (f *Filter) Classify(text string) (Classification, error) {
	normalized := textnorm.Normalize(text)
	if normalized == "" {
		return Classification{Category: CategoryClean}, nil
	}

	engine, err := f.resolveEngine()
	if err != nil {
		return Classification{}, err
	}

	if engine.Check(normalized) {
		return Classification{Category: CategoryProfanity}, nil
	}
	return Classification{Category: CategoryClean}, nil
}

// Clean returns text unchanged when detection is negative. On a positive
// detection the engine rewrites the raw original; if the engine returns the
// text unchanged or empty, the opaque placeholder is used instead so the
// original never leaks.
func (f *Filter) Clean(text string) (string, error) {
	result, err := f.Classify(text)
	if err != nil {
		return "", err
	}
	if result.Clean() {
		return text, nil
	}

	engine, err := f.resolveEngine()
	if err != nil {
		return "", err
	}

	cleaned := engine.Clean(text)
	if cleaned == "" || cleaned == text {
		return MaskedPlaceholder, nil
	}
	return cleaned, nil
}

// SanitizeMessageContent validates and masks message text: it must be
// non-empty after trimming, inner whitespace runs are collapsed, and the
// result is passed through Clean.
func (f *Filter) SanitizeMessageContent(text string) (string, error) {
	collapsed := strings.Join(strings.Fields(text), " ")
	if collapsed == "" {
		return "", apperr.Validation("text", "message text is required")
	}
	return f.Clean(collapsed)
}
