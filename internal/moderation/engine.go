package moderation

import (
	"sync"

	goaway "github.com/TwiN/go-away"
)

// Engine is the pluggable profanity-detection capability. Check receives
// normalized text; Clean receives the raw original and returns a masked
// version.
type Engine interface {
	Check(text string) bool
	Clean(text string) string
}

// TermAdder is the optional capability for extending the dictionary at
// runtime. Terms passed to Add are already normalized.
type TermAdder interface {
	Add(terms []string)
}

// defaultEngineFactory builds the fallback engine when none was injected.
// Indirection exists so tests can simulate an unavailable default.
var defaultEngineFactory = newGoawayEngine

// goawayEngine wraps the go-away word-list detector.
type goawayEngine struct {
	mu       sync.Mutex
	extra    []string
	detector *goaway.ProfanityDetector
}

func newGoawayEngine() (Engine, error) {
	return &goawayEngine{detector: goaway.NewProfanityDetector()}, nil
}

func (e *goawayEngine) Check(text string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.detector.IsProfane(text)
}

func (e *goawayEngine) Clean(text string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.detector.Censor(text)
}

// Add extends the dictionary with extra terms. The detector is rebuilt with
// the default word lists plus everything added so far.
func (e *goawayEngine) Add(terms []string) {
	if len(terms) == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.extra = append(e.extra, terms...)
	profanities := make([]string, 0, len(goaway.DefaultProfanities)+len(e.extra))
	profanities = append(profanities, goaway.DefaultProfanities...)
	profanities = append(profanities, e.extra...)

	e.detector = goaway.NewProfanityDetector().WithCustomDictionary(
		profanities,
		goaway.DefaultFalsePositives,
		goaway.DefaultFalseNegatives,
	)
}
