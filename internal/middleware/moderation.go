package middleware

import (
	"log"

	"github.com/ceh6514/mavwalk/server/internal/moderation"
	"github.com/gofiber/fiber/v2"
)

// ClassificationKey is the Locals key the gate stores its result under.
const ClassificationKey = "moderation"

// ModerationResult is what downstream handlers find in Locals. Skipped
// means the extractor produced no text and the filter never ran.
type ModerationResult struct {
	Classification moderation.Classification
	Skipped        bool
	Masked         bool
}

// ModerationConfig wires the gate to a route. Extract pulls the text to
// moderate out of the request; Write puts the masked form back so the
// handler only ever sees moderated text.
type ModerationConfig struct {
	Filter  *moderation.Filter
	Extract func(c *fiber.Ctx) (string, bool)
	Write   func(c *fiber.Ctx, masked string)

	// Logger is optional; defaults to the stdlib log package.
	Logger func(format string, args ...interface{})

	// OnProfanity, when set, takes over instead of auto-masking. It
	// receives the continuation and decides whether the request proceeds.
	OnProfanity func(c *fiber.Ctx, result ModerationResult, next func() error) error
}

// ModerationGate classifies request text before the handler runs. The
// classification lands in c.Locals regardless of which path was taken.
func ModerationGate(cfg ModerationConfig) fiber.Handler {
	logf := cfg.Logger
	if logf == nil {
		logf = log.Printf
	}

	return func(c *fiber.Ctx) error {
		text, ok := cfg.Extract(c)
		if !ok {
			result := ModerationResult{
				Classification: moderation.Classification{Category: moderation.CategoryClean},
				Skipped:        true,
			}
			c.Locals(ClassificationKey, result)
			return c.Next()
		}

		classification, err := cfg.Filter.Classify(text)
		if err != nil {
			return err
		}

		result := ModerationResult{Classification: classification}
		if classification.Clean() {
			c.Locals(ClassificationKey, result)
			logf("[ModerationGate] passed %s %s", c.Method(), c.Path())
			return c.Next()
		}

		if cfg.OnProfanity != nil {
			c.Locals(ClassificationKey, result)
			return cfg.OnProfanity(c, result, c.Next)
		}

		masked, err := cfg.Filter.Clean(text)
		if err != nil {
			return err
		}
		if cfg.Write != nil {
			cfg.Write(c, masked)
		}
		result.Masked = true
		c.Locals(ClassificationKey, result)
		logf("[ModerationGate] masked %s %s", c.Method(), c.Path())
		return c.Next()
	}
}
