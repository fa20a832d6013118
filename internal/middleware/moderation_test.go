package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ceh6514/mavwalk/server/internal/moderation"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listEngine struct {
	terms []string
}

func (e *listEngine) Check(text string) bool {
	for _, term := range e.terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func (e *listEngine) Clean(text string) string {
	masked := text
	for _, term := range e.terms {
		masked = strings.ReplaceAll(masked, term, strings.Repeat("*", len(term)))
	}
	return masked
}

func (e *listEngine) Add(terms []string) {
	e.terms = append(e.terms, terms...)
}

func gateApp(t *testing.T, cfg ModerationConfig) *fiber.App {
	t.Helper()

	app := fiber.New()
	app.Post("/echo", ModerationGate(cfg), func(c *fiber.Ctx) error {
		result := c.Locals(ClassificationKey).(ModerationResult)
		text, _ := c.Locals("maskedText").(string)
		return c.JSON(fiber.Map{
			"category": result.Classification.Category,
			"skipped":  result.Skipped,
			"masked":   result.Masked,
			"text":     text,
		})
	})
	return app
}

func textExtractor(c *fiber.Ctx) (string, bool) {
	text := strings.TrimSpace(string(c.Body()))
	if text == "" {
		return "", false
	}
	return text, true
}

func newGateConfig() ModerationConfig {
	return ModerationConfig{
		Filter:  moderation.NewFilter(&listEngine{}, []string{"bluebonnet"}),
		Extract: textExtractor,
		Write: func(c *fiber.Ctx, masked string) {
			c.Locals("maskedText", masked)
		},
		Logger: func(format string, args ...interface{}) {},
	}
}

func TestGateSkipsWithoutText(t *testing.T) {
	app := gateApp(t, newGateConfig())

	req := httptest.NewRequest("POST", "/echo", strings.NewReader(""))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"skipped":true`)
	assert.Contains(t, string(body), `"category":"clean"`)
}

func TestGatePassesCleanText(t *testing.T) {
	app := gateApp(t, newGateConfig())

	req := httptest.NewRequest("POST", "/echo", strings.NewReader("have a lovely walk"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"category":"clean"`)
	assert.Contains(t, string(body), `"masked":false`)
}

func TestGateMasksFlaggedText(t *testing.T) {
	app := gateApp(t, newGateConfig())

	req := httptest.NewRequest("POST", "/echo", strings.NewReader("bluebonnet ahead"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"category":"profanity"`)
	assert.Contains(t, string(body), `"masked":true`)
	assert.NotContains(t, string(body), "bluebonnet ahead")
}

func TestGateDelegatesOnProfanity(t *testing.T) {
	cfg := newGateConfig()
	cfg.OnProfanity = func(c *fiber.Ctx, result ModerationResult, next func() error) error {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "message rejected",
		})
	}
	app := gateApp(t, cfg)

	req := httptest.NewRequest("POST", "/echo", strings.NewReader("bluebonnet ahead"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
