package services

import (
	"strings"
	"testing"

	"github.com/ceh6514/mavwalk/server/internal/apperr"
	"github.com/ceh6514/mavwalk/server/internal/config"
	"github.com/ceh6514/mavwalk/server/internal/models"
	"github.com/ceh6514/mavwalk/server/internal/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEngine flags any text containing one of its terms.
type stubEngine struct {
	terms []string
}

func (e *stubEngine) Check(text string) bool {
	for _, term := range e.terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func (e *stubEngine) Clean(text string) string {
	masked := text
	for _, term := range e.terms {
		masked = strings.ReplaceAll(masked, term, strings.Repeat("*", len(term)))
	}
	return masked
}

func (e *stubEngine) Add(terms []string) {
	e.terms = append(e.terms, terms...)
}

func messageService(t *testing.T, defaultStatus string) *MessageService {
	t.Helper()

	db := setupTestDB(t)
	cfg := &config.Config{MessageDefaultStatus: defaultStatus}
	filter := moderation.NewFilter(&stubEngine{}, []string{"bluebonnet"})
	return NewMessageService(db, cfg, filter)
}

func TestCreateMessageClean(t *testing.T) {
	svc := messageService(t, "pending")

	msg, err := svc.Create(&CreateMessageRequest{Text: "  You are amazing!  Keep shining.  "})
	require.NoError(t, err)

	assert.Equal(t, "You are amazing! Keep shining.", msg.Text)
	assert.Equal(t, models.MessageStatusPending, msg.Status)
	assert.Equal(t, moderation.CategoryClean, msg.ProfanityCategory)
	assert.Nil(t, msg.ReviewedAt)
}

func TestCreateMessageMasked(t *testing.T) {
	svc := messageService(t, "pending")

	msg, err := svc.Create(&CreateMessageRequest{Text: "watch for the b-l-u-e-b-0-n-n-e-t"})
	require.NoError(t, err)

	assert.Equal(t, moderation.CategoryProfanity, msg.ProfanityCategory)
	assert.NotContains(t, msg.Text, "b-l-u-e-b-0-n-n-e-t")
}

func TestCreateMessageEmpty(t *testing.T) {
	svc := messageService(t, "pending")

	_, err := svc.Create(&CreateMessageRequest{Text: "   "})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateMessageTooLong(t *testing.T) {
	svc := messageService(t, "pending")

	_, err := svc.Create(&CreateMessageRequest{Text: strings.Repeat("a", 281)})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "280")
}

func TestCreateMessageDefaultStatusFromConfig(t *testing.T) {
	svc := messageService(t, "approved")

	msg, err := svc.Create(&CreateMessageRequest{Text: "have a safe walk"})
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusApproved, msg.Status)
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc := messageService(t, "pending")

	msg, err := svc.Create(&CreateMessageRequest{Text: "good luck out there"})
	require.NoError(t, err)

	notes := "looks fine"
	approved, err := svc.UpdateStatus(msg.ID, 7, &UpdateMessageStatusRequest{
		Status:      models.MessageStatusApproved,
		ReviewNotes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedAt)
	require.NotNil(t, approved.ReviewedBy)
	assert.EqualValues(t, 7, *approved.ReviewedBy)

	// resetting to pending clears the review trail
	reset, err := svc.UpdateStatus(msg.ID, 7, &UpdateMessageStatusRequest{
		Status: models.MessageStatusPending,
	})
	require.NoError(t, err)
	assert.Nil(t, reset.ReviewedAt)
	assert.Nil(t, reset.ReviewedBy)
	assert.Nil(t, reset.ReviewNotes)

	var stored models.Message
	require.NoError(t, svc.db.First(&stored, msg.ID).Error)
	assert.Nil(t, stored.ReviewedAt)
}

func TestUpdateStatusInvalid(t *testing.T) {
	svc := messageService(t, "pending")

	msg, err := svc.Create(&CreateMessageRequest{Text: "almost there"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(msg.ID, 1, &UpdateMessageStatusRequest{Status: "archived"})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestListByStatus(t *testing.T) {
	svc := messageService(t, "pending")

	for _, text := range []string{"first message", "second message", "third message"} {
		_, err := svc.Create(&CreateMessageRequest{Text: text})
		require.NoError(t, err)
	}

	resp, err := svc.List(models.MessageStatusPending, nil, nil, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, resp.Total)
	assert.Len(t, resp.Items, 3)

	resp, err = svc.List(models.MessageStatusApproved, nil, nil, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, resp.Total)

	_, err = svc.List("archived", nil, nil, 1, 10)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}
