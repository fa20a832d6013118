package services

import (
	"context"
	"testing"

	"github.com/ceh6514/mavwalk/server/internal/apperr"
	"github.com/ceh6514/mavwalk/server/internal/config"
	"github.com/ceh6514/mavwalk/server/internal/database"
	"github.com/ceh6514/mavwalk/server/internal/models"
	"github.com/ceh6514/mavwalk/server/pkg/push"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPusher struct {
	tokens []string
	title  string
}

func (p *recordingPusher) SendPushMultiple(ctx context.Context, tokens []string, title, body string, data map[string]string) *push.SendPushResult {
	p.tokens = tokens
	p.title = title
	return &push.SendPushResult{SuccessCount: len(tokens)}
}

type recordingEmailer struct {
	to        string
	reference string
	failWith  error
}

func (e *recordingEmailer) SendSOSEscalation(toEmail, referenceCode, requester, startName, endName, position string) error {
	e.to = toEmail
	e.reference = referenceCode
	return e.failWith
}

func walkFixture(t *testing.T) (*database.DB, *WalkService, *recordingPusher, *recordingEmailer) {
	t.Helper()

	db := setupTestDB(t)
	seedLocation(t, db, "Central Library", 32.729513, -97.115278)
	seedLocation(t, db, "University Center", 32.731654, -97.111184)

	cfg := &config.Config{SOSEscalationEmail: "safety@example.edu"}
	pusher := &recordingPusher{}
	emailer := &recordingEmailer{}
	svc := NewWalkService(db, cfg, nil, pusher, emailer)
	return db, svc, pusher, emailer
}

func TestCreateWalk(t *testing.T) {
	db, svc, _, _ := walkFixture(t)
	user := seedUser(t, db, "mav1")

	walk, err := svc.Create(context.Background(), user.ID, &CreateWalkRequest{
		Start: "Central Library",
		End:   "University Center",
	})
	require.NoError(t, err)
	assert.Equal(t, models.WalkStatusRequested, walk.Status)
	assert.Equal(t, user.ID, walk.RequesterID)
}

func TestCreateWalkIdenticalPair(t *testing.T) {
	db, svc, _, _ := walkFixture(t)
	user := seedUser(t, db, "mav1")

	_, err := svc.Create(context.Background(), user.ID, &CreateWalkRequest{
		Start: "Central Library",
		End:   "Central Library",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateWalkUnknownLocation(t *testing.T) {
	db, svc, _, _ := walkFixture(t)
	user := seedUser(t, db, "mav1")

	_, err := svc.Create(context.Background(), user.ID, &CreateWalkRequest{
		Start: "Central Library",
		End:   "Nowhere Hall",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestJoinWalk(t *testing.T) {
	db, svc, _, _ := walkFixture(t)
	requester := seedUser(t, db, "mav1")
	buddy := seedUser(t, db, "mav2")

	walk, err := svc.Create(context.Background(), requester.ID, &CreateWalkRequest{
		Start: "Central Library",
		End:   "University Center",
	})
	require.NoError(t, err)

	joined, err := svc.Join(walk.ID, buddy.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WalkStatusActive, joined.Status)

	// joining twice stays a single buddy row
	_, err = svc.Join(walk.ID, buddy.ID)
	require.NoError(t, err)
	var count int64
	require.NoError(t, db.Model(&models.WalkBuddy{}).Where("walk_request_id = ?", walk.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// the requester cannot escort themselves
	_, err = svc.Join(walk.ID, requester.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestCompleteWalk(t *testing.T) {
	db, svc, _, _ := walkFixture(t)
	requester := seedUser(t, db, "mav1")
	other := seedUser(t, db, "mav2")

	walk, err := svc.Create(context.Background(), requester.ID, &CreateWalkRequest{
		Start: "Central Library",
		End:   "University Center",
	})
	require.NoError(t, err)

	_, err = svc.Complete(walk.ID, other.ID)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	done, err := svc.Complete(walk.ID, requester.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WalkStatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
}

func TestTriggerSOS(t *testing.T) {
	db, svc, pusher, emailer := walkFixture(t)
	requester := seedUser(t, db, "mav1")
	buddy := seedUser(t, db, "mav2")

	require.NoError(t, db.Create(&models.FCMDevice{
		UserID: requester.ID, Token: "token-requester", Platform: "android", IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&models.FCMDevice{
		UserID: buddy.ID, Token: "token-buddy", Platform: "ios", IsActive: true,
	}).Error)

	walk, err := svc.Create(context.Background(), requester.ID, &CreateWalkRequest{
		Start: "Central Library",
		End:   "University Center",
	})
	require.NoError(t, err)
	_, err = svc.Join(walk.ID, buddy.ID)
	require.NoError(t, err)

	lat, lng := 32.7301, -97.1138
	alert, err := svc.TriggerSOS(context.Background(), walk.ID, requester.ID, &lat, &lng)
	require.NoError(t, err)

	assert.Len(t, alert.ReferenceCode, 36)
	assert.ElementsMatch(t, []string{"token-requester", "token-buddy"}, pusher.tokens)
	assert.Equal(t, "safety@example.edu", emailer.to)
	assert.Equal(t, alert.ReferenceCode, emailer.reference)
}

func TestTriggerSOSEmailFailureDoesNotFail(t *testing.T) {
	db, svc, _, emailer := walkFixture(t)
	emailer.failWith = assert.AnError
	requester := seedUser(t, db, "mav1")

	walk, err := svc.Create(context.Background(), requester.ID, &CreateWalkRequest{
		Start: "Central Library",
		End:   "University Center",
	})
	require.NoError(t, err)

	alert, err := svc.TriggerSOS(context.Background(), walk.ID, requester.ID, nil, nil)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.SOSAlert{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Nil(t, alert.Latitude)
}
