package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ceh6514/mavwalk/server/internal/apperr"
	"github.com/ceh6514/mavwalk/server/internal/config"
	"github.com/ceh6514/mavwalk/server/internal/database"
	"github.com/ceh6514/mavwalk/server/internal/models"
	"github.com/ceh6514/mavwalk/server/pkg/push"
	"github.com/google/uuid"
)

// Pusher fans out a push notification to device tokens.
type Pusher interface {
	SendPushMultiple(ctx context.Context, tokens []string, title, body string, data map[string]string) *push.SendPushResult
}

// Emailer delivers the SOS escalation mail to campus safety.
type Emailer interface {
	SendSOSEscalation(toEmail, referenceCode, requester, startName, endName, position string) error
}

type WalkService struct {
	db       *database.DB
	cfg      *config.Config
	routes   *RouteService
	location *LocationService
	pusher   Pusher
	emailer  Emailer
}

func NewWalkService(db *database.DB, cfg *config.Config, routes *RouteService, pusher Pusher, emailer Emailer) *WalkService {
	return &WalkService{
		db:       db,
		cfg:      cfg,
		routes:   routes,
		location: NewLocationService(db),
		pusher:   pusher,
		emailer:  emailer,
	}
}

type CreateWalkRequest struct {
	Start string  `json:"start"`
	End   string  `json:"end"`
	Note  *string `json:"note"`
}

// Create validates the location pair and stores a new walk request. The
// route is attached when it can be resolved; a routing failure does not
// block the walk.
func (s *WalkService) Create(ctx context.Context, userID uint, req *CreateWalkRequest) (*models.WalkRequest, error) {
	startName := strings.TrimSpace(req.Start)
	endName := strings.TrimSpace(req.End)
	if startName == "" {
		return nil, apperr.Validation("start", "start location is required")
	}
	if endName == "" {
		return nil, apperr.Validation("end", "destination is required")
	}
	if startName == endName {
		return nil, apperr.Validation("end", "start and destination must differ")
	}

	start, err := s.location.GetByName(startName)
	if err != nil {
		return nil, err
	}
	end, err := s.location.GetByName(endName)
	if err != nil {
		return nil, err
	}

	walk := models.WalkRequest{
		RequesterID:     userID,
		StartLocationID: start.ID,
		EndLocationID:   end.ID,
		Status:          models.WalkStatusRequested,
		Note:            req.Note,
	}

	if s.routes != nil {
		route, err := s.routes.Resolve(ctx, startName, endName)
		if err != nil {
			log.Printf("[WalkService] route unavailable for %q -> %q: %v", startName, endName, err)
		} else {
			walk.RouteID = &route.ID
		}
	}

	if err := s.db.WithContext(ctx).Create(&walk).Error; err != nil {
		return nil, err
	}
	return &walk, nil
}

// Join adds a buddy to a walk and moves it to active. Joining twice is a
// no-op.
func (s *WalkService) Join(walkID, buddyID uint) (*models.WalkRequest, error) {
	var walk models.WalkRequest
	if err := s.db.First(&walk, walkID).Error; err != nil {
		return nil, err
	}
	if walk.Status == models.WalkStatusCompleted || walk.Status == models.WalkStatusCancelled {
		return nil, apperr.Validation("walk", "walk is no longer open")
	}
	if walk.RequesterID == buddyID {
		return nil, apperr.Validation("buddy", "requester cannot join their own walk")
	}

	buddy := models.WalkBuddy{WalkRequestID: walkID, BuddyID: buddyID}
	err := s.db.Where("walk_request_id = ? AND buddy_id = ?", walkID, buddyID).
		FirstOrCreate(&buddy).Error
	if err != nil {
		return nil, err
	}

	if walk.Status == models.WalkStatusRequested {
		walk.Status = models.WalkStatusActive
		if err := s.db.Model(&walk).Update("status", walk.Status).Error; err != nil {
			return nil, err
		}
	}
	return &walk, nil
}

// Complete marks a walk finished. Only the requester may complete it.
func (s *WalkService) Complete(walkID, userID uint) (*models.WalkRequest, error) {
	var walk models.WalkRequest
	if err := s.db.First(&walk, walkID).Error; err != nil {
		return nil, err
	}
	if walk.RequesterID != userID {
		return nil, apperr.Validation("walk", "only the requester can complete a walk")
	}
	if walk.Status == models.WalkStatusCompleted {
		return &walk, nil
	}

	now := time.Now()
	walk.Status = models.WalkStatusCompleted
	walk.CompletedAt = &now
	err := s.db.Model(&walk).Updates(map[string]interface{}{
		"status":       walk.Status,
		"completed_at": walk.CompletedAt,
	}).Error
	if err != nil {
		return nil, err
	}
	return &walk, nil
}

// TriggerSOS persists an alert, then fans out push and email notifications.
// Notification failures are logged, never surfaced: the alert row is the
// record that matters.
func (s *WalkService) TriggerSOS(ctx context.Context, walkID, userID uint, lat, lng *float64) (*models.SOSAlert, error) {
	var walk models.WalkRequest
	err := s.db.WithContext(ctx).
		Preload("Requester").
		Preload("StartLocation").
		Preload("EndLocation").
		Preload("Buddies").
		First(&walk, walkID).Error
	if err != nil {
		return nil, err
	}

	alert := models.SOSAlert{
		WalkRequestID: walkID,
		UserID:        userID,
		ReferenceCode: uuid.NewString(),
		Latitude:      lat,
		Longitude:     lng,
	}
	if err := s.db.WithContext(ctx).Create(&alert).Error; err != nil {
		return nil, err
	}

	s.notifyParticipants(ctx, &walk, &alert)
	s.escalateByEmail(&walk, &alert)
	return &alert, nil
}

func (s *WalkService) notifyParticipants(ctx context.Context, walk *models.WalkRequest, alert *models.SOSAlert) {
	if s.pusher == nil {
		return
	}

	userIDs := []uint{walk.RequesterID}
	for _, b := range walk.Buddies {
		userIDs = append(userIDs, b.BuddyID)
	}

	var tokens []string
	err := s.db.Model(&models.FCMDevice{}).
		Where("user_id IN ? AND is_active = ?", userIDs, true).
		Pluck("token", &tokens).Error
	if err != nil {
		log.Printf("[WalkService] SOS %s: device lookup failed: %v", alert.ReferenceCode, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	result := s.pusher.SendPushMultiple(ctx, tokens,
		"SOS alert",
		"An SOS was triggered on your walk. Campus safety has been notified.",
		map[string]string{
			"walk_id":        fmt.Sprintf("%d", walk.ID),
			"reference_code": alert.ReferenceCode,
		})
	if result.FailureCount > 0 {
		log.Printf("[WalkService] SOS %s: push failures: %d of %d",
			alert.ReferenceCode, result.FailureCount, len(tokens))
	}
}

func (s *WalkService) escalateByEmail(walk *models.WalkRequest, alert *models.SOSAlert) {
	if s.emailer == nil || s.cfg.SOSEscalationEmail == "" {
		return
	}

	requester := "unknown"
	if walk.Requester != nil {
		requester = walk.Requester.Username
	}
	startName, endName := "unknown", "unknown"
	if walk.StartLocation != nil {
		startName = walk.StartLocation.Name
	}
	if walk.EndLocation != nil {
		endName = walk.EndLocation.Name
	}
	position := "not reported"
	if alert.Latitude != nil && alert.Longitude != nil {
		position = fmt.Sprintf("%.6f, %.6f", *alert.Latitude, *alert.Longitude)
	}

	err := s.emailer.SendSOSEscalation(s.cfg.SOSEscalationEmail,
		alert.ReferenceCode, requester, startName, endName, position)
	if err != nil {
		log.Printf("[WalkService] SOS %s: escalation email failed: %v", alert.ReferenceCode, err)
	}
}
