package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ceh6514/mavwalk/server/internal/apperr"
	"github.com/ceh6514/mavwalk/server/internal/config"
	"github.com/ceh6514/mavwalk/server/internal/database"
	"github.com/ceh6514/mavwalk/server/internal/models"
	"github.com/ceh6514/mavwalk/server/internal/moderation"
)

// MaxMessageLength is the character limit for encouragement messages.
const MaxMessageLength = 280

type MessageService struct {
	db     *database.DB
	cfg    *config.Config
	filter *moderation.Filter
}

func NewMessageService(db *database.DB, cfg *config.Config, filter *moderation.Filter) *MessageService {
	return &MessageService{db: db, cfg: cfg, filter: filter}
}

type CreateMessageRequest struct {
	Text            string `json:"text"`
	StartLocationID *uint  `json:"start_location_id"`
	EndLocationID   *uint  `json:"end_location_id"`
	RouteID         *uint  `json:"route_id"`
}

type UpdateMessageStatusRequest struct {
	Status      string  `json:"status"`
	ReviewNotes *string `json:"review_notes"`
}

type MessageListResponse struct {
	Items      []models.Message `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// Create sanitizes, classifies and stores a new message. Stored text is the
// masked form; the raw original is never persisted once flagged.
func (s *MessageService) Create(req *CreateMessageRequest) (*models.Message, error) {
	collapsed, err := s.validateText(req.Text)
	if err != nil {
		return nil, err
	}

	classification, err := s.filter.Classify(collapsed)
	if err != nil {
		return nil, err
	}
	text := collapsed
	if !classification.Clean() {
		text, err = s.filter.Clean(collapsed)
		if err != nil {
			return nil, err
		}
	}

	return s.store(req, text, classification.Category)
}

// CreateModerated stores text that the moderation gate has already
// classified and masked; only validation and persistence happen here.
func (s *MessageService) CreateModerated(req *CreateMessageRequest, category string) (*models.Message, error) {
	collapsed, err := s.validateText(req.Text)
	if err != nil {
		return nil, err
	}
	return s.store(req, collapsed, category)
}

func (s *MessageService) validateText(text string) (string, error) {
	collapsed := strings.Join(strings.Fields(text), " ")
	if collapsed == "" {
		return "", apperr.Validation("text", "message text is required")
	}
	if utf8.RuneCountInString(collapsed) > MaxMessageLength {
		return "", apperr.Validation("text",
			fmt.Sprintf("message text exceeds the %d character limit", MaxMessageLength))
	}
	return collapsed, nil
}

func (s *MessageService) store(req *CreateMessageRequest, text, category string) (*models.Message, error) {
	status := s.cfg.MessageDefaultStatus
	if !models.IsValidMessageStatus(status) {
		status = models.MessageStatusPending
	}

	message := models.Message{
		Text:              text,
		Status:            status,
		ProfanityCategory: category,
		StartLocationID:   req.StartLocationID,
		EndLocationID:     req.EndLocationID,
		RouteID:           req.RouteID,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// List retrieves messages newest first, optionally filtered by status and
// location pair.
func (s *MessageService) List(status string, startLocationID, endLocationID *uint, page, limit int) (*MessageListResponse, error) {
	if status != "" && !models.IsValidMessageStatus(status) {
		return nil, apperr.Validation("status", fmt.Sprintf("unknown status %q", status))
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.db.Model(&models.Message{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if startLocationID != nil {
		query = query.Where("start_location_id = ?", *startLocationID)
	}
	if endLocationID != nil {
		query = query.Where("end_location_id = ?", *endLocationID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var messages []models.Message
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &MessageListResponse{
		Items:      messages,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateStatus moves a message through review. ReviewedAt is stamped when
// the message leaves pending and cleared when it is reset to pending.
func (s *MessageService) UpdateStatus(id uint, reviewerID uint, req *UpdateMessageStatusRequest) (*models.Message, error) {
	if !models.IsValidMessageStatus(req.Status) {
		return nil, apperr.Validation("status", fmt.Sprintf("unknown status %q", req.Status))
	}

	var message models.Message
	if err := s.db.First(&message, id).Error; err != nil {
		return nil, err
	}

	message.Status = req.Status
	if req.Status == models.MessageStatusPending {
		message.ReviewedBy = nil
		message.ReviewNotes = nil
		message.ReviewedAt = nil
	} else {
		now := time.Now()
		message.ReviewedBy = &reviewerID
		message.ReviewNotes = req.ReviewNotes
		message.ReviewedAt = &now
	}

	err := s.db.Model(&message).
		Select("status", "reviewed_by", "review_notes", "reviewed_at").
		Updates(map[string]interface{}{
			"status":       message.Status,
			"reviewed_by":  message.ReviewedBy,
			"review_notes": message.ReviewNotes,
			"reviewed_at":  message.ReviewedAt,
		}).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}
