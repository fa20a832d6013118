package services

import (
	"errors"
	"strings"
	"time"

	"github.com/ceh6514/mavwalk/server/internal/apperr"
	"github.com/ceh6514/mavwalk/server/internal/config"
	"github.com/ceh6514/mavwalk/server/internal/database"
	"github.com/ceh6514/mavwalk/server/internal/models"
	"github.com/ceh6514/mavwalk/server/pkg/auth"
	"gorm.io/gorm"
)

type AuthService struct {
	db  *database.DB
	cfg *config.Config
}

func NewAuthService(db *database.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Request/Response types
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	User         *UserResponse `json:"user"`
}

type UserResponse struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	IsActive   bool      `json:"is_active"`
	IsStaff    bool      `json:"is_staff"`
	DateJoined time.Time `json:"date_joined"`
}

func toUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Name:       user.Name,
		IsActive:   user.IsActive,
		IsStaff:    user.IsStaff,
		DateJoined: user.DateJoined,
	}
}

// Register creates a new user account
func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperr.Validation("username", "username is required")
	}
	if len(req.Password) < 8 {
		return nil, apperr.Validation("password", "password must be at least 8 characters")
	}

	var existing models.User
	if err := s.db.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, apperr.Validation("username", "username is already taken")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: username,
		Email:    strings.TrimSpace(req.Email),
		Password: hashedPassword,
		Name:     strings.TrimSpace(req.Name),
		IsActive: true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	return s.issueTokens(&user)
}

// Login authenticates by username and password
func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	var user models.User
	err := s.db.Where("username = ?", req.Username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validation("username", "invalid credentials")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, apperr.Validation("username", "account is disabled")
	}
	if !auth.CheckPassword(req.Password, user.Password) {
		return nil, apperr.Validation("username", "invalid credentials")
	}

	now := time.Now()
	s.db.Model(&user).Update("last_login", &now)

	return s.issueTokens(&user)
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(req *RefreshTokenRequest) (*AuthResponse, error) {
	claims, err := auth.ValidateRefreshToken(req.RefreshToken, s.cfg.JWTSecretKey)
	if err != nil {
		return nil, apperr.Validation("refresh_token", "invalid refresh token")
	}

	var user models.User
	if err := s.db.First(&user, claims.UserID).Error; err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.Validation("refresh_token", "account is disabled")
	}

	return s.issueTokens(&user)
}

// RegisterDevice stores or reactivates an FCM device token for a user
func (s *AuthService) RegisterDevice(userID uint, req *RegisterDeviceRequest) (*models.FCMDevice, error) {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return nil, apperr.Validation("token", "device token is required")
	}

	var device models.FCMDevice
	err := s.db.Where("token = ?", token).First(&device).Error
	if err == nil {
		device.UserID = userID
		device.Platform = req.Platform
		device.IsActive = true
		if err := s.db.Save(&device).Error; err != nil {
			return nil, err
		}
		return &device, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	device = models.FCMDevice{
		UserID:   userID,
		Token:    token,
		Platform: req.Platform,
		IsActive: true,
	}
	if err := s.db.Create(&device).Error; err != nil {
		return nil, err
	}
	return &device, nil
}

// UnregisterDevice deactivates a device token
func (s *AuthService) UnregisterDevice(userID uint, token string) error {
	result := s.db.Model(&models.FCMDevice{}).
		Where("token = ? AND user_id = ?", token, userID).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, refreshToken, err := auth.GenerateTokenPair(
		user.ID, user.IsStaff, s.cfg.JWTSecretKey,
		s.cfg.JWTAccessTokenExpireMin, s.cfg.JWTRefreshTokenExpireDays)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		User:         toUserResponse(user),
	}, nil
}
