package services

import (
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/studyhall/membership-backend/internal/apperrors"
	"github.com/studyhall/membership-backend/internal/database"
	"github.com/studyhall/membership-backend/internal/models"
	"github.com/studyhall/membership-backend/internal/utils"
	"github.com/studyhall/membership-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles staff login.
type AuthService struct {
	users  *database.UserRepository
	jwt    *jwt.Service
	logger *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users *database.UserRepository, jwtService *jwt.Service, logger *logrus.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwtService, logger: logger}
}

// LoginResult carries the issued token and the authenticated account.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login verifies credentials and issues an access token. Unknown
// usernames and wrong passwords produce the same error so login probing
// learns nothing.
func (s *AuthService) Login(req models.LoginRequest, userAgent, clientIP string) (*LoginResult, error) {
	user, err := s.users.GetActiveByUsername(req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Unauthorized("Invalid credentials")
		}
		return nil, apperrors.Storage(err, "failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.WithFields(logrus.Fields{
			"username": req.Username,
			"ip":       clientIP,
		}).Warn("Failed login attempt")
		return nil, apperrors.Unauthorized("Invalid credentials")
	}

	token, err := s.jwt.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, apperrors.Storage(err, "failed to issue access token")
	}

	if err := s.users.TouchLastLogin(user.ID); err != nil {
		s.logger.WithField("user_id", user.ID).Warn("Failed to record last login")
	}

	device := utils.ParseUserAgent(userAgent)
	s.logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"ip":       clientIP,
		"browser":  device.Browser,
		"os":       device.OS,
		"device":   device.DeviceType,
	}).Info("Staff login")

	return &LoginResult{Token: token, User: user}, nil
}
