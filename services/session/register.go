package session

import (
	"context"
	"time"

	"handwerk/models"
	"handwerk/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Register creates the auth identity, then inserts the profile row with
// the chosen role. If the identity is created but the profile insert
// fails, the identity remains without a profile; the failure is reported
// but not rolled back.
func (s *DefaultSessionService) Register(ctx context.Context, email, password string, role models.Role) AuthResult {
	if email == "" || password == "" {
		return s.authFailure("email and password are required")
	}
	if role != models.RoleCustomer && role != models.RoleHandwerker {
		return s.authFailure("role must be customer or handwerker")
	}

	s.setLoading(true)
	defer s.setLoading(false)

	existing, err := s.Repo.GetByEmailWithProjection(email, bson.M{"id": 1})
	if err != nil {
		utils.GetLogger().Error("Register: failed to check for existing user", zap.Error(err))
		return s.authFailure("registration failed, please try again")
	}
	if existing != nil {
		return s.authFailure("a user with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("Register: failed to hash password", zap.Error(err))
		return s.authFailure("registration failed, please try again")
	}

	usr := models.AuthUser{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.Repo.Create(&usr); err != nil {
		utils.GetLogger().Error("Register: failed to create user", zap.Error(err))
		return s.authFailure("registration failed, please try again")
	}

	profile := models.Profile{
		ID:        usr.ID,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now(),
	}
	if err := s.Profiles.Insert(&profile); err != nil {
		// The auth identity stays behind without a profile.
		utils.GetLogger().Error("Register: profile insert failed after identity creation",
			zap.String("userId", usr.ID), zap.Error(err))
		return s.authFailure("failed to create profile")
	}

	token, err := s.issueToken(ctx, &usr)
	if err != nil {
		utils.GetLogger().Error("Register: token issue failed", zap.Error(err))
		return s.authFailure("registration failed, please try again")
	}

	s.mu.Lock()
	s.user = &usr
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.FetchProfile(ctx); err != nil {
		utils.GetLogger().Warn("Register: profile fetch failed", zap.Error(err))
	}
	s.Events.Publish(AuthEvent{Type: EventSignedIn, UserID: usr.ID, Email: usr.Email})

	return AuthResult{Success: true, UserID: usr.ID, Token: token}
}
