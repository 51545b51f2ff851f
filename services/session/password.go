package session

import (
	"context"
	"time"

	"handwerk/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	resetTokenPrefix = "pwreset:"
	resetTokenTTL    = 30 * time.Minute
)

// ResetPassword starts a credential-recovery flow for the given email.
// The reset token is stored server-side; delivery to the user's inbox is
// outside this layer. Unknown emails get the same successful response.
func (s *DefaultSessionService) ResetPassword(ctx context.Context, email string) ActionResult {
	usr, err := s.Repo.GetByEmailWithProjection(email, bson.M{"id": 1, "email": 1})
	if err != nil {
		utils.GetLogger().Error("ResetPassword: lookup failed", zap.Error(err))
		return ActionResult{Success: false, Error: "password reset failed, please try again"}
	}
	if usr == nil {
		return ActionResult{Success: true}
	}

	token := uuid.New().String()
	if err := s.AuthCache.Set(ctx, resetTokenPrefix+token, usr.ID, resetTokenTTL).Err(); err != nil {
		utils.GetLogger().Error("ResetPassword: token store failed", zap.Error(err))
		return ActionResult{Success: false, Error: "password reset failed, please try again"}
	}

	utils.GetLogger().Info("password reset token issued",
		zap.String("userId", usr.ID), zap.String("token", token))
	return ActionResult{Success: true}
}

// CompletePasswordReset redeems a reset token and sets the new password.
func (s *DefaultSessionService) CompletePasswordReset(ctx context.Context, token, newPassword string) ActionResult {
	if token == "" || newPassword == "" {
		return ActionResult{Success: false, Error: "token and new password are required"}
	}

	userID, err := s.AuthCache.Get(ctx, resetTokenPrefix+token).Result()
	if err == redis.Nil {
		return ActionResult{Success: false, Error: "invalid or expired reset token"}
	}
	if err != nil {
		utils.GetLogger().Error("CompletePasswordReset: token lookup failed", zap.Error(err))
		return ActionResult{Success: false, Error: "password reset failed, please try again"}
	}

	if res := s.setPassword(userID, newPassword); !res.Success {
		return res
	}
	_ = s.AuthCache.Del(ctx, resetTokenPrefix+token).Err()
	return ActionResult{Success: true}
}

// UpdatePassword sets a new password for the current user. Local
// user/profile state is untouched.
func (s *DefaultSessionService) UpdatePassword(ctx context.Context, newPassword string) ActionResult {
	s.mu.RLock()
	usr := s.user
	s.mu.RUnlock()
	if usr == nil {
		return ActionResult{Success: false, Error: "not authenticated"}
	}
	if newPassword == "" {
		return ActionResult{Success: false, Error: "new password is required"}
	}
	return s.setPassword(usr.ID, newPassword)
}

func (s *DefaultSessionService) setPassword(userID, newPassword string) ActionResult {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.GetLogger().Error("setPassword: hash failed", zap.Error(err))
		return ActionResult{Success: false, Error: "password update failed, please try again"}
	}

	update := bson.M{"$set": bson.M{"password_hash": string(hashedPassword), "updated_at": time.Now()}}
	if err := s.Repo.UpdateWithDocument(userID, update); err != nil {
		utils.GetLogger().Error("setPassword: update failed", zap.Error(err))
		return ActionResult{Success: false, Error: "password update failed, please try again"}
	}
	return ActionResult{Success: true}
}
