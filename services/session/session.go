package session

import (
	"context"
	"fmt"
	"time"

	"handwerk/models"
	"handwerk/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// Initialize restores a persisted session if one exists and registers the
// standing auth-change subscription. Safe to call once per process; the
// subscription lives until Close.
func (s *DefaultSessionService) Initialize(ctx context.Context) error {
	saved, err := utils.GetAuthSession(ctx, s.AuthCache, utils.CurrentAuthSessionKey)
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}
	if saved != nil {
		usr, err := s.Repo.GetByIDWithProjection(saved.UserID, bson.M{"password_hash": 0})
		if err != nil {
			utils.GetLogger().Warn("Initialize: stale session, user not found", zap.String("userId", saved.UserID))
		} else {
			s.mu.Lock()
			s.user = usr
			s.mu.Unlock()
			if err := s.FetchProfile(ctx); err != nil {
				utils.GetLogger().Warn("Initialize: profile load failed", zap.Error(err))
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.release != nil {
		return nil
	}
	events, release := s.Events.Subscribe()
	s.release = release
	go s.watchAuthEvents(events)
	return nil
}

// watchAuthEvents re-synchronizes local state on sign-in and clears the
// profile and role on sign-out.
func (s *DefaultSessionService) watchAuthEvents(events <-chan AuthEvent) {
	for e := range events {
		switch e.Type {
		case EventSignedIn:
			usr, err := s.Repo.GetByIDWithProjection(e.UserID, bson.M{"password_hash": 0})
			if err != nil {
				utils.GetLogger().Warn("auth event: user fetch failed", zap.Error(err))
				continue
			}
			s.mu.Lock()
			s.user = usr
			s.mu.Unlock()
			if err := s.FetchProfile(context.Background()); err != nil {
				utils.GetLogger().Warn("auth event: profile fetch failed", zap.Error(err))
			}
		case EventSignedOut:
			s.mu.Lock()
			s.user = nil
			s.profile = nil
			s.role = models.RoleUnknown
			s.mu.Unlock()
		}
	}
}

// Close releases the auth-change subscription. Called on shutdown.
func (s *DefaultSessionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

// Login authenticates with email and password. Backend failures are
// reported through the result, never raised.
func (s *DefaultSessionService) Login(ctx context.Context, email, password string) AuthResult {
	s.setLoading(true)
	defer s.setLoading(false)

	usr, err := s.Repo.GetByEmailWithProjection(email, nil)
	if err != nil {
		utils.GetLogger().Error("Login: failed to fetch user", zap.Error(err))
		return s.authFailure("login failed, please try again")
	}
	if usr == nil {
		return s.authFailure("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return s.authFailure("invalid email or password")
	}

	token, err := s.issueToken(ctx, usr)
	if err != nil {
		utils.GetLogger().Error("Login: token issue failed", zap.Error(err))
		return s.authFailure("login failed, please try again")
	}

	s.mu.Lock()
	s.user = usr
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.FetchProfile(ctx); err != nil {
		utils.GetLogger().Warn("Login: profile fetch failed", zap.Error(err))
	}
	s.Events.Publish(AuthEvent{Type: EventSignedIn, UserID: usr.ID, Email: usr.Email})

	return AuthResult{Success: true, UserID: usr.ID, Token: token}
}

// issueToken mints a JWT, persists its hash and saves the restorable
// session snapshot.
func (s *DefaultSessionService) issueToken(ctx context.Context, usr *models.AuthUser) (string, error) {
	token, err := utils.GenerateToken(usr.ID, usr.Email, tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate auth token: %w", err)
	}
	tokenHash := utils.HashToken(token)

	update := bson.M{"$set": bson.M{"token_hash": tokenHash, "updated_at": time.Now()}}
	if err := s.Repo.UpdateWithDocument(usr.ID, update); err != nil {
		return "", fmt.Errorf("failed to store token hash: %w", err)
	}
	usr.TokenHash = tokenHash

	if err := s.AuthCache.Set(ctx, utils.AuthCachePrefix+usr.ID, tokenHash, time.Hour).Err(); err != nil {
		utils.GetLogger().Warn("issueToken: auth cache set failed", zap.Error(err))
	}

	authSession := utils.AuthSession{
		UserID:    usr.ID,
		Email:     usr.Email,
		TokenHash: tokenHash,
		CreatedAt: time.Now(),
	}
	if err := utils.SaveAuthSession(ctx, s.AuthCache, utils.CurrentAuthSessionKey, authSession, tokenTTL); err != nil {
		utils.GetLogger().Warn("issueToken: session save failed", zap.Error(err))
	}
	return token, nil
}

// Logout clears local state first; a failing remote revocation is
// surfaced as a warning, not a failure.
func (s *DefaultSessionService) Logout(ctx context.Context) LogoutResult {
	s.mu.RLock()
	usr := s.user
	s.mu.RUnlock()

	var warning string
	if usr != nil {
		if err := s.revokeRemote(ctx, usr.ID); err != nil {
			utils.GetLogger().Warn("Logout: remote revocation failed", zap.Error(err))
			warning = "logout may not be fully synchronized: " + err.Error()
		}
	}

	s.mu.Lock()
	s.user = nil
	s.profile = nil
	s.role = models.RoleUnknown
	s.mu.Unlock()

	if usr != nil {
		s.Events.Publish(AuthEvent{Type: EventSignedOut, UserID: usr.ID, Email: usr.Email})
	}
	return LogoutResult{Success: true, Warning: warning}
}

func (s *DefaultSessionService) revokeRemote(ctx context.Context, userID string) error {
	if err := s.AuthCache.Del(ctx, utils.AuthCachePrefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to clear token cache: %w", err)
	}
	if err := utils.DeleteAuthSession(ctx, s.AuthCache, utils.CurrentAuthSessionKey); err != nil {
		return fmt.Errorf("failed to clear saved session: %w", err)
	}
	update := bson.M{"$set": bson.M{"token_hash": "", "updated_at": time.Now()}}
	if err := s.Repo.UpdateWithDocument(userID, update); err != nil {
		return fmt.Errorf("failed to clear token hash: %w", err)
	}
	return nil
}

// FetchProfile replaces the local profile from the profiles row and
// derives the role. A no-op when no user is set. An unrecognized role
// value leaves the previous role in place.
func (s *DefaultSessionService) FetchProfile(ctx context.Context) error {
	s.mu.RLock()
	usr := s.user
	s.mu.RUnlock()
	if usr == nil {
		return nil
	}

	s.setLoading(true)
	defer s.setLoading(false)

	profile, err := s.Profiles.GetByID(usr.ID)
	if err != nil {
		s.setError(err.Error())
		return fmt.Errorf("failed to fetch profile: %w", err)
	}
	if profile == nil {
		s.setError("profile not found")
		return fmt.Errorf("profile for user %s not found", usr.ID)
	}

	s.mu.Lock()
	s.profile = profile
	if r := models.ParseRole(string(profile.Role)); r != models.RoleUnknown {
		s.role = r
	}
	s.mu.Unlock()
	return nil
}

// UpdateProfile issues a partial update keyed by the current user's ID,
// then unconditionally re-fetches to keep local state authoritative.
func (s *DefaultSessionService) UpdateProfile(ctx context.Context, update models.ProfileUpdate) ActionResult {
	s.mu.RLock()
	usr := s.user
	s.mu.RUnlock()
	if usr == nil {
		return ActionResult{Success: false, Error: "not authenticated"}
	}

	s.setLoading(true)
	defer s.setLoading(false)

	fields := bson.M{}
	if update.FullName != "" {
		fields["full_name"] = update.FullName
	}
	if update.Phone != "" {
		fields["phone"] = update.Phone
	}
	if update.Address != "" {
		fields["address"] = update.Address
	}
	if update.AvatarURL != "" {
		fields["avatar_url"] = update.AvatarURL
	}

	if len(fields) > 0 {
		if err := s.Profiles.UpdatePartial(usr.ID, fields); err != nil {
			s.setError(err.Error())
			return ActionResult{Success: false, Error: err.Error()}
		}
	}

	if err := s.FetchProfile(ctx); err != nil {
		return ActionResult{Success: false, Error: err.Error()}
	}
	return ActionResult{Success: true}
}

// --- container state accessors ---

func (s *DefaultSessionService) CurrentUser() *models.AuthUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *DefaultSessionService) CurrentProfile() *models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *DefaultSessionService) Role() models.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

func (s *DefaultSessionService) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

func (s *DefaultSessionService) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *DefaultSessionService) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *DefaultSessionService) setError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

func (s *DefaultSessionService) authFailure(msg string) AuthResult {
	s.setError(msg)
	return AuthResult{Success: false, Error: msg}
}
