package session

import (
	"context"
	"sync"

	profileRepo "handwerk/database/repository/profile"
	userRepo "handwerk/database/repository/user"
	"handwerk/models"

	"github.com/go-redis/redis/v8"
)

// ActionResult is the uniform outcome of session actions. Actions never
// propagate errors past their own boundary; failures land here and in the
// container's shared error field.
type ActionResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// AuthResult extends ActionResult with the identity and token issued by
// login and registration.
type AuthResult struct {
	Success bool   `json:"success"`
	UserID  string `json:"userId,omitempty"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
}

// LogoutResult always clears local state; Warning carries a remote
// sign-out failure without turning the whole action into a failure.
type LogoutResult struct {
	Success bool   `json:"success"`
	Warning string `json:"warning,omitempty"`
}

// SessionService is the authentication/profile state container. It holds
// the current identity and derived profile/role, and keeps them in sync
// with auth-change events for the lifetime of the process.
type SessionService interface {
	Initialize(ctx context.Context) error
	Login(ctx context.Context, email, password string) AuthResult
	Register(ctx context.Context, email, password string, role models.Role) AuthResult
	Logout(ctx context.Context) LogoutResult
	FetchProfile(ctx context.Context) error
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) ActionResult
	ResetPassword(ctx context.Context, email string) ActionResult
	CompletePasswordReset(ctx context.Context, token, newPassword string) ActionResult
	UpdatePassword(ctx context.Context, newPassword string) ActionResult

	CurrentUser() *models.AuthUser
	CurrentProfile() *models.Profile
	Role() models.Role
	IsAuthenticated() bool
	LastError() string

	Close()
}

// DefaultSessionService is the production implementation.
type DefaultSessionService struct {
	Repo      userRepo.UserRepository
	Profiles  profileRepo.ProfileRepository
	AuthCache *redis.Client
	Events    *AuthEventBus

	mu      sync.RWMutex
	user    *models.AuthUser
	profile *models.Profile
	role    models.Role
	loading bool
	lastErr string

	release func()
}
