package session

import (
	"context"
	"errors"
	"testing"

	"handwerk/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
)

type fakeUserRepo struct {
	byID      map[string]*models.AuthUser
	byEmail   map[string]*models.AuthUser
	updates   map[string][]bson.M
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[string]*models.AuthUser{},
		byEmail: map[string]*models.AuthUser{},
		updates: map[string][]bson.M{},
	}
}

func (r *fakeUserRepo) Create(user *models.AuthUser) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*models.AuthUser, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

func (r *fakeUserRepo) GetByIDWithProjection(id string, projection bson.M) (*models.AuthUser, error) {
	return r.GetByID(id)
}

func (r *fakeUserRepo) GetByEmailWithProjection(email string, projection bson.M) (*models.AuthUser, error) {
	return r.byEmail[email], nil
}

func (r *fakeUserRepo) Update(user *models.AuthUser) error {
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateWithDocument(id string, update bson.M) error {
	r.updates[id] = append(r.updates[id], update)
	return nil
}

func (r *fakeUserRepo) Delete(id string) error {
	delete(r.byID, id)
	return nil
}

type fakeProfileRepo struct {
	profiles  map[string]*models.Profile
	insertErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*models.Profile{}}
}

func (r *fakeProfileRepo) Insert(p *models.Profile) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.profiles[p.ID] = p
	return nil
}

func (r *fakeProfileRepo) GetByID(id string) (*models.Profile, error) {
	return r.profiles[id], nil
}

func (r *fakeProfileRepo) GetByIDWithProjection(id string, projection bson.M) (*models.Profile, error) {
	return r.profiles[id], nil
}

func (r *fakeProfileRepo) UpdatePartial(id string, fields bson.M) error {
	p, ok := r.profiles[id]
	if !ok {
		return errors.New("profile not found")
	}
	if v, ok := fields["full_name"].(string); ok {
		p.FullName = v
	}
	if v, ok := fields["phone"].(string); ok {
		p.Phone = v
	}
	return nil
}

func (r *fakeProfileRepo) ListByRole(role models.Role) ([]models.Profile, error) {
	var out []models.Profile
	for _, p := range r.profiles {
		if p.Role == role {
			out = append(out, *p)
		}
	}
	return out, nil
}

func newTestSession(t *testing.T) (*DefaultSessionService, *fakeUserRepo, *fakeProfileRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	svc := &DefaultSessionService{
		Repo:      users,
		Profiles:  profiles,
		AuthCache: cache,
		Events:    NewAuthEventBus(),
	}
	return svc, users, profiles, mr
}

func TestRegisterCreatesIdentityProfileAndRole(t *testing.T) {
	svc, users, profiles, _ := newTestSession(t)
	ctx := context.Background()

	result := svc.Register(ctx, "anna@example.com", "secret123", models.RoleCustomer)
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Error)
	}
	if result.Token == "" || result.UserID == "" {
		t.Fatalf("missing token or user id: %+v", result)
	}

	if users.byEmail["anna@example.com"] == nil {
		t.Fatal("identity not created")
	}
	p := profiles.profiles[result.UserID]
	if p == nil || p.Role != models.RoleCustomer {
		t.Fatalf("profile missing or wrong role: %+v", p)
	}

	if !svc.IsAuthenticated() {
		t.Fatal("expected authenticated state after registration")
	}
	if svc.Role() != models.RoleCustomer {
		t.Fatalf("expected customer role, got %q", svc.Role())
	}
	if !svc.Role().IsCustomer() || svc.Role().IsHandwerker() {
		t.Fatalf("role predicates wrong for %q", svc.Role())
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, _, _, _ := newTestSession(t)

	result := svc.Register(context.Background(), "anna@example.com", "secret123", models.ParseRole("admin"))
	if result.Success {
		t.Fatal("expected rejection of unknown role")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestSession(t)
	ctx := context.Background()

	if r := svc.Register(ctx, "anna@example.com", "secret123", models.RoleCustomer); !r.Success {
		t.Fatalf("first registration failed: %q", r.Error)
	}
	if r := svc.Register(ctx, "anna@example.com", "other456", models.RoleHandwerker); r.Success {
		t.Fatal("expected duplicate email rejection")
	}
}

func TestRegisterLeavesOrphanedIdentityOnProfileFailure(t *testing.T) {
	svc, users, profiles, _ := newTestSession(t)
	profiles.insertErr = errors.New("profiles table unavailable")

	result := svc.Register(context.Background(), "anna@example.com", "secret123", models.RoleCustomer)
	if result.Success {
		t.Fatal("expected failure when the profile insert fails")
	}
	// The identity stays behind; there is no rollback.
	if users.byEmail["anna@example.com"] == nil {
		t.Fatal("identity should remain after profile failure")
	}
	if svc.IsAuthenticated() {
		t.Fatal("no session should be established")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _, _ := newTestSession(t)
	ctx := context.Background()

	svc.Register(ctx, "anna@example.com", "secret123", models.RoleCustomer)
	svc.Logout(ctx)

	wrong := svc.Login(ctx, "anna@example.com", "not-the-password")
	if wrong.Success {
		t.Fatal("expected wrong password to fail")
	}
	unknown := svc.Login(ctx, "nobody@example.com", "whatever")
	if unknown.Success {
		t.Fatal("expected unknown email to fail")
	}
	// Both failures use the same message so the response does not reveal
	// which part was wrong.
	if wrong.Error != unknown.Error {
		t.Fatalf("credential errors differ: %q vs %q", wrong.Error, unknown.Error)
	}
}

func TestLoginEstablishesSession(t *testing.T) {
	svc, _, _, mr := newTestSession(t)
	ctx := context.Background()

	reg := svc.Register(ctx, "anna@example.com", "secret123", models.RoleCustomer)
	svc.Logout(ctx)
	if svc.IsAuthenticated() {
		t.Fatal("expected signed-out state")
	}

	result := svc.Login(ctx, "anna@example.com", "secret123")
	if !result.Success {
		t.Fatalf("login failed: %q", result.Error)
	}
	if result.UserID != reg.UserID {
		t.Fatalf("user id mismatch: %q vs %q", result.UserID, reg.UserID)
	}
	if svc.Role() != models.RoleCustomer {
		t.Fatalf("role not derived: %q", svc.Role())
	}
	if !mr.Exists("auth:token:" + result.UserID) {
		t.Fatal("token hash not cached")
	}
	if !mr.Exists("authSession:current") {
		t.Fatal("restorable session not saved")
	}
}

func TestLogoutAlwaysClearsLocalState(t *testing.T) {
	svc, _, _, mr := newTestSession(t)
	ctx := context.Background()

	svc.Register(ctx, "anna@example.com", "secret123", models.RoleCustomer)

	// Take the cache down so the remote revocation fails.
	mr.Close()

	result := svc.Logout(ctx)
	if !result.Success {
		t.Fatal("logout must always succeed locally")
	}
	if result.Warning == "" {
		t.Fatal("expected a desynchronization warning")
	}
	if svc.IsAuthenticated() || svc.CurrentProfile() != nil || svc.Role() != models.RoleUnknown {
		t.Fatal("local state not cleared")
	}
}

func TestFetchProfileKeepsRoleOnUnknownValue(t *testing.T) {
	svc, _, profiles, _ := newTestSession(t)
	ctx := context.Background()

	reg := svc.Register(ctx, "anna@example.com", "secret123", models.RoleCustomer)
	if svc.Role() != models.RoleCustomer {
		t.Fatalf("setup: expected customer role, got %q", svc.Role())
	}

	// A junk role value in the row must not clobber the derived role.
	profiles.profiles[reg.UserID].Role = models.Role("admin")
	if err := svc.FetchProfile(ctx); err != nil {
		t.Fatalf("fetch profile: %v", err)
	}
	if svc.Role() != models.RoleCustomer {
		t.Fatalf("role clobbered by unknown value: %q", svc.Role())
	}
}

func TestUpdateProfileRefetches(t *testing.T) {
	svc, _, _, _ := newTestSession(t)
	ctx := context.Background()

	svc.Register(ctx, "anna@example.com", "secret123", models.RoleCustomer)

	result := svc.UpdateProfile(ctx, models.ProfileUpdate{FullName: "Anna Schmidt", Phone: "+49 30 1234"})
	if !result.Success {
		t.Fatalf("update failed: %q", result.Error)
	}
	p := svc.CurrentProfile()
	if p == nil || p.FullName != "Anna Schmidt" || p.Phone != "+49 30 1234" {
		t.Fatalf("local profile not refreshed: %+v", p)
	}
}

func TestUpdateProfileRequiresAuthentication(t *testing.T) {
	svc, _, _, _ := newTestSession(t)

	result := svc.UpdateProfile(context.Background(), models.ProfileUpdate{FullName: "Anna"})
	if result.Success {
		t.Fatal("expected failure without a session")
	}
}

func TestPasswordResetFlow(t *testing.T) {
	svc, users, _, mr := newTestSession(t)
	ctx := context.Background()

	reg := svc.Register(ctx, "anna@example.com", "secret123", models.RoleCustomer)
	svc.Logout(ctx)

	// Unknown emails get the same successful answer.
	if r := svc.ResetPassword(ctx, "nobody@example.com"); !r.Success {
		t.Fatal("unknown email must not be distinguishable")
	}

	if r := svc.ResetPassword(ctx, "anna@example.com"); !r.Success {
		t.Fatalf("reset start failed: %q", r.Error)
	}

	// Find the issued token in the cache.
	var token string
	for _, key := range mr.Keys() {
		if len(key) > len("pwreset:") && key[:len("pwreset:")] == "pwreset:" {
			token = key[len("pwreset:"):]
		}
	}
	if token == "" {
		t.Fatal("no reset token stored")
	}

	if r := svc.CompletePasswordReset(ctx, token, "newpass456"); !r.Success {
		t.Fatalf("reset completion failed: %q", r.Error)
	}
	if len(users.updates[reg.UserID]) == 0 {
		t.Fatal("password update never reached the store")
	}

	// The token is single-use.
	if r := svc.CompletePasswordReset(ctx, token, "again789"); r.Success {
		t.Fatal("expected spent token to be rejected")
	}
}

func TestAuthEventBus(t *testing.T) {
	bus := NewAuthEventBus()
	events, release := bus.Subscribe()
	defer release()

	bus.Publish(AuthEvent{Type: EventSignedIn, UserID: "u-1"})
	e := <-events
	if e.Type != EventSignedIn || e.UserID != "u-1" {
		t.Fatalf("unexpected event %+v", e)
	}
}
