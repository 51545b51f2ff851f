package models

import "time"

// Role identifies which side of the marketplace a profile belongs to.
// A profile's role is chosen once at registration and read thereafter.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleHandwerker Role = "handwerker"
	RoleUnknown    Role = ""
)

// ParseRole maps a stored role string onto a Role. Anything unrecognized
// is RoleUnknown; callers decide whether that replaces their current value.
func ParseRole(s string) Role {
	switch s {
	case string(RoleCustomer):
		return RoleCustomer
	case string(RoleHandwerker):
		return RoleHandwerker
	default:
		return RoleUnknown
	}
}

func (r Role) IsCustomer() bool   { return r == RoleCustomer }
func (r Role) IsHandwerker() bool { return r == RoleHandwerker }

// AuthUser is the authentication identity. It exists independently of the
// profile: registration creates the identity first, then the profile row.
type AuthUser struct {
	ID           string    `bson:"id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	TokenHash    string    `bson:"token_hash,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// Profile is the public-facing record keyed by the auth identity's ID.
type Profile struct {
	ID               string    `bson:"id" json:"id"`
	FullName         string    `bson:"full_name,omitempty" json:"full_name,omitempty"`
	Email            string    `bson:"email" json:"email"`
	Phone            string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Address          string    `bson:"address,omitempty" json:"address,omitempty"`
	AvatarURL        string    `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	Role             Role      `bson:"role" json:"role"`
	StripeCustomerID string    `bson:"stripe_customer_id,omitempty" json:"stripe_customer_id,omitempty"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

// ProfileUpdate carries the fields a profile owner may change. Zero values
// are skipped when building the partial update document.
type ProfileUpdate struct {
	FullName  string `json:"full_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}
