package profileRepo

import (
	"handwerk/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ProfileRepository defines data access for profile rows. Profiles are
// keyed by the auth identity's ID.
type ProfileRepository interface {
	Insert(profile *models.Profile) error
	// GetByID returns (nil, nil) when no profile exists for the ID.
	GetByID(id string) (*models.Profile, error)
	GetByIDWithProjection(id string, projection bson.M) (*models.Profile, error)
	// UpdatePartial applies only the given fields, keyed by profile ID.
	UpdatePartial(id string, fields bson.M) error
	// ListByRole returns profiles with the given role, public fields only.
	ListByRole(role models.Role) ([]models.Profile, error)
}
