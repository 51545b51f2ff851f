package userRepo

import (
	"handwerk/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines data access for auth identities.
type UserRepository interface {
	Create(user *models.AuthUser) error
	GetByID(id string) (*models.AuthUser, error)
	GetByIDWithProjection(id string, projection bson.M) (*models.AuthUser, error)
	// GetByEmailWithProjection returns (nil, nil) when no identity exists.
	GetByEmailWithProjection(email string, projection bson.M) (*models.AuthUser, error)
	Update(user *models.AuthUser) error
	UpdateWithDocument(id string, update bson.M) error
	Delete(id string) error
}
