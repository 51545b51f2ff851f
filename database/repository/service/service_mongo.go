package serviceRepo

import (
	"context"
	"fmt"
	"time"

	"handwerk/database"
	"handwerk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ServiceRepository defines read access to handwerker service offerings.
type ServiceRepository interface {
	// GetByID returns (nil, nil) when no offering exists.
	GetByID(id string) (*models.HandwerkerService, error)
	ListActive() ([]models.HandwerkerService, error)
	ListByHandwerker(handwerkerID string) ([]models.HandwerkerService, error)
}

// MongoServiceRepo implements ServiceRepository using MongoDB.
type MongoServiceRepo struct {
	coll *mongo.Collection
}

// NewMongoServiceRepo creates a ServiceRepository backed by the
// handwerker_services collection.
func NewMongoServiceRepo() ServiceRepository {
	return &MongoServiceRepo{coll: database.Collection("handwerker_services")}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// GetByID retrieves one offering, or (nil, nil) when missing.
func (r *MongoServiceRepo) GetByID(id string) (*models.HandwerkerService, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var s models.HandwerkerService
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch service with id %s: %w", id, err)
	}
	return &s, nil
}

// ListActive returns all active offerings.
func (r *MongoServiceRepo) ListActive() ([]models.HandwerkerService, error) {
	return r.list(bson.M{"active": true})
}

// ListByHandwerker returns a handwerker's offerings.
func (r *MongoServiceRepo) ListByHandwerker(handwerkerID string) ([]models.HandwerkerService, error) {
	return r.list(bson.M{"handwerker_id": handwerkerID})
}

func (r *MongoServiceRepo) list(filter bson.M) ([]models.HandwerkerService, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.HandwerkerService
	for cursor.Next(ctx) {
		var s models.HandwerkerService
		if err := cursor.Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to decode service: %w", err)
		}
		services = append(services, s)
	}
	return services, nil
}
