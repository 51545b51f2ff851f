package photoRepo

import (
	"context"
	"fmt"
	"time"

	"handwerk/database"
	"handwerk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// PhotoRepository defines data access for booking photo rows.
type PhotoRepository interface {
	Insert(photo *models.BookingPhoto) error
	ListByBooking(bookingID string) ([]models.BookingPhoto, error)
}

// MongoPhotoRepo implements PhotoRepository using MongoDB.
type MongoPhotoRepo struct {
	coll *mongo.Collection
}

// NewMongoPhotoRepo creates a PhotoRepository backed by the booking_photos collection.
func NewMongoPhotoRepo() PhotoRepository {
	return &MongoPhotoRepo{coll: database.Collection("booking_photos")}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Insert creates a new photo row.
func (r *MongoPhotoRepo) Insert(photo *models.BookingPhoto) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if photo.CreatedAt.IsZero() {
		photo.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, photo); err != nil {
		return fmt.Errorf("failed to insert booking photo: %w", err)
	}
	return nil
}

// ListByBooking returns all photo rows for a booking.
func (r *MongoPhotoRepo) ListByBooking(bookingID string) ([]models.BookingPhoto, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return nil, fmt.Errorf("failed to list booking photos: %w", err)
	}
	defer cursor.Close(ctx)

	var photos []models.BookingPhoto
	for cursor.Next(ctx) {
		var p models.BookingPhoto
		if err := cursor.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to decode booking photo: %w", err)
		}
		photos = append(photos, p)
	}
	return photos, nil
}
