package bookingRepo

import (
	"time"

	"handwerk/database"
	"handwerk/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The list views carry the counterparty's public fields only; the detail
// view expands full contact fields plus the payment history. These lookups
// replace the relational embeds of the original schema.

var (
	listProfileProjection   = bson.M{"id": 1, "full_name": 1, "avatar_url": 1}
	detailProfileProjection = bson.M{"id": 1, "full_name": 1, "email": 1, "phone": 1, "address": 1, "avatar_url": 1}
	serviceProjection       = bson.M{"id": 1, "handwerker_id": 1, "custom_service_name": 1, "price_amount": 1, "price_unit": 1}
)

// GetByIDDetailed retrieves one booking with customer, handwerker, service
// and payments expanded.
func (r *MongoBookingRepo) GetByIDDetailed(id string) (*models.Booking, error) {
	b, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	b.Customer = r.lookupProfile(b.CustomerID, detailProfileProjection)
	b.Handwerker = r.lookupProfile(b.HandwerkerID, detailProfileProjection)
	r.attachService(b)
	r.attachPayments(b)
	return b, nil
}

func (r *MongoBookingRepo) attachCustomer(b *models.Booking) {
	b.Customer = r.lookupProfile(b.CustomerID, listProfileProjection)
}

func (r *MongoBookingRepo) attachHandwerker(b *models.Booking) {
	b.Handwerker = r.lookupProfile(b.HandwerkerID, listProfileProjection)
}

// lookupProfile returns nil when the profile is missing; a booking row
// referencing a vanished profile still renders.
func (r *MongoBookingRepo) lookupProfile(id string, projection bson.M) *models.Profile {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.FindOne().SetProjection(projection)
	var p models.Profile
	if err := database.Collection("profiles").FindOne(ctx, bson.M{"id": id}, opts).Decode(&p); err != nil {
		return nil
	}
	return &p
}

func (r *MongoBookingRepo) attachService(b *models.Booking) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.FindOne().SetProjection(serviceProjection)
	var s models.HandwerkerService
	if err := database.Collection("handwerker_services").FindOne(ctx, bson.M{"id": b.ServiceID}, opts).Decode(&s); err != nil {
		return
	}
	b.Service = &s
}

func (r *MongoBookingRepo) attachPayments(b *models.Booking) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := database.Collection("payments").Find(ctx, bson.M{"booking_id": b.ID})
	if err != nil {
		return
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	for cursor.Next(ctx) {
		var p models.Payment
		if err := cursor.Decode(&p); err != nil {
			return
		}
		payments = append(payments, p)
	}
	b.Payments = payments
}
