package models

import "time"

// HandwerkerService is a service offering published by a handwerker.
type HandwerkerService struct {
	ID                string    `bson:"id" json:"id"`
	HandwerkerID      string    `bson:"handwerker_id" json:"handwerker_id"`
	CustomServiceName string    `bson:"custom_service_name" json:"custom_service_name"`
	Description       string    `bson:"description,omitempty" json:"description,omitempty"`
	PriceAmount       float64   `bson:"price_amount" json:"price_amount"`
	PriceUnit         string    `bson:"price_unit,omitempty" json:"price_unit,omitempty"`
	Active            bool      `bson:"active" json:"active"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
}
