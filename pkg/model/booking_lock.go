package model

import "time"

// BookingLock is an advisory lock serializing admissions per property.
// Acquisition is an insert with the property-derived _id; a duplicate
// key error means another admission holds the property. ExpiresAt backs
// a TTL index so crashed holders cannot wedge a property.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
