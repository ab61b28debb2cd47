package model

import (
	"time"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// DateLayout is the wire format for booking dates. Bookings are whole-day
// ranges; both start and end are inclusive.
const DateLayout = "2006-01-02"

type Booking struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PropertyID string    `json:"property_id" bson:"property_id" validate:"required,mongodb"`
	TenantID   string    `json:"tenant_id" bson:"tenant_id" validate:"required"`
	StartDate  time.Time `json:"start_date" bson:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" bson:"end_date" validate:"required"`
	Status     string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// BookingRequest is the admission input as submitted by a caller. Dates
// arrive as YYYY-MM-DD strings and are parsed before any store access.
type BookingRequest struct {
	PropertyID string `json:"property_id" validate:"required"`
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// BookingFilter narrows a visibility-scoped listing. Zero values mean
// no filtering on that field.
type BookingFilter struct {
	PropertyID string
	Status     string
}

// NormalizeDate truncates a parsed date to UTC midnight so that equal
// calendar days compare equal regardless of input offset.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
