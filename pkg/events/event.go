package events

import "time"

const (
	TypeBookingConfirmed = "booking.confirmed"
	TypeBookingCancelled = "booking.cancelled"
)

// BookingEvent is the payload published after a ledger mutation commits.
// Downstream consumers (notifications, analytics) are outside this
// service; events are keyed by property id so per-property ordering is
// preserved across partitions.
type BookingEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	PropertyID string    `json:"property_id"`
	TenantID   string    `json:"tenant_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	OccurredAt time.Time `json:"occurred_at"`
}
