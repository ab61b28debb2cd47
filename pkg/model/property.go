package model

const (
	PropertyStatusAvailable = "available"
	PropertyStatusRented    = "rented"
	PropertyStatusPending   = "pending"
)

// Property is read-only from the booking engine's perspective; listing
// CRUD belongs to the wider marketplace. Status is advisory metadata;
// the authoritative availability test is always interval-based against
// the booking ledger.
type Property struct {
	ID      string `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID string `json:"owner_id" bson:"owner_id"`
	Status  string `json:"status" bson:"status"`
}
