package service

import (
	"context"
	"errors"
	"time"

	propertieserrors "homelet/internal/properties/errors"
	apperrors "homelet/pkg/errors"
	"homelet/pkg/model"
)

// Overlaps reports whether two closed day intervals intersect. Both
// endpoints are inclusive: a booking ending on a day blocks a candidate
// starting that same day, and a single-day booking (start == end) still
// blocks any range containing it. There is no free turnover day.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return !start1.After(end2) && !start2.After(end1)
}

// IsAvailable is the pure read side of the engine: true iff no
// confirmed booking for the property overlaps [start, end]. Callers
// must pass an ordered range; a reversed one is rejected rather than
// reinterpreted. No side effects, deterministic for a fixed ledger
// snapshot.
func (s *bookingService) IsAvailable(ctx context.Context, propertyID string, start, end time.Time) (bool, error) {
	if propertyID == "" {
		return false, apperrors.InvalidInput("Property ID cannot be empty")
	}
	if start.After(end) {
		return false, apperrors.InvalidInput("End date must not be before start date")
	}

	if _, err := s.propertyRepo.FindByID(ctx, propertyID); err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return false, apperrors.NotFoundWithID("Property", propertyID)
		}
		if errors.Is(err, propertieserrors.ErrInvalidID) {
			return false, apperrors.InvalidInput("Invalid property ID format")
		}
		return false, s.storeError("Failed to look up property", err)
	}

	conflicts, err := s.repo.FindConfirmedOverlapping(ctx, propertyID, model.NormalizeDate(start), model.NormalizeDate(end))
	if err != nil {
		return false, s.storeError("Failed to check existing bookings", err)
	}

	return len(conflicts) == 0, nil
}
