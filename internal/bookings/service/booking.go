package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "homelet/internal/bookings/errors"
	"homelet/internal/bookings/repository"
	"homelet/internal/bookings/validator"
	propertieserrors "homelet/internal/properties/errors"
	propertiesrepo "homelet/internal/properties/repository"
	"homelet/pkg/config"
	apperrors "homelet/pkg/errors"
	"homelet/pkg/events"
	"homelet/pkg/model"
)

// BookingService is the only mutating entry point into the ledger. The
// actor id is always an explicit parameter, never ambient state.
type BookingService interface {
	RequestBooking(ctx context.Context, actorID string, req *model.BookingRequest) (*model.Booking, error)
	ListBookings(ctx context.Context, actorID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByID(ctx context.Context, actorID string, id string) (*model.Booking, error)
	Cancel(ctx context.Context, actorID string, id string) (*model.Booking, error)
	IsAvailable(ctx context.Context, propertyID string, start, end time.Time) (bool, error)
}

type bookingService struct {
	repo         repository.BookingRepository
	lockRepo     repository.BookingLockRepository
	propertyRepo propertiesrepo.PropertyRepository
	validator    *validator.BookingValidator
	publisher    events.Publisher
	cfg          *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	propertyRepo propertiesrepo.PropertyRepository,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:         repo,
		lockRepo:     lockRepo,
		propertyRepo: propertyRepo,
		validator:    bookingValidator,
		publisher:    publisher,
		cfg:          cfg,
	}
}

// RequestBooking admits a booking through ordered, short-circuiting
// gates: authentication, input validation, property existence, the
// advisory status gate, then the interval gate. The interval check and
// the insert run inside a per-property lock and a transaction so two
// racing admissions for overlapping dates cannot both commit. Exactly
// one ledger insert happens on success and none on any failure path.
func (s *bookingService) RequestBooking(ctx context.Context, actorID string, req *model.BookingRequest) (*model.Booking, error) {
	if actorID == "" {
		return nil, apperrors.Unauthenticated("You must sign in to request a booking")
	}

	start, end, err := s.validator.ValidateRequest(req)
	if err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "error", err)
		return nil, apperrors.Validation("Invalid booking request", map[string]any{"error": err.Error()})
	}

	property, err := s.propertyRepo.FindByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Property", req.PropertyID)
		}
		if errors.Is(err, propertieserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid property ID format")
		}
		return nil, s.storeError("Failed to look up property", err)
	}

	// Advisory gate. Independent of the ledger: a property marked
	// rented is rejected before any interval is examined.
	if property.Status != model.PropertyStatusAvailable {
		return nil, apperrors.PropertyUnavailable("This property is not available for booking")
	}

	booking := &model.Booking{
		PropertyID: req.PropertyID,
		TenantID:   actorID,
		StartDate:  start,
		EndDate:    end,
		Status:     model.BookingStatusConfirmed,
	}

	lockID, err := s.acquireAdmissionLock(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseAdmissionLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release admission lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.rejectOverlap(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return s.storeError("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Booking admission failed",
			"property_id", req.PropertyID,
			"tenant_id", actorID,
			"error", err,
		)
		return nil, err
	}

	s.publish(ctx, events.TypeBookingConfirmed, booking)

	s.cfg.Log.Info("Booking confirmed",
		"id", booking.ID,
		"property_id", booking.PropertyID,
		"tenant_id", booking.TenantID,
		"start_date", booking.StartDate,
		"end_date", booking.EndDate,
	)
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, actorID string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if actorID == "" {
		return nil, 0, apperrors.Unauthenticated("You must sign in to list bookings")
	}

	ownedIDs, err := s.propertyRepo.OwnedPropertyIDs(ctx, actorID)
	if err != nil {
		return nil, 0, s.storeError("Failed to resolve owned properties", err)
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountVisible(ctx, actorID, ownedIDs, filter)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "actor_id", actorID, "error", err)
			errCount = s.storeError("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindVisible(ctx, actorID, ownedIDs, filter, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings", "actor_id", actorID, "error", err)
			errFind = s.storeError("Failed to retrieve bookings", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) GetByID(ctx context.Context, actorID string, id string) (*model.Booking, error) {
	if actorID == "" {
		return nil, apperrors.Unauthenticated("You must sign in to view bookings")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	visible, err := s.actorMaySee(ctx, actorID, booking)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, apperrors.Forbidden("You do not have access to this booking")
	}

	return booking, nil
}

// Cancel flips a booking to cancelled, removing it from the overlap
// set. Either party may cancel: the tenant who booked, or the owner of
// the property. Cancelling an already-cancelled booking is a no-op.
// Date changes are modelled as cancel plus a fresh admission; bookings
// are never mutated in place.
func (s *bookingService) Cancel(ctx context.Context, actorID string, id string) (*model.Booking, error) {
	if actorID == "" {
		return nil, apperrors.Unauthenticated("You must sign in to cancel a booking")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.loadBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed, err := s.actorMaySee(ctx, actorID, booking)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperrors.Forbidden("Only the tenant or the property owner may cancel a booking")
	}

	if booking.Status == model.BookingStatusCancelled {
		return booking, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, model.BookingStatusCancelled); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, s.storeError("Failed to cancel booking", err)
	}
	booking.Status = model.BookingStatusCancelled

	s.publish(ctx, events.TypeBookingCancelled, booking)

	s.cfg.Log.Info("Booking cancelled", "id", id, "actor_id", actorID)
	return booking, nil
}

// --- Helpers ---

func (s *bookingService) loadBooking(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, s.storeError("Failed to retrieve booking", err)
	}
	return booking, nil
}

// actorMaySee implements the visibility rule: the actor is the tenant
// on the booking or owns the referenced property.
func (s *bookingService) actorMaySee(ctx context.Context, actorID string, booking *model.Booking) (bool, error) {
	if booking.TenantID == actorID {
		return true, nil
	}

	property, err := s.propertyRepo.FindByID(ctx, booking.PropertyID)
	if err != nil {
		if errors.Is(err, propertieserrors.ErrNotFound) || errors.Is(err, propertieserrors.ErrInvalidID) {
			return false, nil
		}
		return false, s.storeError("Failed to look up property", err)
	}

	return property.OwnerID == actorID, nil
}

// rejectOverlap is the availability gate, run inside the admission
// transaction so the read and the subsequent insert are one atomic
// unit per property.
func (s *bookingService) rejectOverlap(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindConfirmedOverlapping(ctx, booking.PropertyID, booking.StartDate, booking.EndDate)
	if err != nil {
		return s.storeError("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if Overlaps(b.StartDate, b.EndDate, booking.StartDate, booking.EndDate) {
			return apperrors.DateConflict(
				"These dates are already booked",
				map[string]any{
					"conflict_start": b.StartDate.Format(model.DateLayout),
					"conflict_end":   b.EndDate.Format(model.DateLayout),
				},
			)
		}
	}
	return nil
}

// acquireAdmissionLock serializes admissions per property. Contention
// means another request is mid-admission for the same property; it
// surfaces as a date conflict so racing callers see one winner and the
// rest rejected.
func (s *bookingService) acquireAdmissionLock(ctx context.Context, propertyID string) (string, error) {
	lockID := fmt.Sprintf("admission_lock_%s", propertyID)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().UTC().Add(s.cfg.AdmissionLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.DateConflict("These dates are currently being booked by another request. Please try again.", nil)
		}
		return "", s.storeError("Failed to acquire admission lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseAdmissionLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	err := s.publisher.Publish(ctx, events.BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		PropertyID: booking.PropertyID,
		TenantID:   booking.TenantID,
		StartDate:  booking.StartDate,
		EndDate:    booking.EndDate,
	})
	if err != nil {
		// Best effort; the ledger commit is the source of truth.
		s.cfg.Log.Warn("Failed to publish booking event",
			"type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

// storeError classifies a storage failure into the transient/terminal
// split callers rely on for retry decisions.
func (s *bookingService) storeError(message string, err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
		return apperrors.Timeout(message + ": store deadline exceeded")
	}
	if mongo.IsNetworkError(err) {
		return apperrors.StoreUnavailable(message, err)
	}
	return apperrors.Internal(message, err)
}
