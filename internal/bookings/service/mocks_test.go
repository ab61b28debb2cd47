package service

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "homelet/internal/bookings/errors"
	propertieserrors "homelet/internal/properties/errors"
	mongotx "homelet/pkg/db/mongo"
	"homelet/pkg/events"
	"homelet/pkg/model"
)

// mockSessionContext satisfies mongo.SessionContext for tests; the
// session methods are never invoked by the code under test.
type mockSessionContext struct {
	context.Context
	mongo.Session
}

// memBookingRepository is an in-memory ledger implementing
// repository.BookingRepository. Mutating operations are serialized so
// concurrency tests observe a consistent ledger.
type memBookingRepository struct {
	mu       sync.Mutex
	bookings map[string]*model.Booking
	nextID   int

	findOverlappingErr error
	createErr          error
}

func newMemBookingRepository() *memBookingRepository {
	return &memBookingRepository{bookings: make(map[string]*model.Booking)}
}

func (m *memBookingRepository) Create(_ context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}

	m.nextID++
	booking.ID = objectIDHex(m.nextID)
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	copied := *booking
	m.bookings[booking.ID] = &copied
	return nil
}

func (m *memBookingRepository) FindByID(_ context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking, ok := m.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	copied := *booking
	return &copied, nil
}

func (m *memBookingRepository) FindConfirmedOverlapping(_ context.Context, propertyID string, start, end time.Time) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findOverlappingErr != nil {
		return nil, m.findOverlappingErr
	}

	var out []*model.Booking
	for _, b := range m.bookings {
		if b.PropertyID != propertyID || b.Status != model.BookingStatusConfirmed {
			continue
		}
		if !b.StartDate.After(end) && !start.After(b.EndDate) {
			copied := *b
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *memBookingRepository) FindVisible(_ context.Context, actorID string, ownedPropertyIDs []string, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	owned := make(map[string]bool, len(ownedPropertyIDs))
	for _, id := range ownedPropertyIDs {
		owned[id] = true
	}

	var out []*model.Booking
	for _, b := range m.bookings {
		if b.TenantID != actorID && !owned[b.PropertyID] {
			continue
		}
		if filter.PropertyID != "" && b.PropertyID != filter.PropertyID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (m *memBookingRepository) CountVisible(ctx context.Context, actorID string, ownedPropertyIDs []string, filter model.BookingFilter) (int64, error) {
	bookings, err := m.FindVisible(ctx, actorID, ownedPropertyIDs, filter, 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(bookings)), nil
}

func (m *memBookingRepository) UpdateStatus(_ context.Context, id string, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking, ok := m.bookings[id]
	if !ok {
		return bookingserrors.ErrNotFound
	}
	booking.Status = status
	booking.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memBookingRepository) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.bookings)), nil
}

func (m *memBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mockSessionContext{Context: ctx})
}

func (m *memBookingRepository) snapshot() []model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Booking
	for _, b := range m.bookings {
		out = append(out, *b)
	}
	return out
}

// memLockRepository mimics the unique-index acquire semantics of the
// Booking_locks collection: a second insert with the same id fails with
// a duplicate key error.
type memLockRepository struct {
	mu    sync.Mutex
	locks map[string]*model.BookingLock
}

func newMemLockRepository() *memLockRepository {
	return &memLockRepository{locks: make(map[string]*model.BookingLock)}
}

func (m *memLockRepository) Create(_ context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.locks[lock.ID]; exists {
		return nil, mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	}
	lock.CreatedAt = time.Now().UTC()
	m.locks[lock.ID] = lock
	return lock, nil
}

func (m *memLockRepository) Delete(_ context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, lockID)
	return nil
}

// mockPropertyRepository serves a fixed catalog.
type mockPropertyRepository struct {
	mu         sync.Mutex
	properties map[string]*model.Property
	findCalls  int
}

func newMockPropertyRepository(properties ...*model.Property) *mockPropertyRepository {
	repo := &mockPropertyRepository{properties: make(map[string]*model.Property)}
	for _, p := range properties {
		repo.properties[p.ID] = p
	}
	return repo
}

func (m *mockPropertyRepository) FindByID(_ context.Context, id string) (*model.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.findCalls++
	property, ok := m.properties[id]
	if !ok {
		return nil, propertieserrors.ErrNotFound
	}
	copied := *property
	return &copied, nil
}

func (m *mockPropertyRepository) OwnedPropertyIDs(_ context.Context, ownerID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []string
	for _, p := range m.properties {
		if p.OwnerID == ownerID {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

// recordingPublisher captures published event types.
type recordingPublisher struct {
	mu        sync.Mutex
	published []events.BookingEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event events.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []string
	for _, e := range p.published {
		out = append(out, e.Type)
	}
	return out
}

func objectIDHex(n int) string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 24)
	for i := range buf {
		buf[i] = '0'
	}
	for i := 23; i >= 0 && n > 0; i-- {
		buf[i] = hexDigits[n%16]
		n /= 16
	}
	return string(buf)
}
