package bookings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"seatwise/internal/events"
	"seatwise/internal/shared/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockInventory mocks the inventory slice of the events service
type MockInventory struct {
	mock.Mock
}

func (m *MockInventory) ConditionalReserve(ctx context.Context, eventID, sectionID uuid.UUID, qty int) (int, bool, error) {
	args := m.Called(ctx, eventID, sectionID, qty)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockInventory) GetEventByID(ctx context.Context, id uuid.UUID) (*events.EventResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.EventResponse), args.Error(1)
}

func (m *MockInventory) GetSection(ctx context.Context, eventID, sectionID uuid.UUID) (*events.SectionResponse, error) {
	args := m.Called(ctx, eventID, sectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*events.SectionResponse), args.Error(1)
}

func (m *MockInventory) InvalidateEventCache(ctx context.Context, eventID uuid.UUID) {
	m.Called(ctx, eventID)
}

// MockLedger mocks the booking repository
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Create(ctx context.Context, booking *Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockLedger) ListAll(ctx context.Context) ([]EnrichedBooking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]EnrichedBooking), args.Error(1)
}

func TestCreateBooking_ValidationBeforeStorage(t *testing.T) {
	inventory := new(MockInventory)
	ledger := new(MockLedger)
	svc := NewService(ledger, inventory, nil)

	eventID := uuid.New().String()
	sectionID := uuid.New().String()

	tests := []struct {
		name    string
		req     CreateBookingRequest
		wantErr error
	}{
		{"zero qty", CreateBookingRequest{EventID: eventID, SectionID: sectionID, Qty: 0}, apperrors.ErrInvalidQuantity},
		{"negative qty", CreateBookingRequest{EventID: eventID, SectionID: sectionID, Qty: -3}, apperrors.ErrInvalidQuantity},
		{"malformed event id", CreateBookingRequest{EventID: "not-a-uuid", SectionID: sectionID, Qty: 1}, apperrors.ErrInvalidID},
		{"malformed section id", CreateBookingRequest{EventID: eventID, SectionID: "12345", Qty: 1}, apperrors.ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBooking(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// No storage access may happen before validation passes
	inventory.AssertNotCalled(t, "ConditionalReserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	ledger.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_Success(t *testing.T) {
	inventory := new(MockInventory)
	ledger := new(MockLedger)
	svc := NewService(ledger, inventory, nil)

	eventID := uuid.New()
	sectionID := uuid.New()

	inventory.On("ConditionalReserve", mock.Anything, eventID, sectionID, 2).Return(3, true, nil)
	inventory.On("InvalidateEventCache", mock.Anything, eventID).Return()
	ledger.On("Create", mock.Anything, mock.MatchedBy(func(b *Booking) bool {
		return b.EventID == eventID && b.SectionID == sectionID && b.Qty == 2
	})).Run(func(args mock.Arguments) {
		b := args.Get(1).(*Booking)
		b.ID = uuid.New()
		b.CreatedAt = time.Now()
	}).Return(nil)

	confirmation, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		EventID:   eventID.String(),
		SectionID: sectionID.String(),
		Qty:       2,
	})

	require.NoError(t, err)
	assert.Equal(t, 3, confirmation.RemainingSeats)
	assert.Equal(t, 2, confirmation.Booking.Qty)
	assert.NotEmpty(t, confirmation.Booking.ID)

	inventory.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestCreateBooking_DiagnosesEventNotFound(t *testing.T) {
	inventory := new(MockInventory)
	ledger := new(MockLedger)
	svc := NewService(ledger, inventory, nil)

	eventID := uuid.New()
	sectionID := uuid.New()

	inventory.On("ConditionalReserve", mock.Anything, eventID, sectionID, 1).Return(0, false, nil)
	inventory.On("GetEventByID", mock.Anything, eventID).Return(nil, apperrors.ErrEventNotFound)

	_, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		EventID:   eventID.String(),
		SectionID: sectionID.String(),
		Qty:       1,
	})

	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	ledger.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_DiagnosesSectionNotFound(t *testing.T) {
	inventory := new(MockInventory)
	ledger := new(MockLedger)
	svc := NewService(ledger, inventory, nil)

	eventID := uuid.New()
	sectionID := uuid.New()

	inventory.On("ConditionalReserve", mock.Anything, eventID, sectionID, 1).Return(0, false, nil)
	inventory.On("GetEventByID", mock.Anything, eventID).Return(&events.EventResponse{ID: eventID.String()}, nil)
	inventory.On("GetSection", mock.Anything, eventID, sectionID).Return(nil, apperrors.ErrSectionNotFound)

	_, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		EventID:   eventID.String(),
		SectionID: sectionID.String(),
		Qty:       1,
	})

	assert.ErrorIs(t, err, apperrors.ErrSectionNotFound)
}

func TestCreateBooking_DiagnosesInsufficientSeats(t *testing.T) {
	inventory := new(MockInventory)
	ledger := new(MockLedger)
	svc := NewService(ledger, inventory, nil)

	eventID := uuid.New()
	sectionID := uuid.New()

	inventory.On("ConditionalReserve", mock.Anything, eventID, sectionID, 4).Return(0, false, nil)
	inventory.On("GetEventByID", mock.Anything, eventID).Return(&events.EventResponse{ID: eventID.String()}, nil)
	inventory.On("GetSection", mock.Anything, eventID, sectionID).Return(&events.SectionResponse{
		ID:        sectionID.String(),
		Capacity:  10,
		Remaining: 2,
	}, nil)

	_, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		EventID:   eventID.String(),
		SectionID: sectionID.String(),
		Qty:       4,
	})

	ise, ok := apperrors.IsInsufficientSeats(err)
	require.True(t, ok)
	assert.Equal(t, 4, ise.Requested)
	assert.Equal(t, 2, ise.Available)
}

func TestCreateBooking_LedgerAppendFailureSurfacesInternal(t *testing.T) {
	inventory := new(MockInventory)
	ledger := new(MockLedger)
	svc := NewService(ledger, inventory, nil)

	eventID := uuid.New()
	sectionID := uuid.New()

	inventory.On("ConditionalReserve", mock.Anything, eventID, sectionID, 1).Return(0, true, nil)
	ledger.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	_, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		EventID:   eventID.String(),
		SectionID: sectionID.String(),
		Qty:       1,
	})

	// The decrement stays committed; the failure surfaces as an
	// internal error, never as a not-found or conflict
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrEventNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrSectionNotFound)
	_, isConflict := apperrors.IsInsufficientSeats(err)
	assert.False(t, isConflict)
}

func TestCreateBooking_PublishesConfirmation(t *testing.T) {
	inventory := new(MockInventory)
	ledger := new(MockLedger)
	published := make(chan string, 1)
	svc := NewService(ledger, inventory, publisherFunc(func(bookingID string) {
		published <- bookingID
	}))

	eventID := uuid.New()
	sectionID := uuid.New()

	inventory.On("ConditionalReserve", mock.Anything, eventID, sectionID, 1).Return(0, true, nil)
	inventory.On("InvalidateEventCache", mock.Anything, eventID).Return()
	ledger.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*Booking).ID = uuid.New()
	}).Return(nil)

	confirmation, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		EventID:   eventID.String(),
		SectionID: sectionID.String(),
		Qty:       1,
	})
	require.NoError(t, err)

	select {
	case id := <-published:
		assert.Equal(t, confirmation.Booking.ID, id)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a booking confirmation to be published")
	}
}

// publisherFunc adapts a function to ConfirmationPublisher
type publisherFunc func(bookingID string)

func (f publisherFunc) PublishBookingConfirmed(ctx context.Context, bookingID, eventID, sectionID string, qty, remaining int) error {
	f(bookingID)
	return nil
}

// fakeInventory honors the conditional-reserve contract in memory: the
// check and the decrement happen under one lock, mirroring the
// row-level atomicity of the real store.
type fakeInventory struct {
	mu      sync.Mutex
	eventID uuid.UUID
	remain  map[uuid.UUID]int
	cap     map[uuid.UUID]int
}

func newFakeInventory(eventID uuid.UUID) *fakeInventory {
	return &fakeInventory{
		eventID: eventID,
		remain:  make(map[uuid.UUID]int),
		cap:     make(map[uuid.UUID]int),
	}
}

func (f *fakeInventory) addSection(id uuid.UUID, capacity int) {
	f.remain[id] = capacity
	f.cap[id] = capacity
}

func (f *fakeInventory) ConditionalReserve(ctx context.Context, eventID, sectionID uuid.UUID, qty int) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	remaining, ok := f.remain[sectionID]
	if eventID != f.eventID || !ok || remaining < qty {
		return 0, false, nil
	}
	f.remain[sectionID] = remaining - qty
	return f.remain[sectionID], true, nil
}

func (f *fakeInventory) GetEventByID(ctx context.Context, id uuid.UUID) (*events.EventResponse, error) {
	if id != f.eventID {
		return nil, apperrors.ErrEventNotFound
	}
	return &events.EventResponse{ID: id.String()}, nil
}

func (f *fakeInventory) GetSection(ctx context.Context, eventID, sectionID uuid.UUID) (*events.SectionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	remaining, ok := f.remain[sectionID]
	if eventID != f.eventID || !ok {
		return nil, apperrors.ErrSectionNotFound
	}
	return &events.SectionResponse{
		ID:        sectionID.String(),
		Capacity:  f.cap[sectionID],
		Remaining: remaining,
	}, nil
}

func (f *fakeInventory) InvalidateEventCache(ctx context.Context, eventID uuid.UUID) {}

func (f *fakeInventory) remaining(sectionID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remain[sectionID]
}

// fakeLedger is an in-memory append-only booking store
type fakeLedger struct {
	mu       sync.Mutex
	bookings []Booking
}

func (f *fakeLedger) Create(ctx context.Context, booking *Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	f.bookings = append(f.bookings, *booking)
	return nil
}

func (f *fakeLedger) ListAll(ctx context.Context) ([]EnrichedBooking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	enriched := make([]EnrichedBooking, 0, len(f.bookings))
	for i := len(f.bookings) - 1; i >= 0; i-- {
		enriched = append(enriched, EnrichedBooking{BookingResponse: f.bookings[i].ToResponse()})
	}
	return enriched, nil
}

func (f *fakeLedger) totalQty(sectionID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := 0
	for _, b := range f.bookings {
		if b.SectionID == sectionID {
			total += b.Qty
		}
	}
	return total
}

func TestCreateBooking_ExactCapacityRace(t *testing.T) {
	eventID := uuid.New()
	sectionID := uuid.New()

	inventory := newFakeInventory(eventID)
	inventory.addSection(sectionID, 5)
	ledger := &fakeLedger{}
	svc := NewService(ledger, inventory, nil)

	const attempts = 10
	results := make(chan error, attempts)

	var start sync.WaitGroup
	start.Add(1)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start.Wait()
			_, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
				EventID:   eventID.String(),
				SectionID: sectionID.String(),
				Qty:       1,
			})
			results <- err
		}()
	}
	start.Done()
	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		if _, ok := apperrors.IsInsufficientSeats(err); ok {
			conflicts++
			continue
		}
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, 5, successes)
	assert.Equal(t, 5, conflicts)
	assert.Equal(t, 0, inventory.remaining(sectionID))

	// Conservation: capacity - remaining == sum of committed qty
	assert.Equal(t, 5, ledger.totalQty(sectionID))
}

func TestCreateBooking_ConcurrentSinglesOnLastSeat(t *testing.T) {
	eventID := uuid.New()
	sectionID := uuid.New()

	inventory := newFakeInventory(eventID)
	inventory.addSection(sectionID, 1)
	ledger := &fakeLedger{}
	svc := NewService(ledger, inventory, nil)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
				EventID:   eventID.String(),
				SectionID: sectionID.String(),
				Qty:       1,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		if err == nil {
			successes++
		} else if _, ok := apperrors.IsInsufficientSeats(err); ok {
			conflicts++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes, "exactly one of two racing singles may win the last seat")
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, 0, inventory.remaining(sectionID))
}

func TestCreateBooking_PartialThenExhausted(t *testing.T) {
	eventID := uuid.New()
	sectionID := uuid.New()

	inventory := newFakeInventory(eventID)
	inventory.addSection(sectionID, 3)
	ledger := &fakeLedger{}
	svc := NewService(ledger, inventory, nil)

	req := CreateBookingRequest{
		EventID:   eventID.String(),
		SectionID: sectionID.String(),
		Qty:       1,
	}

	for _, want := range []int{2, 1, 0} {
		confirmation, err := svc.CreateBooking(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, want, confirmation.RemainingSeats)
	}

	_, err := svc.CreateBooking(context.Background(), req)
	ise, ok := apperrors.IsInsufficientSeats(err)
	require.True(t, ok)
	assert.Equal(t, 1, ise.Requested)
	assert.Equal(t, 0, ise.Available)
}

func TestCreateBooking_NonexistentSection(t *testing.T) {
	eventID := uuid.New()
	sectionID := uuid.New()

	inventory := newFakeInventory(eventID)
	inventory.addSection(sectionID, 10)
	svc := NewService(&fakeLedger{}, inventory, nil)

	_, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
		EventID:   eventID.String(),
		SectionID: uuid.New().String(), // valid shape, matches nothing
		Qty:       1,
	})

	assert.ErrorIs(t, err, apperrors.ErrSectionNotFound)
}

func TestListBookings_NewestFirst(t *testing.T) {
	eventID := uuid.New()
	sectionID := uuid.New()

	inventory := newFakeInventory(eventID)
	inventory.addSection(sectionID, 10)
	ledger := &fakeLedger{}
	svc := NewService(ledger, inventory, nil)

	var created []string
	for i := 0; i < 3; i++ {
		confirmation, err := svc.CreateBooking(context.Background(), CreateBookingRequest{
			EventID:   eventID.String(),
			SectionID: sectionID.String(),
			Qty:       1,
		})
		require.NoError(t, err)
		created = append(created, confirmation.Booking.ID)
	}

	list, err := svc.ListBookings(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, list.Count)

	// Most recent booking first
	assert.Equal(t, created[2], list.Bookings[0].ID)
	assert.Equal(t, created[0], list.Bookings[2].ID)
}
