package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seatwise/internal/events"
	"seatwise/internal/shared/apperrors"
	"seatwise/pkg/logger"

	"github.com/google/uuid"
)

// Inventory is the slice of the events service the reservation engine
// depends on (satisfied by events.Service).
type Inventory interface {
	ConditionalReserve(ctx context.Context, eventID, sectionID uuid.UUID, qty int) (int, bool, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*events.EventResponse, error)
	GetSection(ctx context.Context, eventID, sectionID uuid.UUID) (*events.SectionResponse, error)
	InvalidateEventCache(ctx context.Context, eventID uuid.UUID)
}

// ConfirmationPublisher pushes a booking-confirmed message to the
// notification pipeline. Outages never fail a booking.
type ConfirmationPublisher interface {
	PublishBookingConfirmed(ctx context.Context, bookingID, eventID, sectionID string, qty, remaining int) error
}

// Service interface defines the contract for the reservation flow
type Service interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingConfirmation, error)
	ListBookings(ctx context.Context) (*BookingListResponse, error)
}

type service struct {
	repo      Repository
	inventory Inventory
	publisher ConfirmationPublisher
	log       *logger.Logger
}

// NewService creates a new booking service instance. publisher may be
// nil when the notification pipeline is disabled.
func NewService(repo Repository, inventory Inventory, publisher ConfirmationPublisher) Service {
	return &service{
		repo:      repo,
		inventory: inventory,
		publisher: publisher,
		log:       logger.GetDefault(),
	}
}

// CreateBooking runs the reservation state machine:
// validate, attempt the atomic reserve, commit to the ledger on a
// match, diagnose on a no-match.
func (s *service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*BookingConfirmation, error) {
	// Step 1: Validate. Nothing touches storage before this passes.
	if req.Qty < 1 {
		return nil, apperrors.ErrInvalidQuantity
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, apperrors.ErrInvalidID
	}
	sectionID, err := uuid.Parse(req.SectionID)
	if err != nil {
		return nil, apperrors.ErrInvalidID
	}

	// Step 2: Attempt the conditional reserve. This single operation
	// is what makes concurrent requests safe; the engine never reads
	// remaining and writes it back.
	remaining, ok, err := s.inventory.ConditionalReserve(ctx, eventID, sectionID, req.Qty)
	if err != nil {
		return nil, fmt.Errorf("conditional reserve failed: %w", err)
	}

	if !ok {
		return nil, s.diagnose(ctx, eventID, sectionID, req.Qty)
	}

	// Step 3: Commit the ledger record. If this append fails the seat
	// is durably consumed but unaudited; the decrement stays
	// authoritative and no compensation is attempted, since an
	// increment-back would race other reservations.
	booking := &Booking{
		EventID:   eventID,
		SectionID: sectionID,
		Qty:       req.Qty,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		s.log.LogLedgerAppendFailure(ctx, req.EventID, req.SectionID, req.Qty, err)
		return nil, fmt.Errorf("ledger append failed after committed reserve: %w", err)
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), req.EventID, req.SectionID, req.Qty, remaining)

	// Best-effort side effects; neither may fail the request
	s.inventory.InvalidateEventCache(ctx, eventID)
	s.publishConfirmation(booking, remaining)

	return &BookingConfirmation{
		Booking:        booking.ToResponse(),
		RemainingSeats: remaining,
	}, nil
}

// diagnose explains a no-match after the fact: event missing, section
// missing, or not enough seats. The availability it reports is
// re-read and may already differ from what the failed attempt saw.
func (s *service) diagnose(ctx context.Context, eventID, sectionID uuid.UUID, qty int) error {
	if _, err := s.inventory.GetEventByID(ctx, eventID); err != nil {
		if errors.Is(err, apperrors.ErrEventNotFound) {
			return apperrors.ErrEventNotFound
		}
		return fmt.Errorf("reservation diagnosis failed: %w", err)
	}

	section, err := s.inventory.GetSection(ctx, eventID, sectionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSectionNotFound) {
			return apperrors.ErrSectionNotFound
		}
		return fmt.Errorf("reservation diagnosis failed: %w", err)
	}

	s.log.LogReservationConflict(ctx, eventID.String(), sectionID.String(), qty, section.Remaining)

	return &apperrors.InsufficientSeatsError{
		Requested: qty,
		Available: section.Remaining,
	}
}

func (s *service) publishConfirmation(booking *Booking, remaining int) {
	if s.publisher == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.publisher.PublishBookingConfirmed(ctx,
			booking.ID.String(), booking.EventID.String(), booking.SectionID.String(),
			booking.Qty, remaining); err != nil {
			s.log.WithError(err).Warn("Failed to publish booking confirmation",
				"booking_id", booking.ID.String())
		}
	}()
}

func (s *service) ListBookings(ctx context.Context) (*BookingListResponse, error) {
	enriched, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return &BookingListResponse{
		Count:    len(enriched),
		Bookings: enriched,
	}, nil
}
