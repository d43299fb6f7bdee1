package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Create appends a booking record, assigning identity and
	// timestamp. Records are never updated or deleted.
	Create(ctx context.Context, booking *Booking) error

	// ListAll returns every booking newest-first, enriched with the
	// referenced section and event resolved at read time.
	ListAll(ctx context.Context) ([]EnrichedBooking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// enrichedRow is the scan target for the ledger listing join. Section
// and event columns are nullable: deletion is out of scope for this
// service, but a dangling reference must degrade to an "unavailable"
// marker rather than fail the whole listing.
type enrichedRow struct {
	ID              uuid.UUID
	EventID         uuid.UUID
	SectionID       uuid.UUID
	Qty             int
	CreatedAt       time.Time
	EventName       *string
	SectionName     *string
	SectionPrice    *float64
	SectionCapacity *int
}

func (r *repository) ListAll(ctx context.Context) ([]EnrichedBooking, error) {
	var rows []enrichedRow

	err := r.db.WithContext(ctx).
		Table("bookings").
		Select(`bookings.id, bookings.event_id, bookings.section_id, bookings.qty, bookings.created_at,
			events.name AS event_name,
			sections.name AS section_name, sections.price AS section_price, sections.capacity AS section_capacity`).
		Joins("LEFT JOIN events ON events.id = bookings.event_id").
		Joins("LEFT JOIN sections ON sections.id = bookings.section_id").
		Order("bookings.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	enriched := make([]EnrichedBooking, 0, len(rows))
	for _, row := range rows {
		eb := EnrichedBooking{
			BookingResponse: BookingResponse{
				ID:        row.ID.String(),
				EventID:   row.EventID.String(),
				SectionID: row.SectionID.String(),
				Qty:       row.Qty,
				CreatedAt: row.CreatedAt,
			},
		}

		if row.EventName != nil {
			eb.EventName = *row.EventName
		}
		if row.SectionName != nil && row.SectionPrice != nil && row.SectionCapacity != nil {
			eb.SectionAvailable = true
			eb.SectionDetails = &SectionDetails{
				Name:     *row.SectionName,
				Price:    *row.SectionPrice,
				Capacity: *row.SectionCapacity,
			}
		}

		enriched = append(enriched, eb)
	}

	return enriched, nil
}
