package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking is an append-only ledger record. It exists only as the
// direct consequence of a committed conditional reserve and is never
// mutated or deleted afterwards.
type Booking struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID   uuid.UUID `json:"eventId" gorm:"type:uuid;not null;index"`
	SectionID uuid.UUID `json:"sectionId" gorm:"type:uuid;not null;index"`
	Qty       int       `json:"qty" gorm:"not null;check:qty >= 1"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		ID:        b.ID.String(),
		EventID:   b.EventID.String(),
		SectionID: b.SectionID.String(),
		Qty:       b.Qty,
		CreatedAt: b.CreatedAt,
	}
}
