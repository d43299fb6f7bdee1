package bookings

import "time"

type BookingResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	SectionID string    `json:"sectionId"`
	Qty       int       `json:"qty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BookingConfirmation is the success payload of a reservation: the
// ledger record plus the post-decrement remaining seen by the atomic
// reserve.
type BookingConfirmation struct {
	Booking        BookingResponse `json:"booking"`
	RemainingSeats int             `json:"remainingSeats"`
}

// SectionDetails carries the descriptive fields of the booked section,
// resolved from the inventory at read time.
type SectionDetails struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Capacity int     `json:"capacity"`
}

// EnrichedBooking is a ledger record joined with its event and section.
// SectionAvailable is false when the referenced section can no longer
// be resolved; the listing still succeeds.
type EnrichedBooking struct {
	BookingResponse
	EventName        string          `json:"eventName,omitempty"`
	SectionDetails   *SectionDetails `json:"sectionDetails"`
	SectionAvailable bool            `json:"sectionAvailable"`
}

type BookingListResponse struct {
	Count    int               `json:"count"`
	Bookings []EnrichedBooking `json:"bookings"`
}
