package notifications

import "time"

// BookingConfirmedMessage is the payload published for every
// successful reservation. It is informational: the ledger row is the
// durable record, this stream only feeds notification workers.
type BookingConfirmedMessage struct {
	BookingID      string    `json:"bookingId"`
	EventID        string    `json:"eventId"`
	SectionID      string    `json:"sectionId"`
	Qty            int       `json:"qty"`
	RemainingSeats int       `json:"remainingSeats"`
	ConfirmedAt    time.Time `json:"confirmedAt"`
}
