package bookings

type CreateBookingRequest struct {
	EventID   string `json:"eventId" binding:"required"`
	SectionID string `json:"sectionId" binding:"required"`
	Qty       int    `json:"qty" binding:"required,gte=1"`
}
