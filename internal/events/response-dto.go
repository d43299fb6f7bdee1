package events

import "time"

type EventResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Sections  []SectionResponse `json:"sections"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type SectionResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Capacity  int     `json:"capacity"`
	Remaining int     `json:"remaining"`
}
