package events

type CreateEventRequest struct {
	Name     string                 `json:"name" binding:"required,min=1,max=255"`
	Sections []CreateSectionRequest `json:"sections" binding:"required,min=1,dive"`
}

type CreateSectionRequest struct {
	Name     string   `json:"name" binding:"required,min=1,max=255"`
	Price    *float64 `json:"price" binding:"required,gte=0"`
	Capacity int      `json:"capacity" binding:"required,gte=1"`
}
