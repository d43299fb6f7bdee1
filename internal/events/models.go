package events

import (
	"time"

	"github.com/google/uuid"
)

// Event owns an ordered list of sections. Name and section capacities
// are fixed after creation; only a section's remaining count mutates,
// and only through the conditional reserve.
type Event struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Sections  []Section `json:"sections" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// Section is stored as its own row so the reserve can be a single
// row-level conditional update.
type Section struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID   uuid.UUID `json:"-" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Price     float64   `json:"price" gorm:"not null;check:price >= 0"`
	Capacity  int       `json:"capacity" gorm:"not null;check:capacity >= 1"`
	Remaining int       `json:"remaining" gorm:"not null;check:remaining >= 0"`
	Position  int       `json:"-" gorm:"not null;default:0"`
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

// TableName specifies the table name for GORM
func (Section) TableName() string {
	return "sections"
}

// Helper method to convert Event to EventResponse
func (e *Event) ToResponse() EventResponse {
	sections := make([]SectionResponse, 0, len(e.Sections))
	for _, s := range e.Sections {
		sections = append(sections, s.ToResponse())
	}

	return EventResponse{
		ID:        e.ID.String(),
		Name:      e.Name,
		Sections:  sections,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (s *Section) ToResponse() SectionResponse {
	return SectionResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Price:     s.Price,
		Capacity:  s.Capacity,
		Remaining: s.Remaining,
	}
}
