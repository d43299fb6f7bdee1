package events

import (
	"context"
	"errors"

	"seatwise/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetSection(ctx context.Context, eventID, sectionID uuid.UUID) (*Section, error)

	// ConditionalReserve atomically decrements a section's remaining
	// count by qty iff the section belongs to the event and has at
	// least qty seats left. Returns the post-decrement remaining and
	// whether a row matched. It deliberately does not distinguish why
	// nothing matched; callers diagnose separately.
	ConditionalReserve(ctx context.Context, eventID, sectionID uuid.UUID, qty int) (int, bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	// Inserts the event and its sections in one transaction
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sections.position ASC")
		}).
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) GetSection(ctx context.Context, eventID, sectionID uuid.UUID) (*Section, error) {
	var section Section
	err := r.db.WithContext(ctx).
		Where("id = ? AND event_id = ?", sectionID, eventID).
		First(&section).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSectionNotFound
		}
		return nil, err
	}
	return &section, nil
}

// ConditionalReserve runs as a single UPDATE with a guarded WHERE:
//
//	UPDATE sections SET remaining = remaining - qty
//	WHERE id = ? AND event_id = ? AND remaining >= qty
//	RETURNING remaining
//
// Row-level atomicity in Postgres makes this linearizable per section,
// so remaining can never go negative regardless of how many server
// instances race on it. A read-then-write pair must never replace this.
func (r *repository) ConditionalReserve(ctx context.Context, eventID, sectionID uuid.UUID, qty int) (int, bool, error) {
	var section Section

	result := r.db.WithContext(ctx).
		Model(&section).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "remaining"}}}).
		Where("id = ? AND event_id = ? AND remaining >= ?", sectionID, eventID, qty).
		UpdateColumn("remaining", gorm.Expr("remaining - ?", qty))

	if result.Error != nil {
		return 0, false, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, false, nil
	}

	return section.Remaining, true, nil
}
