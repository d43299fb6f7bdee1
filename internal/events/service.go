package events

import (
	"context"
	"fmt"
	"time"

	"seatwise/internal/shared/apperrors"
	"seatwise/pkg/cache"
	"seatwise/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	// Service dependency injection
	SetCacheService(cacheService cache.Service, ttl time.Duration)

	CreateEvent(ctx context.Context, req CreateEventRequest) (*EventResponse, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	GetSection(ctx context.Context, eventID, sectionID uuid.UUID) (*SectionResponse, error)

	// Used by the reservation engine
	ConditionalReserve(ctx context.Context, eventID, sectionID uuid.UUID, qty int) (int, bool, error)
	InvalidateEventCache(ctx context.Context, eventID uuid.UUID)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	cacheTTL     time.Duration
	log          *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		log:  logger.GetDefault(),
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service, ttl time.Duration) {
	s.cacheService = cacheService
	s.cacheTTL = ttl
}

func (s *service) CreateEvent(ctx context.Context, req CreateEventRequest) (*EventResponse, error) {
	event := &Event{
		Name:     req.Name,
		Sections: make([]Section, 0, len(req.Sections)),
	}

	for i, sec := range req.Sections {
		event.Sections = append(event.Sections, Section{
			Name:      sec.Name,
			Price:     *sec.Price,
			Capacity:  sec.Capacity,
			Remaining: sec.Capacity, // every seat starts unsold
			Position:  i,
		})
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.log.LogEventCreated(ctx, event.ID.String(), len(event.Sections))

	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	cacheKey := eventCacheKey(id)

	if s.cacheService != nil {
		var cached EventResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := event.ToResponse()

	if s.cacheService != nil {
		// Best-effort: remaining counts in the cache are advisory only,
		// the reserve path never reads them
		_ = s.cacheService.Set(ctx, cacheKey, resp, s.cacheTTL)
	}

	return &resp, nil
}

func (s *service) GetSection(ctx context.Context, eventID, sectionID uuid.UUID) (*SectionResponse, error) {
	section, err := s.repo.GetSection(ctx, eventID, sectionID)
	if err != nil {
		return nil, err
	}
	resp := section.ToResponse()
	return &resp, nil
}

func (s *service) ConditionalReserve(ctx context.Context, eventID, sectionID uuid.UUID, qty int) (int, bool, error) {
	if qty < 1 {
		return 0, false, apperrors.ErrInvalidQuantity
	}
	return s.repo.ConditionalReserve(ctx, eventID, sectionID, qty)
}

// InvalidateEventCache drops the cached snapshot after a successful
// reservation so reads converge quickly. Failures are ignored; the
// entry expires on its own TTL.
func (s *service) InvalidateEventCache(ctx context.Context, eventID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	_ = s.cacheService.Delete(ctx, eventCacheKey(eventID))
}

func eventCacheKey(id uuid.UUID) string {
	return "seatwise:event:" + id.String()
}
