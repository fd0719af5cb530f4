package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Dffarhn/recyle-food-mobile/internal/domain"
	"github.com/Dffarhn/recyle-food-mobile/internal/repository"
	apperrors "github.com/Dffarhn/recyle-food-mobile/pkg/errors"
	"github.com/Dffarhn/recyle-food-mobile/pkg/pagination"
)

// ViewPublisher announces detail reads. *event.Producer satisfies it.
type ViewPublisher interface {
	PublishMysteryBoxViewed(ctx context.Context, box *domain.MysteryBox, loc *domain.Coordinates) error
}

// MysteryBoxService implements the business logic for mystery box reads.
type MysteryBoxService struct {
	repo   repository.MysteryBoxRepository
	cache  repository.MysteryBoxCache
	events ViewPublisher
	logger *slog.Logger
}

// NewMysteryBoxService creates a new mystery box service. cache and events
// may be nil.
func NewMysteryBoxService(
	repo repository.MysteryBoxRepository,
	cache repository.MysteryBoxCache,
	events ViewPublisher,
	logger *slog.Logger,
) *MysteryBoxService {
	return &MysteryBoxService{
		repo:   repo,
		cache:  cache,
		events: events,
		logger: logger,
	}
}

// GetDetail returns one box. When loc is set the restaurant distance is
// measured from it.
func (s *MysteryBoxService) GetDetail(ctx context.Context, id string, loc *domain.Coordinates) (*domain.MysteryBox, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.InvalidInput("invalid mystery box id")
	}
	if loc != nil {
		if err := loc.Validate(); err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
	}

	box, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc != nil {
		box = box.WithDistanceFrom(*loc)
	}

	if s.events != nil {
		if err := s.events.PublishMysteryBoxViewed(ctx, box, loc); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish mystery_box.viewed event",
				slog.String("mystery_box_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	return box, nil
}

// load reads through the cache. Cache failures are logged and bypassed.
func (s *MysteryBoxService) load(ctx context.Context, id string) (*domain.MysteryBox, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "mystery box cache read failed",
				slog.String("mystery_box_id", id),
				slog.String("error", err.Error()),
			)
		} else if cached != nil {
			return cached, nil
		}
	}

	box, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("mystery box", id)
		}
		return nil, fmt.Errorf("get mystery box: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, box); err != nil {
			s.logger.WarnContext(ctx, "mystery box cache write failed",
				slog.String("mystery_box_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	return box, nil
}

// ListNearby returns a page of boxes ordered by distance from loc, each with
// its restaurant distance filled in.
func (s *MysteryBoxService) ListNearby(ctx context.Context, loc domain.Coordinates, params pagination.Params) (pagination.Result[domain.MysteryBox], error) {
	if err := loc.Validate(); err != nil {
		return pagination.Result[domain.MysteryBox]{}, apperrors.InvalidInput(err.Error())
	}

	boxes, total, err := s.repo.ListNearby(ctx, loc, params.Page, params.PerPage)
	if err != nil {
		return pagination.Result[domain.MysteryBox]{}, fmt.Errorf("list nearby mystery boxes: %w", err)
	}

	for i := range boxes {
		boxes[i] = *boxes[i].WithDistanceFrom(loc)
	}

	s.logger.DebugContext(ctx, "listed nearby mystery boxes",
		slog.String("location", loc.String()),
		slog.Int("count", len(boxes)),
		slog.Int("total", total),
	)

	return pagination.NewResult(boxes, total, params), nil
}
