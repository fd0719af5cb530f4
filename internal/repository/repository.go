package repository

import (
	"context"

	"github.com/Dffarhn/recyle-food-mobile/internal/domain"
)

// MysteryBoxRepository defines the interface for mystery box persistence.
type MysteryBoxRepository interface {
	// GetByID retrieves a box with its restaurant and products.
	// Returns apperrors.ErrNotFound when no box has the id.
	GetByID(ctx context.Context, id string) (*domain.MysteryBox, error)

	// ListNearby returns boxes ordered by restaurant distance from loc,
	// together with the total number of boxes.
	ListNearby(ctx context.Context, loc domain.Coordinates, page, perPage int) ([]domain.MysteryBox, int, error)
}

// MysteryBoxCache caches boxes by id. Cached records never carry a distance.
type MysteryBoxCache interface {
	// Get returns nil and no error on a cache miss.
	Get(ctx context.Context, id string) (*domain.MysteryBox, error)
	Set(ctx context.Context, box *domain.MysteryBox) error
	Delete(ctx context.Context, id string) error
}
