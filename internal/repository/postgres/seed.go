package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Dffarhn/recyle-food-mobile/internal/domain"
	"github.com/Dffarhn/recyle-food-mobile/pkg/database"
)

var errNoRestaurant = errors.New("mystery box has no restaurant")

// Insert stores a box together with its restaurant and products in one
// transaction. Rows whose id already exists are left untouched, so seeding
// twice is harmless.
func (r *MysteryBoxRepository) Insert(ctx context.Context, box *domain.MysteryBox) error {
	if box.Restaurant == nil {
		return fmt.Errorf("insert mystery box %s: %w", box.ID, errNoRestaurant)
	}
	if err := box.Validate(); err != nil {
		return fmt.Errorf("insert mystery box %s: %w", box.ID, err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rest := box.Restaurant
	if err := exec(ctx, tx, "InsertRestaurant",
		`INSERT INTO restaurants (id, name, rating, latitude, longitude)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		rest.ID, rest.Name, rest.Rating, rest.Latitude, rest.Longitude,
	); err != nil {
		return fmt.Errorf("insert restaurant %s: %w", rest.ID, err)
	}

	if err := exec(ctx, tx, "InsertMysteryBox",
		`INSERT INTO mystery_boxes (id, restaurant_id, name, price)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		box.ID, rest.ID, box.Name, box.Price,
	); err != nil {
		return fmt.Errorf("insert mystery box %s: %w", box.ID, err)
	}

	for i, p := range box.Products {
		if err := exec(ctx, tx, "InsertMysteryBoxProduct",
			`INSERT INTO mystery_box_products (id, mystery_box_id, name, price, position)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO NOTHING`,
			p.ID, box.ID, p.Name, p.Price, i,
		); err != nil {
			return fmt.Errorf("insert product %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func exec(ctx context.Context, tx pgx.Tx, operation, query string, args ...any) (err error) {
	ctx, end := database.TraceQuery(ctx, operation, query)
	defer func() { end(err) }()

	_, err = tx.Exec(ctx, query, args...)
	return err
}
