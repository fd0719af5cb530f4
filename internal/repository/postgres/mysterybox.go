package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Dffarhn/recyle-food-mobile/internal/domain"
	"github.com/Dffarhn/recyle-food-mobile/pkg/database"
	apperrors "github.com/Dffarhn/recyle-food-mobile/pkg/errors"
)

// MysteryBoxRepository implements repository.MysteryBoxRepository using PostgreSQL.
type MysteryBoxRepository struct {
	pool database.DBTX
}

// NewMysteryBoxRepository creates a new PostgreSQL-backed mystery box repository.
func NewMysteryBoxRepository(pool database.DBTX) *MysteryBoxRepository {
	return &MysteryBoxRepository{pool: pool}
}

const boxColumns = `
	mb.id, mb.name, mb.price, mb.created_at, mb.updated_at,
	r.id, r.name, r.rating, r.latitude, r.longitude`

// haversineSQL is the great-circle distance in meters from ($1, $2) to the
// restaurant, matching domain.DistanceMeters.
const haversineSQL = `2 * 6371008.8 * asin(sqrt(
	power(sin(radians(r.latitude - $1) / 2), 2) +
	cos(radians($1)) * cos(radians(r.latitude)) *
	power(sin(radians(r.longitude - $2) / 2), 2)))`

// GetByID retrieves a box with its restaurant and products.
func (r *MysteryBoxRepository) GetByID(ctx context.Context, id string) (_ *domain.MysteryBox, err error) {
	query := `SELECT` + boxColumns + `
		FROM mystery_boxes mb
		JOIN restaurants r ON r.id = mb.restaurant_id
		WHERE mb.id = $1`

	ctx, end := database.TraceQuery(ctx, "GetMysteryBox", query)
	defer func() { end(err) }()

	box, err := scanBox(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get mystery box by id: %w", err)
	}

	products, err := r.productsFor(ctx, []string{box.ID})
	if err != nil {
		return nil, err
	}
	box.Products = products[box.ID]
	if box.Products == nil {
		box.Products = []domain.Product{}
	}

	return box, nil
}

// ListNearby returns boxes ordered by distance from loc, nearest first.
func (r *MysteryBoxRepository) ListNearby(ctx context.Context, loc domain.Coordinates, page, perPage int) (_ []domain.MysteryBox, _ int, err error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}
	offset := (page - 1) * perPage

	query := `SELECT` + boxColumns + `,
			count(*) OVER() AS total_count
		FROM mystery_boxes mb
		JOIN restaurants r ON r.id = mb.restaurant_id
		ORDER BY ` + haversineSQL + ` ASC, mb.id
		LIMIT $3 OFFSET $4`

	ctx, end := database.TraceQuery(ctx, "ListNearbyMysteryBoxes", query)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, query, loc.Latitude, loc.Longitude, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list nearby mystery boxes: %w", err)
	}
	defer rows.Close()

	var (
		boxes      []domain.MysteryBox
		totalCount int
	)
	for rows.Next() {
		box, err := scanBox(rows, &totalCount)
		if err != nil {
			return nil, 0, fmt.Errorf("scan mystery box row: %w", err)
		}
		boxes = append(boxes, *box)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate mystery box rows: %w", err)
	}

	if len(boxes) == 0 {
		return []domain.MysteryBox{}, totalCount, nil
	}

	ids := make([]string, len(boxes))
	for i := range boxes {
		ids[i] = boxes[i].ID
	}
	products, err := r.productsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range boxes {
		boxes[i].Products = products[boxes[i].ID]
		if boxes[i].Products == nil {
			boxes[i].Products = []domain.Product{}
		}
	}

	return boxes, totalCount, nil
}

// productsFor loads the products of the given boxes keyed by box id.
func (r *MysteryBoxRepository) productsFor(ctx context.Context, boxIDs []string) (map[string][]domain.Product, error) {
	query := `
		SELECT mystery_box_id, id, name, price
		FROM mystery_box_products
		WHERE mystery_box_id = ANY($1)
		ORDER BY mystery_box_id, position, id`

	rows, err := r.pool.Query(ctx, query, boxIDs)
	if err != nil {
		return nil, fmt.Errorf("list mystery box products: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.Product, len(boxIDs))
	for rows.Next() {
		var (
			boxID string
			p     domain.Product
		)
		if err := rows.Scan(&boxID, &p.ID, &p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("scan mystery box product: %w", err)
		}
		out[boxID] = append(out[boxID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mystery box products: %w", err)
	}
	return out, nil
}

// scanBox reads the boxColumns projection followed by any extra destinations.
func scanBox(row pgx.Row, extra ...any) (*domain.MysteryBox, error) {
	var (
		box domain.MysteryBox
		rst domain.Restaurant
	)
	dest := []any{
		&box.ID, &box.Name, &box.Price, &box.CreatedAt, &box.UpdatedAt,
		&rst.ID, &rst.Name, &rst.Rating, &rst.Latitude, &rst.Longitude,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	box.Restaurant = &rst
	return &box, nil
}
