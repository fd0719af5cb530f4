// Command seed populates the mystery box database with demo restaurants and
// boxes around central Jakarta. It applies migrations first and can be run
// repeatedly.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dffarhn/recyle-food-mobile/internal/config"
	"github.com/Dffarhn/recyle-food-mobile/internal/domain"
	"github.com/Dffarhn/recyle-food-mobile/internal/migrations"
	"github.com/Dffarhn/recyle-food-mobile/internal/repository/postgres"
	"github.com/Dffarhn/recyle-food-mobile/internal/repository/redis"
	"github.com/Dffarhn/recyle-food-mobile/pkg/database"
	"github.com/Dffarhn/recyle-food-mobile/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New("mysterybox-seed", cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	var cache boxEvicter
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis(), log)
	if err != nil {
		log.Warn("redis unavailable, cached boxes not evicted", slog.String("error", err.Error()))
	} else {
		defer redisClient.Close()
		cache = redis.NewMysteryBoxCache(redisClient, cfg.CacheTTL())
	}

	return seed(ctx, postgres.NewMysteryBoxRepository(pool), cache, demoBoxes(), log)
}

type boxStore interface {
	Insert(ctx context.Context, box *domain.MysteryBox) error
}

type boxEvicter interface {
	Delete(ctx context.Context, id string) error
}

// seed stores boxes and drops their cached copies so the service reads the
// seeded rows on the next request. cache may be nil.
func seed(ctx context.Context, store boxStore, cache boxEvicter, boxes []domain.MysteryBox, log *slog.Logger) error {
	for i := range boxes {
		box := &boxes[i]
		if err := store.Insert(ctx, box); err != nil {
			return err
		}
		if cache != nil {
			if err := cache.Delete(ctx, box.ID); err != nil {
				log.Warn("cache eviction failed",
					slog.String("id", box.ID),
					slog.String("error", err.Error()),
				)
			}
		}
		log.Info("seeded mystery box",
			slog.String("id", box.ID),
			slog.String("name", box.Name),
			slog.String("restaurant", box.Restaurant.Name),
		)
	}
	log.Info("seed complete", slog.Int("boxes", len(boxes)))
	return nil
}

func price(v int64) *int64      { return &v }
func rating(v float64) *float64 { return &v }

func demoBoxes() []domain.MysteryBox {
	senja := &domain.Restaurant{
		ID: "0b9e2b8e-6d4f-4a43-9a53-5f0e7c2d1a01", Name: "Bakery Senja",
		Rating: rating(4.5), Latitude: -6.1862, Longitude: 106.8341,
	}
	warung := &domain.Restaurant{
		ID: "0b9e2b8e-6d4f-4a43-9a53-5f0e7c2d1a02", Name: "Warung Bu Tini",
		Rating: rating(4.0), Latitude: -6.1751, Longitude: 106.8650,
	}
	kopi := &domain.Restaurant{
		ID: "0b9e2b8e-6d4f-4a43-9a53-5f0e7c2d1a03", Name: "Kopi Pagi",
		Latitude: -6.2088, Longitude: 106.8456,
	}

	return []domain.MysteryBox{
		{
			ID: "6f1c1c52-3a55-4c7e-9a0e-2f4b5d7f0a11", Name: "Roti Sore", Price: price(25000),
			Restaurant: senja,
			Products: []domain.Product{
				{ID: "9d0e5c1a-1b2c-4d3e-8f40-000000000001", Name: "Croissant", Price: price(12000)},
				{ID: "9d0e5c1a-1b2c-4d3e-8f40-000000000002", Name: "Donat Coklat", Price: price(8000)},
				{ID: "9d0e5c1a-1b2c-4d3e-8f40-000000000003", Name: "Roti Tawar", Price: price(15000)},
			},
		},
		{
			ID: "6f1c1c52-3a55-4c7e-9a0e-2f4b5d7f0a12", Name: "Nasi Campur", Price: price(18000),
			Restaurant: warung,
			Products: []domain.Product{
				{ID: "9d0e5c1a-1b2c-4d3e-8f40-000000000004", Name: "Nasi Putih"},
				{ID: "9d0e5c1a-1b2c-4d3e-8f40-000000000005", Name: "Ayam Bakar", Price: price(20000)},
			},
		},
		{
			ID: "6f1c1c52-3a55-4c7e-9a0e-2f4b5d7f0a13", Name: "Kue Kejutan",
			Restaurant: kopi,
		},
	}
}
