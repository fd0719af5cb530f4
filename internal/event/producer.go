package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dffarhn/recyle-food-mobile/internal/domain"
	pkgkafka "github.com/Dffarhn/recyle-food-mobile/pkg/kafka"
	"github.com/Dffarhn/recyle-food-mobile/pkg/logger"
)

// Kafka topic constants for mystery box domain events.
var (
	TopicMysteryBoxViewed = pkgkafka.Topic("mystery_box", "viewed")
)

// Aggregate type constant.
const AggregateTypeMysteryBox = "mystery_box"

// Source identifier for events originating from the mystery box service.
const SourceMysteryBoxService = "mysterybox-service"

// Publisher is the part of pkgkafka.Producer used here.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// MysteryBoxViewedData is the payload for a mystery_box.viewed event.
type MysteryBoxViewedData struct {
	MysteryBoxID   string   `json:"mystery_box_id"`
	RestaurantID   string   `json:"restaurant_id,omitempty"`
	Latitude       *float64 `json:"lat,omitempty"`
	Longitude      *float64 `json:"lng,omitempty"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
}

// Producer publishes mystery box domain events to Kafka.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer for the mystery box service.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishMysteryBoxViewed publishes a mystery_box.viewed event for a detail
// read. loc is nil when the reader did not send a location.
func (p *Producer) PublishMysteryBoxViewed(ctx context.Context, box *domain.MysteryBox, loc *domain.Coordinates) error {
	data := MysteryBoxViewedData{MysteryBoxID: box.ID}
	if loc != nil {
		data.Latitude = &loc.Latitude
		data.Longitude = &loc.Longitude
	}
	if box.Restaurant != nil {
		data.RestaurantID = box.Restaurant.ID
		data.DistanceMeters = box.Restaurant.Distance
	}

	event, err := pkgkafka.NewEvent(TopicMysteryBoxViewed, box.ID, AggregateTypeMysteryBox, SourceMysteryBoxService, data)
	if err != nil {
		return fmt.Errorf("create mystery_box.viewed event: %w", err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx)).
		WithMetadata("device_id", logger.DeviceIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, TopicMysteryBoxViewed, event); err != nil {
		return fmt.Errorf("publish mystery_box.viewed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published mystery_box.viewed event",
		slog.String("mystery_box_id", box.ID),
	)

	return nil
}
