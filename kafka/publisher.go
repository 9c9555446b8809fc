package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tunedeck/tunedeck/pkg/logger"
)

// Publisher wraps a Kafka sync producer for domain events.
type Publisher struct {
	producer sarama.SyncProducer
	brokers  []string
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return &Publisher{producer: producer, brokers: brokers}, nil
}

// PublishUserRegistered publishes a signup event.
func (p *Publisher) PublishUserRegistered(ctx context.Context, event UserRegisteredEvent) error {
	event.EventType = EventTypeUserRegistered
	if event.EventID == "" {
		event.EventID = fmt.Sprintf("evt_%d", time.Now().UnixNano())
	}
	event.Timestamp = time.Now()

	key := fmt.Sprintf("user_%d", event.UserID)
	return p.publish(ctx, TopicUserRegistered, event.EventType, event.EventID, key, event,
		attribute.Int64("user.id", int64(event.UserID)),
	)
}

// PublishSongUploaded publishes an upload event.
func (p *Publisher) PublishSongUploaded(ctx context.Context, event SongUploadedEvent) error {
	event.EventType = EventTypeSongUploaded
	if event.EventID == "" {
		event.EventID = fmt.Sprintf("evt_%d", time.Now().UnixNano())
	}
	event.Timestamp = time.Now()

	return p.publish(ctx, TopicSongUploaded, event.EventType, event.EventID, event.SongID, event,
		attribute.String("song.id", event.SongID),
		attribute.Int64("user.id", int64(event.UserID)),
	)
}

// PublishFavoriteToggled publishes a favorite toggle event.
func (p *Publisher) PublishFavoriteToggled(ctx context.Context, event FavoriteToggledEvent) error {
	event.EventType = EventTypeFavoriteToggled
	if event.EventID == "" {
		event.EventID = fmt.Sprintf("evt_%d", time.Now().UnixNano())
	}
	event.Timestamp = time.Now()

	key := fmt.Sprintf("fav_%d_%s", event.UserID, event.SongID)
	return p.publish(ctx, TopicFavoriteToggled, event.EventType, event.EventID, key, event,
		attribute.String("song.id", event.SongID),
		attribute.Int64("user.id", int64(event.UserID)),
		attribute.Bool("favorite.state", event.Favorited),
	)
}

func (p *Publisher) publish(ctx context.Context, topic, eventType, eventID, key string, event interface{}, attrs ...attribute.KeyValue) error {
	tracer := otel.Tracer("kafka-publisher")
	spanAttrs := append([]attribute.KeyValue{
		attribute.String("messaging.system", "kafka"),
		attribute.String("messaging.destination", topic),
		attribute.String("event.type", eventType),
		attribute.String("event.id", eventID),
	}, attrs...)

	ctx, span := tracer.Start(ctx, "kafka.publish."+eventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(spanAttrs...),
	)
	defer span.End()

	eventBytes, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Trace context travels in the message headers.
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte("event_type"), Value: []byte(eventType)},
		{Key: []byte("event_id"), Value: []byte(eventID)},
	}
	for hk, hv := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(hk), Value: []byte(hv)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(eventBytes),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Logger.Error().
			Err(err).
			Str("topic", topic).
			Str("event_type", eventType).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published")

	logger.Logger.Info().
		Str("event_id", eventID).
		Str("event_type", eventType).
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Event published")

	return nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
