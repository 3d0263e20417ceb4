package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/IBM/sarama"
	"github.com/ThreeDotsLabs/watermill"
	wkafka "github.com/ThreeDotsLabs/watermill-kafka/v3/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/heatdrop/marketplace-backend/internal/messaging"
)

const partitionKeyMetadata = "partition_key"

type kafkaBroker struct {
	brokers   []string
	publisher message.Publisher
	marshaler wkafka.MarshalerUnmarshaler
	logger    watermill.LoggerAdapter
}

// NewKafkaBroker creates a Kafka publisher and subscriber backed by
// Watermill. Messages are partitioned by the event key so all events for one
// order land on the same partition.
func NewKafkaBroker(brokers []string) (messaging.Publisher, messaging.Subscriber, error) {
	logger := watermill.NewSlogLogger(slog.Default())

	marshaler := wkafka.NewWithPartitioningMarshaler(func(topic string, msg *message.Message) (string, error) {
		return msg.Metadata.Get(partitionKeyMetadata), nil
	})

	saramaConfig := wkafka.DefaultSaramaSyncPublisherConfig()
	publisher, err := wkafka.NewPublisher(wkafka.PublisherConfig{
		Brokers:               brokers,
		Marshaler:             marshaler,
		OverwriteSaramaConfig: saramaConfig,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	kb := &kafkaBroker{
		brokers:   brokers,
		publisher: publisher,
		marshaler: marshaler,
		logger:    logger,
	}
	return kb, kb, nil
}

func (k *kafkaBroker) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(partitionKeyMetadata, key)
	msg.SetContext(ctx)

	return k.publisher.Publish(topic, msg)
}

func (k *kafkaBroker) Consume(ctx context.Context, topic string, groupID string, handler func(ctx context.Context, payload []byte) error) {
	saramaConfig := wkafka.DefaultSaramaSubscriberConfig()
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest

	subscriber, err := wkafka.NewSubscriber(wkafka.SubscriberConfig{
		Brokers:               k.brokers,
		Unmarshaler:           k.marshaler,
		ConsumerGroup:         groupID,
		OverwriteSaramaConfig: saramaConfig,
	}, k.logger)
	if err != nil {
		slog.Error("Failed to create kafka subscriber", "topic", topic, "err", err)
		return
	}
	defer subscriber.Close()

	messages, err := subscriber.Subscribe(ctx, topic)
	if err != nil {
		slog.Error("Failed to subscribe", "topic", topic, "err", err)
		return
	}

	for msg := range messages {
		if err := handler(msg.Context(), msg.Payload); err != nil {
			slog.Error("Error handling message", "topic", topic, "err", err)
		}
		// Handler errors are logged and the message acked; these streams are
		// best-effort and must not wedge on a poison message.
		msg.Ack()
	}
	slog.Info("Consumer shutting down", "topic", topic)
}
