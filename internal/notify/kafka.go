package notify

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
)

// messageWriter is the part of *kafka.Writer the sink needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, messages ...kafka.Message) error
}

// Kafka publishes JSON notices keyed by actor so one person's notices stay ordered.
type Kafka struct {
	writer messageWriter
}

// NewKafka creates a sink on writer.
func NewKafka(writer messageWriter) *Kafka {
	return &Kafka{writer: writer}
}

// NewKafkaWriter builds a synchronous writer hashing keys onto partitions.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// Notify writes the notice as a single message.
func (k *Kafka) Notify(ctx context.Context, notice *domain.Notice) error {
	body, err := encode(notice)
	if err != nil {
		return err
	}

	message := kafka.Message{
		Key:   []byte(notice.Actor.Key()),
		Value: body,
		Time:  notice.CreatedAt,
	}

	if err = k.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("publish notice: %w", err)
	}

	return nil
}
