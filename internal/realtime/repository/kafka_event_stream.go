package repository

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// EventStream definition broker topic for created notifications, consumed
// by downstream jobs (digest mail, analytics)
type EventStream interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

type kafkaEventStream struct {
	writer *kafka.Writer
}

// NewKafkaEventStream create an EventStream over a kafka writer
func NewKafkaEventStream(writer *kafka.Writer) EventStream {
	return &kafkaEventStream{writer: writer}
}

func (s *kafkaEventStream) Publish(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
	})
}
