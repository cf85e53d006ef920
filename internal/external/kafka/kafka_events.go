package rewards

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	model "github.com/glkeru/rewards/internal/models"
	"github.com/segmentio/kafka-go"
)

// Публикация событий жизненного цикла подарков
type KafkaEvents struct {
	writer *kafka.Writer
}

func GetNewWriter(topic string) (events *KafkaEvents, err error) {
	// config
	kafkaurl := os.Getenv("KAFKA_EVENTS_URL")
	if kafkaurl == "" {
		return nil, fmt.Errorf("env KAFKA_EVENTS_URL is not set")
	}
	kafkaport := os.Getenv("KAFKA_EVENTS_PORT")
	if kafkaport == "" {
		return nil, fmt.Errorf("env KAFKA_EVENTS_PORT is not set")
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(kafkaurl + ":" + kafkaport),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaEvents{writer}, nil
}

func (k *KafkaEvents) Emit(ctx context.Context, event string, payload model.GiftEvent) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event", Value: []byte(event)},
		},
	})
	if err != nil {
		return err
	}
	return nil
}

func (k *KafkaEvents) CloseWriter() {
	k.writer.Close()
}
