package rewards

import (
	"context"
	"fmt"
	"os"

	"github.com/segmentio/kafka-go"
)

type KafkaTasks struct {
	reader *kafka.Reader
}

func GetNewReader(topic string) (reader *KafkaTasks, err error) {
	// config
	kafkaurl := os.Getenv("KAFKA_TASKS_URL")
	if kafkaurl == "" {
		return nil, fmt.Errorf("env KAFKA_TASKS_URL is not set")
	}
	kafkaport := os.Getenv("KAFKA_TASKS_PORT")
	if kafkaport == "" {
		return nil, fmt.Errorf("env KAFKA_TASKS_PORT is not set")
	}

	kafkaconfig := kafka.ReaderConfig{
		Brokers: []string{kafkaurl + ":" + kafkaport},
		Topic:   topic,
		GroupID: "tasks_rewards",
	}
	return &KafkaTasks{kafka.NewReader(kafkaconfig)}, nil
}

func (k *KafkaTasks) GetNewMessage(ctx context.Context) (taskJson string, err error) {
	msg, err := k.reader.ReadMessage(ctx)
	if err != nil {
		return "", err
	}
	return string(msg.Value), nil
}

func (k *KafkaTasks) CloseReader() {
	k.reader.Close()
}
