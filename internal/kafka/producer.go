package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"ms-schedule/internal/models"
)

const (
	TopicSchedulePublished = "schedule.snapshot.published"
	TopicEventChanged      = "schedule.event.changed"
)

type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer}
}

// Publish writes a raw message to a topic
func (p *Producer) Publish(topic string, key string, value []byte) error {
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: value,
		},
	)
}

// PublishSchedulePublished streams a new schedule snapshot to Kafka so
// downstream consumers (site cache, mailers) can react to the revision
func (p *Producer) PublishSchedulePublished(s models.Schedule) error {
	msgBytes, err := json.Marshal(struct {
		ID        string    `json:"id"`
		CreatedAt time.Time `json:"created_at"`
	}{ID: s.ID, CreatedAt: s.CreatedAt})
	if err != nil {
		return err
	}

	fmt.Printf("Publishing to Kafka [schedule_published]: %s\n", string(msgBytes))

	return p.Publish(TopicSchedulePublished, s.ID, msgBytes)
}

// PublishEventChanged streams an event lifecycle change to Kafka
func (p *Producer) PublishEventChanged(kind, action, id string) error {
	msgBytes, err := json.Marshal(struct {
		Kind      string    `json:"kind"`
		Action    string    `json:"action"`
		ID        string    `json:"id"`
		Timestamp time.Time `json:"timestamp"`
	}{Kind: kind, Action: action, ID: id, Timestamp: time.Now().UTC()})
	if err != nil {
		return err
	}

	fmt.Printf("Publishing to Kafka [event_%s]: %s\n", action, string(msgBytes))

	return p.Publish(TopicEventChanged, id, msgBytes)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
