package storage

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/segmentio/kafka-go"

	"tableside/internal/domain"
)

type KafkaRatingPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaRatingPublisher(writer *kafka.Writer) *KafkaRatingPublisher {
	return &KafkaRatingPublisher{Writer: writer}
}

func (p *KafkaRatingPublisher) PublishRating(ctx context.Context, event domain.RatingEvent) error {
	payload, _ := json.Marshal(event)
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(event.MenuItemID)),
		Value: payload,
	})
}
