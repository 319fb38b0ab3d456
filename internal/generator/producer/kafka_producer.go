package producer

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	skafka "github.com/radieske/lotto-2d-generator/internal/shared/kafka"
	"github.com/radieske/lotto-2d-generator/pkg/contracts/events"
)

type KafkaPublisher struct {
	Writer *kafka.Writer
	Source string
}

func NewKafkaPublisher(w *kafka.Writer, source string) *KafkaPublisher {
	return &KafkaPublisher{Writer: w, Source: source}
}

// PublishTicketGenerated envia o evento com o TicketID como chave de partição
func (p *KafkaPublisher) PublishTicketGenerated(ctx context.Context, e events.TicketGenerated) error {
	if e.GeneratedAt.IsZero() {
		e.GeneratedAt = time.Now().UTC()
	}
	e.Source = p.Source
	return skafka.WriteJSON(ctx, p.Writer, e.TicketID, e)
}
