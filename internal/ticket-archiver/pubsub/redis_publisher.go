package pubsub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/lotto-2d-generator/pkg/contracts/events"
	"github.com/radieske/lotto-2d-generator/pkg/contracts/topics"
)

type RedisBroadcaster struct {
	r *redis.Client
}

func NewRedisBroadcaster(r *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{r: r}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, channel string, payload []byte) error {
	return b.r.Publish(ctx, channel, payload).Err()
}

// PublishArchived avisa os monitores WebSocket que o bilhete foi arquivado
func (b *RedisBroadcaster) PublishArchived(ctx context.Context, e events.TicketGenerated) error {
	payload, err := json.Marshal(ArchivedFrom(e, time.Now()))
	if err != nil {
		return err
	}
	return b.Publish(ctx, topics.ChannelTicketArchived, payload)
}

// ArchivedFrom resume o evento de geração no aviso de arquivamento
func ArchivedFrom(e events.TicketGenerated, at time.Time) events.TicketArchived {
	return events.TicketArchived{
		TicketID:          e.TicketID,
		TotalCombinations: e.TotalCombinations,
		TotalCost:         e.TotalCost,
		ArchivedAt:        at.UTC(),
	}
}
