package ws

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/radieske/lotto-2d-generator/pkg/contracts/events"
	"github.com/radieske/lotto-2d-generator/pkg/contracts/topics"
)

// StartRedisSubscriber escuta o canal de bilhetes arquivados e repassa cada aviso
// para os clientes conectados ao Hub. Encerra a inscrição quando ctx termina.
func StartRedisSubscriber(ctx context.Context, r *redis.Client, hub *Hub) {
	sub := r.Subscribe(ctx, topics.ChannelTicketArchived)
	ch := sub.Channel()
	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				hub.Deliver([]byte(msg.Payload))
			}
		}
	}()
}

// Deliver decodifica um aviso vindo do Pub/Sub e faz o broadcast
func (h *Hub) Deliver(payload []byte) {
	var a events.TicketArchived
	if err := json.Unmarshal(payload, &a); err != nil || a.TicketID == "" {
		h.log.Warn("ws subscriber invalid payload", zap.ByteString("payload", payload), zap.Error(err))
		return
	}
	h.Broadcast(a)
}
