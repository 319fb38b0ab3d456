package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/lotto-2d-generator/pkg/contracts/events"
)

var errMissingTicketID = errors.New("missing ticket_id")

// Reader é o lado consumidor do Kafka (kafka.Reader em produção)
type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Archiver persiste o evento; false indica reentrega já arquivada
type Archiver interface {
	Archive(ctx context.Context, e events.TicketGenerated) (bool, error)
}

type Cache interface {
	SetArchived(ctx context.Context, e events.TicketGenerated) error
}

// DeadLetter recebe as mensagens que não puderam ser decodificadas
type DeadLetter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Processor consome eventos de bilhete do Kafka, arquiva no banco e faz cache
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa
type Processor struct {
	Log   *zap.Logger
	Read  Reader
	Repo  Archiver
	Cache Cache
	DLQ   DeadLetter // opcional

	RetryDelay time.Duration // espera após falha de leitura (padrão 500ms)

	OnConsumed  func()       // métricas (counter++)
	OnPersist   func()       // métricas
	OnDuplicate func()       // métricas
	OnDLQ       func()       // métricas
	OnError     func(string) // métricas por fase

	// Após arquivar um bilhete novo (broadcast via Redis Pub/Sub)
	OnArchived func(ev events.TicketGenerated)
}

// Run inicia o loop principal de consumo e processamento das mensagens Kafka
func (p *Processor) Run(ctx context.Context) error {
	delay := p.RetryDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	for {
		m, err := p.Read.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.fail("read")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed()
		}
		p.Handle(ctx, m)
	}
}

// Handle processa uma única mensagem
func (p *Processor) Handle(ctx context.Context, m kafka.Message) {
	var ev events.TicketGenerated
	err := json.Unmarshal(m.Value, &ev)
	if err == nil && ev.TicketID == "" {
		err = errMissingTicketID
	}
	if err != nil {
		p.Log.Warn("invalid message", zap.ByteString("key", m.Key), zap.Error(err))
		p.fail("decode")
		p.deadLetter(ctx, m, err)
		return
	}

	created, err := p.Repo.Archive(ctx, ev)
	if err != nil {
		p.Log.Warn("db archive failed", zap.String("ticket_id", ev.TicketID), zap.Error(err))
		p.fail("db_archive")
		return
	}
	if !created {
		p.Log.Debug("ticket already archived", zap.String("ticket_id", ev.TicketID))
		if p.OnDuplicate != nil {
			p.OnDuplicate()
		}
	} else {
		if p.OnPersist != nil {
			p.OnPersist()
		}
		if p.OnArchived != nil {
			p.OnArchived(ev)
		}
	}

	// falha de cache não desfaz o arquivamento
	if err := p.Cache.SetArchived(ctx, ev); err != nil {
		p.Log.Warn("redis set failed", zap.String("ticket_id", ev.TicketID), zap.Error(err))
		p.fail("cache")
	}
}

func (p *Processor) deadLetter(ctx context.Context, m kafka.Message, cause error) {
	if p.DLQ == nil {
		return
	}
	// cópia: não escreve no array de headers da mensagem original
	headers := append(make([]kafka.Header, 0, len(m.Headers)+2), m.Headers...)
	headers = append(headers,
		kafka.Header{Key: "error", Value: []byte(cause.Error())},
		kafka.Header{Key: "source_topic", Value: []byte(m.Topic)},
	)
	dl := kafka.Message{
		Key:     m.Key,
		Value:   m.Value,
		Headers: headers,
		Time:    time.Now(),
	}
	if err := p.DLQ.WriteMessages(ctx, dl); err != nil {
		p.Log.Warn("dlq write failed", zap.Error(err))
		p.fail("dlq")
		return
	}
	if p.OnDLQ != nil {
		p.OnDLQ()
	}
}

func (p *Processor) fail(stage string) {
	if p.OnError != nil {
		p.OnError(stage)
	}
}
