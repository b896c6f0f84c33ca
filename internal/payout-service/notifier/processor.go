package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/race-payout-reconciler/internal/payout-service/pubsub"
	"github.com/radieske/race-payout-reconciler/pkg/contracts/events"
)

// MessageReader é o subconjunto de *kafka.Reader usado pelo processor.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Broadcaster interface {
	Publish(ctx context.Context, payload []byte) error
}

// Processor consome payout_checked e repassa cada resultado ao canal do WS.
// Mensagens ilegíveis vão para a DLQ (quando configurada).
type Processor struct {
	Log         *zap.Logger
	Reader      MessageReader
	Broadcaster Broadcaster
	DLQ         MessageWriter

	OnEvent func(stage string) // métricas: won, lost, read_error, decode_error, broadcast_error
}

// Run bloqueia até o contexto ser cancelado.
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			p.mark("read_error")
			time.Sleep(500 * time.Millisecond)
			continue
		}
		p.Handle(ctx, m)
	}
}

// Handle processa uma única mensagem.
func (p *Processor) Handle(ctx context.Context, m kafka.Message) {
	var ev events.PayoutChecked
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		p.Log.Warn("invalid payout_checked message", zap.Error(err))
		p.mark("decode_error")
		if p.DLQ != nil {
			if err := p.DLQ.WriteMessages(ctx, kafka.Message{Key: m.Key, Value: m.Value, Time: time.Now()}); err != nil {
				p.Log.Error("dlq write failed", zap.Error(err))
			}
		}
		return
	}

	if ev.Won() {
		p.mark("won")
	} else {
		p.mark("lost")
	}

	b, _ := json.Marshal(pubsub.WSUpdate{UserID: ev.UserID, Payload: ev})
	pctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	if err := p.Broadcaster.Publish(pctx, b); err != nil {
		p.Log.Warn("ws broadcast publish failed", zap.String("check_id", ev.CheckID), zap.Error(err))
		p.mark("broadcast_error")
	}
}

func (p *Processor) mark(stage string) {
	if p.OnEvent != nil {
		p.OnEvent(stage)
	}
}
