package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/prediction-market-poc/pkg/contracts/events"
)

// KafkaPublisher publica os eventos do engine, um writer por tópico.
// A chave das mensagens é o market_id, preservando ordem por mercado.
type KafkaPublisher struct {
	EngineInit     *kafka.Writer
	MarketCreated  *kafka.Writer
	BetPlaced      *kafka.Writer
	MarketResolved *kafka.Writer
	PayoutClaimed  *kafka.Writer
}

func (p *KafkaPublisher) PublishEngineInitialized(ctx context.Context, e events.EngineInitialized) error {
	e.Ts = time.Now().UTC()
	return writeJSON(ctx, p.EngineInit, "init", e)
}

func (p *KafkaPublisher) PublishMarketCreated(ctx context.Context, e events.MarketCreated) error {
	e.Ts = time.Now().UTC()
	return writeJSON(ctx, p.MarketCreated, marketKey(e.MarketID), e)
}

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	e.TsUnixMs = time.Now().UnixMilli()
	return writeJSON(ctx, p.BetPlaced, marketKey(e.MarketID), e)
}

func (p *KafkaPublisher) PublishMarketResolved(ctx context.Context, e events.MarketResolved) error {
	e.Ts = time.Now().UTC()
	return writeJSON(ctx, p.MarketResolved, marketKey(e.MarketID), e)
}

func (p *KafkaPublisher) PublishPayoutClaimed(ctx context.Context, e events.PayoutClaimed) error {
	e.Ts = time.Now().UTC()
	return writeJSON(ctx, p.PayoutClaimed, marketKey(e.MarketID), e)
}

func marketKey(id uint32) string { return fmt.Sprintf("market-%d", id) }

func writeJSON(ctx context.Context, w *kafka.Writer, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: b})
}

// Close fecha todos os writers
func (p *KafkaPublisher) Close() error {
	for _, w := range []*kafka.Writer{p.EngineInit, p.MarketCreated, p.BetPlaced, p.MarketResolved, p.PayoutClaimed} {
		if w != nil {
			_ = w.Close()
		}
	}
	return nil
}
