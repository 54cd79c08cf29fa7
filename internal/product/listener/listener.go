package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by broker.KafkaConsumer.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// Applier is satisfied by product.Indexer.
type Applier interface {
	Apply(ctx context.Context, e product.Event) error
}

type IndexListener struct {
	consumer MessageReader
	indexer  Applier
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewIndexListener(consumer MessageReader, indexer Applier, log logger.ZapLogger) *IndexListener {
	return &IndexListener{
		consumer: consumer,
		indexer:  indexer,
		logger:   log,
		backoff:  time.Second,
	}
}

// Start consumes catalog events until ctx is cancelled.
func (l *IndexListener) Start(ctx context.Context) {
	l.logger.Info("Starting search index Kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping search index Kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *IndexListener) processMessage(ctx context.Context, value []byte) {
	var event product.Event
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	if err := l.indexer.Apply(ctx, event); err != nil {
		l.logger.Error("Failed to apply catalog event",
			zap.String("type", event.Type),
			zap.String("product_id", event.ProductID),
			zap.Error(err),
		)
	}
}
