package product

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/search"
	"go.uber.org/zap"
)

// Indexer keeps the search index in step with catalog events.
type Indexer struct {
	es     *search.Client
	index  string
	logger logger.ZapLogger
}

func NewIndexer(es *search.Client, index string, log logger.ZapLogger) *Indexer {
	return &Indexer{es: es, index: index, logger: log}
}

func (i *Indexer) Index() string { return i.index }

// EnsureIndex creates the product index when it does not exist yet.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	return i.es.CreateIndex(ctx, i.index, IndexMapping)
}

func (i *Indexer) Apply(ctx context.Context, e Event) error {
	switch e.Type {
	case EventUpserted:
		if e.Document == nil {
			return fmt.Errorf("event %s for %s has no document", e.Type, e.ProductID)
		}
		if err := i.es.Index(ctx, i.index, e.ProductID, e.Document); err != nil {
			return fmt.Errorf("index product %s: %w", e.ProductID, err)
		}
	case EventDeleted:
		if err := i.es.Delete(ctx, i.index, e.ProductID); err != nil {
			return fmt.Errorf("remove product %s: %w", e.ProductID, err)
		}
	default:
		i.logger.Debug("ignoring catalog event", zap.String("type", e.Type))
	}
	return nil
}
