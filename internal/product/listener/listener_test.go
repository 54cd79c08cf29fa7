package listener

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader replays queued messages, then blocks until ctx ends.
type fakeReader struct {
	mu   sync.Mutex
	msgs [][]byte
	errs int
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	if f.errs > 0 {
		f.errs--
		f.mu.Unlock()
		return kafka.Message{}, errors.New("broker unavailable")
	}
	if len(f.msgs) > 0 {
		m := f.msgs[0]
		f.msgs = f.msgs[1:]
		f.mu.Unlock()
		return kafka.Message{Value: m}, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

type recorder struct {
	mu     sync.Mutex
	events []product.Event
}

func (r *recorder) Apply(_ context.Context, e product.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func encode(t *testing.T, e product.Event) []byte {
	t.Helper()
	b, err := json.Marshal(e)
	require.NoError(t, err)
	return b
}

func TestListenerAppliesEventsAndSkipsGarbage(t *testing.T) {
	reader := &fakeReader{errs: 1, msgs: [][]byte{
		encode(t, product.Event{Type: product.EventUpserted, ProductID: "p1", Document: &product.Document{ID: "p1"}}),
		[]byte("not json"),
		encode(t, product.Event{Type: product.EventDeleted, ProductID: "p2"}),
	}}
	rec := &recorder{}
	l := NewIndexListener(reader, rec, logger.NewNop())
	l.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return rec.len() == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, product.EventUpserted, rec.events[0].Type)
	assert.Equal(t, "p2", rec.events[1].ProductID)
}
