package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/ArthurDelaporte/NewsPortal-Back/internal/logs"
)

const (
	PostCreated = "news.post.created"
	PostUpdated = "news.post.updated"
	PostDeleted = "news.post.deleted"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Close()
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, []byte) error { return nil }
func (noopPublisher) Close()                                        {}

type natsPublisher struct {
	nc *nats.Conn
}

func (p *natsPublisher) Publish(_ context.Context, subject string, data []byte) error {
	if !p.nc.IsConnected() {
		return nats.ErrConnectionClosed
	}
	return p.nc.Publish(subject, data)
}

func (p *natsPublisher) Close() {
	if err := p.nc.Drain(); err != nil {
		p.nc.Close()
	}
}

var (
	mu        sync.RWMutex
	publisher Publisher = noopPublisher{}
)

// Connect branche la publication sur NATS
func Connect(url string) error {
	nc, err := nats.Connect(url, nats.Name("newsportal-back"))
	if err != nil {
		return fmt.Errorf("connexion NATS %s: %w", url, err)
	}
	SetPublisher(&natsPublisher{nc: nc})
	logs.LogJSON("INFO", "NATS connected", map[string]interface{}{"url": url})
	return nil
}

// SetPublisher remplace le publisher courant; nil rétablit le no-op
func SetPublisher(p Publisher) {
	if p == nil {
		p = noopPublisher{}
	}
	mu.Lock()
	publisher = p
	mu.Unlock()
}

func Close() {
	mu.Lock()
	defer mu.Unlock()
	publisher.Close()
	publisher = noopPublisher{}
}

// Publish encode payload en JSON. Les échecs sont journalisés, jamais remontés.
func Publish(ctx context.Context, subject string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logs.LogJSON("ERROR", "Event encoding failed", map[string]interface{}{
			"error":   err.Error(),
			"subject": subject,
		})
		return
	}

	mu.RLock()
	p := publisher
	mu.RUnlock()

	if err := p.Publish(ctx, subject, data); err != nil {
		logs.LogJSON("WARN", "Event publish failed", map[string]interface{}{
			"error":   err.Error(),
			"subject": subject,
		})
	}
}
