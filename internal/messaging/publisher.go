package messaging

import (
	"context"

	"github.com/archtools/modelsync/internal/domain"
)

// Publisher defines the interface for publishing change events to the
// live-update channel. Delivery is best-effort: the write paths never block
// on it and a channel with zero subscribers is fine.
type Publisher interface {
	// PublishChange publishes a change event to the message broker
	PublishChange(ctx context.Context, event *domain.ChangeEvent) error
	// Close closes the connection
	Close()
}
