// Package bus carries audit lifecycle events (submitted, scored, alert)
// between the API, the async ingest worker, and external consumers.
package bus

import (
	"fmt"

	"github.com/opensource-safety/kestrel/internal/domain"
)

// New selects an event bus backend from configuration. Community tier
// runs on the in-process channel bus; Pro tier connects to NATS.
func New(cfg domain.EventBusConfig) (domain.EventBus, error) {
	switch cfg.Type {
	case "channel":
		return NewChannelBus(cfg.ChannelBufferSize), nil

	case "nats":
		return NewNATSBus(cfg)

	default:
		return nil, fmt.Errorf("unsupported event bus type: %s", cfg.Type)
	}
}
