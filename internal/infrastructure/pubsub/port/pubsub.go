package port

import "context"

// Publisher sends fire-and-forget messages to a named channel. Delivery is
// best-effort fan-out to whoever is subscribed at that moment; nothing is
// persisted. The worker publishes meeting lifecycle events here so the API
// process can push them to live connections it owns.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Close() error
}

// Subscriber consumes messages from a channel. Subscribe blocks, invoking h
// for every message, until the context is canceled.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string, h func(payload []byte)) error
	Close() error
}
