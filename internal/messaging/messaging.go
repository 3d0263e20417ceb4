package messaging

import "context"

// Publisher pushes a JSON-encodable event onto a broker topic. The key is
// used for partitioning so events sharing a key stay ordered.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
}

// Subscriber runs handler for every message on a topic until ctx is
// cancelled. Consumers in the same groupID share the topic's partitions.
type Subscriber interface {
	Consume(ctx context.Context, topic string, groupID string, handler func(ctx context.Context, payload []byte) error)
}
