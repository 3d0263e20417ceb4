package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/heatdrop/marketplace-backend/internal/entity"
	"github.com/heatdrop/marketplace-backend/internal/messaging"
)

// Sender delivers one notification over a concrete channel.
type Sender interface {
	Send(ctx context.Context, n entity.NotificationRequested) error
}

// LogSender "delivers" notifications by logging them. The real SMTP/ESP
// integration lives outside this service.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, n entity.NotificationRequested) error {
	slog.Info("📧 Notification delivered",
		"kind", n.Kind,
		"recipient", n.RecipientEmail,
		"order_id", n.OrderID,
		"listing", n.ListingTitle,
	)
	return nil
}

// Worker consumes NotificationRequested events and hands them to a Sender.
type Worker struct {
	subscriber messaging.Subscriber
	sender     Sender
}

func NewWorker(subscriber messaging.Subscriber, sender Sender) *Worker {
	return &Worker{subscriber: subscriber, sender: sender}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.subscriber.Consume(ctx, TopicEmail, "notification-worker", w.handle)
}

func (w *Worker) handle(ctx context.Context, payload []byte) error {
	var n entity.NotificationRequested
	if err := json.Unmarshal(payload, &n); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}
	return w.sender.Send(ctx, n)
}
