package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/heatdrop/marketplace-backend/internal/entity"
	"github.com/heatdrop/marketplace-backend/internal/messaging"
)

// TopicEmail carries NotificationRequested events for the email pipeline.
const TopicEmail = "notifications.email"

// EventNotifier implements the checkout notification sink by publishing
// NotificationRequested events. Delivery happens out-of-band in the worker;
// a broker failure here is reported as false and nothing more.
type EventNotifier struct {
	publisher messaging.Publisher
}

func NewEventNotifier(publisher messaging.Publisher) *EventNotifier {
	return &EventNotifier{publisher: publisher}
}

func (n *EventNotifier) Notify(ctx context.Context, kind, recipientEmail, recipientName string, order entity.Order, listingTitle string) bool {
	event := entity.NotificationRequested{
		Kind:           kind,
		RecipientEmail: recipientEmail,
		RecipientName:  recipientName,
		OrderID:        order.ID,
		ListingTitle:   listingTitle,
		AmountCents:    order.AmountCents,
		RequestedAt:    time.Now(),
	}

	if err := n.publisher.PublishEvent(ctx, TopicEmail, order.ID, event); err != nil {
		slog.Error("Failed to publish notification event",
			"kind", kind, "order_id", order.ID, "err", err)
		return false
	}
	return true
}
