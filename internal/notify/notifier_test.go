package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heatdrop/marketplace-backend/internal/entity"
	"github.com/heatdrop/marketplace-backend/internal/notify"
)

type published struct {
	Topic   string
	Key     string
	Payload []byte
}

type fakePublisher struct {
	events []published
	err    error
}

func (p *fakePublisher) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	if p.err != nil {
		return p.err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	p.events = append(p.events, published{Topic: topic, Key: key, Payload: payload})
	return nil
}

func TestNotifyPublishesNotificationEvent(t *testing.T) {
	pub := &fakePublisher{}
	notifier := notify.NewEventNotifier(pub)

	order := entity.Order{ID: "ord-1", AmountCents: 185000}
	ok := notifier.Notify(context.Background(), entity.NotifyBuyerOrderCreated,
		"buyer@example.com", "Jamie", order, "Jordan 1 Chicago")
	require.True(t, ok)

	require.Len(t, pub.events, 1)
	assert.Equal(t, notify.TopicEmail, pub.events[0].Topic)
	assert.Equal(t, "ord-1", pub.events[0].Key)

	var event entity.NotificationRequested
	require.NoError(t, json.Unmarshal(pub.events[0].Payload, &event))
	assert.Equal(t, entity.NotifyBuyerOrderCreated, event.Kind)
	assert.Equal(t, "buyer@example.com", event.RecipientEmail)
	assert.Equal(t, "Jordan 1 Chicago", event.ListingTitle)
	assert.Equal(t, int64(185000), event.AmountCents)
}

func TestNotifyReportsPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	notifier := notify.NewEventNotifier(pub)

	ok := notifier.Notify(context.Background(), entity.NotifyBuyerOrderCreated,
		"buyer@example.com", "Jamie", entity.Order{ID: "ord-1"}, "Jordan 1 Chicago")
	assert.False(t, ok, "a failed publish is reported, never panicked on")
}

// fakeSubscriber synchronously feeds canned payloads to the handler.
type fakeSubscriber struct {
	payloads [][]byte
}

func (s *fakeSubscriber) Consume(ctx context.Context, topic, groupID string, handler func(ctx context.Context, payload []byte) error) {
	for _, p := range s.payloads {
		_ = handler(ctx, p)
	}
}

type recordingSender struct {
	sent []entity.NotificationRequested
}

func (r *recordingSender) Send(ctx context.Context, n entity.NotificationRequested) error {
	r.sent = append(r.sent, n)
	return nil
}

func TestWorkerDeliversNotifications(t *testing.T) {
	payload, err := json.Marshal(entity.NotificationRequested{
		Kind:    entity.NotifySellerItemSold,
		OrderID: "ord-1",
	})
	require.NoError(t, err)

	sender := &recordingSender{}
	worker := notify.NewWorker(&fakeSubscriber{payloads: [][]byte{payload, []byte("not json")}}, sender)
	worker.Run(context.Background())

	require.Len(t, sender.sent, 1, "malformed payloads are skipped")
	assert.Equal(t, "ord-1", sender.sent[0].OrderID)
}
