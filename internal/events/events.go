// Package events публикует события жизненного цикла подписок в RabbitMQ
// и разбирает их на стороне потребителя.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/magazine-subscriptions/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/lib/sl"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/models"
)

// Publisher отправляет событие подписки.
type Publisher interface {
	Publish(ctx context.Context, eventType models.EventType, sub models.Subscription, previousID int) error
}

// AMQPPublisher публикует события в topic exchange, ключ маршрутизации равен типу события.
type AMQPPublisher struct {
	ch       rabbitmq.Channel
	exchange string
	now      func() time.Time
}

func NewAMQPPublisher(ch rabbitmq.Channel, exchange string) *AMQPPublisher {
	return &AMQPPublisher{
		ch:       ch,
		exchange: exchange,
		now:      time.Now,
	}
}

func (p *AMQPPublisher) Publish(ctx context.Context, eventType models.EventType, sub models.Subscription, previousID int) error {
	const op = "events.Publish"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	event := NewEvent(eventType, sub, previousID, p.now().UTC())
	if err := rabbitmq.PublishMessage(p.ch, p.exchange, string(eventType), event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// NewEvent собирает событие из записи подписки.
func NewEvent(eventType models.EventType, sub models.Subscription, previousID int, at time.Time) models.SubscriptionEvent {
	return models.SubscriptionEvent{
		ID:                     uuid.NewString(),
		Type:                   eventType,
		SubscriptionID:         sub.ID,
		PreviousSubscriptionID: previousID,
		UserID:                 sub.UserID,
		MagazineID:             sub.MagazineID,
		PlanID:                 sub.PlanID,
		Price:                  sub.Price,
		RenewalDate:            sub.RenewalDate.Format(models.DateLayout),
		OccurredAt:             at,
	}
}

// Noop используется, когда брокер отключён в конфигурации.
type Noop struct{}

func (Noop) Publish(context.Context, models.EventType, models.Subscription, int) error {
	return nil
}

// AuditHandler возвращает обработчик очереди аудита: каждое событие пишется в лог.
// Нераспознанные сообщения логируются и подтверждаются, чтобы не зацикливать очередь.
func AuditHandler(log *slog.Logger) func([]byte) error {
	log = log.With(sl.Op("events.Audit"))
	return func(body []byte) error {
		var event models.SubscriptionEvent
		if err := json.Unmarshal(body, &event); err != nil {
			log.Warn("skipping malformed event", sl.Err(err))
			return nil
		}
		log.Info("subscription event",
			slog.String("event_id", event.ID),
			slog.String("type", string(event.Type)),
			slog.Int("subscription_id", event.SubscriptionID),
			slog.Int("previous_subscription_id", event.PreviousSubscriptionID),
			slog.Int("user_id", event.UserID),
		)
		return nil
	}
}
