package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/magazine-subscriptions/internal/lib/sl"
)

// Consume читает сообщения из очереди и передаёт тело в handler, обрабатывая
// не более workers сообщений одновременно. Успешно обработанные сообщения подтверждаются,
// при ошибке сообщение возвращается в очередь.
//
// Чтение прекращается при отмене ctx или закрытии канала. Возвращённая функция ждёт
// остановки чтения, а затем завершения уже запущенных обработчиков.
func Consume(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, workers int, handler func([]byte) error) (func(), error) {
	const op = "rabbitmq.Consume"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(sl.Op(op), slog.String("queue", queueName))
	return dispatch(ctx, log, delivery, workers, handler), nil
}

func dispatch(ctx context.Context, log *slog.Logger, delivery <-chan amqp.Delivery, workers int, handler func([]byte) error) func() {
	sem := make(chan struct{}, max(workers, 1))
	var wg sync.WaitGroup
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		for {
			var d amqp.Delivery
			select {
			case msg, ok := <-delivery:
				if !ok {
					return
				}
				d = msg
			case <-ctx.Done():
				return
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				if err := d.Nack(false, true); err != nil {
					log.Error("failed to nack message", sl.Err(err))
				}
				return
			}

			wg.Add(1)
			go func(d amqp.Delivery) {
				defer func() {
					<-sem
					wg.Done()
				}()
				if err := handler(d.Body); err != nil {
					log.Warn("handler failed, requeueing", sl.Err(err))
					if nackErr := d.Nack(false, true); nackErr != nil {
						log.Error("failed to nack message", sl.Err(nackErr))
					}
					return
				}
				if ackErr := d.Ack(false); ackErr != nil {
					log.Error("failed to ack message", sl.Err(ackErr))
				}
			}(d)
		}
	}()

	return func() {
		<-stopped
		wg.Wait()
	}
}
