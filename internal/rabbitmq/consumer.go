package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
)

// Source часть *amqp.Channel, нужная для потребления.
type Source interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Handler обрабатывает тело сообщения. Ошибка возвращает сообщение в очередь.
type Handler func(ctx context.Context, body []byte) error

const maxInFlight = 10

// Consume запускает обработку очереди queueName до отмены ctx или закрытия канала.
// Одновременно обрабатывается не больше maxInFlight сообщений. Чтение очереди
// и каждый обработчик учитываются в wg: канал можно закрывать после wg.Wait.
func Consume(ctx context.Context, log *slog.Logger, src Source, queueName string, handler Handler, wg *sync.WaitGroup) error {
	const op = "rabbitmq.Consume"

	deliveries, err := src.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log = log.With(slog.String("op", op), slog.String("queue", queueName))

	sem := make(chan struct{}, maxInFlight)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case d, ok := <-deliveries:
				if !ok {
					log.Info("delivery channel closed")
					return
				}
				select {
				case sem <- struct{}{}:
				case <-ctx.Done():
					if nackErr := d.Nack(false, true); nackErr != nil {
						log.Error("failed to nack message", sl.Err(nackErr))
					}
					return
				}
				wg.Add(1)
				go func(d amqp.Delivery) {
					defer wg.Done()
					defer func() { <-sem }()
					if err := handler(ctx, d.Body); err != nil {
						log.Error("failed to handle message", sl.Err(err))
						if nackErr := d.Nack(false, true); nackErr != nil {
							log.Error("failed to nack message", sl.Err(nackErr))
						}
						return
					}
					if ackErr := d.Ack(false); ackErr != nil {
						log.Error("failed to ack message", sl.Err(ackErr))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
