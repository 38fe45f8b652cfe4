package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

// Exchange имя direct-exchange для событий уведомлений.
const Exchange = "notifications"

// QueueConfig очередь и ключ маршрутизации, по которому она привязана.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// NotificationQueues возвращает очередь на каждый тип события.
func NotificationQueues() []QueueConfig {
	events := []string{
		models.EventAccountRegistered,
		models.EventSubscriptionActivated,
		models.EventSubscriptionExpired,
		models.EventLegalAdviceResponded,
	}
	queues := make([]QueueConfig, 0, len(events))
	for _, e := range events {
		queues = append(queues, QueueConfig{QueueName: "notifications." + e, RoutingKey: e})
	}
	return queues
}

// SetupChannel открывает канал, объявляет exchange и привязывает к нему queues.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	if err = ch.ExchangeDeclare(Exchange, "direct", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		if _, err = ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}
		if err = ch.QueueBind(q.QueueName, q.RoutingKey, Exchange, false, nil); err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}
	return ch, nil
}
