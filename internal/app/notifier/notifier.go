// Package notifier собирает потребителя событий, который рассылает письма через SendGrid.
package notifier

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/sendgrid/sendgrid-go"

	"github.com/magabrotheeeer/mining-consultancy/internal/config"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/rabbitmq"
	notifierservice "github.com/magabrotheeeer/mining-consultancy/internal/services/notifier"
)

type channel interface {
	rabbitmq.Source
	Close() error
}

// App потребитель очередей уведомлений.
type App struct {
	conn   io.Closer
	ch     channel
	queues []rabbitmq.QueueConfig
	handle rabbitmq.Handler
	logger *slog.Logger
}

// New подключается к брокеру и объявляет очереди уведомлений.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.Retries, cfg.RabbitMQ.Delay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.NotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	mailer := sendgrid.NewSendClient(cfg.SendGrid.APIKey)

	return &App{
		conn:   conn,
		ch:     ch,
		queues: queues,
		handle: notifierservice.NewNotifierService(mailer, cfg.SendGrid, logger).Handle,
		logger: logger,
	}, nil
}

// Run обрабатывает все очереди до отмены ctx. Канал и соединение
// закрываются после завершения обработчиков, уже взявших сообщения.
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, q := range a.queues {
		if err := rabbitmq.Consume(ctx, a.logger, a.ch, q.QueueName, a.handle, &wg); err != nil {
			a.logger.Error("failed to start consumer", slog.String("queue", q.QueueName), sl.Err(err))
			return err
		}
	}

	<-ctx.Done()
	a.logger.Info("notifier shutting down gracefully")
	wg.Wait()

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}
