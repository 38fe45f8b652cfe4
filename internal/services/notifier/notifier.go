// Package services содержит рассылку почтовых уведомлений о событиях учётных записей.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/magabrotheeeer/mining-consultancy/internal/config"
	"github.com/magabrotheeeer/mining-consultancy/internal/lib/sl"
	"github.com/magabrotheeeer/mining-consultancy/internal/models"
)

// Mailer отправляет письмо. Реализуется клиентом SendGrid.
type Mailer interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// NotifierService превращает события из очереди в письма.
type NotifierService struct {
	mailer Mailer
	from   *mail.Email
	log    *slog.Logger
}

// NewNotifierService создает новый экземпляр NotifierService.
func NewNotifierService(mailer Mailer, cfg config.SendGrid, log *slog.Logger) *NotifierService {
	return &NotifierService{
		mailer: mailer,
		from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
		log:    log,
	}
}

// Handle разбирает событие и отправляет письмо получателю. Ошибка означает,
// что сообщение нужно вернуть в очередь. Нераспознанные сообщения
// отбрасываются, повторная доставка их не исправит.
func (s *NotifierService) Handle(_ context.Context, body []byte) error {
	const op = "services.notifier.Handle"
	log := s.log.With(slog.String("op", op))

	var n models.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		log.Error("dropping malformed notification", sl.Err(err))
		return nil
	}

	subject, text, err := compose(n)
	if err != nil {
		log.Error("dropping notification", slog.String("event", n.Event), sl.Err(err))
		return nil
	}

	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail(n.Name, n.Email), text, "")
	resp, err := s.mailer.Send(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s: sendgrid returned %d: %s", op, resp.StatusCode, resp.Body)
	}

	log.Info("email sent", slog.String("event", n.Event), slog.String("account_id", n.AccountID))
	return nil
}

func compose(n models.Notification) (string, string, error) {
	switch n.Event {
	case models.EventAccountRegistered:
		return "Welcome to Mining Consultancy",
			fmt.Sprintf("Hello %s,\n\nYour account is ready. Your free trial runs until %s.",
				n.Name, n.EndDate.Format("02 Jan 2006")), nil
	case models.EventSubscriptionActivated:
		return "Your subscription is active",
			fmt.Sprintf("Hello %s,\n\nWe received your payment of %d INR. Your %s subscription is active until %s.",
				n.Name, n.Amount, n.Tier, n.EndDate.Format("02 Jan 2006")), nil
	case models.EventSubscriptionExpired:
		return "Your subscription has expired",
			fmt.Sprintf("Hello %s,\n\nYour %s subscription expired on %s. Renew it to regain access to subscriber content.",
				n.Name, n.Tier, n.EndDate.Format("02 Jan 2006")), nil
	case models.EventLegalAdviceResponded:
		return "New response to your legal advice request",
			fmt.Sprintf("Hello %s,\n\nA consultant has responded to %q. Sign in to read the response.",
				n.Name, n.Subject), nil
	default:
		return "", "", fmt.Errorf("unknown event %q", n.Event)
	}
}
