// Package sender содержит логику отправки почтовых уведомлений
// о смене состояния заявок на занятия.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/tutor-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/tutor-marketplace/internal/lib/smtp"
	"github.com/magabrotheeeer/tutor-marketplace/internal/models"
)

// Transport описывает SMTP-транспорт, через который уходят письма.
type Transport interface {
	Connect() (smtp.Client, error)
	GetSMTPUser() string
}

// SenderService отправляет уведомления той стороне заявки,
// которая не выполняла переход.
type SenderService struct {
	transport Transport
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport Transport) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendSubscriptionStatusInfo обрабатывает событие о смене состояния заявки
// и отправляет письмо второй стороне.
func (s *SenderService) SendSubscriptionStatusInfo(body []byte) error {
	var event models.SubscriptionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	recipient, subject, bodyText := composeNotification(event)
	if recipient == "" {
		s.log.Warn("subscription event without recipient address",
			slog.String("event_id", event.EventID))
		return nil
	}

	return s.sendEmail([]string{recipient}, subject, bodyText)
}

// composeNotification выбирает адресата и формирует текст письма.
// Переходы requested/student_canceled выполняет ученик — уведомляется
// репетитор; остальные выполняет репетитор — уведомляется ученик.
func composeNotification(event models.SubscriptionEvent) (recipient, subject, body string) {
	switch event.NewStatus {
	case models.StatusRequested:
		return event.TutorEmail,
			"Новая заявка на занятия",
			fmt.Sprintf("Здравствуйте!\n\nПо вашему объявлению «%s» поступила новая заявка на занятия.\nПримите или отклоните её в личном кабинете.", event.AdTitle)
	case models.StatusStudentCanceled:
		return event.TutorEmail,
			"Заявка на занятия отменена",
			fmt.Sprintf("Здравствуйте!\n\nУченик отменил заявку по вашему объявлению «%s».", event.AdTitle)
	case models.StatusWaitingPayment:
		return event.StudentEmail,
			"Ваша заявка принята",
			fmt.Sprintf("Здравствуйте!\n\nРепетитор принял вашу заявку по объявлению «%s».\nЗаявка ожидает оплаты.", event.AdTitle)
	case models.StatusTutorRejected:
		return event.StudentEmail,
			"Ваша заявка отклонена",
			fmt.Sprintf("Здравствуйте!\n\nК сожалению, репетитор отклонил вашу заявку по объявлению «%s».", event.AdTitle)
	case models.StatusPaid:
		return event.StudentEmail,
			"Занятия оплачены",
			fmt.Sprintf("Здравствуйте!\n\nЗанятия по объявлению «%s» отмечены как оплаченные.", event.AdTitle)
	}
	return "", "", ""
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("notification sent", slog.Any("to", to))
	return nil
}
