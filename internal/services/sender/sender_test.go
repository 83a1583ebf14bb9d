package sender

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/tutor-marketplace/internal/models"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func testEvent(newStatus models.SubscriptionStatus) models.SubscriptionEvent {
	return models.SubscriptionEvent{
		EventID:        "evt-1",
		SubscriptionID: "ffffffffffffffffffffffff",
		AdTitle:        "Математика",
		NewStatus:      newStatus,
		StudentEmail:   "student@example.com",
		TutorEmail:     "tutor@example.com",
	}
}

// Уведомляется та сторона, которая переход не выполняла.
func TestComposeNotification_Recipients(t *testing.T) {
	tests := []struct {
		status        models.SubscriptionStatus
		wantRecipient string
	}{
		{models.StatusRequested, "tutor@example.com"},
		{models.StatusStudentCanceled, "tutor@example.com"},
		{models.StatusWaitingPayment, "student@example.com"},
		{models.StatusTutorRejected, "student@example.com"},
		{models.StatusPaid, "student@example.com"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			recipient, subject, body := composeNotification(testEvent(tt.status))
			assert.Equal(t, tt.wantRecipient, recipient)
			assert.NotEmpty(t, subject)
			assert.Contains(t, body, "Математика")
		})
	}
}

func TestComposeNotification_UnknownStatus(t *testing.T) {
	recipient, subject, body := composeNotification(testEvent("refunded"))
	assert.Empty(t, recipient)
	assert.Empty(t, subject)
	assert.Empty(t, body)
}

func TestSendSubscriptionStatusInfo_BadPayload(t *testing.T) {
	svc := NewSenderService(newNoopLogger(), nil)
	err := svc.SendSubscriptionStatusInfo([]byte("not a json"))
	assert.Error(t, err)
}

// Событие без адресата не считается ошибкой: письмо просто не отправляется.
func TestSendSubscriptionStatusInfo_NoRecipient(t *testing.T) {
	event := testEvent(models.StatusRequested)
	event.TutorEmail = ""
	body, err := json.Marshal(event)
	assert.NoError(t, err)

	svc := NewSenderService(newNoopLogger(), nil)
	assert.NoError(t, svc.SendSubscriptionStatusInfo(body))
}
