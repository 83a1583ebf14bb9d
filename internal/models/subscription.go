package models

import "time"

// SubscriptionStatus описывает текущее состояние заявки на занятия.
// Набор значений закрыт; любое другое значение в хранилище считается
// нарушением целостности данных.
type SubscriptionStatus string

// Допустимые состояния заявки. Переходы между ними выполняет только
// сервис подписок: requested -> waiting_payment | tutor_rejected,
// requested/waiting_payment -> student_canceled, waiting_payment -> paid.
const (
	StatusRequested       SubscriptionStatus = "requested"
	StatusWaitingPayment  SubscriptionStatus = "waiting_payment"
	StatusTutorRejected   SubscriptionStatus = "tutor_rejected"
	StatusStudentCanceled SubscriptionStatus = "student_canceled"
	StatusPaid            SubscriptionStatus = "paid"
)

// Valid сообщает, входит ли значение в закрытый набор состояний.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case StatusRequested, StatusWaitingPayment, StatusTutorRejected,
		StatusStudentCanceled, StatusPaid:
		return true
	}
	return false
}

// Terminal сообщает, является ли состояние конечным.
// Из конечного состояния переходы невозможны.
func (s SubscriptionStatus) Terminal() bool {
	switch s {
	case StatusTutorRejected, StatusStudentCanceled, StatusPaid:
		return true
	}
	return false
}

// Subscription представляет заявку ученика на занятия по объявлению.
// Заявка никогда не удаляется физически: отказ и отмена — это конечные
// состояния, а не удаление записи.
type Subscription struct {
	ID           string             `json:"id"`           // Уникальный идентификатор (24 hex-символа)
	SubscriberID string             `json:"subscriberId"` // Ученик, создавший заявку
	AdID         string             `json:"adId"`         // Объявление, к которому относится заявка
	Hours        int                `json:"hours"`        // Запрошенное количество часов
	Status       SubscriptionStatus `json:"status"`       // Текущее состояние
	CreatedAt    time.Time          `json:"createdAt"`    // Дата создания заявки
}

// DummySubscription используется для приёма данных новой заявки из JSON-запроса.
// Количество часов обязано быть числом, иначе запрос отклоняется до
// обращения к хранилищу.
type DummySubscription struct {
	AdID  string `json:"adId" validate:"required,len=24"`
	Hours int    `json:"hours" validate:"required,gt=0"`
}

// SubscriptionEvent — сообщение о смене состояния заявки,
// публикуемое в очередь уведомлений после успешного перехода.
type SubscriptionEvent struct {
	EventID        string             `json:"event_id"`        // Уникальный идентификатор события
	SubscriptionID string             `json:"subscription_id"` // Заявка, сменившая состояние
	AdTitle        string             `json:"ad_title"`        // Заголовок объявления
	OldStatus      SubscriptionStatus `json:"old_status"`      // Состояние до перехода
	NewStatus      SubscriptionStatus `json:"new_status"`      // Состояние после перехода
	StudentEmail   string             `json:"student_email"`   // Почта ученика
	TutorEmail     string             `json:"tutor_email"`     // Почта репетитора
	OccurredAt     time.Time          `json:"occurred_at"`     // Момент перехода
}
