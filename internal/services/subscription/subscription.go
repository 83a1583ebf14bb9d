// Package subscription содержит бизнес-логику жизненного цикла заявок на занятия.
//
// Заявка проходит через закрытый набор состояний; каждый переход доступен
// только одной из сторон: репетитору (автору объявления) или ученику
// (создателю заявки). Действующий пользователь выводится из токена сессии
// и адреса запроса, а сам переход применяется атомарно через
// compare-and-swap по ранее прочитанному состоянию.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/tutor-marketplace/internal/domain/errs"
	"github.com/magabrotheeeer/tutor-marketplace/internal/lib/objectid"
	"github.com/magabrotheeeer/tutor-marketplace/internal/models"
	"github.com/magabrotheeeer/tutor-marketplace/internal/rabbitmq"
)

// SubscriptionRepository определяет методы для работы с заявками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription сохраняет новую заявку.
	CreateSubscription(ctx context.Context, sub models.Subscription) error
	// ReadSubscription возвращает заявку по ID.
	ReadSubscription(ctx context.Context, id string) (*models.Subscription, error)
	// UpdateSubscriptionStatus атомарно переводит заявку из from в to,
	// возвращая количество изменённых строк (0 при проигранной гонке).
	UpdateSubscriptionStatus(ctx context.Context, id string, from, to models.SubscriptionStatus) (int64, error)
	// ListSubscriptionsBySubscriber возвращает заявки пользователя-ученика.
	ListSubscriptionsBySubscriber(ctx context.Context, subscriberID string) ([]*models.Subscription, error)
}

// SessionResolver возвращает ID пользователя по токену сессии и адресу запроса.
type SessionResolver interface {
	Resolve(ctx context.Context, token, ipAddress string) (string, error)
}

// AdvertisementDirectory возвращает объявление по ID; нужен для определения
// владельца объявления, стоящего за заявкой.
type AdvertisementDirectory interface {
	Get(ctx context.Context, adID string) (*models.Advertisement, error)
}

// UserDirectory возвращает пользователя по ID; нужен для адресов
// в уведомлениях о смене состояния.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// EventPublisher публикует события о смене состояния заявки.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// role — роль действующего пользователя относительно конкретной заявки.
type role int

const (
	roleNone role = iota
	roleTutor
	roleStudent
)

// transitionRule описывает одну строку таблицы переходов:
// из какого состояния, в какое и какая роль вправе его выполнить.
type transitionRule struct {
	from  models.SubscriptionStatus
	to    models.SubscriptionStatus
	actor role
}

// Таблица допустимых переходов. Любая пара состояний, отсутствующая здесь,
// запрещена; отмена доступна только ученику.
var transitionTable = []transitionRule{
	{models.StatusRequested, models.StatusWaitingPayment, roleTutor},
	{models.StatusRequested, models.StatusTutorRejected, roleTutor},
	{models.StatusRequested, models.StatusStudentCanceled, roleStudent},
	{models.StatusWaitingPayment, models.StatusStudentCanceled, roleStudent},
	{models.StatusWaitingPayment, models.StatusPaid, roleTutor},
}

// allowedActor возвращает роль, которой разрешён переход from -> to.
func allowedActor(from, to models.SubscriptionStatus) (role, bool) {
	for _, rule := range transitionTable {
		if rule.from == from && rule.to == to {
			return rule.actor, true
		}
	}
	return roleNone, false
}

var transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "subscription_transitions_total",
	Help: "Number of applied subscription status transitions.",
}, []string{"status"})

// SubscriptionService реализует жизненный цикл заявок на занятия.
type SubscriptionService struct {
	repo   SubscriptionRepository
	auth   SessionResolver
	ads    AdvertisementDirectory
	users  UserDirectory
	events EventPublisher
	log    *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, auth SessionResolver,
	ads AdvertisementDirectory, users UserDirectory, events EventPublisher,
	log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:   repo,
		auth:   auth,
		ads:    ads,
		users:  users,
		events: events,
		log:    log,
	}
}

// Request создает новую заявку в состоянии requested от имени пользователя,
// которому принадлежит токен сессии.
func (s *SubscriptionService) Request(ctx context.Context, token, ipAddress string, req models.DummySubscription) (*models.Subscription, error) {
	const op = "subscription.Request"

	if !objectid.IsValid(req.AdID) {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrInvalidID)
	}

	subscriberID, err := s.auth.Resolve(ctx, token, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ad, err := s.ads.Get(ctx, req.AdID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub := models.Subscription{
		ID:           objectid.New(),
		SubscriberID: subscriberID,
		AdID:         req.AdID,
		Hours:        req.Hours,
		Status:       models.StatusRequested,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("created new subscription",
		slog.String("id", sub.ID), slog.String("ad_id", sub.AdID))
	s.publishEvent(ctx, &sub, ad, "")
	return &sub, nil
}

// RequestTransition выполняет переход заявки subID в состояние target
// от имени пользователя, которому принадлежит токен сессии.
//
// Порядок проверок фиксирован: сначала формат идентификатора
// (errs.ErrInvalidID), затем аутентификация (errs.ErrUnauthenticated),
// существование заявки (errs.ErrNotFound), затем допустимость перехода
// из текущего состояния (errs.ErrIllegalTransition) и право роли на него
// (errs.ErrForbidden). Сам переход применяется через compare-and-swap;
// проигранная гонка даёт один повтор с перечитыванием состояния,
// после второго проигрыша возвращается errs.ErrConflict.
//
// При успехе происходит ровно одно изменение состояния; при любой ошибке — ни одного.
func (s *SubscriptionService) RequestTransition(ctx context.Context, token, ipAddress, subID string, target models.SubscriptionStatus) (*models.Subscription, error) {
	const op = "subscription.RequestTransition"

	if !target.Valid() {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrIllegalTransition)
	}
	if !objectid.IsValid(subID) {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrInvalidID)
	}

	actingUserID, err := s.auth.Resolve(ctx, token, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Одна дополнительная попытка на случай проигранной гонки.
	for attempt := 0; attempt < 2; attempt++ {
		sub, err := s.repo.ReadSubscription(ctx, subID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		ad, err := s.ads.Get(ctx, sub.AdID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		actor, ok := allowedActor(sub.Status, target)
		if !ok {
			return nil, fmt.Errorf("%s: %s -> %s: %w", op, sub.Status, target, errs.ErrIllegalTransition)
		}
		if s.roleOf(actingUserID, sub, ad) != actor {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrForbidden)
		}

		affected, err := s.repo.UpdateSubscriptionStatus(ctx, subID, sub.Status, target)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if affected == 0 {
			// Состояние изменилось между чтением и обновлением.
			s.log.Warn("subscription transition lost a race, retrying",
				slog.String("id", subID), slog.Int("attempt", attempt+1))
			continue
		}

		oldStatus := sub.Status
		sub.Status = target
		transitionsTotal.WithLabelValues(string(target)).Inc()
		s.log.Info("subscription status updated", slog.String("id", sub.ID),
			slog.String("from", string(oldStatus)), slog.String("to", string(target)))
		s.publishEvent(ctx, sub, ad, oldStatus)
		return sub, nil
	}

	return nil, fmt.Errorf("%s: %w", op, errs.ErrConflict)
}

// ListByUser возвращает все заявки, созданные пользователем.
func (s *SubscriptionService) ListByUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptionsBySubscriber(ctx, userID)
}

// roleOf определяет роль пользователя относительно заявки:
// владелец объявления — репетитор, создатель заявки — ученик,
// все остальные роли не имеют.
func (s *SubscriptionService) roleOf(userID string, sub *models.Subscription, ad *models.Advertisement) role {
	switch userID {
	case ad.AuthorID:
		return roleTutor
	case sub.SubscriberID:
		return roleStudent
	}
	return roleNone
}

// publishEvent отправляет событие о смене состояния в очередь уведомлений.
// Ошибка публикации не откатывает уже применённый переход, только логируется.
func (s *SubscriptionService) publishEvent(ctx context.Context, sub *models.Subscription, ad *models.Advertisement, oldStatus models.SubscriptionStatus) {
	event := models.SubscriptionEvent{
		EventID:        uuid.New().String(),
		SubscriptionID: sub.ID,
		AdTitle:        ad.Title,
		OldStatus:      oldStatus,
		NewStatus:      sub.Status,
		OccurredAt:     time.Now().UTC(),
	}

	student, err := s.users.GetUser(ctx, sub.SubscriberID)
	if err == nil {
		event.StudentEmail = student.Email
	}
	tutor, err := s.users.GetUser(ctx, ad.AuthorID)
	if err == nil {
		event.TutorEmail = tutor.Email
	}

	if err := s.events.Publish(rabbitmq.StatusRoutingKey, event); err != nil {
		s.log.Warn("failed to publish subscription event",
			slog.String("subscription_id", sub.ID), slog.Any("err", err))
	}
}
