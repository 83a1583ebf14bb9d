package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/tutor-marketplace/internal/domain/errs"
	"github.com/magabrotheeeer/tutor-marketplace/internal/models"
)

// CreateSubscription сохраняет новую заявку на занятия.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (id, subscriber_id, ad_id, hours, status)
			  VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.DB.ExecContext(ctx, query,
		sub.ID, sub.SubscriberID, sub.AdID, sub.Hours, sub.Status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadSubscription возвращает заявку по её ID.
func (s *Storage) ReadSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	const op = "storage.ReadSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, subscriber_id, ad_id, hours, status, created_at
			  FROM subscriptions
			  WHERE id = $1`
	sub := &models.Subscription{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&sub.ID, &sub.SubscriberID, &sub.AdID,
		&sub.Hours, &sub.Status, &sub.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// UpdateSubscriptionStatus атомарно переводит заявку из состояния from
// в состояние to. Обновление срабатывает только если текущее состояние
// всё ещё равно from (compare-and-swap), поэтому из двух конкурирующих
// переходов побеждает ровно один. Возвращает количество изменённых строк.
func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, id string, from, to models.SubscriptionStatus) (int64, error) {
	const op = "storage.UpdateSubscriptionStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = $1
			  WHERE id = $2 AND status = $3`
	result, err := s.DB.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// ListSubscriptionsBySubscriber возвращает все заявки пользователя-ученика.
func (s *Storage) ListSubscriptionsBySubscriber(ctx context.Context, subscriberID string) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptionsBySubscriber"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, subscriber_id, ad_id, hours, status, created_at
			  FROM subscriptions
			  WHERE subscriber_id = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.ID, &sub.SubscriberID, &sub.AdID,
			&sub.Hours, &sub.Status, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
