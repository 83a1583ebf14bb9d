package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/tutor-marketplace/internal/domain/errs"
	"github.com/magabrotheeeer/tutor-marketplace/internal/models"
)

// CreateSession сохраняет новую сессию. Токен генерируется вызывающей стороной.
func (s *Storage) CreateSession(ctx context.Context, session models.Session) error {
	const op = "storage.CreateSession"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO sessions (token, user_id, ip_address)
			  VALUES ($1, $2, $3)`
	if _, err := s.DB.ExecContext(ctx, query,
		session.Token, session.UserID, session.IPAddress); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSession возвращает сессию по токену. Сопоставление адреса и срока
// жизни выполняет сервис аутентификации, хранилище отдаёт запись как есть.
func (s *Storage) GetSession(ctx context.Context, token string) (*models.Session, error) {
	const op = "storage.GetSession"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT token, user_id, ip_address, created_at
			  FROM sessions
			  WHERE token = $1`
	session := &models.Session{}
	row := s.DB.QueryRowContext(ctx, query, token)
	if err := row.Scan(&session.Token, &session.UserID,
		&session.IPAddress, &session.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return session, nil
}

// DeleteSession удаляет сессию только при совпадении токена И адреса,
// с которого была выдана. Возвращает количество удалённых записей (0 или 1),
// чтобы вызывающая сторона могла отличить "уже нет" от "удалена".
func (s *Storage) DeleteSession(ctx context.Context, token, ipAddress string) (int64, error) {
	const op = "storage.DeleteSession"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM sessions WHERE token = $1 AND ip_address = $2`
	result, err := s.DB.ExecContext(ctx, query, token, ipAddress)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// SessionExists проверяет существование сессии для тройки токен+пользователь+адрес.
func (s *Storage) SessionExists(ctx context.Context, token, userID, ipAddress string) (bool, error) {
	const op = "storage.SessionExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM sessions
			      WHERE token = $1 AND user_id = $2 AND ip_address = $3
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, token, userID, ipAddress).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
