package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/tutor-marketplace/internal/domain/errs"
	"github.com/magabrotheeeer/tutor-marketplace/internal/models"
)

// RegisterUser сохраняет нового пользователя и возвращает его ID.
// Нарушение уникальности nickname или email превращается в
// errs.DuplicateEntryError с именем конфликтующего поля.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (id, first_name, last_name, nickname, email,
			      password_hash, biography)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID string
	if err := s.DB.QueryRowContext(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Nickname, user.Email,
		user.PasswordHash, user.Biography).Scan(&newID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return "", fmt.Errorf("%s: %w", op, &errs.DuplicateEntryError{
				Field: duplicateField(pgErr.ConstraintName),
			})
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// duplicateField извлекает имя поля из имени нарушенного ограничения,
// например users_nickname_key -> nickname.
func duplicateField(constraint string) string {
	name := strings.TrimPrefix(constraint, "users_")
	name = strings.TrimSuffix(name, "_key")
	if name == "" {
		return constraint
	}
	return name
}

// GetUserByLogin возвращает пользователя, у которого nickname ИЛИ email
// совпадает с переданной строкой. Используется при входе.
func (s *Storage) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	const op = "storage.GetUserByLogin"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, first_name, last_name, nickname, email, password_hash,
			      biography, created_at
			  FROM users
			  WHERE nickname = $1 OR email = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, login)
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Nickname, &u.Email,
		&u.PasswordHash, &u.Biography, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его ID.
func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, first_name, last_name, nickname, email, password_hash,
			      biography, created_at
			  FROM users
			  WHERE id = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Nickname, &u.Email,
		&u.PasswordHash, &u.Biography, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
