// Package auth содержит бизнес-логику регистрации, входа и проверки сессий.
//
// Сессия — это токен на предъявителя, привязанный к сетевому адресу,
// с которого выполнен вход. Действующий пользователь всегда выводится
// из токена, а не из данных запроса.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/tutor-marketplace/internal/domain/errs"
	"github.com/magabrotheeeer/tutor-marketplace/internal/lib/objectid"
	"github.com/magabrotheeeer/tutor-marketplace/internal/lib/password"
	"github.com/magabrotheeeer/tutor-marketplace/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его ID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByLogin возвращает пользователя по nickname или email.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}

// SessionRepository описывает контракт для работы с сессиями в базе данных.
type SessionRepository interface {
	// CreateSession сохраняет новую сессию.
	CreateSession(ctx context.Context, session models.Session) error
	// GetSession возвращает сессию по токену.
	GetSession(ctx context.Context, token string) (*models.Session, error)
	// DeleteSession удаляет сессию при совпадении токена и адреса.
	DeleteSession(ctx context.Context, token, ipAddress string) (int64, error)
	// SessionExists проверяет существование сессии для токена, пользователя и адреса.
	SessionExists(ctx context.Context, token, userID, ipAddress string) (bool, error)
}

// AuthService отвечает за регистрацию, вход и проверку сессий.
type AuthService struct {
	users      UserRepository
	sessions   SessionRepository
	sessionTTL time.Duration
	log        *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
// sessionTTL задаёт срок жизни сессии; ноль отключает истечение.
func NewAuthService(users UserRepository, sessions SessionRepository, sessionTTL time.Duration, log *slog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

// Register создает нового пользователя, хэшируя пароль, и возвращает его ID.
func (s *AuthService) Register(ctx context.Context, req models.DummyUser) (string, error) {
	const op = "auth.Register"
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		ID:           objectid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Nickname:     req.Nickname,
		Email:        req.Email,
		PasswordHash: hashed,
		Biography:    req.Biography,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет учётные данные и создает новую сессию, привязанную
// к адресу ipAddress. Совпадение ищется по nickname или email.
// При неверных данных возвращает errs.ErrUnauthenticated.
func (s *AuthService) Login(ctx context.Context, login, rawPassword, ipAddress string) (*models.Session, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, fmt.Errorf("%s: %w", op, errs.ErrUnauthenticated)
	}

	session := models.Session{
		Token:     objectid.New(),
		UserID:    user.ID,
		IPAddress: ipAddress,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("new session issued", slog.String("user_id", user.ID))
	return &session, nil
}

// Resolve возвращает ID пользователя по токену сессии.
//
// Успешен только если сессия существует, её сохранённый адрес совпадает
// с ipAddress запроса и срок жизни (если задан) не истёк. Это привязывает
// токен к сетевому адресу выдачи и отклоняет повтор с другого адреса.
func (s *AuthService) Resolve(ctx context.Context, token, ipAddress string) (string, error) {
	const op = "auth.Resolve"

	if !objectid.IsValid(token) {
		return "", fmt.Errorf("%s: %w", op, errs.ErrUnauthenticated)
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", op, errs.ErrUnauthenticated)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if session.IPAddress != ipAddress {
		return "", fmt.Errorf("%s: %w", op, errs.ErrUnauthenticated)
	}
	if s.sessionTTL > 0 && time.Since(session.CreatedAt) > s.sessionTTL {
		return "", fmt.Errorf("%s: %w", op, errs.ErrUnauthenticated)
	}
	return session.UserID, nil
}

// Logout удаляет сессию при совпадении токена и адреса.
// Возвращает количество удалённых записей (0 или 1).
func (s *AuthService) Logout(ctx context.Context, token, ipAddress string) (int64, error) {
	return s.sessions.DeleteSession(ctx, token, ipAddress)
}

// CheckToken сообщает, существует ли сессия для тройки токен+пользователь+адрес.
func (s *AuthService) CheckToken(ctx context.Context, token, userID, ipAddress string) (bool, error) {
	return s.sessions.SessionExists(ctx, token, userID, ipAddress)
}
