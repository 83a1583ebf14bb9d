// Package errs определяет единую таксономию ошибок доменного уровня.
// Сервисы возвращают эти значения (обычно обёрнутыми через fmt.Errorf),
// а HTTP-обработчики по errors.Is выбирают корректный статус-код,
// не маскируя причину отказа в общую ошибку.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound возникает, когда запрошенная запись не существует.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated возникает, когда для пары токен+адрес
	// не существует действующей сессии.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden возникает, когда сессия действительна,
	// но роль пользователя не даёт права на запрошенный переход.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict возникает, когда переход проиграл гонку
	// конкурентному изменению той же заявки.
	ErrConflict = errors.New("conflict")

	// ErrIllegalTransition возникает при попытке перехода,
	// недопустимого из текущего состояния заявки.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrInvalidID возникает, когда идентификатор не соответствует
	// формату 24 hex-символов. Проверка формата выполняется до обращения
	// к хранилищу.
	ErrInvalidID = errors.New("invalid identifier format")
)

// DuplicateEntryError возникает при нарушении ограничения уникальности
// и сообщает, какое именно поле конфликтует.
type DuplicateEntryError struct {
	Field string
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("duplicate entry: %s already taken", e.Field)
}

// IsDuplicateEntry проверяет, является ли ошибка нарушением уникальности,
// и возвращает имя конфликтующего поля.
func IsDuplicateEntry(err error) (string, bool) {
	var dup *DuplicateEntryError
	if errors.As(err, &dup) {
		return dup.Field, true
	}
	return "", false
}
