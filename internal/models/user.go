// Package models содержит доменные структуры маркетплейса репетиторов:
// пользователи, сессии, объявления, отзывы и подписки,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
// Один и тот же пользователь может выступать и репетитором (автором объявлений),
// и учеником (автором заявок на занятия).
type User struct {
	ID           string    // Уникальный идентификатор пользователя (24 hex-символа)
	FirstName    string    // Имя
	LastName     string    // Фамилия
	Nickname     string    // Никнейм (уникальный)
	Email        string    // Электронная почта (уникальная)
	PasswordHash string    // Bcrypt-хэш пароля
	Biography    string    // Краткое описание пользователя
	CreatedAt    time.Time // Дата регистрации
}

// DummyUser используется для приёма данных регистрации из JSON-запроса,
// прежде чем конвертировать их в User. Пароль хэшируется в сервисном слое.
type DummyUser struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Nickname  string `json:"nickname" validate:"required,min=3,max=50"`
	Password  string `json:"password" validate:"required,min=4"`
	Email     string `json:"email" validate:"required,email"`
	Biography string `json:"biography" validate:"required"`
}
