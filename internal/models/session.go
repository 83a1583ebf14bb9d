package models

import "time"

// Session представляет авторизованное устройство пользователя.
// Токен сессии выдаётся при входе и привязывается к сетевому адресу,
// с которого пришёл запрос: последующие обращения с другого адреса
// токеном воспользоваться не могут.
type Session struct {
	Token     string    `json:"token"`     // Токен сессии, он же первичный ключ (24 hex-символа)
	UserID    string    `json:"userId"`    // Владелец сессии
	IPAddress string    `json:"ipAddress"` // Адрес, с которого выполнен вход
	CreatedAt time.Time `json:"createdAt"` // Момент выдачи токена
}
