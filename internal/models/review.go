package models

import "time"

// Review представляет отзыв пользователя об объявлении.
type Review struct {
	ID          string    `json:"id"`          // Уникальный идентификатор (24 hex-символа)
	AuthorID    string    `json:"authorId"`    // Автор отзыва
	AdID        string    `json:"adId"`        // Объявление, к которому относится отзыв
	Rating      int       `json:"rating"`      // Оценка
	Explanation string    `json:"explanation"` // Текст отзыва
	CreatedAt   time.Time `json:"createdAt"`   // Дата публикации
}

// DummyReview используется для приёма данных нового отзыва из JSON-запроса.
type DummyReview struct {
	AdID        string `json:"adId" validate:"required,len=24"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Explanation string `json:"explanation" validate:"required"`
}
