package models

import "time"

// Advertisement представляет объявление репетитора о предлагаемом занятии.
// После создания объявление практически не изменяется, поэтому его
// можно безопасно кэшировать.
type Advertisement struct {
	ID          string    `json:"id"`          // Уникальный идентификатор (24 hex-символа)
	AuthorID    string    `json:"authorId"`    // Автор объявления — репетитор
	Title       string    `json:"title"`       // Заголовок
	Description string    `json:"description"` // Описание занятия
	Price       float64   `json:"price"`       // Цена за час
	Type        string    `json:"type"`        // Тип занятия (онлайн, очно и т.п.)
	Lat         float64   `json:"lat"`         // Географическая широта
	Lon         float64   `json:"lon"`         // Географическая долгота
	CreatedAt   time.Time `json:"createdAt"`   // Дата публикации
}

// DummyAdvertisement используется для приёма данных нового объявления
// из JSON-запроса, прежде чем конвертировать их в Advertisement.
type DummyAdvertisement struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Type        string  `json:"type" validate:"required"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}
