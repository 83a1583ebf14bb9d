// Package list реализует HTTP-обработчик списка объявлений пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tutor-marketplace/internal/http/response"
	"github.com/magabrotheeeer/tutor-marketplace/internal/lib/objectid"
	"github.com/magabrotheeeer/tutor-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/tutor-marketplace/internal/models"
)

// Handler обрабатывает HTTP-запросы на список объявлений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения объявлений пользователя.
type Service interface {
	ListByAuthor(ctx context.Context, authorID string) ([]*models.Advertisement, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список объявлений пользователя
// @Description Возвращает все объявления, созданные пользователем.
// @Tags Advertisements
// @Produce  json
// @Param userId path string true "ID пользователя"
// @Success 200 {array} models.Advertisement "Объявления пользователя"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /ads/list/{userId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ads.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID := chi.URLParam(r, "userId")
	if !objectid.IsValid(userID) {
		log.Error("invalid user id format")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	items, err := h.service.ListByAuthor(r.Context(), userID)
	if err != nil {
		log.Error("failed to list advertisements", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(items))
}
