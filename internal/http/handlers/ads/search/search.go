// Package search реализует HTTP-обработчик поиска объявлений по ключевому слову.
package search

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tutor-marketplace/internal/http/response"
	"github.com/magabrotheeeer/tutor-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/tutor-marketplace/internal/models"
)

// Handler обрабатывает HTTP-запросы на поиск объявлений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс поиска объявлений.
type Service interface {
	Search(ctx context.Context, keyword string) ([]*models.Advertisement, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Поиск объявлений
// @Description Возвращает объявления, содержащие ключевое слово в названии или описании.
// @Tags Advertisements
// @Produce  json
// @Param keyword path string true "Ключевое слово"
// @Success 200 {array} models.Advertisement "Найденные объявления"
// @Failure 400 {object} response.ErrorResponse "Пустое ключевое слово"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /ads/search/{keyword} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ads.search"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	keyword := chi.URLParam(r, "keyword")
	if keyword == "" {
		log.Error("empty search keyword")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("empty search keyword"))
		return
	}

	items, err := h.service.Search(r.Context(), keyword)
	if err != nil {
		log.Error("failed to search advertisements", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(items))
}
