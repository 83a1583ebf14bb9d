// Package listbyad реализует HTTP-обработчик списка отзывов по объявлению.
package listbyad

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

// Handler обрабатывает HTTP-запросы на список отзывов по объявлению.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения отзывов по объявлению.
type Service interface {
	ListByAd(ctx context.Context, adID string) ([]*models.Review, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отзывы по объявлению
// @Description Возвращает все отзывы, оставленные на объявление.
// @Tags Reviews
// @Produce  json
// @Param adId path string true "ID объявления"
// @Success 200 {array} models.Review "Отзывы по объявлению"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /reviews/getAdReviews/{adId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.listbyad"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	adID := chi.URLParam(r, "adId")
	if !objectid.IsValid(adID) {
		log.Error("invalid advertisement id format")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid advertisement id"))
		return
	}

	items, err := h.service.ListByAd(r.Context(), adID)
	if err != nil {
		log.Error("failed to list reviews", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(items))
}
