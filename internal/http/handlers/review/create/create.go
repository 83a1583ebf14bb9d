// Package create реализует HTTP-обработчик публикации отзыва.
//
// Автором отзыва становится владелец токена сессии из тела запроса.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/tutor-marketplace/internal/domain/errs"
	"github.com/magabrotheeeer/tutor-marketplace/internal/http/response"
	"github.com/magabrotheeeer/tutor-marketplace/internal/lib/remoteip"
	"github.com/magabrotheeeer/tutor-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/tutor-marketplace/internal/models"
)

// Request — структура входных данных для публикации отзыва.
type Request struct {
	SessionToken string `json:"sessionToken" validate:"required,len=24"`
	AdID         string `json:"adId" validate:"required,len=24"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Explanation  string `json:"explanation" validate:"required"`
}

// Handler обрабатывает HTTP-запросы на публикацию отзыва.
type Handler struct {
	log      *slog.Logger
	auth     SessionResolver
	service  Service
	validate *validator.Validate
}

// SessionResolver возвращает ID пользователя по токену сессии и адресу запроса.
type SessionResolver interface {
	Resolve(ctx context.Context, token, ipAddress string) (string, error)
}

// Service описывает интерфейс бизнес-логики отзывов.
type Service interface {
	Create(ctx context.Context, authorID string, req models.DummyReview) (*models.Review, error)
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, auth SessionResolver, service Service) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Опубликовать отзыв
// @Description Создает отзыв об объявлении от имени владельца токена сессии.
// @Tags Reviews
// @Accept  json
// @Produce  json
// @Param request body Request true "Токен сессии и данные отзыва"
// @Success 200 {object} models.Review "Созданный отзыв"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 404 {object} response.ErrorResponse "Объявление не найдено"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /reviews/postReview [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	authorID, err := h.auth.Resolve(r.Context(), req.SessionToken, remoteip.FromRequest(r))
	if err != nil {
		if errors.Is(err, errs.ErrUnauthenticated) {
			log.Info("unauthenticated request")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthenticated"))
			return
		}
		log.Error("failed to resolve session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	review, err := h.service.Create(r.Context(), authorID, models.DummyReview{
		AdID:        req.AdID,
		Rating:      req.Rating,
		Explanation: req.Explanation,
	})
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			log.Info("advertisement not found", slog.String("ad_id", req.AdID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("advertisement not found"))
			return
		}
		log.Error("failed to create review", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create review"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(review))
}
