// Package request реализует HTTP-обработчик создания заявки на занятия.
//
// Новая заявка всегда создается в состоянии requested; дальнейшие
// переходы выполняются отдельными обработчиками смены состояния.
package request

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

// Request — структура входных данных для создания заявки.
type Request struct {
	SessionToken string `json:"sessionToken" validate:"required,len=24"`
	AdID         string `json:"adId" validate:"required,len=24"`
	Hours        int    `json:"hours" validate:"required,gt=0"`
}

// Handler обрабатывает HTTP-запросы на создание заявки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания заявки.
type Service interface {
	Request(ctx context.Context, token, ipAddress string, req models.DummySubscription) (*models.Subscription, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать заявку на занятия
// @Description Создает заявку на объявление в состоянии requested от имени владельца токена сессии.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param request body Request true "Токен сессии, объявление и количество часов"
// @Success 200 {object} models.Subscription "Созданная заявка"
// @Failure 400 {object} response.Response "Некорректный JSON или отсутствующие поля"
// @Failure 401 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 404 {object} response.ErrorResponse "Объявление не найдено"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscriptions/requestSubscription [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.request"

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
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	sub, err := h.service.Request(r.Context(), req.SessionToken, remoteip.FromRequest(r), models.DummySubscription{
		AdID:  req.AdID,
		Hours: req.Hours,
	})
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidID):
			log.Info("malformed advertisement id", slog.String("ad_id", req.AdID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid advertisement id"))
		case errors.Is(err, errs.ErrUnauthenticated):
			log.Info("unauthenticated request")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthenticated"))
		case errors.Is(err, errs.ErrNotFound):
			log.Info("advertisement not found", slog.String("ad_id", req.AdID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("advertisement not found"))
		default:
			log.Error("failed to create subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create subscription"))
		}
		return
	}

	render.JSON(w, r, response.StatusOKWithData(sub))
}
