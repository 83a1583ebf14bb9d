// Package transition реализует общий HTTP-обработчик смены состояния заявки.
//
// Один и тот же Handler обслуживает принятие, отклонение, отмену и оплату:
// маршруты отличаются только целевым состоянием, передаваемым в New.
// Право на переход и допустимость пары состояний проверяет сервис.
package transition

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

// Request — структура входных данных для смены состояния заявки.
type Request struct {
	SessionToken string `json:"sessionToken" validate:"required,len=24"`
	SubID        string `json:"subId" validate:"required,len=24"`
}

// Handler обрабатывает HTTP-запросы на перевод заявки в целевое состояние.
type Handler struct {
	log      *slog.Logger
	service  Service
	target   models.SubscriptionStatus
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики переходов.
type Service interface {
	RequestTransition(ctx context.Context, token, ipAddress, subID string, target models.SubscriptionStatus) (*models.Subscription, error)
}

// New создает Handler, переводящий заявки в состояние target.
func New(log *slog.Logger, service Service, target models.SubscriptionStatus) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		target:   target,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Перевести заявку в новое состояние
// @Description Выполняет переход заявки в целевое состояние маршрута от имени владельца токена сессии.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param request body Request true "Токен сессии и ID заявки"
// @Success 200 {object} models.Subscription "Заявка после перехода"
// @Failure 400 {object} response.Response "Некорректный JSON или отсутствующие поля"
// @Failure 401 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 403 {object} response.ErrorResponse "Переход запрещён или недоступен этой стороне"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 409 {object} response.ErrorResponse "Конкурирующий переход победил"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscriptions/acceptSubscription [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.transition"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("target", string(h.target)),
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

	sub, err := h.service.RequestTransition(r.Context(), req.SessionToken, remoteip.FromRequest(r), req.SubID, h.target)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidID):
			log.Info("malformed subscription id", slog.String("sub_id", req.SubID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid subscription id"))
		case errors.Is(err, errs.ErrUnauthenticated):
			log.Info("unauthenticated request")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthenticated"))
		case errors.Is(err, errs.ErrNotFound):
			log.Info("subscription not found", slog.String("sub_id", req.SubID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subscription not found"))
		case errors.Is(err, errs.ErrIllegalTransition):
			log.Info("illegal transition", slog.String("sub_id", req.SubID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("illegal transition"))
		case errors.Is(err, errs.ErrForbidden):
			log.Info("transition forbidden for this user", slog.String("sub_id", req.SubID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		case errors.Is(err, errs.ErrConflict):
			log.Warn("transition lost concurrent race", slog.String("sub_id", req.SubID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("conflicting update"))
		default:
			log.Error("failed to update subscription status", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update subscription"))
		}
		return
	}

	render.JSON(w, r, response.StatusOKWithData(sub))
}
