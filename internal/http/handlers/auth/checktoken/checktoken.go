// Package checktoken реализует HTTP-обработчик проверки токена сессии.
package checktoken

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/tutor-marketplace/internal/http/response"
	"github.com/magabrotheeeer/tutor-marketplace/internal/lib/objectid"
	"github.com/magabrotheeeer/tutor-marketplace/internal/lib/remoteip"
	"github.com/magabrotheeeer/tutor-marketplace/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы на проверку токена.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс проверки сессии.
type Service interface {
	CheckToken(ctx context.Context, token, userID, ipAddress string) (bool, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверить токен сессии
// @Description Сообщает, существует ли сессия для токена, пользователя и адреса клиента.
// @Tags Users
// @Produce  json
// @Param token path string true "Токен сессии"
// @Param userId path string true "ID пользователя"
// @Success 200 {object} map[string]any "Признак существования сессии"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /user/checkToken/{token}/user/{userId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.checktoken"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := chi.URLParam(r, "token")
	userID := chi.URLParam(r, "userId")
	if !objectid.IsValid(token) || !objectid.IsValid(userID) {
		log.Error("invalid token or user id format")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid token or user id"))
		return
	}

	exists, err := h.service.CheckToken(r.Context(), token, userID, remoteip.FromRequest(r))
	if err != nil {
		log.Error("failed to check token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"session_exists": exists,
	}))
}
