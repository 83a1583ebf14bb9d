// Package logout реализует HTTP-обработчик выхода из системы.
//
// Сессия удаляется только если адрес запроса совпадает с адресом,
// на который была выдана. Количество удалённых записей возвращается
// клиенту, чтобы отличить "удалена" от "уже не существовала".
package logout

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

// Handler обрабатывает HTTP-запросы на выход.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выхода.
type Service interface {
	Logout(ctx context.Context, token, ipAddress string) (int64, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выйти из системы
// @Description Удаляет сессию, если адрес клиента совпадает с адресом выдачи токена.
// @Tags Users
// @Produce  json
// @Param token path string true "Токен сессии"
// @Success 200 {object} map[string]any "Количество удалённых сессий"
// @Failure 400 {object} response.ErrorResponse "Некорректный токен"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /user/logout/{token} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	token := chi.URLParam(r, "token")
	if !objectid.IsValid(token) {
		log.Error("invalid session token format")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid session token"))
		return
	}

	deletedCount, err := h.service.Logout(r.Context(), token, remoteip.FromRequest(r))
	if err != nil {
		log.Error("logout failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("logout processed", slog.Int64("deleted_count", deletedCount))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_count": deletedCount,
	}))
}
