// Package create реализует HTTP-обработчик создания объявления.
//
// Автором объявления становится владелец токена сессии из тела запроса.
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

// Request — структура входных данных для создания объявления.
type Request struct {
	SessionToken string  `json:"sessionToken" validate:"required,len=24"`
	Title        string  `json:"title" validate:"required"`
	Description  string  `json:"description" validate:"required"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Type         string  `json:"type" validate:"required"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
}

// Handler обрабатывает HTTP-запросы на создание объявления.
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

// Service описывает интерфейс бизнес-логики объявлений.
type Service interface {
	Create(ctx context.Context, authorID string, req models.DummyAdvertisement) (*models.Advertisement, error)
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
// @Summary Создать объявление
// @Description Создает объявление от имени владельца токена сессии.
// @Tags Advertisements
// @Accept  json
// @Produce  json
// @Param request body Request true "Токен сессии и данные объявления"
// @Success 200 {object} models.Advertisement "Созданное объявление"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /ads/createAd [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ads.create"

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

	ad, err := h.service.Create(r.Context(), authorID, models.DummyAdvertisement{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Type:        req.Type,
		Lat:         req.Lat,
		Lon:         req.Lon,
	})
	if err != nil {
		log.Error("failed to create advertisement", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create advertisement"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(ad))
}
