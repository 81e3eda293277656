// Package update реализует HTTP-обработчик смены статуса карты
// администратором.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/card-management/internal/http/response"
	"github.com/magabrotheeeer/card-management/internal/lib/sl"
	"github.com/magabrotheeeer/card-management/internal/models"
)

// Request — структура входных данных для смены статуса карты.
type Request struct {
	Status string `json:"status" validate:"required"`
}

// Service описывает интерфейс бизнес-логики смены статуса карты.
type Service interface {
	UpdateStatus(ctx context.Context, id int64, target models.CardStatus) (*models.CardInfo, error)
}

// Handler обрабатывает HTTP-запросы на смену статуса карты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
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
// @Summary Смена статуса карты
// @Description Переводит карту в указанный статус с проверкой допустимости перехода. Доступно только администратору.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param id path int true "ID карты"
// @Param request body Request true "Целевой статус"
// @Success 200 {object} map[string]any "Обновленная карта"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID или статус"
// @Failure 404 {object} response.ErrorResponse "Карта не найдена"
// @Failure 409 {object} response.ErrorResponse "Недопустимый переход статуса"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/cards/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	cardID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid card id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid card id"))
		return
	}

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

	status, err := models.ParseCardStatus(req.Status)
	if err != nil {
		log.Error("unknown card status", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown card status"))
		return
	}

	info, err := h.service.UpdateStatus(r.Context(), cardID, status)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrCardNotFound):
			log.Error("card not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("card not found"))
		case errors.Is(err, models.ErrInvalidTransition):
			log.Error("invalid status transition", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("invalid card status transition"))
		default:
			log.Error("failed to update card status", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	log.Info("card status updated",
		slog.Int64("card_id", cardID),
		slog.String("status", string(status)))
	render.JSON(w, r, response.OKWithData(info))
}
