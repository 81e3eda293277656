// Package activate реализует HTTP-обработчик активации заблокированной
// карты администратором.
package activate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/card-management/internal/http/response"
	"github.com/magabrotheeeer/card-management/internal/lib/sl"
	"github.com/magabrotheeeer/card-management/internal/models"
)

// Service описывает интерфейс бизнес-логики активации карты.
type Service interface {
	Activate(ctx context.Context, id int64) error
}

// Handler обрабатывает HTTP-запросы на активацию карты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Активация карты
// @Description Возвращает заблокированную карту в статус ACTIVE. Истекшие карты активировать нельзя. Доступно только администратору.
// @Tags Admin
// @Produce  json
// @Param id path int true "ID карты"
// @Success 200 {object} response.Response "Карта активирована"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Карта не найдена"
// @Failure 409 {object} response.ErrorResponse "Недопустимый переход статуса"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/cards/{id}/activate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.activate"

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

	if err := h.service.Activate(r.Context(), cardID); err != nil {
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
			log.Error("failed to activate card", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	log.Info("card activated", slog.Int64("card_id", cardID))
	render.JSON(w, r, response.OK())
}
