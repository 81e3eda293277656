// Package balance реализует HTTP-обработчик получения баланса карты.
package balance

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/card-management/internal/http/middlewarectx"
	"github.com/magabrotheeeer/card-management/internal/http/response"
	"github.com/magabrotheeeer/card-management/internal/lib/money"
	"github.com/magabrotheeeer/card-management/internal/lib/sl"
	"github.com/magabrotheeeer/card-management/internal/models"
)

// Service описывает интерфейс бизнес-логики получения баланса.
type Service interface {
	GetBalance(ctx context.Context, username string, cardID int64) (money.Amount, error)
}

// Handler обрабатывает HTTP-запросы на получение баланса карты.
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
// @Summary Получить баланс карты пользователя
// @Tags Cards
// @Produce  json
// @Param id path int true "ID карты"
// @Success 200 {object} map[string]any "Баланс карты"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Пользователь не владеет картой"
// @Failure 404 {object} response.ErrorResponse "Карта не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /cards/{id}/balance [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.balance"

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

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	amount, err := h.service.GetBalance(r.Context(), username, cardID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrCardNotFound):
			log.Error("card not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("card not found"))
		case errors.Is(err, models.ErrUserNotFound):
			log.Error("user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, models.ErrNotOwner):
			log.Error("user does not own card", sl.Err(err))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("user does not own this card"))
		default:
			log.Error("failed to get balance", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	log.Info("balance fetched", slog.Int64("card_id", cardID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"card_id": cardID,
		"balance": amount,
	}))
}
