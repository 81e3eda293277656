// Package transfer реализует HTTP-обработчик перевода средств между
// картами одного владельца.
package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/card-management/internal/http/middlewarectx"
	"github.com/magabrotheeeer/card-management/internal/http/response"
	"github.com/magabrotheeeer/card-management/internal/lib/money"
	"github.com/magabrotheeeer/card-management/internal/lib/sl"
	"github.com/magabrotheeeer/card-management/internal/models"
)

// Request — структура входных данных для перевода средств.
//
// Сумма передаётся десятичной строкой ("30.00"), чтобы исключить
// потерю точности при передаче.
type Request struct {
	FromCardID int64        `json:"from_card_id" validate:"required,gt=0"`
	ToCardID   int64        `json:"to_card_id" validate:"required,gt=0"`
	Amount     money.Amount `json:"amount" validate:"required"`
}

// Service описывает интерфейс бизнес-логики перевода средств.
type Service interface {
	Transfer(ctx context.Context, username string, fromID, toID int64, amount money.Amount) error
}

// Handler обрабатывает HTTP-запросы на перевод средств.
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
// @Summary Перевод средств между картами пользователя
// @Description Списывает сумму с одной карты пользователя и зачисляет на другую.
// @Tags Cards
// @Accept  json
// @Produce  json
// @Param request body Request true "Параметры перевода"
// @Success 200 {object} response.Response "Перевод выполнен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или сумма"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Пользователь не владеет картой"
// @Failure 404 {object} response.ErrorResponse "Карта не найдена"
// @Failure 409 {object} response.ErrorResponse "Недостаточно средств, карта неактивна или конфликт версий"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /cards/transfer [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.transfer"

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
	log.Info("request body decoded",
		slog.Int64("from_card_id", req.FromCardID),
		slog.Int64("to_card_id", req.ToCardID))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	err := h.service.Transfer(r.Context(), username, req.FromCardID, req.ToCardID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidAmount):
			log.Error("invalid amount", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid transfer amount"))
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
		case errors.Is(err, models.ErrCardNotActive):
			log.Error("card is not active", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("card is not active"))
		case errors.Is(err, models.ErrInsufficientFunds):
			log.Error("insufficient funds", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("insufficient funds"))
		case errors.Is(err, models.ErrConcurrentUpdate):
			log.Error("concurrent update conflict", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("concurrent update, try again"))
		default:
			log.Error("transfer failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	log.Info("transfer completed",
		slog.Int64("from_card_id", req.FromCardID),
		slog.Int64("to_card_id", req.ToCardID))
	render.JSON(w, r, response.OK())
}
