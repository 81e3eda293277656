// Package create реализует HTTP-обработчик выпуска новой карты
// администратором.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/card-management/internal/http/response"
	"github.com/magabrotheeeer/card-management/internal/lib/money"
	"github.com/magabrotheeeer/card-management/internal/lib/sl"
	"github.com/magabrotheeeer/card-management/internal/models"
	"github.com/magabrotheeeer/card-management/internal/services/card"
)

// Request — структура входных данных для выпуска карты.
//
// Номер карты не принимается извне: он генерируется на стороне сервера.
type Request struct {
	Owner      string       `json:"owner" validate:"required,min=3,max=100"`
	ExpiryDate string       `json:"expiry_date" validate:"required,datetime=2006-01-02"`
	Balance    money.Amount `json:"balance"`
	UserUID    string       `json:"user_uid" validate:"required,uuid"`
}

// Service описывает интерфейс бизнес-логики выпуска карт.
type Service interface {
	Create(ctx context.Context, in card.CreateInput) (*models.CardInfo, error)
}

// Handler обрабатывает HTTP-запросы на выпуск карты.
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
// @Summary Выпуск новой карты
// @Description Создает карту для указанного пользователя. Доступно только администратору.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные новой карты"
// @Success 200 {object} map[string]any "Созданная карта"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или сумма"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Не удалось сгенерировать уникальный номер"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/cards [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.create"

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
	log.Info("request body decoded", slog.String("user_uid", req.UserUID))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		log.Error("invalid expiry date", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid expiry date"))
		return
	}

	info, err := h.service.Create(r.Context(), card.CreateInput{
		Owner:      req.Owner,
		ExpiryDate: expiry,
		Balance:    req.Balance,
		UserUID:    req.UserUID,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidAmount):
			log.Error("invalid initial balance", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("initial balance must not be negative"))
		case errors.Is(err, models.ErrUserNotFound):
			log.Error("user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, models.ErrDuplicateCardNumber):
			log.Error("failed to generate unique card number", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("failed to generate unique card number"))
		default:
			log.Error("failed to create card", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
		}
		return
	}

	log.Info("card created", slog.Int64("card_id", info.ID))
	render.JSON(w, r, response.OKWithData(info))
}
