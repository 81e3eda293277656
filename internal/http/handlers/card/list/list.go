// Package list реализует HTTP-обработчик списка карт аутентифицированного
// пользователя. Номера карт в выдаче всегда замаскированы.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/card-management/internal/http/middlewarectx"
	"github.com/magabrotheeeer/card-management/internal/http/response"
	"github.com/magabrotheeeer/card-management/internal/lib/sl"
	"github.com/magabrotheeeer/card-management/internal/models"
)

// Service описывает интерфейс бизнес-логики списка карт пользователя.
type Service interface {
	ListUserCards(ctx context.Context, username string, limit, offset int) ([]models.CardInfo, error)
}

// Handler обрабатывает HTTP-запросы на список карт пользователя.
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
// @Summary Получение всех карт пользователя
// @Description Возвращает список карт, принадлежащих аутентифицированному пользователю, с пагинацией.
// @Tags Cards
// @Produce  json
// @Param limit query int false "Размер страницы" default(10)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список карт"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /cards [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	cards, err := h.service.ListUserCards(r.Context(), username, limit, offset)
	if err != nil {
		log.Error("failed to list cards", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list cards"))
		return
	}

	log.Info("cards listed", slog.Int("count", len(cards)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count": len(cards),
		"cards": cards,
	}))
}
