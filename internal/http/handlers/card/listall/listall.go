// Package listall реализует HTTP-обработчик списка всех карт системы
// для администратора.
package listall

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/card-management/internal/http/response"
	"github.com/magabrotheeeer/card-management/internal/lib/sl"
	"github.com/magabrotheeeer/card-management/internal/models"
)

// Service описывает интерфейс бизнес-логики списка всех карт.
type Service interface {
	ListAll(ctx context.Context, limit, offset int) ([]models.CardInfo, error)
}

// Handler обрабатывает HTTP-запросы на список всех карт.
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
// @Summary Получение всех карт системы
// @Description Возвращает все карты всех пользователей с пагинацией. Доступно только администратору.
// @Tags Admin
// @Produce  json
// @Param limit query int false "Размер страницы" default(10)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список карт"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/cards [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.card.listall"

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

	cards, err := h.service.ListAll(r.Context(), limit, offset)
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
