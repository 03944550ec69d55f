// Package list реализует HTTP-обработчик выдачи всех журналов каталога.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/magazine-subscriptions/internal/http/response"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/lib/sl"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	ListMagazines(ctx context.Context) ([]*models.Magazine, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список журналов
// @Description Возвращает все журналы каталога без фильтрации и пагинации.
// @Tags Magazines
// @Produce  json
// @Success 200 {array} models.Magazine "Журналы"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /magazines [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.magazine.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	magazines, err := h.service.ListMagazines(r.Context())
	if err != nil {
		log.Error("failed to list magazines", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list magazines"))
		return
	}

	log.Debug("magazines listed", slog.Int("count", len(magazines)))
	render.JSON(w, r, magazines)
}
