// Package create реализует HTTP-обработчик добавления журнала в каталог.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/magazine-subscriptions/internal/http/response"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/lib/sl"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/models"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	CreateMagazine(ctx context.Context, req models.DummyMagazine) (*models.Magazine, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить журнал
// @Description Создаёт запись каталога. Базовая цена должна быть положительной.
// @Tags Magazines
// @Accept  json
// @Produce  json
// @Param request body models.DummyMagazine true "Данные журнала"
// @Success 200 {object} models.Magazine "Созданный журнал"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /magazines [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.magazine.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyMagazine
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	magazine, err := h.service.CreateMagazine(r.Context(), req)
	if err != nil {
		log.Error("failed to create magazine", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create magazine"))
		return
	}

	log.Info("magazine created", slog.Int("id", magazine.ID))
	render.JSON(w, r, magazine)
}
