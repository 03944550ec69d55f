// Package renew реализует HTTP-обработчик продления подписки.
//
// Активная запись деактивируется, вместо неё создаётся новая с переданными журналом,
// планом и датой продления. Цена переносится из старой записи.
package renew

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

	"github.com/magabrotheeeer/magazine-subscriptions/internal/http/response"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/lib/sl"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/models"
	subservice "github.com/magabrotheeeer/magazine-subscriptions/internal/services/subscription"
	"github.com/magabrotheeeer/magazine-subscriptions/internal/storage"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	Renew(ctx context.Context, id int, req models.DummyRenewal) (*models.Subscription, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Продлить подписку
// @Description Деактивирует активную подписку и создаёт новую с той же ценой.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param id path int true "ID подписки"
// @Param request body models.DummyRenewal true "Новые журнал, план и дата продления"
// @Success 200 {object} models.Subscription "Новая активная подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID или JSON"
// @Failure 404 {object} response.ErrorResponse "Активная подписка не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.renew"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		log.Error("invalid subscription id", slog.String("id", chi.URLParam(r, "id")))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	var req models.DummyRenewal
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

	renewed, err := h.service.Renew(r.Context(), id, req)
	switch {
	case errors.Is(err, storage.ErrSubscriptionNotFound):
		log.Info("active subscription not found", slog.Int("id", id))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("active subscription not found"))
		return
	case errors.Is(err, subservice.ErrInvalidRenewalDate):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(subservice.ErrInvalidRenewalDate.Error()))
		return
	case errors.Is(err, subservice.ErrOwnerMismatch):
		log.Info("renewal for another user rejected", slog.Int("id", id), slog.Int("user_id", req.UserID))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(subservice.ErrOwnerMismatch.Error()))
		return
	case errors.Is(err, storage.ErrReferenceNotFound):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("magazine or plan not found"))
		return
	case err != nil:
		log.Error("failed to renew subscription", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to renew subscription"))
		return
	}

	log.Info("subscription renewed", slog.Int("previous_id", id), slog.Int("id", renewed.ID))
	render.JSON(w, r, renewed)
}
