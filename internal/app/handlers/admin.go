package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/linemk/pandabuds-shop/internal/domain/models"
	"github.com/linemk/pandabuds-shop/internal/service"
)

// ListOrdersResponse список заказов для админки
type ListOrdersResponse struct {
	Orders []*models.Order `json:"orders"`
}

// UpdateStatusRequest тело PATCH /api/admin/orders/{id}/status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

var validate = validator.New()

// ListOrdersHandler обрабатывает GET /api/admin/orders?status=&limit=&offset=
func ListOrdersHandler(log *slog.Logger, adminService service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		q := r.URL.Query()
		limit, err := intParam(q.Get("limit"))
		if err != nil {
			writeJSON(w, logger, http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		offset, err := intParam(q.Get("offset"))
		if err != nil {
			writeJSON(w, logger, http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
			return
		}

		orders, err := adminService.ListOrders(r.Context(), q.Get("status"), limit, offset)
		if err != nil {
			writeAdminError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, ListOrdersResponse{Orders: orders})
	}
}

// GetOrderHandler обрабатывает GET /api/admin/orders/{id}
func GetOrderHandler(log *slog.Logger, adminService service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetOrderHandler"
		logger := log.With(slog.String("op", op))

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, logger, http.StatusBadRequest, ErrorResponse{Error: "invalid order id"})
			return
		}

		order, err := adminService.GetOrder(r.Context(), id)
		if err != nil {
			writeAdminError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, order)
	}
}

// UpdateOrderStatusHandler обрабатывает PATCH /api/admin/orders/{id}/status
func UpdateOrderStatusHandler(log *slog.Logger, adminService service.AdminService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateOrderStatusHandler"
		logger := log.With(slog.String("op", op))

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, logger, http.StatusBadRequest, ErrorResponse{Error: "invalid order id"})
			return
		}

		var req UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeJSON(w, logger, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
			return
		}
		if err := validate.Struct(req); err != nil {
			writeJSON(w, logger, http.StatusBadRequest, ErrorResponse{Error: "validation error"})
			return
		}

		order, err := adminService.UpdateStatus(r.Context(), id, models.Status(req.Status))
		if err != nil {
			writeAdminError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, order)
	}
}

func writeAdminError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		writeJSON(w, logger, http.StatusNotFound, ErrorResponse{Error: "order not found"})
	case errors.Is(err, service.ErrInvalidStatus):
		writeJSON(w, logger, http.StatusBadRequest, ErrorResponse{Error: "invalid status"})
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrStatusConflict):
		writeJSON(w, logger, http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("admin request failed", slog.Any("error", err))
		writeJSON(w, logger, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New("invalid integer parameter")
	}
	return n, nil
}
