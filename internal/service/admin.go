package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/linemk/pandabuds-shop/internal/domain/models"
	"github.com/linemk/pandabuds-shop/internal/lib/logger"
	"github.com/linemk/pandabuds-shop/internal/storage"
)

// AdminService операции админки над заказами
type AdminService interface {
	// ListOrders status "" или "all" означает без фильтра.
	ListOrders(ctx context.Context, status string, limit, offset int) ([]*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) (*models.Order, error)
}

type adminService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
}

func NewAdminService(log *slog.Logger, orderRepo storage.OrderStorage) AdminService {
	return &adminService{log: log, orderRepo: orderRepo}
}

func (s *adminService) ListOrders(ctx context.Context, status string, limit, offset int) ([]*models.Order, error) {
	const op = "service.AdminService.ListOrders"

	filter := storage.ListFilter{Limit: limit, Offset: offset}
	if status != "" && status != "all" {
		st := models.Status(status)
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		filter.Status = &st
	}

	orders, err := s.orderRepo.ListOrders(ctx, filter)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), logger.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *adminService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	const op = "service.AdminService.GetOrder"

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

// UpdateStatus переводит заказ в новый статус по правилам жизненного цикла
func (s *adminService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) (*models.Order, error) {
	const op = "service.AdminService.UpdateStatus"
	log := s.log.With(slog.String("op", op), slog.String("order_id", id.String()), slog.String("status", string(status)))

	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		log.Warn("transition not allowed", slog.String("from", string(order.Status)))
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, id, order.Status, status); err != nil {
		switch {
		case errors.Is(err, storage.ErrOrderNotFound):
			return nil, ErrOrderNotFound
		case errors.Is(err, storage.ErrStatusConflict):
			return nil, ErrStatusConflict
		}
		log.Error("failed to update order status", logger.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("order status updated", slog.String("from", string(order.Status)))
	order.Status = status
	return order, nil
}
