package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/linemk/pandabuds-shop/internal/domain/models"
	"github.com/linemk/pandabuds-shop/internal/lib/logger"
	"github.com/linemk/pandabuds-shop/internal/lib/metrics"
	"github.com/linemk/pandabuds-shop/internal/mail"
	"github.com/linemk/pandabuds-shop/internal/ratelimit"
	"github.com/linemk/pandabuds-shop/internal/storage"
	"github.com/linemk/pandabuds-shop/internal/validation"
)

// CheckoutService принимает заказы с витрины
type CheckoutService interface {
	// PlaceOrder проверяет лимит, ловушку и поля, сохраняет заказ и рассылает письма.
	// clientID сетевой идентификатор клиента для ограничения частоты.
	PlaceOrder(ctx context.Context, clientID string, req *validation.CheckoutRequest) (*models.Order, error)
}

// MailSettings адреса для уведомлений о заказе
type MailSettings struct {
	From         string
	OwnerEmail   string
	SupportEmail string
}

type checkoutService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
	limiter   ratelimit.Limiter
	validate  *validator.Validate
	sender    mail.Sender
	metrics   *metrics.Metrics
	mailCfg   MailSettings
	now       func() time.Time
}

func NewCheckoutService(
	log *slog.Logger,
	orderRepo storage.OrderStorage,
	limiter ratelimit.Limiter,
	sender mail.Sender,
	m *metrics.Metrics,
	mailCfg MailSettings,
) CheckoutService {
	return &checkoutService{
		log:       log,
		orderRepo: orderRepo,
		limiter:   limiter,
		validate:  validation.New(),
		sender:    sender,
		metrics:   m,
		mailCfg:   mailCfg,
		now:       time.Now,
	}
}

func (s *checkoutService) PlaceOrder(ctx context.Context, clientID string, req *validation.CheckoutRequest) (*models.Order, error) {
	const op = "service.CheckoutService.PlaceOrder"
	log := s.log.With(slog.String("op", op), slog.String("client", clientID))

	allowed, err := s.limiter.Allow(ctx, clientID)
	if err != nil {
		s.metrics.Submission(metrics.ResultFailed)
		log.Error("rate limiter unavailable", logger.Err(err))
		return nil, fmt.Errorf("%s: rate limiter: %w", op, err)
	}
	if !allowed {
		s.metrics.Submission(metrics.ResultRateLimited)
		log.Warn("rate limit exceeded")
		return nil, ErrRateLimited
	}

	if validation.IsBot(req) {
		s.metrics.Submission(metrics.ResultBot)
		log.Warn("honeypot field filled, rejecting submission")
		return nil, &ValidationError{Reason: "Invalid request", Bot: true}
	}

	validation.Normalize(req)
	if err := s.validate.Struct(req); err != nil {
		reason := validation.Reason(err)
		s.metrics.Submission(metrics.ResultInvalid)
		log.Info("order rejected by validation", slog.String("reason", reason), logger.Err(err))
		return nil, &ValidationError{Reason: reason}
	}

	order := newOrder(req)
	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		s.metrics.Submission(metrics.ResultFailed)
		log.Error("failed to save order", logger.Err(err))
		return nil, &PersistenceError{Err: fmt.Errorf("%s: %w", op, err)}
	}
	s.metrics.Submission(metrics.ResultAccepted)
	log.Info("order saved", slog.String("order_id", order.ID.String()), slog.String("total", order.Total.String()))

	// заказ уже сохранен: письма отправляем даже если клиент отключился
	s.notify(context.WithoutCancel(ctx), log, order)

	return order, nil
}

// notify отправляет письмо покупателю и владельцу. Ошибки только логируются.
func (s *checkoutService) notify(ctx context.Context, log *slog.Logger, order *models.Order) {
	now := s.now()

	if err := s.send(ctx, "customer", order, func() (mail.Message, error) {
		return mail.CustomerConfirmation(s.mailCfg.From, s.mailCfg.SupportEmail, order, now)
	}); err != nil {
		log.Error("failed to send customer email", logger.Err(err))
	}

	if s.mailCfg.OwnerEmail == "" {
		log.Warn("owner email is not configured, skipping owner notification")
		return
	}

	if err := s.send(ctx, "owner", order, func() (mail.Message, error) {
		return mail.OwnerNotification(s.mailCfg.From, s.mailCfg.OwnerEmail, order, now)
	}); err != nil {
		log.Error("failed to send owner notification email", logger.Err(err))
		return
	}
	log.Info("owner notification email sent", slog.String("order_id", order.ID.String()))
}

func (s *checkoutService) send(ctx context.Context, kind string, order *models.Order, build func() (mail.Message, error)) error {
	msg, err := build()
	if err == nil {
		err = s.sender.Send(ctx, msg)
	}
	s.metrics.Email(kind, err)
	if err != nil {
		return &NotificationError{Kind: kind, OrderID: order.ID.String(), Err: err}
	}
	return nil
}

func newOrder(req *validation.CheckoutRequest) *models.Order {
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Color:     it.Color,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	return &models.Order{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Email:          req.Email,
		Municipality:   req.Municipality,
		City:           req.City,
		Address:        req.Address,
		CourierService: req.CourierService,
		Items:          items,
		Subtotal:       req.Subtotal,
		Shipping:       req.Shipping,
		Total:          req.Total,
		Status:         models.StatusPending,
	}
}
