package service

import (
	"errors"
)

var (
	// ErrRateLimited клиент превысил число попыток в окне
	ErrRateLimited = errors.New("too many requests")
	// ErrOrderNotFound заказ не существует
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidStatus неизвестный статус заказа
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrInvalidTransition переход между статусами запрещен
	ErrInvalidTransition = errors.New("order status transition not allowed")
	// ErrStatusConflict статус изменили параллельно
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// ValidationError запрос отклонен проверкой полей или ловушкой для ботов.
// Reason можно показывать клиенту.
type ValidationError struct {
	Reason string
	Bot    bool
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// PersistenceError заказ не удалось сохранить, письма не отправлялись
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "persistence failed: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NotificationError письмо по сохраненному заказу не ушло. Клиенту не возвращается.
type NotificationError struct {
	Kind    string
	OrderID string
	Err     error
}

func (e *NotificationError) Error() string {
	return "notification " + e.Kind + " for order " + e.OrderID + ": " + e.Err.Error()
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
