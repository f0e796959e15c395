package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/linemk/pandabuds-shop/internal/domain/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrStatusConflict статус заказа изменился между чтением и обновлением
	ErrStatusConflict = errors.New("order status changed concurrently")
	// ErrConstraint запись отклонена ограничением таблицы
	ErrConstraint = errors.New("order violates table constraint")
)

// код check_violation в postgres
const pqCheckViolation = "23514"

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	// CreateOrder вставляет заказ и заполняет ID и CreatedAt, сгенерированные базой.
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// ListOrders возвращает заказы от новых к старым.
	ListOrders(ctx context.Context, filter ListFilter) ([]*models.Order, error)
	// UpdateOrderStatus меняет статус, только если текущий статус равен from.
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to models.Status) error
}

// ListFilter параметры выборки заказов для админки
type ListFilter struct {
	Status *models.Status
	Limit  int
	Offset int
}

// orderRepository конкретная реализация OrderStorage.
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

const orderColumns = `id, first_name, last_name, phone, email, municipality, city, address,
	courier_service, items, subtotal, shipping, total, status, created_at, updated_at`

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	query := `INSERT INTO orders (first_name, last_name, phone, email, municipality, city, address,
	          courier_service, items, subtotal, shipping, total, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	          RETURNING id, created_at`
	err = r.db.QueryRowContext(ctx, query,
		order.FirstName, order.LastName, order.Phone, order.Email,
		order.Municipality, order.City, order.Address, order.CourierService,
		items, order.Subtotal, order.Shipping, order.Total, string(order.Status),
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqCheckViolation {
			return fmt.Errorf("failed to create order: %w: %s", ErrConstraint, pqErr.Constraint)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListOrders(ctx context.Context, filter ListFilter) ([]*models.Order, error) {
	var (
		rows *sql.Rows
		err  error
	)
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if filter.Status != nil {
		rows, err = r.db.QueryContext(ctx,
			"SELECT "+orderColumns+" FROM orders WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
			string(*filter.Status), limit, filter.Offset)
	} else {
		rows, err = r.db.QueryContext(ctx,
			"SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2",
			limit, filter.Offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to models.Status) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3",
		string(to), id, string(from))
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// разбираемся, заказа нет или статус уже другой
	var exists bool
	if err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)", id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrOrderNotFound
	}
	return ErrStatusConflict
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		order     models.Order
		items     []byte
		status    string
		updatedAt sql.NullTime
	)
	if err := row.Scan(&order.ID, &order.FirstName, &order.LastName, &order.Phone, &order.Email,
		&order.Municipality, &order.City, &order.Address, &order.CourierService, &items,
		&order.Subtotal, &order.Shipping, &order.Total, &status, &order.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items of order %s: %w", order.ID, err)
	}
	order.Status = models.Status(status)
	if updatedAt.Valid {
		order.UpdatedAt = &updatedAt.Time
	}
	return &order, nil
}
