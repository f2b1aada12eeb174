package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type PostgresConfig struct {
	// DSN is optional; callers fall back to the in-memory store without it.
	DSN     string        `envconfig:"DSN" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// PostgresStore persists products and orders in Postgres via bun.
type PostgresStore struct {
	db  *bun.DB
	now func() time.Time
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(cfg PostgresConfig) (*PostgresStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	connector := pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(cfg.Timeout),
	)
	sqldb := sql.OpenDB(connector)
	db := bun.NewDB(sqldb, pgdialect.New())

	return &PostgresStore{db: db, now: time.Now}, nil
}

// Init creates the products and orders tables when they do not exist yet.
func (s *PostgresStore) Init(ctx context.Context) error {
	models := []any{(*Product)(nil), (*Order)(nil)}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) AddProduct(ctx context.Context, product *Product) error {
	if product == nil {
		return errors.New("nil product")
	}
	if err := product.Validate(); err != nil {
		return err
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = s.now().UTC()
	}

	_, err := s.db.NewInsert().
		Model(product).
		On("CONFLICT (product_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("description = EXCLUDED.description").
		Set("price = EXCLUDED.price").
		Set("stock_status = EXCLUDED.stock_status").
		Set("category = EXCLUDED.category").
		Set("specifications = EXCLUDED.specifications").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *PostgresStore) Product(ctx context.Context, productID string) (*Product, error) {
	product := new(Product)
	err := s.db.NewSelect().
		Model(product).
		Where("product_id = ?", productID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%s", ErrProductNotFound, productID)
	}
	if err != nil {
		return nil, fmt.Errorf("select product: %w", err)
	}
	return product, nil
}

func (s *PostgresStore) SearchProducts(ctx context.Context, query, category string, limit int) ([]*Product, error) {
	if limit <= 0 {
		limit = 10
	}

	q := s.db.NewSelect().Model((*Product)(nil))
	if trimmed := strings.TrimSpace(query); trimmed != "" {
		pattern := "%" + trimmed + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("name ILIKE ?", pattern).WhereOr("description ILIKE ?", pattern)
		})
	}
	if trimmed := strings.TrimSpace(category); trimmed != "" {
		q = q.Where("category ILIKE ?", trimmed)
	}

	var products []*Product
	if err := q.Limit(limit).Scan(ctx, &products); err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return products, nil
}

func (s *PostgresStore) CreateOrder(ctx context.Context, order *Order) (string, error) {
	if order == nil {
		return "", errors.New("nil order")
	}
	if order.OrderID == "" {
		order.OrderID = GenerateOrderID(s.now())
	}
	if err := order.Validate(); err != nil {
		return "", err
	}

	if _, err := s.db.NewInsert().Model(order).Exec(ctx); err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	return order.OrderID, nil
}

func (s *PostgresStore) Order(ctx context.Context, orderID string) (*Order, error) {
	order := new(Order)
	err := s.db.NewSelect().
		Model(order).
		Where("order_id = ?", orderID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id=%s", ErrOrderNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}
	return order, nil
}

func (s *PostgresStore) UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) error {
	if _, err := ParseOrderStatus(string(status)); err != nil {
		return err
	}

	res, err := s.db.NewUpdate().
		Model((*Order)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", s.now().UTC()).
		Where("order_id = ?", orderID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id=%s", ErrOrderNotFound, orderID)
	}
	return nil
}

func (s *PostgresStore) OrdersByStatus(ctx context.Context, status OrderStatus) ([]*Order, error) {
	var orders []*Order
	err := s.db.NewSelect().
		Model((*Order)(nil)).
		Where("status = ?", status).
		Order("created_at DESC").
		Scan(ctx, &orders)
	if err != nil {
		return nil, fmt.Errorf("select orders by status: %w", err)
	}
	return orders, nil
}
