// Package store persists the product catalog and order records.
package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidStatus   = errors.New("invalid order status")
)

type StockStatus string

const (
	StockInStock      StockStatus = "in_stock"
	StockOutOfStock   StockStatus = "out_of_stock"
	StockDiscontinued StockStatus = "discontinued"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus validates a raw status string.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// Cancellable reports whether an order in this status may still be cancelled.
// Shipped, delivered, and already-cancelled orders are terminal for cancellation.
func (s OrderStatus) Cancellable() bool {
	switch s {
	case OrderShipped, OrderDelivered, OrderCancelled:
		return false
	}
	return true
}

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ProductID      string         `bun:"product_id,pk" json:"product_id" validate:"required"`
	Name           string         `bun:"name,notnull" json:"name" validate:"required,min=1,max=200"`
	Description    string         `bun:"description,notnull" json:"description" validate:"required,min=10"`
	Price          float64        `bun:"price,notnull" json:"price" validate:"required,gt=0"`
	StockStatus    StockStatus    `bun:"stock_status,notnull" json:"stock_status" validate:"required,oneof=in_stock out_of_stock discontinued"`
	Category       string         `bun:"category,notnull" json:"category" validate:"required,min=1"`
	Specifications map[string]any `bun:"specifications,type:jsonb" json:"specifications,omitempty"`
	CreatedAt      time.Time      `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	OrderID      string            `bun:"order_id,pk" json:"order_id"`
	ProductName  string            `bun:"product_name,notnull" json:"product_name" validate:"required,min=1"`
	ProductID    string            `bun:"product_id" json:"product_id,omitempty"`
	Quantity     int               `bun:"quantity,notnull" json:"quantity" validate:"required,gt=0"`
	UnitPrice    float64           `bun:"unit_price,notnull" json:"unit_price" validate:"required,gt=0"`
	TotalPrice   float64           `bun:"total_price,notnull" json:"total_price" validate:"required,gt=0"`
	Status       OrderStatus       `bun:"status,notnull,default:'pending'" json:"status"`
	CustomerInfo map[string]string `bun:"customer_info,type:jsonb" json:"customer_info,omitempty"`
	CreatedAt    time.Time         `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time         `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (p *Product) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid product: %w", err)
	}
	return nil
}

// NewOrder constructs a validated order. The total-price invariant is
// enforced here: total must equal quantity × unit price within 0.01.
func NewOrder(productName, productID string, quantity int, unitPrice, totalPrice float64, customerInfo map[string]string, now time.Time) (*Order, error) {
	order := &Order{
		ProductName:  productName,
		ProductID:    productID,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		TotalPrice:   totalPrice,
		Status:       OrderPending,
		CustomerInfo: customerInfo,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

func (o *Order) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid order: %w", err)
	}
	expected := float64(o.Quantity) * o.UnitPrice
	if math.Abs(o.TotalPrice-expected) > 0.01 {
		return fmt.Errorf("invalid order: total price %.2f must equal quantity x unit price (%.2f)", o.TotalPrice, expected)
	}
	return nil
}

// GenerateOrderID produces an identifier of the form ORD-YYYYMMDD-XXXXXXXX.
func GenerateOrderID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// Store is the persistence contract consumed by the tool handlers.
type Store interface {
	AddProduct(ctx context.Context, product *Product) error
	Product(ctx context.Context, productID string) (*Product, error)
	// SearchProducts matches query against product name and description,
	// case-insensitively. An empty query matches everything; category
	// narrows the result set when non-empty.
	SearchProducts(ctx context.Context, query, category string, limit int) ([]*Product, error)

	CreateOrder(ctx context.Context, order *Order) (string, error)
	Order(ctx context.Context, orderID string) (*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) error
	OrdersByStatus(ctx context.Context, status OrderStatus) ([]*Order, error)
}
