package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chatcommerce/shopagent/store"
	"github.com/chatcommerce/shopagent/vector"
)

type CreateOrderPayload struct {
	Success     bool    `json:"success"`
	OrderID     string  `json:"order_id,omitempty"`
	ProductName string  `json:"product_name,omitempty"`
	ProductID   string  `json:"product_id,omitempty"`
	Quantity    int     `json:"quantity,omitempty"`
	UnitPrice   float64 `json:"unit_price,omitempty"`
	TotalPrice  float64 `json:"total_price,omitempty"`
	Status      string  `json:"status,omitempty"`
	Message     string  `json:"message,omitempty"`
	Error       string  `json:"error,omitempty"`
}

type OrderStatusPayload struct {
	Success     bool    `json:"success"`
	OrderID     string  `json:"order_id,omitempty"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int     `json:"quantity,omitempty"`
	TotalPrice  float64 `json:"total_price,omitempty"`
	Status      string  `json:"status,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
	Message     string  `json:"message,omitempty"`
	Error       string  `json:"error,omitempty"`
}

type ValidateOrderPayload struct {
	Success     bool    `json:"success"`
	Valid       bool    `json:"valid"`
	ProductName string  `json:"product_name,omitempty"`
	ProductID   string  `json:"product_id,omitempty"`
	Quantity    int     `json:"quantity,omitempty"`
	UnitPrice   float64 `json:"unit_price,omitempty"`
	TotalPrice  float64 `json:"total_price,omitempty"`
	Available   bool    `json:"available"`
	StockStatus string  `json:"stock_status,omitempty"`
	Message     string  `json:"message,omitempty"`
	Error       string  `json:"error,omitempty"`
}

type CancelOrderPayload struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OrderTools carries the dependencies of the order tool handlers. The clock
// is injectable so order timestamps and IDs are deterministic in tests.
type OrderTools struct {
	search Searcher
	store  store.Store
	now    func() time.Time
}

type OrderToolsOption func(*OrderTools)

func WithOrderClock(now func() time.Time) OrderToolsOption {
	return func(o *OrderTools) {
		o.now = now
	}
}

// NewOrderTools wires the order tool handlers and validates them against
// their declared schemas.
func NewOrderTools(search Searcher, st store.Store, opts ...OrderToolsOption) (*Registry, error) {
	o := &OrderTools{
		search: search,
		store:  st,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	handlers := map[string]Handler{
		ToolCreateOrder:          o.createOrder,
		ToolGetOrderStatus:       o.orderStatus,
		ToolValidateOrderDetails: o.validateOrder,
		ToolCancelOrder:          o.cancelOrder,
	}
	return NewRegistry(OrderToolInfos(), handlers)
}

func (o *OrderTools) createOrder(ctx context.Context, args map[string]any) (any, error) {
	name, ok := stringArg(args, "product_name")
	if !ok {
		return CreateOrderPayload{Success: false, Error: "product_name is required"}, nil
	}

	quantity := 1
	if n, ok := intArg(args, "quantity"); ok {
		quantity = n
	}
	if quantity < 1 {
		return CreateOrderPayload{
			Success:     false,
			ProductName: name,
			Error:       "quantity must be at least 1",
		}, nil
	}

	product, payloadErr := o.resolveProduct(ctx, name)
	if payloadErr != "" {
		return CreateOrderPayload{Success: false, ProductName: name, Error: payloadErr}, nil
	}
	if product.StockStatus != store.StockInStock {
		return CreateOrderPayload{
			Success:     false,
			ProductName: product.Name,
			ProductID:   product.ProductID,
			Error:       fmt.Sprintf("%s is currently %s", product.Name, strings.ReplaceAll(string(product.StockStatus), "_", " ")),
		}, nil
	}

	total := float64(quantity) * product.Price
	order, err := store.NewOrder(product.Name, product.ProductID, quantity, product.Price, total, stringMapArg(args, "customer_info"), o.now())
	if err != nil {
		return CreateOrderPayload{
			Success:     false,
			ProductName: product.Name,
			Error:       fmt.Sprintf("order rejected: %v", err),
		}, nil
	}

	orderID, err := o.store.CreateOrder(ctx, order)
	if err != nil {
		return CreateOrderPayload{
			Success:     false,
			ProductName: product.Name,
			Error:       fmt.Sprintf("could not save order: %v", err),
		}, nil
	}

	return CreateOrderPayload{
		Success:     true,
		OrderID:     orderID,
		ProductName: product.Name,
		ProductID:   product.ProductID,
		Quantity:    quantity,
		UnitPrice:   product.Price,
		TotalPrice:  total,
		Status:      string(store.OrderPending),
		Message: fmt.Sprintf("Order confirmed! Your order for %dx %s has been placed successfully. Total: $%.2f Order ID: #%s",
			quantity, product.Name, total, orderID),
	}, nil
}

func (o *OrderTools) orderStatus(ctx context.Context, args map[string]any) (any, error) {
	orderID, ok := stringArg(args, "order_id")
	if !ok {
		return OrderStatusPayload{Success: false, Error: "order_id is required"}, nil
	}

	order, err := o.store.Order(ctx, normalizeOrderID(orderID))
	if err != nil {
		return OrderStatusPayload{
			Success: false,
			OrderID: orderID,
			Error:   fmt.Sprintf("Order '%s' not found", orderID),
		}, nil
	}

	return OrderStatusPayload{
		Success:     true,
		OrderID:     order.OrderID,
		ProductName: order.ProductName,
		Quantity:    order.Quantity,
		TotalPrice:  order.TotalPrice,
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt.Format(time.RFC3339),
		Message: fmt.Sprintf("Order #%s: %dx %s - Status: %s",
			order.OrderID, order.Quantity, order.ProductName, titleStatus(order.Status)),
	}, nil
}

func (o *OrderTools) validateOrder(ctx context.Context, args map[string]any) (any, error) {
	name, ok := stringArg(args, "product_name")
	if !ok {
		return ValidateOrderPayload{Success: false, Valid: false, Error: "product_name is required"}, nil
	}

	quantity := 1
	if n, ok := intArg(args, "quantity"); ok {
		quantity = n
	}
	if quantity < 1 {
		return ValidateOrderPayload{
			Success:     false,
			Valid:       false,
			ProductName: name,
			Error:       "quantity must be at least 1",
		}, nil
	}

	product, payloadErr := o.resolveProduct(ctx, name)
	if payloadErr != "" {
		return ValidateOrderPayload{Success: false, Valid: false, ProductName: name, Error: payloadErr}, nil
	}

	available := product.StockStatus == store.StockInStock
	total := float64(quantity) * product.Price

	msg := fmt.Sprintf("%dx %s at $%.2f each would total $%.2f. The product is in stock and ready to order.",
		quantity, product.Name, product.Price, total)
	if !available {
		msg = fmt.Sprintf("%dx %s would total $%.2f, but the product is currently %s.",
			quantity, product.Name, total, strings.ReplaceAll(string(product.StockStatus), "_", " "))
	}

	return ValidateOrderPayload{
		Success:     true,
		Valid:       available,
		ProductName: product.Name,
		ProductID:   product.ProductID,
		Quantity:    quantity,
		UnitPrice:   product.Price,
		TotalPrice:  total,
		Available:   available,
		StockStatus: string(product.StockStatus),
		Message:     msg,
	}, nil
}

func (o *OrderTools) cancelOrder(ctx context.Context, args map[string]any) (any, error) {
	orderID, ok := stringArg(args, "order_id")
	if !ok {
		return CancelOrderPayload{Success: false, Error: "order_id is required"}, nil
	}
	orderID = normalizeOrderID(orderID)

	order, err := o.store.Order(ctx, orderID)
	if err != nil {
		return CancelOrderPayload{
			Success: false,
			OrderID: orderID,
			Error:   fmt.Sprintf("Order '%s' not found", orderID),
		}, nil
	}

	if !order.Status.Cancellable() {
		return CancelOrderPayload{
			Success: false,
			OrderID: order.OrderID,
			Status:  string(order.Status),
			Error:   fmt.Sprintf("Order #%s cannot be cancelled: status is %s", order.OrderID, order.Status),
		}, nil
	}

	if err := o.store.UpdateOrderStatus(ctx, order.OrderID, store.OrderCancelled); err != nil {
		return CancelOrderPayload{
			Success: false,
			OrderID: order.OrderID,
			Error:   fmt.Sprintf("could not cancel order: %v", err),
		}, nil
	}

	return CancelOrderPayload{
		Success: true,
		OrderID: order.OrderID,
		Status:  string(store.OrderCancelled),
		Message: fmt.Sprintf("Order #%s has been cancelled", order.OrderID),
	}, nil
}

// resolveProduct finds the catalog product a customer-supplied name refers
// to via the semantic index, preferring exact then substring name matches.
// A non-empty second return is the user-facing failure reason.
func (o *OrderTools) resolveProduct(ctx context.Context, name string) (*store.Product, string) {
	results, err := o.search.SearchProducts(ctx, name, defaultSearchResults, "", vector.PriceRange{})
	if err != nil {
		return nil, fmt.Sprintf("product lookup failed: %v", err)
	}
	if len(results) == 0 {
		return nil, fmt.Sprintf("Product '%s' not found", name)
	}

	matches := make([]*store.Product, 0, len(results))
	for i := range results {
		matches = append(matches, &results[i].Product)
	}
	return bestNameMatch(name, matches), ""
}

// normalizeOrderID strips the leading '#' customers often include.
func normalizeOrderID(id string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(id), "#"))
}

func titleStatus(s store.OrderStatus) string {
	str := string(s)
	if str == "" {
		return str
	}
	return strings.ToUpper(str[:1]) + str[1:]
}
