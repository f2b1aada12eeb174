package tool

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/chatcommerce/shopagent/store"
	"github.com/chatcommerce/shopagent/store/inmem"
	"github.com/chatcommerce/shopagent/vector"
)

var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newOrderRegistry(t *testing.T, st *inmem.Store, results ...vector.Result) *Registry {
	t.Helper()
	reg, err := NewOrderTools(&fakeSearcher{results: results}, st, WithOrderClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("NewOrderTools: %v", err)
	}
	return reg
}

func TestCreateOrder(t *testing.T) {
	t.Parallel()

	st := seedStore(t).WithClock(func() time.Time { return fixedNow })
	reg := newOrderRegistry(t, st, vector.Result{Product: laptop(), Score: 0.95})

	out := callTool(t, reg, ToolCreateOrder, map[string]any{
		"product_name":  "UltraBook Pro 15",
		"quantity":      float64(2),
		"customer_info": map[string]any{"email": "jane@example.com"},
	})
	payload := out.(CreateOrderPayload)
	if !payload.Success {
		t.Fatalf("create failed: %s", payload.Error)
	}
	if !strings.HasPrefix(payload.OrderID, "ORD-20250601-") {
		t.Fatalf("order id = %q, want ORD-20250601-XXXXXXXX", payload.OrderID)
	}
	if payload.TotalPrice != 2599.98 {
		t.Fatalf("total = %.2f, want 2599.98", payload.TotalPrice)
	}
	wantMsg := "Order confirmed! Your order for 2x UltraBook Pro 15 has been placed successfully. Total: $2599.98 Order ID: #" + payload.OrderID
	if payload.Message != wantMsg {
		t.Fatalf("message = %q, want %q", payload.Message, wantMsg)
	}

	saved, err := st.Order(context.Background(), payload.OrderID)
	if err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if saved.Status != store.OrderPending {
		t.Fatalf("status = %s, want pending", saved.Status)
	}
	if saved.CustomerInfo["email"] != "jane@example.com" {
		t.Fatalf("customer info not persisted: %+v", saved.CustomerInfo)
	}
}

func TestCreateOrderRejectsBadQuantity(t *testing.T) {
	t.Parallel()

	reg := newOrderRegistry(t, seedStore(t), vector.Result{Product: laptop()})

	out := callTool(t, reg, ToolCreateOrder, map[string]any{
		"product_name": "UltraBook Pro 15",
		"quantity":     float64(0),
	})
	payload := out.(CreateOrderPayload)
	if payload.Success {
		t.Fatal("expected rejection for zero quantity")
	}
	if !strings.Contains(payload.Error, "quantity") {
		t.Fatalf("error should mention quantity, got %q", payload.Error)
	}
}

func TestCreateOrderOutOfStock(t *testing.T) {
	t.Parallel()

	reg := newOrderRegistry(t, seedStore(t), vector.Result{Product: headphones()})

	out := callTool(t, reg, ToolCreateOrder, map[string]any{"product_name": "SoundMax Headphones"})
	payload := out.(CreateOrderPayload)
	if payload.Success {
		t.Fatal("expected rejection for out-of-stock product")
	}
	if !strings.Contains(payload.Error, "out of stock") {
		t.Fatalf("error should say out of stock, got %q", payload.Error)
	}
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	t.Parallel()

	reg := newOrderRegistry(t, seedStore(t))

	out := callTool(t, reg, ToolCreateOrder, map[string]any{"product_name": "Quantum Toaster"})
	payload := out.(CreateOrderPayload)
	if payload.Success {
		t.Fatal("expected rejection for unknown product")
	}
	if payload.Error != "Product 'Quantum Toaster' not found" {
		t.Fatalf("unexpected error %q", payload.Error)
	}
}

func TestCreateOrderPrefersExactNameMatch(t *testing.T) {
	t.Parallel()

	other := laptop()
	other.ProductID = "PROD-009"
	other.Name = "UltraBook Pro 15 Max"
	other.Price = 1899.99

	// Fuzzy search ranks the wrong variant first; the exact name wins.
	reg := newOrderRegistry(t, seedStore(t),
		vector.Result{Product: other, Score: 0.99},
		vector.Result{Product: laptop(), Score: 0.90},
	)

	out := callTool(t, reg, ToolCreateOrder, map[string]any{"product_name": "UltraBook Pro 15"})
	payload := out.(CreateOrderPayload)
	if !payload.Success {
		t.Fatalf("create failed: %s", payload.Error)
	}
	if payload.ProductID != "PROD-001" {
		t.Fatalf("ordered %s, want exact match PROD-001", payload.ProductID)
	}
}

func TestGetOrderStatus(t *testing.T) {
	t.Parallel()

	st := seedStore(t).WithClock(func() time.Time { return fixedNow })
	order, err := store.NewOrder("UltraBook Pro 15", "PROD-001", 1, 1299.99, 1299.99, nil, fixedNow)
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}
	orderID, err := st.CreateOrder(context.Background(), order)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	reg := newOrderRegistry(t, st)

	out := callTool(t, reg, ToolGetOrderStatus, map[string]any{"order_id": "#" + orderID})
	payload := out.(OrderStatusPayload)
	if !payload.Success {
		t.Fatalf("status lookup failed: %s", payload.Error)
	}
	wantMsg := "Order #" + orderID + ": 1x UltraBook Pro 15 - Status: Pending"
	if payload.Message != wantMsg {
		t.Fatalf("message = %q, want %q", payload.Message, wantMsg)
	}

	out = callTool(t, reg, ToolGetOrderStatus, map[string]any{"order_id": "ORD-20250601-MISSING1"})
	payload = out.(OrderStatusPayload)
	if payload.Success {
		t.Fatal("expected failure for unknown order")
	}
}

func TestValidateOrderDetails(t *testing.T) {
	t.Parallel()

	reg := newOrderRegistry(t, seedStore(t), vector.Result{Product: laptop()})

	out := callTool(t, reg, ToolValidateOrderDetails, map[string]any{
		"product_name": "UltraBook Pro 15",
		"quantity":     float64(3),
	})
	payload := out.(ValidateOrderPayload)
	if !payload.Success || !payload.Valid {
		t.Fatalf("expected valid order, got %+v", payload)
	}
	if payload.TotalPrice != 3899.97 {
		t.Fatalf("total = %.2f, want 3899.97", payload.TotalPrice)
	}
}

func TestValidateOrderDetailsOutOfStock(t *testing.T) {
	t.Parallel()

	reg := newOrderRegistry(t, seedStore(t), vector.Result{Product: headphones()})

	out := callTool(t, reg, ToolValidateOrderDetails, map[string]any{"product_name": "SoundMax Headphones"})
	payload := out.(ValidateOrderPayload)
	if !payload.Success {
		t.Fatalf("lookup failed: %s", payload.Error)
	}
	if payload.Valid || payload.Available {
		t.Fatalf("expected invalid order for out-of-stock product, got %+v", payload)
	}
}

func TestCancelOrder(t *testing.T) {
	t.Parallel()

	st := seedStore(t)
	order, err := store.NewOrder("UltraBook Pro 15", "PROD-001", 1, 1299.99, 1299.99, nil, fixedNow)
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}
	orderID, err := st.CreateOrder(context.Background(), order)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	reg := newOrderRegistry(t, st)

	out := callTool(t, reg, ToolCancelOrder, map[string]any{"order_id": orderID})
	payload := out.(CancelOrderPayload)
	if !payload.Success {
		t.Fatalf("cancel failed: %s", payload.Error)
	}

	saved, err := st.Order(context.Background(), orderID)
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	if saved.Status != store.OrderCancelled {
		t.Fatalf("status = %s, want cancelled", saved.Status)
	}
}

func TestCancelOrderRejectsShipped(t *testing.T) {
	t.Parallel()

	st := seedStore(t)
	order, err := store.NewOrder("UltraBook Pro 15", "PROD-001", 1, 1299.99, 1299.99, nil, fixedNow)
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}
	orderID, err := st.CreateOrder(context.Background(), order)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if err := st.UpdateOrderStatus(context.Background(), orderID, store.OrderShipped); err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}

	reg := newOrderRegistry(t, st)

	out := callTool(t, reg, ToolCancelOrder, map[string]any{"order_id": orderID})
	payload := out.(CancelOrderPayload)
	if payload.Success {
		t.Fatal("expected rejection for shipped order")
	}
	if !strings.Contains(payload.Error, "shipped") {
		t.Fatalf("error should name the status, got %q", payload.Error)
	}

	saved, err := st.Order(context.Background(), orderID)
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	if saved.Status != store.OrderShipped {
		t.Fatalf("status mutated to %s, want shipped", saved.Status)
	}
}
