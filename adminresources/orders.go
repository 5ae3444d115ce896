package adminresources

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/goliatone/go-pagination-cache/cache"
	"github.com/goliatone/go-pagination-cache/paginationcache"
	"github.com/goliatone/go-pagination-cache/pkg/di"
	"github.com/goliatone/go-pagination-cache/restclient"
)

// Cache namespaces for the orders entity.
const (
	OrdersPrefix     = "orders"
	OrderStatsPrefix = "order_stats"
)

const ordersPath = "/api/orders"

// Order statuses accepted by the backend.
var OrderStatuses = []any{"pending", "processing", "shipped", "delivered", "cancelled"}

// Payment statuses accepted by the backend.
var PaymentStatuses = []any{"pending", "paid", "refunded", "failed"}

// Order is a customer order scoped to one brand.
type Order struct {
	ID            string    `json:"id" msgpack:"id"`
	BrandID       string    `json:"brand_id" msgpack:"brand_id"`
	OrderNumber   string    `json:"order_number" msgpack:"order_number"`
	CustomerID    string    `json:"customer_id" msgpack:"customer_id"`
	CustomerName  string    `json:"customer_name" msgpack:"customer_name"`
	CustomerEmail string    `json:"customer_email,omitempty" msgpack:"customer_email"`
	OrderStatus   string    `json:"order_status" msgpack:"order_status"`
	PaymentStatus string    `json:"payment_status" msgpack:"payment_status"`
	TotalAmount   float64   `json:"total_amount" msgpack:"total_amount"`
	Currency      string    `json:"currency,omitempty" msgpack:"currency"`
	OrderDate     time.Time `json:"order_date" msgpack:"order_date"`
	CreatedAt     time.Time `json:"created_at,omitempty" msgpack:"created_at"`
}

// Validate enforces the order schema before the record leaves the client.
func (o Order) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.OrderNumber, validation.Required),
		validation.Field(&o.CustomerName, validation.Required),
		validation.Field(&o.CustomerEmail, is.Email),
		validation.Field(&o.OrderStatus, validation.Required, validation.In(OrderStatuses...)),
		validation.Field(&o.PaymentStatus, validation.Required, validation.In(PaymentStatuses...)),
		validation.Field(&o.TotalAmount, validation.Min(0.0)),
	)
}

// OrderMatchesFilters reports whether an order satisfies a filter set.
// order_status, payment_status, and customer_id are evaluable locally; date
// ranges and anything unrecognized report unknown so the page falls back to
// reconciliation.
func OrderMatchesFilters(o Order, f paginationcache.Filters) (bool, bool) {
	for key, want := range f {
		if want == "" {
			continue
		}
		switch key {
		case "order_status":
			if o.OrderStatus != want {
				return false, true
			}
		case "payment_status":
			if o.PaymentStatus != want {
				return false, true
			}
		case "customer_id":
			if o.CustomerID != want {
				return false, true
			}
		default:
			return false, false
		}
	}
	return true, true
}

// NewOrdersResource builds the orders list resource for one tenant scope.
func NewOrdersResource(ctn *di.Container, api *restclient.Client, scope paginationcache.Scope) (*paginationcache.Resource[Order], error) {
	cfg := paginationcache.ResourceConfig[Order]{
		Options: paginationcache.Options{Prefix: OrdersPrefix},
		Label:   "order",
		Fetch: func(ctx context.Context, q paginationcache.ListQuery) ([]Order, int, error) {
			return restclient.List[Order](ctx, api, ordersPath, q)
		},
		Mutations: paginationcache.Mutations[Order]{
			Create: func(ctx context.Context, record Order) (Order, error) {
				if record.ID == "" {
					record.ID = uuid.NewString()
				}
				if record.BrandID == "" {
					record.BrandID = scope.BrandID
				}
				return restclient.Create(ctx, api, ordersPath, record)
			},
			Update: func(ctx context.Context, id string, patch map[string]any) (*Order, error) {
				return restclient.Update[Order](ctx, api, ordersPath, id, patch)
			},
			Delete: func(ctx context.Context, id string) error {
				return restclient.Delete(ctx, api, ordersPath, id)
			},
		},
		Accepts:    OrderMatchesFilters,
		Dependents: []string{OrderStatsPrefix},
	}

	res, err := di.NewResource(ctn, cfg)
	if err != nil {
		return nil, err
	}
	res.SetScope(scope)
	return res, nil
}

// OrderSummaryStats aggregates a scope's orders for the dashboard.
type OrderSummaryStats struct {
	TotalOrders  int            `json:"total_orders" msgpack:"total_orders"`
	TotalRevenue float64        `json:"total_revenue" msgpack:"total_revenue"`
	StatusCounts map[string]int `json:"status_counts" msgpack:"status_counts"`
}

// FetchOrderStats returns the cached order summary for a scope. The entry
// lives in the order_stats namespace, which every order mutation
// invalidates, so the dashboard converges on its next read.
func FetchOrderStats(ctx context.Context, ctn *di.Container, api *restclient.Client, scope paginationcache.Scope) (OrderSummaryStats, error) {
	key := ctn.KeySerializer().SerializeKey(OrderStatsPrefix, scope.BrandID, scope.UserID)
	return cache.GetOrFetch(ctx, ctn.CacheService(), key, func(ctx context.Context) (OrderSummaryStats, error) {
		return restclient.Get[OrderSummaryStats](ctx, api, ordersPath+"/stats/summary", map[string]string{
			"organization_id": scope.BrandID,
			"user_id":         scope.UserID,
		})
	})
}
