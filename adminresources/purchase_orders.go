package adminresources

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-pagination-cache/paginationcache"
	"github.com/goliatone/go-pagination-cache/pkg/di"
	"github.com/goliatone/go-pagination-cache/restclient"
)

// PurchaseOrdersPrefix is the cache namespace for inbound purchase orders.
const PurchaseOrdersPrefix = "purchase_orders"

const purchaseOrdersPath = "/api/purchase-orders"

// Purchase order statuses accepted by the backend.
var PurchaseOrderStatuses = []any{"draft", "submitted", "approved", "received", "cancelled"}

// PurchaseOrder is an inbound stock order placed with a supplier.
type PurchaseOrder struct {
	ID           string    `json:"id" msgpack:"id"`
	BrandID      string    `json:"brand_id" msgpack:"brand_id"`
	PONumber     string    `json:"po_number" msgpack:"po_number"`
	SupplierID   string    `json:"supplier_id" msgpack:"supplier_id"`
	SupplierName string    `json:"supplier_name" msgpack:"supplier_name"`
	Status       string    `json:"status" msgpack:"status"`
	ExpectedDate time.Time `json:"expected_date,omitempty" msgpack:"expected_date"`
	TotalCost    float64   `json:"total_cost" msgpack:"total_cost"`
}

// Validate enforces the purchase order schema before the record leaves the
// client.
func (po PurchaseOrder) Validate() error {
	return validation.ValidateStruct(&po,
		validation.Field(&po.PONumber, validation.Required),
		validation.Field(&po.SupplierName, validation.Required),
		validation.Field(&po.Status, validation.Required, validation.In(PurchaseOrderStatuses...)),
		validation.Field(&po.TotalCost, validation.Min(0.0)),
	)
}

// PurchaseOrderMatchesFilters evaluates status and supplier_id locally;
// expected-date ranges and anything unrecognized report unknown.
func PurchaseOrderMatchesFilters(po PurchaseOrder, f paginationcache.Filters) (bool, bool) {
	for key, want := range f {
		if want == "" {
			continue
		}
		switch key {
		case "status":
			if po.Status != want {
				return false, true
			}
		case "supplier_id":
			if po.SupplierID != want {
				return false, true
			}
		default:
			return false, false
		}
	}
	return true, true
}

// NewPurchaseOrdersResource builds the purchase order resource for one tenant
// scope. Receiving stock changes inventory levels, so mutations also
// invalidate the inventory namespace.
func NewPurchaseOrdersResource(ctn *di.Container, api *restclient.Client, scope paginationcache.Scope) (*paginationcache.Resource[PurchaseOrder], error) {
	cfg := paginationcache.ResourceConfig[PurchaseOrder]{
		Options: paginationcache.Options{Prefix: PurchaseOrdersPrefix},
		Label:   "purchase order",
		Fetch: func(ctx context.Context, q paginationcache.ListQuery) ([]PurchaseOrder, int, error) {
			return restclient.List[PurchaseOrder](ctx, api, purchaseOrdersPath, q)
		},
		Mutations: paginationcache.Mutations[PurchaseOrder]{
			Create: func(ctx context.Context, record PurchaseOrder) (PurchaseOrder, error) {
				if record.ID == "" {
					record.ID = uuid.NewString()
				}
				if record.BrandID == "" {
					record.BrandID = scope.BrandID
				}
				return restclient.Create(ctx, api, purchaseOrdersPath, record)
			},
			Update: func(ctx context.Context, id string, patch map[string]any) (*PurchaseOrder, error) {
				return restclient.Update[PurchaseOrder](ctx, api, purchaseOrdersPath, id, patch)
			},
			Delete: func(ctx context.Context, id string) error {
				return restclient.Delete(ctx, api, purchaseOrdersPath, id)
			},
		},
		Accepts:    PurchaseOrderMatchesFilters,
		Dependents: []string{InventoryPrefix},
	}

	res, err := di.NewResource(ctn, cfg)
	if err != nil {
		return nil, err
	}
	res.SetScope(scope)
	return res, nil
}
