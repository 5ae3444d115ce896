package adminresources

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-pagination-cache/paginationcache"
	"github.com/goliatone/go-pagination-cache/pkg/di"
	"github.com/goliatone/go-pagination-cache/restclient"
)

// Cache namespaces for the product catalog.
const (
	ProductsPrefix  = "products"
	InventoryPrefix = "inventory"
)

const productsPath = "/api/products"

// Product statuses accepted by the backend.
var ProductStatuses = []any{"active", "draft", "archived"}

// Product is a catalog item scoped to one brand.
type Product struct {
	ID            string  `json:"id" msgpack:"id"`
	BrandID       string  `json:"brand_id" msgpack:"brand_id"`
	Name          string  `json:"name" msgpack:"name"`
	SKU           string  `json:"sku" msgpack:"sku"`
	Category      string  `json:"category,omitempty" msgpack:"category"`
	Status        string  `json:"status" msgpack:"status"`
	Price         float64 `json:"price" msgpack:"price"`
	StockQuantity int     `json:"stock_quantity" msgpack:"stock_quantity"`
}

// Validate enforces the product schema before the record leaves the client.
func (p Product) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.SKU, validation.Required),
		validation.Field(&p.Status, validation.Required, validation.In(ProductStatuses...)),
		validation.Field(&p.Price, validation.Min(0.0)),
		validation.Field(&p.StockQuantity, validation.Min(0)),
	)
}

// ProductMatchesFilters evaluates category and status locally; price ranges
// and anything unrecognized report unknown.
func ProductMatchesFilters(p Product, f paginationcache.Filters) (bool, bool) {
	for key, want := range f {
		if want == "" {
			continue
		}
		switch key {
		case "category":
			if p.Category != want {
				return false, true
			}
		case "status":
			if p.Status != want {
				return false, true
			}
		default:
			return false, false
		}
	}
	return true, true
}

// NewProductsResource builds the product catalog resource for one tenant
// scope. Product mutations also invalidate the inventory namespace, since
// stock views derive from the catalog.
func NewProductsResource(ctn *di.Container, api *restclient.Client, scope paginationcache.Scope) (*paginationcache.Resource[Product], error) {
	cfg := paginationcache.ResourceConfig[Product]{
		Options: paginationcache.Options{Prefix: ProductsPrefix},
		Label:   "product",
		Fetch: func(ctx context.Context, q paginationcache.ListQuery) ([]Product, int, error) {
			return restclient.List[Product](ctx, api, productsPath, q)
		},
		Mutations: paginationcache.Mutations[Product]{
			Create: func(ctx context.Context, record Product) (Product, error) {
				if record.ID == "" {
					record.ID = uuid.NewString()
				}
				if record.BrandID == "" {
					record.BrandID = scope.BrandID
				}
				return restclient.Create(ctx, api, productsPath, record)
			},
			Update: func(ctx context.Context, id string, patch map[string]any) (*Product, error) {
				return restclient.Update[Product](ctx, api, productsPath, id, patch)
			},
			Delete: func(ctx context.Context, id string) error {
				return restclient.Delete(ctx, api, productsPath, id)
			},
		},
		Accepts:    ProductMatchesFilters,
		Dependents: []string{InventoryPrefix},
	}

	res, err := di.NewResource(ctn, cfg)
	if err != nil {
		return nil, err
	}
	res.SetScope(scope)
	return res, nil
}
