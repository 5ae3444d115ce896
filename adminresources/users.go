package adminresources

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/goliatone/go-pagination-cache/paginationcache"
	"github.com/goliatone/go-pagination-cache/pkg/di"
	"github.com/goliatone/go-pagination-cache/restclient"
)

// UsersPrefix is the cache namespace for the user management views.
const UsersPrefix = "admin_users"

const usersPath = "/api/users"

// Roles a console user can hold.
var UserRoles = []any{"owner", "admin", "member", "viewer"}

// User statuses accepted by the backend.
var UserStatuses = []any{"active", "invited", "suspended"}

// User is a console user belonging to one brand.
type User struct {
	ID       string `json:"id" msgpack:"id"`
	BrandID  string `json:"brand_id" msgpack:"brand_id"`
	Email    string `json:"email" msgpack:"email"`
	FullName string `json:"full_name" msgpack:"full_name"`
	Role     string `json:"role" msgpack:"role"`
	Status   string `json:"status" msgpack:"status"`
}

// Validate enforces the user schema before the record leaves the client.
func (u User) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Email, validation.Required, is.Email),
		validation.Field(&u.FullName, validation.Required),
		validation.Field(&u.Role, validation.Required, validation.In(UserRoles...)),
		validation.Field(&u.Status, validation.Required, validation.In(UserStatuses...)),
	)
}

// UserMatchesFilters evaluates role and status locally.
func UserMatchesFilters(u User, f paginationcache.Filters) (bool, bool) {
	for key, want := range f {
		if want == "" {
			continue
		}
		switch key {
		case "role":
			if u.Role != want {
				return false, true
			}
		case "status":
			if u.Status != want {
				return false, true
			}
		default:
			return false, false
		}
	}
	return true, true
}

// NewUsersResource builds the user management resource for one tenant scope.
func NewUsersResource(ctn *di.Container, api *restclient.Client, scope paginationcache.Scope) (*paginationcache.Resource[User], error) {
	cfg := paginationcache.ResourceConfig[User]{
		Options: paginationcache.Options{Prefix: UsersPrefix},
		Label:   "user",
		Fetch: func(ctx context.Context, q paginationcache.ListQuery) ([]User, int, error) {
			return restclient.List[User](ctx, api, usersPath, q)
		},
		Mutations: paginationcache.Mutations[User]{
			Create: func(ctx context.Context, record User) (User, error) {
				if record.ID == "" {
					record.ID = uuid.NewString()
				}
				if record.BrandID == "" {
					record.BrandID = scope.BrandID
				}
				return restclient.Create(ctx, api, usersPath, record)
			},
			Update: func(ctx context.Context, id string, patch map[string]any) (*User, error) {
				return restclient.Update[User](ctx, api, usersPath, id, patch)
			},
			Delete: func(ctx context.Context, id string) error {
				return restclient.Delete(ctx, api, usersPath, id)
			},
		},
		Accepts: UserMatchesFilters,
	}

	res, err := di.NewResource(ctn, cfg)
	if err != nil {
		return nil, err
	}
	res.SetScope(scope)
	return res, nil
}
