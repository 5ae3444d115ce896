package restclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-pagination-cache/paginationcache"
)

type testRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestList_ParameterMapping(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		json.NewEncoder(w).Encode(map[string]any{
			"data":  []testRecord{{ID: "1", Name: "a"}},
			"total": 42,
		})
	}))
	defer server.Close()

	client := New(server.URL, WithToken("secret-token"))
	q := paginationcache.ListQuery{
		Page:     2,
		PageSize: 25,
		Scope:    paginationcache.Scope{BrandID: "brand-1", UserID: "user-1"},
		Filters:  paginationcache.Filters{"order_status": "shipped", "empty": ""},
		Search:   "acme",
	}

	records, total, err := List[testRecord](context.Background(), client, "/api/orders", q)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 1 || total != 42 {
		t.Errorf("expected 1 record of 42, got %d of %d", len(records), total)
	}

	params := captured.URL.Query()
	if params.Get("limit") != "25" {
		t.Errorf("expected limit=25, got %q", params.Get("limit"))
	}
	if params.Get("offset") != "50" {
		t.Errorf("expected offset=50 for page 2 size 25, got %q", params.Get("offset"))
	}
	if params.Get("organization_id") != "brand-1" {
		t.Errorf("expected organization_id=brand-1, got %q", params.Get("organization_id"))
	}
	if params.Get("user_id") != "user-1" {
		t.Errorf("expected user_id=user-1, got %q", params.Get("user_id"))
	}
	if params.Get("search") != "acme" {
		t.Errorf("expected search=acme, got %q", params.Get("search"))
	}
	if params.Get("order_status") != "shipped" {
		t.Errorf("expected order_status=shipped, got %q", params.Get("order_status"))
	}
	if params.Has("empty") {
		t.Error("empty filter values must not be sent")
	}
	if got := captured.Header.Get("Authorization"); got != "Bearer secret-token" {
		t.Errorf("expected bearer token header, got %q", got)
	}
}

func TestList_NetworkFailureBecomesFetchFailed(t *testing.T) {
	client := New("http://127.0.0.1:1") // nothing listens here

	_, _, err := List[testRecord](context.Background(), client, "/api/orders", paginationcache.ListQuery{PageSize: 25})
	if !errors.Is(err, paginationcache.ErrFetchFailed) {
		t.Errorf("expected fetch-failed kind on the read path, got %v", err)
	}
}

func TestStatusErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, paginationcache.ErrUnauthenticated},
		{http.StatusForbidden, paginationcache.ErrUnauthenticated},
		{http.StatusBadRequest, paginationcache.ErrValidationRejected},
		{http.StatusConflict, paginationcache.ErrValidationRejected},
		{http.StatusUnprocessableEntity, paginationcache.ErrValidationRejected},
		{http.StatusInternalServerError, paginationcache.ErrNetworkFailure},
	}

	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			json.NewEncoder(w).Encode(map[string]string{"detail": "nope"})
		}))

		client := New(server.URL)
		_, err := Create(context.Background(), client, "/api/orders", testRecord{ID: "1"})
		server.Close()

		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: expected kind %v, got %v", tc.status, tc.want, err)
		}

		var kinded *paginationcache.Error
		if !errors.As(err, &kinded) {
			t.Fatalf("status %d: expected kinded error, got %T", tc.status, err)
		}
		if kinded.Message != "nope" {
			t.Errorf("status %d: expected detail message, got %q", tc.status, kinded.Message)
		}
	}
}

func TestCreate_DecodesCreatedEntity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}

		var record testRecord
		json.NewDecoder(r.Body).Decode(&record)
		record.ID = "server-assigned"
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(record)
	}))
	defer server.Close()

	client := New(server.URL)
	created, err := Create(context.Background(), client, "/api/orders", testRecord{Name: "a"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID != "server-assigned" {
		t.Errorf("expected server-assigned id, got %q", created.ID)
	}
}

func TestUpdate_WithAndWithoutBody(t *testing.T) {
	withBody := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		if r.URL.Path != "/api/orders/id-1" {
			t.Errorf("expected id in path, got %q", r.URL.Path)
		}
		if withBody {
			json.NewEncoder(w).Encode(testRecord{ID: "id-1", Name: "fresh"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := New(server.URL)

	updated, err := Update[testRecord](context.Background(), client, "/api/orders", "id-1", map[string]any{"name": "fresh"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated == nil || updated.Name != "fresh" {
		t.Errorf("expected updated record, got %+v", updated)
	}

	withBody = false
	updated, err = Update[testRecord](context.Background(), client, "/api/orders", "id-1", map[string]any{"name": "fresh"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated != nil {
		t.Errorf("204 response should yield a nil record, got %+v", updated)
	}
}

func TestDelete(t *testing.T) {
	deleted := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete && r.URL.Path == "/api/orders/id-9" {
			deleted = true
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := New(server.URL)
	if err := Delete(context.Background(), client, "/api/orders", "id-9"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !deleted {
		t.Error("delete request never reached the server")
	}
}

func TestGet_SingleObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("organization_id"); got != "brand-1" {
			t.Errorf("expected organization_id param, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"total_orders": 12})
	}))
	defer server.Close()

	type stats struct {
		TotalOrders int `json:"total_orders"`
	}

	client := New(server.URL)
	got, err := Get[stats](context.Background(), client, "/api/orders/stats/summary", map[string]string{
		"organization_id": "brand-1",
	})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.TotalOrders != 12 {
		t.Errorf("expected 12 total orders, got %d", got.TotalOrders)
	}
}
