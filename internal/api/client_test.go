package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/xerpia/erp-console/internal/core/domain"
)

func testClient(srv *httptest.Server) *Client {
	return NewClient(srv.URL, srv.Client(), zerolog.Nop())
}

func TestPagination_Values(t *testing.T) {
	var p *Pagination
	if got := p.Values().Encode(); got != "" {
		t.Fatalf("nil pagination encoded %q, want empty", got)
	}

	p = &Pagination{Page: 2, Limit: 25, SortBy: "name", SortOrder: "desc"}
	v := p.Values()
	if v.Get("page") != "2" || v.Get("limit") != "25" || v.Get("sortBy") != "name" || v.Get("sortOrder") != "desc" {
		t.Fatalf("unexpected values: %v", v)
	}

	p = &Pagination{Limit: 10}
	v = p.Values()
	if _, ok := v["page"]; ok {
		t.Fatalf("unset page must be omitted")
	}
}

func TestProductList_BuildsQueryAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("page") != "3" || q.Get("limit") != "5" {
			t.Fatalf("unexpected query %v", q)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Fatalf("missing X-Request-ID header")
		}
		_ = json.NewEncoder(w).Encode(domain.Envelope[[]domain.Product]{
			Success: true,
			Data: []domain.Product{
				{ID: "p1", Name: "Widget", SKU: "W-1", Stock: 3, MinStock: 5},
				{ID: "p2", Name: "Gadget", SKU: "G-1", Stock: 50, MinStock: 5},
			},
		})
	}))
	defer srv.Close()

	products, err := testClient(srv).Products().List(context.Background(), &Pagination{Page: 3, Limit: 5})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}
	if !products[0].LowStock() {
		t.Fatalf("p1 should report low stock")
	}
	if products[1].LowStock() {
		t.Fatalf("p2 should not report low stock")
	}
}

func TestSearch_EncodesQueryParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query"); got != "steel bolt" {
			t.Fatalf("query param = %q", got)
		}
		_ = json.NewEncoder(w).Encode(domain.Envelope[[]domain.Product]{Success: true})
	}))
	defer srv.Close()

	if _, err := testClient(srv).Products().Search(context.Background(), "steel bolt", nil); err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
}

func TestErrorCategoryMapping(t *testing.T) {
	cases := []struct {
		status int
		want   domain.ErrorCategory
	}{
		{http.StatusForbidden, domain.ErrForbidden},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusInternalServerError, domain.ErrServerError},
		{http.StatusBadGateway, domain.ErrServerError},
		{http.StatusBadRequest, domain.ErrBadRequest},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_ = json.NewEncoder(w).Encode(domain.Envelope[any]{Success: false, Message: "nope"})
		}))

		_, err := testClient(srv).Providers().Get(context.Background(), "x")
		srv.Close()

		if err == nil {
			t.Fatalf("status %d: expected error", tc.status)
		}
		var apiErr *domain.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("status %d: error %T is not an APIError", tc.status, err)
		}
		if apiErr.Category != tc.want {
			t.Fatalf("status %d: category = %q, want %q", tc.status, apiErr.Category, tc.want)
		}
		if apiErr.Message != tc.want.UserMessage() {
			t.Fatalf("status %d: message = %q, want %q", tc.status, apiErr.Message, tc.want.UserMessage())
		}
	}
}

func TestNetworkFailureMapsToUnreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", nil, zerolog.Nop())
	_, err := c.Users().List(context.Background(), nil)
	if got := domain.ErrorCategoryOf(err); got != domain.ErrNetworkUnreachable {
		t.Fatalf("category = %q, want %q", got, domain.ErrNetworkUnreachable)
	}
}

func TestUpdateStock_SendsPatchPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Fatalf("method = %s, want PATCH", r.Method)
		}
		if r.URL.Path != "/products/p1/stock" {
			t.Fatalf("path = %q", r.URL.Path)
		}
		var body struct {
			Stock int `json:"stock"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Stock != 42 {
			t.Fatalf("stock = %d, want 42", body.Stock)
		}
		_ = json.NewEncoder(w).Encode(domain.Envelope[*domain.Product]{
			Success: true,
			Data:    &domain.Product{ID: "p1", Stock: 42},
		})
	}))
	defer srv.Close()

	product, err := testClient(srv).Products().UpdateStock(context.Background(), "p1", 42)
	if err != nil {
		t.Fatalf("UpdateStock returned error: %v", err)
	}
	if product.Stock != 42 {
		t.Fatalf("stock = %d, want 42", product.Stock)
	}
}

func TestDelete_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Fatalf("method = %s, want DELETE", r.Method)
		}
		_ = json.NewEncoder(w).Encode(domain.Envelope[any]{Success: true})
	}))
	defer srv.Close()

	if err := testClient(srv).Providers().Delete(context.Background(), "prov-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
}
