package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/freshcart/internal/apperr"
	"github.com/freshcart/internal/config"
	"github.com/freshcart/internal/constants"
	"github.com/freshcart/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(config.APIConfig{
		BaseURL:   server.URL + "/api",
		Key:       "static-key",
		KeyHeader: "X-API-Key",
		TimeoutMS: 500,
	})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	return client
}

func TestLoginSendsKeyAndDecodes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "static-key" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("login should not carry bearer token")
		}
		var creds Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != "ada@example.com" {
			t.Errorf("unexpected email %s", creds.Email)
		}
		_, _ = w.Write([]byte(`{"user":{"id":42,"name":"Ada"},"token":"tok-1"}`))
	})

	result, err := client.Login(context.Background(), Credentials{Email: "ada@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.User.ID != "42" || result.Token != "tok-1" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestBearerTokenAndIdempotencyKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			t.Errorf("unexpected authorization %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get(constants.HeaderIdempotencyKey) != "idem-1" {
			t.Errorf("missing idempotency key")
		}
		_, _ = w.Write([]byte(`{"id":"o-1","status":"placed","total":"24.59"}`))
	})

	order, err := client.PlaceOrder(context.Background(), "tok-1", "idem-1", OrderRequest{})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if order.ID != "o-1" || order.Total.String() != "24.59" {
		t.Fatalf("unexpected order: %+v", order)
	}
}

func TestServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
	})

	_, err := client.Login(context.Background(), Credentials{})
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected server error, got %v", err)
	}
	if serverErr.Status != http.StatusUnauthorized || serverErr.Message != "invalid credentials" {
		t.Fatalf("unexpected server error: %+v", serverErr)
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("401 should match ErrUnauthorized")
	}
	if errors.Is(err, ErrInvalidResponse) || errors.Is(err, ErrNetwork) {
		t.Fatalf("server error should be distinct from other failures")
	}
}

func TestNotFoundMatchesKind(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	_, err := client.GetProduct(context.Background(), "missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInvalidResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})
	_, err := client.GetProduct(context.Background(), "1")
	if !errors.Is(err, ErrInvalidResponse) {
		t.Fatalf("expected invalid response, got %v", err)
	}
}

func TestTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	_, err := client.ListOrders(context.Background(), "tok")
	if !errors.Is(err, ErrTimeout) || !errors.Is(err, apperr.ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if !apperr.Retryable(err) {
		t.Fatalf("timeout should be retryable")
	}
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := New(config.APIConfig{BaseURL: baseURL, TimeoutMS: 500})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	_, err = client.ListAddresses(context.Background(), "tok")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestListProductsQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("category") != "fruit" || q.Get("sort") != "price_asc" || q.Get("page") != "1" || q.Get("page_size") != "20" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"items":[{"id":"p1","name":"Apple","selling_price":1.25}],"total":1}`))
	})

	page, err := client.ListProducts(context.Background(), ProductQuery{Category: " fruit ", Sort: "PRICE_ASC"})
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if page.Total != 1 || page.Items[0].EffectivePrice().String() != "1.25" {
		t.Fatalf("unexpected page: %+v", page)
	}

	if _, err := client.ListProducts(context.Background(), ProductQuery{Sort: "random"}); !errors.Is(err, ErrInvalidSort) {
		t.Fatalf("expected invalid sort, got %v", err)
	}
}

func TestDeleteAddress(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/addresses/a-1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := client.DeleteAddress(context.Background(), "tok", models.ID("a-1")); err != nil {
		t.Fatalf("delete address failed: %v", err)
	}
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	if _, err := New(config.APIConfig{}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected config invalid, got %v", err)
	}
}
