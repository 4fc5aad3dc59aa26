package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payments/pay_123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key_id" || pass != "key_secret" {
			t.Errorf("missing or wrong basic auth")
		}
		w.Header().Set("Content-Type", "application/json")
		// offering id arrives as a bare number in free-form notes
		w.Write([]byte(`{
			"id": "pay_123",
			"order_id": "order_9",
			"status": "captured",
			"amount": 300000,
			"notes": {"name": "Asha", "email": "a@x.com", "phone": "111", "course_offering_id": 6}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key_id", "key_secret")
	p, err := c.GetPayment(context.Background(), "pay_123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != StatusCaptured {
		t.Fatalf("expected captured, got %s", p.Status)
	}
	if p.Amount != 300000 {
		t.Fatalf("expected amount 300000, got %d", p.Amount)
	}
	if p.Notes.OfferingID.String() != "6" {
		t.Fatalf("expected offering id 6, got %q", p.Notes.OfferingID)
	}
}

func TestGetPaymentNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":"BAD_REQUEST_ERROR"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key_id", "key_secret")
	if _, err := c.GetPayment(context.Background(), "pay_404"); err == nil {
		t.Fatal("expected error on non-2xx")
	}
}
