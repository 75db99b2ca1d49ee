package httpserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWebhook_QueryParameters(t *testing.T) {
	payments := &stubPayments{}
	router := newTestRouter(Deps{Payments: payments})

	req := httptest.NewRequest(http.MethodPost, "/api/mercadopago/webhook?type=payment&data.id=555", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if payments.last == nil || payments.last.Topic != "payment" || payments.last.PaymentID != "555" {
		t.Fatalf("notification not forwarded: %+v", payments.last)
	}
}

func TestWebhook_BodyFallback(t *testing.T) {
	payments := &stubPayments{}
	router := newTestRouter(Deps{Payments: payments})

	body := `{"type": "payment", "action": "payment.created", "data": {"id": 123456}}`
	req := httptest.NewRequest(http.MethodPost, "/api/mercadopago/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if payments.last.PaymentID != "123456" {
		t.Fatalf("numeric body id not extracted: %+v", payments.last)
	}
	if payments.last.Action != "payment.created" {
		t.Fatalf("action not extracted: %+v", payments.last)
	}
}

func TestWebhook_TopicQueryParameter(t *testing.T) {
	payments := &stubPayments{}
	router := newTestRouter(Deps{Payments: payments})

	req := httptest.NewRequest(http.MethodPost, "/api/mercadopago/webhook?topic=payment&id=777", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if payments.last.Topic != "payment" || payments.last.PaymentID != "777" {
		t.Fatalf("notification not forwarded: %+v", payments.last)
	}
}

func TestWebhook_UnrelatedTopicStillAcknowledged(t *testing.T) {
	payments := &stubPayments{}
	router := newTestRouter(Deps{Payments: payments})

	req := httptest.NewRequest(http.MethodPost, "/api/mercadopago/webhook?type=merchant_order&id=9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
}

func TestWebhook_MalformedBodyAcknowledged(t *testing.T) {
	router := newTestRouter(Deps{Payments: &stubPayments{}})

	req := httptest.NewRequest(http.MethodPost, "/api/mercadopago/webhook", strings.NewReader(`not-json`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
}

func TestWebhook_ReconcileErrorIs500(t *testing.T) {
	payments := &stubPayments{err: errors.New("gateway unavailable")}
	router := newTestRouter(Deps{Payments: payments})

	req := httptest.NewRequest(http.MethodPost, "/api/mercadopago/webhook?type=payment&id=555", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}
