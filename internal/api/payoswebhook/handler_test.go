package payoswebhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"course-app/internal/payments"
)

const testChecksumKey = "test-checksum-key"

type fakeReconciler struct {
	calls []struct {
		orderCode int64
		succeeded bool
	}
	err error
}

func (f *fakeReconciler) HandleQrPayment(_ context.Context, orderCode int64, succeeded bool) error {
	f.calls = append(f.calls, struct {
		orderCode int64
		succeeded bool
	}{orderCode, succeeded})
	return f.err
}

func newTestRouter(rec *fakeReconciler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhook/payos", NewHandler(rec).Handle)
	return r
}

func signedBody(t *testing.T, data map[string]interface{}) []byte {
	t.Helper()
	sig, err := payments.Sign(data, testChecksumKey)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	raw, err := json.Marshal(map[string]interface{}{
		"code":      "00",
		"desc":      "success",
		"success":   true,
		"data":      data,
		"signature": sig,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

func post(r *gin.Engine, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/payos", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookValidSignature(t *testing.T) {
	t.Setenv("PAYOS_CHECKSUM_KEY", testChecksumKey)
	t.Setenv("PAYOS_SKIP_SIGNATURE", "")

	rec := &fakeReconciler{}
	r := newTestRouter(rec)

	body := signedBody(t, map[string]interface{}{
		"orderCode": float64(1700000000123007),
		"amount":    float64(1200000),
		"code":      "00",
		"desc":      "success",
	})
	w := post(r, body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	if len(rec.calls) != 1 {
		t.Fatalf("reconciler calls = %d, want 1", len(rec.calls))
	}
	if rec.calls[0].orderCode != 1700000000123007 || !rec.calls[0].succeeded {
		t.Fatalf("call = %+v", rec.calls[0])
	}
}

func TestWebhookTamperedSignature(t *testing.T) {
	t.Setenv("PAYOS_CHECKSUM_KEY", testChecksumKey)
	t.Setenv("PAYOS_SKIP_SIGNATURE", "")

	rec := &fakeReconciler{}
	r := newTestRouter(rec)

	data := map[string]interface{}{
		"orderCode": float64(42),
		"amount":    float64(1200000),
		"code":      "00",
	}
	raw := signedBody(t, data)

	// Flip the amount after signing.
	var payload map[string]interface{}
	json.Unmarshal(raw, &payload)
	payload["data"].(map[string]interface{})["amount"] = float64(1)
	tampered, _ := json.Marshal(payload)

	w := post(r, tampered)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if len(rec.calls) != 0 {
		t.Fatal("tampered webhook must never reach the reconciler")
	}
}

func TestWebhookMalformedBody(t *testing.T) {
	rec := &fakeReconciler{}
	r := newTestRouter(rec)

	w := post(r, []byte("{not json"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestWebhookMissingChecksumKey(t *testing.T) {
	t.Setenv("PAYOS_CHECKSUM_KEY", "")
	t.Setenv("PAYOS_SKIP_SIGNATURE", "")

	rec := &fakeReconciler{}
	r := newTestRouter(rec)

	w := post(r, signedBody(t, map[string]interface{}{"orderCode": float64(1), "code": "00"}))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 when the key is unset", w.Code)
	}
}

func TestWebhookMissingOrderCode(t *testing.T) {
	t.Setenv("PAYOS_CHECKSUM_KEY", testChecksumKey)
	t.Setenv("PAYOS_SKIP_SIGNATURE", "")

	rec := &fakeReconciler{}
	r := newTestRouter(rec)

	w := post(r, signedBody(t, map[string]interface{}{"amount": float64(1200000), "code": "00"}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestWebhookReconcilerFailureRetriable(t *testing.T) {
	t.Setenv("PAYOS_CHECKSUM_KEY", testChecksumKey)
	t.Setenv("PAYOS_SKIP_SIGNATURE", "")

	rec := &fakeReconciler{err: errors.New("db down")}
	r := newTestRouter(rec)

	w := post(r, signedBody(t, map[string]interface{}{"orderCode": float64(7), "code": "00"}))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 so the provider retries", w.Code)
	}
}

func TestWebhookSkipSignatureOutsideProduction(t *testing.T) {
	t.Setenv("PAYOS_CHECKSUM_KEY", testChecksumKey)
	t.Setenv("PAYOS_SKIP_SIGNATURE", "true")
	t.Setenv("APP_ENV", "development")

	rec := &fakeReconciler{}
	r := newTestRouter(rec)

	raw, _ := json.Marshal(map[string]interface{}{
		"code":      "00",
		"success":   true,
		"data":      map[string]interface{}{"orderCode": float64(9), "code": "00"},
		"signature": "not-a-real-signature",
	})
	w := post(r, raw)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with bypass on", w.Code)
	}

	// The bypass is ignored in production.
	t.Setenv("APP_ENV", "production")
	rec2 := &fakeReconciler{}
	r2 := newTestRouter(rec2)
	w2 := post(r2, raw)
	if w2.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 in production", w2.Code)
	}
	if len(rec2.calls) != 0 {
		t.Fatal("bypass must not work in production")
	}
}
