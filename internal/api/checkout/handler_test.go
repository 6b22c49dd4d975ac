package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"course-app/internal/domain/orders"
	"course-app/internal/payments"
)

type fakeBilling struct {
	intent     *payments.CardIntent
	qrOrder    *orders.Order
	confirmed  *orders.Order
	err        error
	confirmErr error

	lastUserID    uint
	lastCourseID  uint
	lastSessionID string
}

func (f *fakeBilling) CreateCardIntent(_ context.Context, userID, courseID uint) (*payments.CardIntent, error) {
	f.lastUserID, f.lastCourseID = userID, courseID
	return f.intent, f.err
}

func (f *fakeBilling) CreateQrIntent(_ context.Context, userID, courseID uint) (*orders.Order, error) {
	f.lastUserID, f.lastCourseID = userID, courseID
	return f.qrOrder, f.err
}

func (f *fakeBilling) ConfirmCardPayment(_ context.Context, userID, courseID uint, sessionID string) (*orders.Order, error) {
	f.lastUserID, f.lastCourseID, f.lastSessionID = userID, courseID, sessionID
	return f.confirmed, f.confirmErr
}

func newTestRouter(billing *fakeBilling, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	h := NewHandler(billing, billing)
	r.POST("/create-checkout-session", h.CreateCheckoutSession)
	r.POST("/create-payment-link", h.CreatePaymentLink)
	r.POST("/payments/confirm", h.ConfirmPayment)
	return r
}

func post(r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateCheckoutSession(t *testing.T) {
	billing := &fakeBilling{intent: &payments.CardIntent{SessionID: "cs_1", RedirectURL: "https://checkout.example.com/cs_1"}}
	r := newTestRouter(billing, 1)

	w := post(r, "/create-checkout-session", gin.H{"course_id": 10})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if billing.lastUserID != 1 || billing.lastCourseID != 10 {
		t.Fatalf("issuer called with user=%d course=%d", billing.lastUserID, billing.lastCourseID)
	}

	var resp struct {
		URL       string `json:"url"`
		SessionID string `json:"session_id"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.URL == "" || resp.SessionID != "cs_1" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestCreateCheckoutSessionMissingCourse(t *testing.T) {
	r := newTestRouter(&fakeBilling{}, 1)
	if w := post(r, "/create-checkout-session", gin.H{}); w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreateCheckoutSessionUnauthenticated(t *testing.T) {
	r := newTestRouter(&fakeBilling{}, 0)
	if w := post(r, "/create-checkout-session", gin.H{"course_id": 10}); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestCreatePaymentLink(t *testing.T) {
	order := &orders.Order{
		PaymentID: "1700000000123007",
		Status:    orders.StatusPending,
		Provider:  orders.ProviderQr,
		Payment:   orders.PaymentInfo{Qr: &orders.QrPayment{CheckoutURL: "https://pay.example.com/web/pl_1", QrCode: "000201"}},
	}
	billing := &fakeBilling{qrOrder: order}
	r := newTestRouter(billing, 1)

	w := post(r, "/create-payment-link", gin.H{"course_id": 10})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Order   struct {
			PaymentID string
			Status    string
		} `json:"order"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Success || resp.Order.Status != "PENDING" {
		t.Fatalf("response = %s", w.Body.String())
	}
}

func TestConfirmPayment(t *testing.T) {
	order := &orders.Order{PaymentID: "cs_1", Status: orders.StatusPaid, Provider: orders.ProviderCard}
	billing := &fakeBilling{confirmed: order}
	r := newTestRouter(billing, 1)

	w := post(r, "/payments/confirm", gin.H{"courseId": 10, "paymentInfo": gin.H{"id": "cs_1"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if billing.lastSessionID != "cs_1" {
		t.Fatalf("session id = %q", billing.lastSessionID)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"duplicate purchase", &payments.DuplicatePurchaseError{CourseID: 10}, http.StatusBadRequest},
		{"not found", &payments.NotFoundError{What: "course"}, http.StatusNotFound},
		{"not authorized", &payments.PaymentNotAuthorizedError{PaymentID: "cs_1", Status: "unpaid"}, http.StatusBadRequest},
		{"provider down", &payments.ProviderError{Provider: "payos", StatusCode: http.StatusBadGateway, Message: "down"}, http.StatusBadGateway},
		{"misconfigured", &payments.ConfigurationError{Missing: "STRIPE_SECRET_KEY"}, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			billing := &fakeBilling{err: tc.err, confirmErr: tc.err}
			r := newTestRouter(billing, 1)
			if w := post(r, "/create-payment-link", gin.H{"course_id": 10}); w.Code != tc.want {
				t.Fatalf("status = %d, want %d", w.Code, tc.want)
			}
		})
	}
}
