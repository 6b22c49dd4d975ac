package payoswebhook

import (
	"context"
	"net/http"
	"os"

	"course-app/internal/payments"
	"course-app/internal/payments/payos"

	"github.com/gin-gonic/gin"
)

type Reconciler interface {
	HandleQrPayment(ctx context.Context, orderCode int64, succeeded bool) error
}

type Handler struct {
	reconciler Reconciler
}

func NewHandler(reconciler Reconciler) *Handler {
	return &Handler{reconciler: reconciler}
}

// Handle processes a provider-B notification. An invalid signature is 401 —
// this provider stops retrying on it. Unknown order codes and replays are
// 200 so its retry loop stops too.
func (h *Handler) Handle(c *gin.Context) {
	var body payos.WebhookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed webhook body"})
		return
	}

	signature := body.Signature
	if signature == "" {
		signature = c.GetHeader("x-signature")
	}

	if !skipVerification() {
		checksumKey := os.Getenv("PAYOS_CHECKSUM_KEY")
		if checksumKey == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "PAYOS_CHECKSUM_KEY not configured"})
			return
		}
		if !payments.VerifySignature(body.Data, signature, checksumKey) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
			return
		}
	}

	orderCode, ok := body.OrderCode()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing orderCode"})
		return
	}

	if err := h.reconciler.HandleQrPayment(c.Request.Context(), orderCode, body.Succeeded()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// skipVerification is the explicit non-production bypass. It must be set to
// the literal "true"; anything else keeps verification on.
func skipVerification() bool {
	return os.Getenv("PAYOS_SKIP_SIGNATURE") == "true" && os.Getenv("APP_ENV") != "production"
}
