package checkout

import (
	"context"
	"net/http"

	"course-app/internal/domain/orders"
	"course-app/internal/payments"

	"github.com/gin-gonic/gin"
)

type IntentIssuer interface {
	CreateCardIntent(ctx context.Context, userID, courseID uint) (*payments.CardIntent, error)
	CreateQrIntent(ctx context.Context, userID, courseID uint) (*orders.Order, error)
}

type Confirmer interface {
	ConfirmCardPayment(ctx context.Context, userID, courseID uint, sessionID string) (*orders.Order, error)
}

type Handler struct {
	issuer    IntentIssuer
	confirmer Confirmer
}

func NewHandler(issuer IntentIssuer, confirmer Confirmer) *Handler {
	return &Handler{issuer: issuer, confirmer: confirmer}
}

// POST /create-checkout-session — card provider intent.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var body struct {
		CourseID uint `json:"course_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.CourseID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid course_id"})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	intent, err := h.issuer.CreateCardIntent(c.Request.Context(), userID, body.CourseID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": intent.RedirectURL, "session_id": intent.SessionID})
}

// POST /create-payment-link — QR provider intent. Responds with the pending
// order, which carries the QR payload and checkout URL for the client.
func (h *Handler) CreatePaymentLink(c *gin.Context) {
	var body struct {
		CourseID uint `json:"course_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.CourseID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid course_id"})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	order, err := h.issuer.CreateQrIntent(c.Request.Context(), userID, body.CourseID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// POST /payments/confirm — the synchronous confirmation path: the client
// reports a finished card checkout and we reconcile it.
func (h *Handler) ConfirmPayment(c *gin.Context) {
	var body struct {
		CourseID    uint `json:"courseId"`
		PaymentInfo struct {
			ID string `json:"id"`
		} `json:"paymentInfo"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.CourseID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing courseId or paymentInfo"})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	order, err := h.confirmer.ConfirmCardPayment(c.Request.Context(), userID, body.CourseID, body.PaymentInfo.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func respondError(c *gin.Context, err error) {
	c.JSON(payments.HTTPStatus(err), gin.H{"error": err.Error()})
}
