package orders

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"course-app/internal/domain/courses"
	"course-app/internal/domain/users"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusFailed  Status = "FAILED"
)

type Provider string

const (
	ProviderCard Provider = "card"
	ProviderQr   Provider = "qr"
)

// Order records one purchase attempt. PaymentID is the provider's payment
// identifier (Stripe checkout session id, or the PayOS order code rendered
// as a decimal string); its unique index is what makes duplicate webhook
// delivery and racing confirmation paths safe.
type Order struct {
	ID       uint `gorm:"primaryKey"`
	UserID   uint
	User     users.User
	CourseID uint
	Course   courses.Course

	PaymentID string      `gorm:"not null;uniqueIndex:idx_orders_payment_id"`
	Provider  Provider    `gorm:"type:varchar(10);not null"`
	Status    Status      `gorm:"type:varchar(10);index"`
	Payment   PaymentInfo `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CardPayment struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	AmountTotal int64  `json:"amount_total"`
	Currency    string `json:"currency"`
}

type QrPayment struct {
	OrderCode     int64  `json:"order_code"`
	PaymentLinkID string `json:"payment_link_id"`
	Status        string `json:"status"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	QrCode        string `json:"qr_code"`
	CheckoutURL   string `json:"checkout_url"`
	ExpiredAt     int64  `json:"expired_at"`
	Bin           string `json:"bin"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

// PaymentInfo is a tagged variant over the two providers: exactly one of
// Card or Qr is set. Stored as a jsonb column.
type PaymentInfo struct {
	Card *CardPayment `json:"card,omitempty"`
	Qr   *QrPayment   `json:"qr,omitempty"`
}

// SetStatus updates the provider-side status string of whichever variant is
// present.
func (p *PaymentInfo) SetStatus(status string) {
	if p.Card != nil {
		p.Card.Status = status
	}
	if p.Qr != nil {
		p.Qr.Status = status
	}
}

func (p PaymentInfo) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *PaymentInfo) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = PaymentInfo{}
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return errors.New("orders: unsupported source type for PaymentInfo")
	}
}
