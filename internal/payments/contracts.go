package payments

import (
	"context"

	"course-app/internal/domain/courses"
	"course-app/internal/domain/notifications"
	"course-app/internal/domain/orders"
	"course-app/internal/domain/users"
)

// Store is the persistence surface the payment core reads and writes
// through. Every call is atomic on its own; there are no cross-call
// transactions. Lookups return (nil, nil) when the record is absent.
type Store interface {
	FindUserByID(ctx context.Context, id uint) (*users.User, error)
	FindCourseByID(ctx context.Context, id uint) (*courses.Course, error)
	UserOwnsCourse(ctx context.Context, userID, courseID uint) (bool, error)
	// AddCourseToUser inserts the membership row if absent. The bool reports
	// whether this call inserted it; false means the user already owned the
	// course (possibly via a concurrent grant).
	AddCourseToUser(ctx context.Context, userID, courseID uint) (bool, error)
	// IncrementCoursePurchased adds one to the course purchase counter,
	// treating an absent or zero counter as zero.
	IncrementCoursePurchased(ctx context.Context, courseID uint) error
	InsertNotification(ctx context.Context, n *notifications.Notification) error
}

// OrderLedger is the durable record keyed by provider payment identifier.
// CreateIfAbsent is the system's sole concurrency-safety primitive: it must
// never produce two orders for the same payment id, even under concurrent
// callers.
type OrderLedger interface {
	// FindByPaymentID returns (nil, nil) when no order exists for the id.
	FindByPaymentID(ctx context.Context, paymentID string) (*orders.Order, error)
	// CreateIfAbsent inserts o unless an order already exists for its
	// payment id, in which case the existing order is returned unchanged.
	// The bool reports whether this call created the row.
	CreateIfAbsent(ctx context.Context, o *orders.Order) (*orders.Order, bool, error)
	// UpdateStatus moves an order to the given status and returns the current
	// row. PAID is the one absolute terminal state: nothing ever moves away
	// from it. Moving to FAILED requires the order to be PENDING; moving to
	// PAID also supersedes FAILED, because an authoritative provider success
	// (a late settlement) outranks an earlier failed check.
	UpdateStatus(ctx context.Context, paymentID string, status orders.Status) (*orders.Order, error)
}

// CardPaidStatus is the only provider-A payment status that authorizes an
// entitlement grant.
const CardPaidStatus = "paid"

type CardSessionParams struct {
	// AmountMinor is the charge amount in the provider's minor unit.
	AmountMinor   int64
	Currency      string
	CourseID      uint
	UserID        uint
	CourseTitle   string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
}

// CardSession is the provider-A view of a checkout session, from either
// session creation or an authoritative re-fetch.
type CardSession struct {
	ID            string
	URL           string
	PaymentStatus string
	AmountTotal   int64
	Currency      string
	CourseID      uint
	UserID        uint
}

type CardProvider interface {
	CreateSession(ctx context.Context, p CardSessionParams) (*CardSession, error)
	// GetSession is the authoritative status re-check; client-reported
	// status is never trusted.
	GetSession(ctx context.Context, id string) (*CardSession, error)
}

// QrRequest is a provider-B payment request. The client signs the required
// field subset itself since it holds the checksum credential.
type QrRequest struct {
	OrderCode   int64
	Amount      int64
	Description string
	ReturnURL   string
	CancelURL   string
	ExpiredAt   int64
}

type QrResult struct {
	OrderCode     int64
	PaymentLinkID string
	Status        string
	Amount        int64
	Currency      string
	QrCode        string
	CheckoutURL   string
	ExpiredAt     int64
	Bin           string
	AccountNumber string
	AccountName   string
}

type QrProvider interface {
	CreatePaymentRequest(ctx context.Context, req QrRequest) (*QrResult, error)
}

// Publisher is the realtime push capability. It is optional: a nil Publisher
// means no push transport is configured.
type Publisher interface {
	PublishToUser(ctx context.Context, userID uint, event string, payload interface{}) error
	Broadcast(ctx context.Context, event string, payload interface{}) error
}

// Mailer is the outbound email capability, also optional.
type Mailer interface {
	SendPurchaseEmail(to, name, courseTitle string) error
}
