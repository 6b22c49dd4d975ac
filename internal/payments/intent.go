package payments

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"course-app/internal/domain/courses"
	"course-app/internal/domain/orders"
	"course-app/internal/domain/users"
)

// qrDescriptionMax is the provider-B limit on the payment description.
const qrDescriptionMax = 25

// qrExpiry is how long a generated QR payment link stays valid.
const qrExpiry = 15 * time.Minute

// Issuer creates payment intents with the providers. Every intent is
// preceded by the same checks: the course and user must exist and the user
// must not already own the course.
type Issuer struct {
	store  Store
	ledger OrderLedger
	cards  CardProvider
	qr     QrProvider
	appURL string

	now  func() time.Time
	rand func(n int64) int64
}

func NewIssuer(store Store, ledger OrderLedger, cards CardProvider, qr QrProvider, appURL string) *Issuer {
	return &Issuer{
		store:  store,
		ledger: ledger,
		cards:  cards,
		qr:     qr,
		appURL: appURL,
		now:    time.Now,
		rand:   rand.Int63n,
	}
}

// CardIntent is the client-facing artifact of a card checkout: the hosted
// page to redirect to and the session id to confirm with later.
type CardIntent struct {
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"url"`
}

func (i *Issuer) CreateCardIntent(ctx context.Context, userID, courseID uint) (*CardIntent, error) {
	course, user, err := i.checkPurchasable(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	sess, err := i.cards.CreateSession(ctx, CardSessionParams{
		// Stripe wants cents.
		AmountMinor:   int64(course.PriceUSD * 100),
		Currency:      "usd",
		CourseID:      course.ID,
		UserID:        user.ID,
		CourseTitle:   course.Title,
		CustomerEmail: user.Email,
		SuccessURL:    i.appURL + "/courses/" + course.Slug + "?payment=success",
		CancelURL:     i.appURL + "/courses/" + course.Slug + "?payment=canceled",
	})
	if err != nil {
		return nil, err
	}

	return &CardIntent{SessionID: sess.ID, RedirectURL: sess.URL}, nil
}

// CreateQrIntent creates a provider-B payment request and records the
// pending order. Calling it twice for the same generated order code cannot
// create two orders; the ledger insert is conditional.
func (i *Issuer) CreateQrIntent(ctx context.Context, userID, courseID uint) (*orders.Order, error) {
	course, user, err := i.checkPurchasable(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	orderCode := i.newOrderCode()
	expiredAt := i.now().Add(qrExpiry).Unix()

	res, err := i.qr.CreatePaymentRequest(ctx, QrRequest{
		OrderCode:   orderCode,
		Amount:      course.PriceVND,
		Description: qrDescription(course.Title, orderCode),
		ReturnURL:   i.appURL + "/courses/" + course.Slug + "?payment=success",
		CancelURL:   i.appURL + "/courses/" + course.Slug + "?payment=canceled",
		ExpiredAt:   expiredAt,
	})
	if err != nil {
		return nil, err
	}

	order := &orders.Order{
		UserID:    user.ID,
		CourseID:  course.ID,
		PaymentID: strconv.FormatInt(res.OrderCode, 10),
		Provider:  orders.ProviderQr,
		Status:    orders.StatusPending,
		Payment: orders.PaymentInfo{
			Qr: &orders.QrPayment{
				OrderCode:     res.OrderCode,
				PaymentLinkID: res.PaymentLinkID,
				Status:        res.Status,
				Amount:        res.Amount,
				Currency:      res.Currency,
				QrCode:        res.QrCode,
				CheckoutURL:   res.CheckoutURL,
				ExpiredAt:     res.ExpiredAt,
				Bin:           res.Bin,
				AccountNumber: res.AccountNumber,
				AccountName:   res.AccountName,
			},
		},
	}

	existing, _, err := i.ledger.CreateIfAbsent(ctx, order)
	if err != nil {
		return nil, err
	}
	return existing, nil
}

func (i *Issuer) checkPurchasable(ctx context.Context, userID, courseID uint) (*courses.Course, *users.User, error) {
	course, err := i.store.FindCourseByID(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	if course == nil {
		return nil, nil, &NotFoundError{What: "course"}
	}

	user, err := i.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, &NotFoundError{What: "user"}
	}

	owned, err := i.store.UserOwnsCourse(ctx, userID, courseID)
	if err != nil {
		return nil, nil, err
	}
	if owned {
		return nil, nil, &DuplicatePurchaseError{CourseID: courseID}
	}
	return course, user, nil
}

// newOrderCode derives a locally unique positive order code from the current
// time in milliseconds plus a random tie-breaker. The result stays well
// below the provider's 2^53-1 ceiling.
func (i *Issuer) newOrderCode() int64 {
	return i.now().UnixMilli()*1000 + i.rand(1000)
}

// qrDescription trims the course title to the provider limit, marking the
// cut with an ellipsis. An empty result falls back to a description derived
// from the order code.
func qrDescription(title string, orderCode int64) string {
	d := strings.TrimSpace(title)
	if r := []rune(d); len(r) > qrDescriptionMax {
		d = strings.TrimSpace(string(r[:qrDescriptionMax-3])) + "..."
	}
	if d == "" {
		d = fmt.Sprintf("CSE%d", orderCode)
		if r := []rune(d); len(r) > qrDescriptionMax {
			d = string(r[:qrDescriptionMax])
		}
	}
	return d
}
