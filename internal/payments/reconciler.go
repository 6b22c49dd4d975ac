package payments

import (
	"context"
	"log"
	"strconv"

	"course-app/internal/domain/orders"
)

// Reconciler converges the two confirmation paths — the buyer's client
// reporting success, and the provider webhook — onto one terminal state per
// payment identifier. It owns every Order status transition and every
// decision to invoke the Applier. There are no in-process locks; the
// ledger's conditional writes carry the concurrency safety.
type Reconciler struct {
	ledger  OrderLedger
	store   Store
	applier *Applier
	cards   CardProvider
}

func NewReconciler(ledger OrderLedger, store Store, applier *Applier, cards CardProvider) *Reconciler {
	return &Reconciler{ledger: ledger, store: store, applier: applier, cards: cards}
}

// ConfirmCardPayment is the synchronous path: the buyer's client reports a
// completed card checkout. The client-supplied status is never trusted; the
// session is re-fetched from the provider. Replays return the existing
// order unchanged.
func (r *Reconciler) ConfirmCardPayment(ctx context.Context, userID, courseID uint, sessionID string) (*orders.Order, error) {
	if sessionID == "" {
		return nil, &ValidationError{Msg: "paymentInfo.id is required"}
	}

	if existing, err := r.ledger.FindByPaymentID(ctx, sessionID); err != nil {
		return nil, err
	} else if existing != nil && existing.Status != orders.StatusFailed {
		return existing, nil
	}
	// No order yet, or a FAILED one from an earlier unpaid check. Either way
	// the provider's current word decides; a late settlement supersedes the
	// failed record.

	sess, err := r.cards.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	course, err := r.store.FindCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, &NotFoundError{What: "course"}
	}
	user, err := r.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &NotFoundError{What: "user"}
	}

	if sess.PaymentStatus != CardPaidStatus {
		failed := cardOrder(sess, userID, courseID, orders.StatusFailed)
		if _, _, err := r.ledger.CreateIfAbsent(ctx, failed); err != nil {
			log.Printf("❌ failed to record unpaid checkout %s: %v", sessionID, err)
		}
		return nil, &PaymentNotAuthorizedError{PaymentID: sessionID, Status: sess.PaymentStatus}
	}

	if _, err := r.applier.Grant(ctx, user, course); err != nil {
		return nil, err
	}

	paid := cardOrder(sess, userID, courseID, orders.StatusPaid)
	existing, created, err := r.ledger.CreateIfAbsent(ctx, paid)
	if err != nil {
		return nil, err
	}
	if !created {
		// The row already existed: a concurrent webhook got there first, or
		// this is a retry over our own earlier FAILED record. Promote it if
		// it is not PAID yet.
		log.Printf("checkout %s already recorded, promoting to PAID", sessionID)
		return r.ledger.UpdateStatus(ctx, sessionID, orders.StatusPaid)
	}
	return existing, nil
}

// HandleCardCompleted is the asynchronous path for the card provider. The
// session has already passed webhook signature verification and been
// re-fetched from the provider. Card payments have no pending order, so a
// first delivery creates the order as PAID; duplicates find it and stop. A
// FAILED record from an earlier unpaid synchronous check does not block the
// grant: the provider's success here supersedes it.
func (r *Reconciler) HandleCardCompleted(ctx context.Context, sess *CardSession) error {
	if sess == nil || sess.ID == "" {
		return &ValidationError{Msg: "missing checkout session"}
	}

	existing, err := r.ledger.FindByPaymentID(ctx, sess.ID)
	if err != nil {
		return err
	}
	if existing != nil && existing.Status == orders.StatusPaid {
		return nil
	}
	if sess.PaymentStatus != CardPaidStatus {
		// Not a payment success; leave whatever state exists untouched.
		return nil
	}

	course, err := r.store.FindCourseByID(ctx, sess.CourseID)
	if err != nil {
		return err
	}
	user, err := r.store.FindUserByID(ctx, sess.UserID)
	if err != nil {
		return err
	}
	if course == nil || user == nil {
		// Metadata points nowhere; retrying will not improve this.
		log.Printf("checkout %s references unknown course %d / user %d", sess.ID, sess.CourseID, sess.UserID)
		return nil
	}

	if _, err := r.applier.Grant(ctx, user, course); err != nil {
		return err
	}

	paid := cardOrder(sess, user.ID, course.ID, orders.StatusPaid)
	if _, created, err := r.ledger.CreateIfAbsent(ctx, paid); err != nil {
		return err
	} else if !created {
		// The synchronous path recorded it first, possibly as FAILED when the
		// session was still unpaid there; promote it.
		if _, err := r.ledger.UpdateStatus(ctx, sess.ID, orders.StatusPaid); err != nil {
			return err
		}
	}
	return nil
}

// HandleQrPayment is the asynchronous path for the QR provider; the payload
// has already passed signature verification. An unknown order code is
// acknowledged without side effects — the provider sends test deliveries —
// and a non-success outcome leaves a pending order pending.
func (r *Reconciler) HandleQrPayment(ctx context.Context, orderCode int64, succeeded bool) error {
	paymentID := strconv.FormatInt(orderCode, 10)

	order, err := r.ledger.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return err
	}
	if order == nil {
		log.Printf("webhook for unknown order code %s, acknowledging", paymentID)
		return nil
	}
	if order.Status == orders.StatusPaid {
		return nil
	}
	if !succeeded {
		return nil
	}

	course, err := r.store.FindCourseByID(ctx, order.CourseID)
	if err != nil {
		return err
	}
	user, err := r.store.FindUserByID(ctx, order.UserID)
	if err != nil {
		return err
	}
	if course == nil || user == nil {
		log.Printf("order %s references unknown course %d / user %d", paymentID, order.CourseID, order.UserID)
		return nil
	}

	if _, err := r.applier.Grant(ctx, user, course); err != nil {
		return err
	}

	_, err = r.ledger.UpdateStatus(ctx, paymentID, orders.StatusPaid)
	return err
}

func cardOrder(sess *CardSession, userID, courseID uint, status orders.Status) *orders.Order {
	return &orders.Order{
		UserID:    userID,
		CourseID:  courseID,
		PaymentID: sess.ID,
		Provider:  orders.ProviderCard,
		Status:    status,
		Payment: orders.PaymentInfo{
			Card: &orders.CardPayment{
				ID:          sess.ID,
				Status:      sess.PaymentStatus,
				AmountTotal: sess.AmountTotal,
				Currency:    sess.Currency,
			},
		},
	}
}
