// Package stripe adapts the card provider's SDK to the payment core's
// CardProvider contract.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"course-app/internal/payments"

	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

type Provider struct{}

// CreateSession creates a one-time payment checkout session for a course.
// The course and user ids travel in the session metadata so the webhook can
// reconcile without any local pending state.
func (Provider) CreateSession(ctx context.Context, p payments.CardSessionParams) (*payments.CardSession, error) {
	if err := setKey(); err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.Currency),
					UnitAmount: stripe.Int64(p.AmountMinor),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.CourseTitle),
					},
				},
			},
		},
		ClientReferenceID: stripe.String(fmt.Sprint(p.UserID)),
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	params.AddMetadata("course_id", fmt.Sprint(p.CourseID))
	params.AddMetadata("user_id", fmt.Sprint(p.UserID))

	s, err := checkoutsession.New(params)
	if err != nil {
		return nil, providerError(err)
	}
	return fromSession(s), nil
}

// GetSession re-fetches a checkout session from the provider. This is the
// authoritative status check used by both confirmation paths.
func (Provider) GetSession(ctx context.Context, id string) (*payments.CardSession, error) {
	if err := setKey(); err != nil {
		return nil, err
	}

	s, err := checkoutsession.Get(id, nil)
	if err != nil {
		return nil, providerError(err)
	}
	return fromSession(s), nil
}

func fromSession(s *stripe.CheckoutSession) *payments.CardSession {
	return &payments.CardSession{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: NormalizePaymentStatus(string(s.PaymentStatus)),
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
		CourseID:      metadataUint(s.Metadata, "course_id"),
		UserID:        sessionUserID(s),
	}
}

func sessionUserID(s *stripe.CheckoutSession) uint {
	if id := metadataUint(s.Metadata, "user_id"); id != 0 {
		return id
	}
	// metadata.user_id preferred, client_reference_id as fallback
	if s.ClientReferenceID != "" {
		if v, err := strconv.ParseUint(s.ClientReferenceID, 10, 64); err == nil {
			return uint(v)
		}
	}
	return 0
}

func metadataUint(md map[string]string, key string) uint {
	if md == nil {
		return 0
	}
	v, err := strconv.ParseUint(md[key], 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

func setKey() error {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		return &payments.ConfigurationError{Missing: "STRIPE_SECRET_KEY"}
	}
	return nil
}

func providerError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		return &payments.ProviderError{Provider: "stripe", StatusCode: se.HTTPStatusCode, Message: se.Msg}
	}
	return &payments.ProviderError{Provider: "stripe", Message: err.Error()}
}
