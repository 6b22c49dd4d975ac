package gormstore

import (
	"context"
	"errors"

	"course-app/internal/domain/orders"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) FindByPaymentID(ctx context.Context, paymentID string) (*orders.Order, error) {
	var o orders.Order
	err := s.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateIfAbsent rides the unique index on payment_id: the insert is ON
// CONFLICT DO NOTHING, so two racing callers produce exactly one row and
// the loser reads the winner's record back.
func (s *Store) CreateIfAbsent(ctx context.Context, o *orders.Order) (*orders.Order, bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_id"}},
			DoNothing: true,
		}).
		Create(o)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return o, true, nil
	}

	existing, err := s.FindByPaymentID(ctx, o.PaymentID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, errors.New("order vanished after conflicting insert")
	}
	return existing, false, nil
}

// UpdateStatus is a compare-and-swap on the status column. A PAID order
// never moves again no matter how many duplicate deliveries race here;
// moving to FAILED requires PENDING; moving to PAID also supersedes FAILED,
// since the provider's success word outranks an earlier failed check.
func (s *Store) UpdateStatus(ctx context.Context, paymentID string, status orders.Status) (*orders.Order, error) {
	q := s.db.WithContext(ctx).
		Model(&orders.Order{}).
		Where("payment_id = ?", paymentID)
	if status == orders.StatusPaid {
		q = q.Where("status <> ?", orders.StatusPaid)
	} else {
		q = q.Where("status = ?", orders.StatusPending)
	}
	res := q.UpdateColumn("status", status)
	if res.Error != nil {
		return nil, res.Error
	}

	current, err := s.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, errors.New("no order for payment id " + paymentID)
	}

	if res.RowsAffected == 1 {
		// We won the swap; mirror the decision into the provider metadata.
		// Metadata is last-write-wins, the status column is not.
		current.Payment.SetStatus(string(status))
		if err := s.db.WithContext(ctx).
			Model(&orders.Order{}).
			Where("payment_id = ?", paymentID).
			UpdateColumn("payment", current.Payment).Error; err != nil {
			return nil, err
		}
	}
	return current, nil
}
