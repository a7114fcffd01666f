package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/bazario-dev/marketplace-api/models"
	"github.com/bazario-dev/marketplace-api/store"
)

// PaymentService settles the PENDING transaction created with each order.
type PaymentService struct {
	store store.Store
	log   *logrus.Logger
}

func NewPaymentService(st store.Store, log *logrus.Logger) *PaymentService {
	return &PaymentService{store: st, log: log}
}

// Confirm records the provider's verdict for an order. It is idempotent per
// order: once the transaction left PENDING, later webhooks for the same
// order are acknowledged without changing anything.
func (s *PaymentService) Confirm(ctx context.Context, orderRef, provider, reference string, paid bool) (*models.Transaction, error) {
	var result *models.Transaction

	err := s.store.Transaction(ctx, func(tx store.Store) error {
		order, err := tx.OrderByRef(ctx, orderRef)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		tr, err := tx.TransactionByOrder(ctx, order.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}
		if tr.Status != models.PaymentStatusPending {
			result = tr // already settled
			return nil
		}

		status := models.PaymentStatusFailed
		if paid {
			status = models.PaymentStatusPaid
		}
		tr.Status = status
		tr.Provider = provider
		tr.Reference = reference
		if err := tx.SaveTransaction(ctx, tr); err != nil {
			return err
		}

		order.PaymentStatus = status
		if err := tx.SaveOrder(ctx, order); err != nil {
			return err
		}

		result = tr
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"order_ref": orderRef,
		"status":    result.Status,
		"reference": reference,
	}).Info("payment confirmed")
	return result, nil
}
