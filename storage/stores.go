// Package storage implements the reconciliation engine's store
// interfaces on top of gorm. Backend sentinel errors are translated to
// the engine's own so it never imports the driver.
package storage

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Sheraz031/smartgatepay/models"
	"github.com/Sheraz031/smartgatepay/reconcile"
)

type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Where("order_id = ?", orderID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reconcile.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

type GatewayStore struct {
	db *gorm.DB
}

func NewGatewayStore(db *gorm.DB) *GatewayStore {
	return &GatewayStore{db: db}
}

func (s *GatewayStore) FindByID(ctx context.Context, id uint) (*models.PaymentGateway, error) {
	var gw models.PaymentGateway
	if err := s.db.WithContext(ctx).First(&gw, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reconcile.ErrNotFound
		}
		return nil, err
	}
	return &gw, nil
}

func (s *GatewayStore) Save(ctx context.Context, gw *models.PaymentGateway) error {
	return s.db.WithContext(ctx).Save(gw).Error
}

type TransactionStore struct {
	db *gorm.DB
}

func NewTransactionStore(db *gorm.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

func (s *TransactionStore) ExistsByUTR(ctx context.Context, utr string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("utr_number = ?", utr).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the settlement record. The unique indexes on utr_number
// and transaction_id make this the atomic arbiter between concurrent
// submissions of the same UTR.
func (s *TransactionStore) Create(ctx context.Context, txn *models.Transaction) error {
	if err := s.db.WithContext(ctx).Create(txn).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return reconcile.ErrDuplicate
		}
		return err
	}
	return nil
}
