package store

import (
	"context"
	"errors"

	"github.com/example/ec-shop/internal/apperrors"
	"github.com/example/ec-shop/internal/domain/order"
	"gorm.io/gorm"
)

type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) Create(ctx context.Context, o *order.Order) error {
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return apperrors.Internal("create order", err)
	}
	return nil
}

func (s *OrderStore) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	var o order.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, order.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("get order", err)
	}
	return &o, nil
}

func (s *OrderStore) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]order.Order, int64, error) {
	query := s.db.WithContext(ctx).Model(&order.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("count orders", err)
	}

	var orders []order.Order
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error
	if err != nil {
		return nil, 0, apperrors.Internal("list orders", err)
	}
	return orders, total, nil
}

// CommitOrder persists the order (items cascade) and clears the owning
// user's cart inside a single transaction. A unique violation on the
// payment token means a webhook replay already created this order: the
// transaction rolls back and the commit reports created=false.
func (s *OrderStore) CommitOrder(ctx context.Context, o *order.Order) (bool, error) {
	duplicate := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				duplicate = true
			}
			return err
		}
		return clearCart(tx, o.UserID)
	})
	if duplicate {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Internal("commit order", err)
	}
	return true, nil
}
