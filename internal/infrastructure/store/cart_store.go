package store

import (
	"context"
	"errors"

	"github.com/example/ec-shop/internal/apperrors"
	"github.com/example/ec-shop/internal/domain/cart"
	"gorm.io/gorm"
)

type CartStore struct {
	db *gorm.DB
}

func NewCartStore(db *gorm.DB) *CartStore {
	return &CartStore{db: db}
}

func (s *CartStore) GetByUser(ctx context.Context, userID string) (*cart.Cart, error) {
	var c cart.Cart
	err := s.db.WithContext(ctx).
		Preload("Items.Product").
		First(&c, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, cart.ErrCartNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("get cart", err)
	}
	return &c, nil
}

func (s *CartStore) GetOrCreate(ctx context.Context, userID string) (*cart.Cart, error) {
	c, err := s.GetByUser(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}
	created := &cart.Cart{UserID: userID}
	if err := s.db.WithContext(ctx).Create(created).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a create race; the row exists now.
			return s.GetByUser(ctx, userID)
		}
		return nil, apperrors.Internal("create cart", err)
	}
	return created, nil
}

// AddItem merges quantity into an existing line for the product, or adds a
// new line.
func (s *CartStore) AddItem(ctx context.Context, cartID int64, productID int64, quantity int) error {
	var existing cart.Item
	err := s.db.WithContext(ctx).
		First(&existing, "cart_id = ? AND product_id = ?", cartID, productID).Error
	switch {
	case err == nil:
		existing.Quantity += quantity
		if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return apperrors.Internal("update cart item", err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := cart.Item{CartID: cartID, ProductID: productID, Quantity: quantity}
		if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
			return apperrors.Internal("add cart item", err)
		}
		return nil
	default:
		return apperrors.Internal("find cart item", err)
	}
}

func (s *CartStore) UpdateItemQuantity(ctx context.Context, cartID, itemID int64, quantity int) error {
	res := s.db.WithContext(ctx).
		Model(&cart.Item{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Update("quantity", quantity)
	if res.Error != nil {
		return apperrors.Internal("update cart item", res.Error)
	}
	if res.RowsAffected == 0 {
		return cart.ErrCartItemNotFound
	}
	return nil
}

func (s *CartStore) RemoveItem(ctx context.Context, cartID, itemID int64) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&cart.Item{})
	if res.Error != nil {
		return apperrors.Internal("remove cart item", res.Error)
	}
	if res.RowsAffected == 0 {
		return cart.ErrCartItemNotFound
	}
	return nil
}

// Clear removes all items from the user's cart. A missing or already-empty
// cart clears successfully.
func (s *CartStore) Clear(ctx context.Context, userID string) error {
	return clearCart(s.db.WithContext(ctx), userID)
}

// clearCart is shared with the transactional order commit.
func clearCart(db *gorm.DB, userID string) error {
	var c cart.Cart
	err := db.First(&c, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return apperrors.Internal("find cart", err)
	}
	if err := db.Where("cart_id = ?", c.ID).Delete(&cart.Item{}).Error; err != nil {
		return apperrors.Internal("clear cart", err)
	}
	return nil
}
