package cart

import (
	"context"

	"github.com/example/ec-shop/internal/apperrors"
	"github.com/example/ec-shop/internal/domain/product"
	"github.com/example/ec-shop/internal/domain/user"
)

var (
	ErrCartNotFound     = apperrors.NotFound("cart not found")
	ErrCartItemNotFound = apperrors.NotFound("cart item not found")
	ErrInvalidQuantity  = apperrors.BadRequest("quantity must be positive")
)

// Repository is the persistence contract for carts.
type Repository interface {
	// GetByUser loads a user's cart with items and product rows resolved.
	// Returns ErrCartNotFound when no cart row exists yet.
	GetByUser(ctx context.Context, userID string) (*Cart, error)
	// GetOrCreate loads the user's cart, creating an empty one if missing.
	GetOrCreate(ctx context.Context, userID string) (*Cart, error)
	AddItem(ctx context.Context, cartID int64, productID int64, quantity int) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID int64, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID int64) error
	// Clear removes every item from the user's cart. Clearing an empty or
	// missing cart succeeds.
	Clear(ctx context.Context, userID string) error
}

type Service struct {
	repo     Repository
	products product.Repository
	users    user.Directory
}

func NewService(repo Repository, products product.Repository, users user.Directory) *Service {
	return &Service{repo: repo, products: products, users: users}
}

// Snapshot returns the user's cart with resolved product details. A user
// without a cart row gets an empty snapshot, not an error.
func (s *Service) Snapshot(ctx context.Context, userID string) (*Snapshot, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	c, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return SnapshotOf(nil), nil
		}
		return nil, err
	}
	return SnapshotOf(c), nil
}

func (s *Service) AddItem(ctx context.Context, userID string, productID int64, quantity int) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return err
	}
	c, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.AddItem(ctx, c.ID, productID, quantity)
}

// UpdateItem sets an item's quantity; zero or negative removes the line.
func (s *Service) UpdateItem(ctx context.Context, userID string, itemID int64, quantity int) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	c, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return err
	}
	if quantity <= 0 {
		return s.repo.RemoveItem(ctx, c.ID, itemID)
	}
	return s.repo.UpdateItemQuantity(ctx, c.ID, itemID, quantity)
}

func (s *Service) RemoveItem(ctx context.Context, userID string, itemID int64) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	c, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.RemoveItem(ctx, c.ID, itemID)
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}
	return s.repo.Clear(ctx, userID)
}

func (s *Service) requireUser(ctx context.Context, userID string) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return user.ErrNotFound
	}
	return nil
}
