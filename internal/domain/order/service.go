package order

import (
	"context"

	"github.com/example/ec-shop/internal/apperrors"
)

var ErrNotFound = apperrors.NotFound("order not found")

// Repository is the persistence contract for orders.
type Repository interface {
	// Create persists an order together with its items.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]Order, int64, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// PagedResult is the envelope returned by order listings.
type PagedResult struct {
	Items      []Order `json:"items"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalCount int64   `json:"total_count"`
}

func (s *Service) ListByUser(ctx context.Context, userID string, page, pageSize int) (*PagedResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	items, total, err := s.repo.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Order{}
	}
	return &PagedResult{Items: items, Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// GetByUser returns the order only when it belongs to the given user.
func (s *Service) GetByUser(ctx context.Context, userID string, orderID int64) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrNotFound
	}
	return o, nil
}
