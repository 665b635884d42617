package product

import (
	"context"
	"strings"

	"github.com/example/ec-shop/internal/apperrors"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = apperrors.NotFound("product not found")
	ErrInvalidName  = apperrors.BadRequest("product name is required")
	ErrInvalidSKU   = apperrors.BadRequest("product sku is required")
	ErrInvalidPrice = apperrors.BadRequest("product price must be positive")
)

// Repository is the persistence contract the service depends on.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, filter Filter) ([]Product, int64, error)
}

// Cache is an optional read-through cache for single-product lookups.
type Cache interface {
	Get(ctx context.Context, id int64) (*Product, bool)
	Set(ctx context.Context, p *Product)
	Invalidate(ctx context.Context, id int64)
}

type Service struct {
	repo  Repository
	cache Cache // nil disables caching
}

func NewService(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

type CreateInput struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      string          `json:"image_url"`
}

func (in *CreateInput) validate() error {
	if strings.TrimSpace(in.SKU) == "" {
		return ErrInvalidSKU
	}
	if strings.TrimSpace(in.Name) == "" {
		return ErrInvalidName
	}
	if !in.Price.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &Product{
		SKU:           in.SKU,
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		ImageURL:      in.ImageURL,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id int64, in CreateInput) (*Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.SKU = in.SKU
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.StockQuantity = in.StockQuantity
	p.ImageURL = in.ImageURL
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	if s.cache != nil {
		if p, ok := s.cache.Get(ctx, id); ok {
			return p, nil
		}
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, p)
	}
	return p, nil
}

// PagedResult is the envelope returned by listings.
type PagedResult struct {
	Items      []Product `json:"items"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
}

func (s *Service) List(ctx context.Context, filter Filter) (*PagedResult, error) {
	filter.Normalize()
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Product{}
	}
	return &PagedResult{
		Items:      items,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	}, nil
}
