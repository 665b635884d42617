package store

import (
	"context"
	"errors"

	"github.com/example/ec-shop/internal/apperrors"
	"github.com/example/ec-shop/internal/domain/product"
	"gorm.io/gorm"
)

type ProductStore struct {
	db *gorm.DB
}

func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) Create(ctx context.Context, p *product.Product) error {
	err := s.db.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.New(apperrors.KindConflict, "product sku already exists")
	}
	if err != nil {
		return apperrors.Internal("create product", err)
	}
	return nil
}

func (s *ProductStore) Update(ctx context.Context, p *product.Product) error {
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return apperrors.Internal("update product", err)
	}
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&product.Product{}, id)
	if res.Error != nil {
		return apperrors.Internal("delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return product.ErrNotFound
	}
	return nil
}

func (s *ProductStore) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	var p product.Product
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, product.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("get product", err)
	}
	return &p, nil
}

func (s *ProductStore) List(ctx context.Context, filter product.Filter) ([]product.Product, int64, error) {
	query := s.db.WithContext(ctx).Model(&product.Product{})
	if filter.Name != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Name+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("count products", err)
	}

	switch filter.OrderBy {
	case product.OrderByPriceAsc:
		query = query.Order("price ASC")
	case product.OrderByPriceDesc:
		query = query.Order("price DESC")
	case product.OrderByName:
		query = query.Order("name ASC")
	default:
		query = query.Order("id ASC")
	}

	var items []product.Product
	err := query.Offset(filter.Offset()).Limit(filter.PageSize).Find(&items).Error
	if err != nil {
		return nil, 0, apperrors.Internal("list products", err)
	}
	return items, total, nil
}
