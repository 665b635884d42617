package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	nextID   int64
	products map[int64]*Product
	listErr  error
}

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1, products: make(map[int64]*Product)}
}

func (r *memRepo) Create(_ context.Context, p *Product) error {
	p.ID = r.nextID
	r.nextID++
	clone := *p
	r.products[p.ID] = &clone
	return nil
}

func (r *memRepo) Update(_ context.Context, p *Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return ErrNotFound
	}
	clone := *p
	r.products[p.ID] = &clone
	return nil
}

func (r *memRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *memRepo) List(_ context.Context, _ Filter) ([]Product, int64, error) {
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	var items []Product
	for _, p := range r.products {
		items = append(items, *p)
	}
	return items, int64(len(items)), nil
}

type memCache struct {
	entries     map[int64]*Product
	invalidated []int64
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[int64]*Product)}
}

func (c *memCache) Get(_ context.Context, id int64) (*Product, bool) {
	p, ok := c.entries[id]
	return p, ok
}

func (c *memCache) Set(_ context.Context, p *Product) {
	c.entries[p.ID] = p
}

func (c *memCache) Invalidate(_ context.Context, id int64) {
	delete(c.entries, id)
	c.invalidated = append(c.invalidated, id)
}

func validInput() CreateInput {
	return CreateInput{
		SKU:           "WID-1",
		Name:          "Widget",
		Description:   "A widget",
		Price:         decimal.RequireFromString("5.00"),
		StockQuantity: 10,
	}
}

func TestService_Create(t *testing.T) {
	svc := NewService(newMemRepo(), nil)

	p, err := svc.Create(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "WID-1", p.SKU)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("5.00")))
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateInput)
		wantErr error
	}{
		{"missing sku", func(in *CreateInput) { in.SKU = "  " }, ErrInvalidSKU},
		{"missing name", func(in *CreateInput) { in.Name = "" }, ErrInvalidName},
		{"zero price", func(in *CreateInput) { in.Price = decimal.Zero }, ErrInvalidPrice},
		{"negative price", func(in *CreateInput) { in.Price = decimal.RequireFromString("-1") }, ErrInvalidPrice},
	}

	svc := NewService(newMemRepo(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Get_PopulatesCache(t *testing.T) {
	repo := newMemRepo()
	cache := newMemCache()
	svc := NewService(repo, cache)

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	p, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, p.ID)

	// Second read is served from the cache even after the row disappears.
	delete(repo.products, created.ID)
	p, err = svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, p.ID)
}

func TestService_Update_InvalidatesCache(t *testing.T) {
	repo := newMemRepo()
	cache := newMemCache()
	svc := NewService(repo, cache)

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	_, err = svc.Get(context.Background(), created.ID)
	require.NoError(t, err)

	in := validInput()
	in.Price = decimal.RequireFromString("6.50")
	_, err = svc.Update(context.Background(), created.ID, in)
	require.NoError(t, err)

	assert.Contains(t, cache.invalidated, created.ID)

	p, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("6.50")))
}

func TestService_Get_UnknownProduct(t *testing.T) {
	svc := NewService(newMemRepo(), nil)

	_, err := svc.Get(context.Background(), 42)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_List_NormalizesPaging(t *testing.T) {
	svc := NewService(newMemRepo(), nil)

	result, err := svc.List(context.Background(), Filter{Page: -3, PageSize: 0})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 20, result.PageSize)
	assert.NotNil(t, result.Items)
}

func TestFilter_Normalize(t *testing.T) {
	f := Filter{Page: 0, PageSize: 500}
	f.Normalize()

	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 100, f.PageSize)
	assert.Equal(t, 0, f.Offset())
}
