package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	orders map[int64]*Order

	gotPage     int
	gotPageSize int
}

func newMemRepo() *memRepo {
	return &memRepo{orders: make(map[int64]*Order)}
}

func (r *memRepo) Create(_ context.Context, o *Order) error {
	o.ID = int64(len(r.orders) + 1)
	r.orders[o.ID] = o
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return o, nil
}

func (r *memRepo) ListByUser(_ context.Context, userID string, page, pageSize int) ([]Order, int64, error) {
	r.gotPage = page
	r.gotPageSize = pageSize
	var items []Order
	for _, o := range r.orders {
		if o.UserID == userID {
			items = append(items, *o)
		}
	}
	return items, int64(len(items)), nil
}

func seedOrder(t *testing.T, repo *memRepo, userID string) *Order {
	t.Helper()
	o := &Order{
		UserID:       userID,
		TotalAmount:  decimal.RequireFromString("20.00"),
		Currency:     "eur",
		PaymentToken: "cs_" + userID,
	}
	require.NoError(t, repo.Create(context.Background(), o))
	return o
}

func TestService_ListByUser(t *testing.T) {
	repo := newMemRepo()
	seedOrder(t, repo, "user-1")
	seedOrder(t, repo, "user-2")
	svc := NewService(repo)

	result, err := svc.ListByUser(context.Background(), "user-1", 1, 20)

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.TotalCount)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "user-1", result.Items[0].UserID)
}

func TestService_ListByUser_ClampsPaging(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	result, err := svc.ListByUser(context.Background(), "user-1", -1, 5000)

	require.NoError(t, err)
	assert.Equal(t, 1, repo.gotPage)
	assert.Equal(t, 20, repo.gotPageSize)
	assert.NotNil(t, result.Items, "empty listing stays an empty array, not null")
}

func TestService_GetByUser(t *testing.T) {
	repo := newMemRepo()
	o := seedOrder(t, repo, "user-1")
	svc := NewService(repo)

	got, err := svc.GetByUser(context.Background(), "user-1", o.ID)

	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}

func TestService_GetByUser_OtherUsersOrder(t *testing.T) {
	repo := newMemRepo()
	o := seedOrder(t, repo, "user-1")
	svc := NewService(repo)

	_, err := svc.GetByUser(context.Background(), "user-2", o.ID)

	assert.ErrorIs(t, err, ErrNotFound, "foreign orders read as missing, not forbidden")
}

func TestOrder_ItemsTotal(t *testing.T) {
	o := &Order{Items: []Item{
		{Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")},
	}}

	assert.True(t, o.ItemsTotal().Equal(decimal.RequireFromString("20.00")))
}
