package checkout

import (
	"context"
	"errors"

	"github.com/example/ec-shop/internal/domain/cart"
	"github.com/example/ec-shop/internal/domain/order"
	"github.com/example/ec-shop/internal/payment/stripe"
)

type fakeUsers struct {
	known map[string]bool
	err   error
}

func (f *fakeUsers) Exists(_ context.Context, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.known[id], nil
}

type fakeCarts struct {
	snapshots map[string]*cart.Snapshot
	err       error
}

func (f *fakeCarts) Snapshot(_ context.Context, userID string) (*cart.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	if snap, ok := f.snapshots[userID]; ok {
		return snap, nil
	}
	return &cart.Snapshot{Items: []cart.SnapshotItem{}}, nil
}

type fakeGateway struct {
	createdParams []stripe.SessionParams
	createSession *stripe.CheckoutSession
	createErr     error

	fetched      []string
	fetchSession *stripe.CheckoutSession
	fetchErr     error
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, params stripe.SessionParams) (*stripe.CheckoutSession, error) {
	f.createdParams = append(f.createdParams, params)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createSession, nil
}

func (f *fakeGateway) GetCheckoutSession(_ context.Context, id string) (*stripe.CheckoutSession, error) {
	f.fetched = append(f.fetched, id)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.fetchSession, nil
}

type fakeCommitter struct {
	committed []*order.Order
	seen      map[string]bool
	err       error
}

func (f *fakeCommitter) CommitOrder(_ context.Context, o *order.Order) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	if f.seen[o.PaymentToken] {
		return false, nil
	}
	f.seen[o.PaymentToken] = true
	o.ID = int64(len(f.committed) + 1)
	f.committed = append(f.committed, o)
	return true, nil
}

type fakePublisher struct {
	events []any
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, _ string, event any) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

var errGatewayDown = errors.New("gateway unreachable")
