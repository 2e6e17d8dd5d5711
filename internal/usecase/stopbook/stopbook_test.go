package stopbook

import (
	"testing"
	"time"

	obv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stopOrder(side obv1.Side, stopPrice int64) *obv1.Order {
	return obv1.NewOrder("BTC-USD", side, obv1.StopLoss, 10, decimal.Zero, decimal.NewFromInt(stopPrice), "c", time.Now())
}

func TestBook_ParkAndFind(t *testing.T) {
	b := New()
	o := stopOrder(obv1.Buy, 100)
	b.Park(o)

	require.Equal(t, 1, b.Len())
	assert.Same(t, o, b.Find(o.ID.String()))
}

func TestBook_Cancel(t *testing.T) {
	b := New()
	o := stopOrder(obv1.Sell, 90)
	b.Park(o)

	assert.True(t, b.Cancel(o.ID.String()))
	assert.Equal(t, 0, b.Len())
	assert.False(t, b.Cancel(o.ID.String()))
}

func TestBook_Triggered_BuyStops_ClosestFirst(t *testing.T) {
	b := New()
	far := stopOrder(obv1.Buy, 95)
	near := stopOrder(obv1.Buy, 99)
	notYet := stopOrder(obv1.Buy, 105)
	b.Park(far)
	b.Park(near)
	b.Park(notYet)

	triggered := b.Triggered(decimal.NewFromInt(100))
	require.Len(t, triggered, 2)
	assert.Same(t, near, triggered[0])
	assert.Same(t, far, triggered[1])
	assert.Equal(t, 1, b.Len())
}

func TestBook_Triggered_SellStops_ClosestFirst(t *testing.T) {
	b := New()
	far := stopOrder(obv1.Sell, 110)
	near := stopOrder(obv1.Sell, 101)
	notYet := stopOrder(obv1.Sell, 95)
	b.Park(far)
	b.Park(near)
	b.Park(notYet)

	triggered := b.Triggered(decimal.NewFromInt(100))
	require.Len(t, triggered, 2)
	assert.Same(t, near, triggered[0])
	assert.Same(t, far, triggered[1])
	assert.Equal(t, 1, b.Len())
}

func TestBook_Triggered_BothSidesInterleaved(t *testing.T) {
	b := New()
	buyNear := stopOrder(obv1.Buy, 99)
	sellNear := stopOrder(obv1.Sell, 101)
	b.Park(buyNear)
	b.Park(sellNear)

	triggered := b.Triggered(decimal.NewFromInt(100))
	require.Len(t, triggered, 2)
	assert.Equal(t, 0, b.Len())
}

func TestBook_Triggered_NoneMatch(t *testing.T) {
	b := New()
	b.Park(stopOrder(obv1.Buy, 105))
	b.Park(stopOrder(obv1.Sell, 95))

	assert.Empty(t, b.Triggered(decimal.NewFromInt(100)))
	assert.Equal(t, 2, b.Len())
}
