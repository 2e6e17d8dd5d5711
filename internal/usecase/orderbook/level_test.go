package orderbook

import (
	"testing"
	"time"

	obv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/orderbook/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(side obv1.Side, qty int64, price decimal.Decimal) *obv1.Order {
	return obv1.NewOrder("BTC-USD", side, obv1.Limit, qty, price, decimal.Zero, "client", time.Now())
}

func TestPriceLevel_PushAndFront(t *testing.T) {
	level := newPriceLevel(decimal.NewFromInt(100))
	o1 := newTestOrder(obv1.Buy, 10, decimal.NewFromInt(100))
	o2 := newTestOrder(obv1.Buy, 5, decimal.NewFromInt(100))

	level.Push(o1)
	level.Push(o2)

	assert.Equal(t, 2, level.Len())
	assert.Equal(t, int64(15), level.Volume())
	assert.Same(t, o1, level.Front())
}

func TestPriceLevel_Remove(t *testing.T) {
	level := newPriceLevel(decimal.NewFromInt(100))
	o1 := newTestOrder(obv1.Buy, 10, decimal.NewFromInt(100))
	level.Push(o1)

	require.True(t, level.Remove(o1.ID.String()))
	assert.True(t, level.Empty())
	assert.False(t, level.Remove(o1.ID.String()))
}

func TestPriceLevel_ReduceFront(t *testing.T) {
	level := newPriceLevel(decimal.NewFromInt(100))
	o1 := newTestOrder(obv1.Buy, 10, decimal.NewFromInt(100))
	o2 := newTestOrder(obv1.Buy, 5, decimal.NewFromInt(100))
	level.Push(o1)
	level.Push(o2)

	level.ReduceFront(4)
	assert.Equal(t, int64(6), o1.Remaining)
	assert.Equal(t, int64(11), level.Volume())
	assert.Equal(t, 2, level.Len())

	level.ReduceFront(6)
	assert.Equal(t, 1, level.Len())
	assert.Same(t, o2, level.Front())
}

func TestPriceLevel_OrderByID(t *testing.T) {
	level := newPriceLevel(decimal.NewFromInt(100))
	o1 := newTestOrder(obv1.Buy, 10, decimal.NewFromInt(100))
	level.Push(o1)

	assert.Same(t, o1, level.OrderByID(o1.ID.String()))
	assert.Nil(t, level.OrderByID("nonexistent"))
}

func TestPriceLevel_Orders_PreservesFIFOOrder(t *testing.T) {
	level := newPriceLevel(decimal.NewFromInt(100))
	o1 := newTestOrder(obv1.Buy, 10, decimal.NewFromInt(100))
	o2 := newTestOrder(obv1.Buy, 5, decimal.NewFromInt(100))
	o3 := newTestOrder(obv1.Buy, 1, decimal.NewFromInt(100))
	level.Push(o1)
	level.Push(o2)
	level.Push(o3)

	orders := level.Orders()
	require.Len(t, orders, 3)
	assert.Same(t, o1, orders[0])
	assert.Same(t, o2, orders[1])
	assert.Same(t, o3, orders[2])
}
