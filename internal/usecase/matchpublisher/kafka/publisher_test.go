package kafka

import (
	"encoding/json"
	"testing"
	"time"

	matchpublisherv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/matchpublisher/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeTradeEvent_RoundTrips(t *testing.T) {
	event := matchpublisherv1.TradeEvent{
		TradeID:       "t1",
		Symbol:        "BTC-USD",
		Price:         "100",
		Quantity:      5,
		BuyOrderID:    "b1",
		SellOrderID:   "s1",
		AggressorSide: "BUY",
		Timestamp:     time.Unix(0, 0).UTC(),
	}

	buf, err := encodeTradeEvent(event)
	require.NoError(t, err)

	var got matchpublisherv1.TradeEvent
	require.NoError(t, json.Unmarshal(buf, &got))
	assert.Equal(t, event, got)
}
