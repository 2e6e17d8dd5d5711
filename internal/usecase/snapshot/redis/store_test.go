package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	snapshotv1 "github.com/muhammadchandra19/exchange/services/matching-core/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/exchange/services/matching-core/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient implements redisclient.Client with an in-memory string map,
// standing in for a real Redis connection.
type fakeClient struct {
	data   map[string]string
	getErr error
	setErr error
}

func newFakeClient() *fakeClient {
	return &fakeClient{data: make(map[string]string)}
}

func (f *fakeClient) Connect(context.Context) error    { return nil }
func (f *fakeClient) Disconnect(context.Context) error { return nil }
func (f *fakeClient) Ping(context.Context) error       { return nil }
func (f *fakeClient) Reconnect(context.Context) bool   { return true }

func (f *fakeClient) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.data[key], nil
}

func (f *fakeClient) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	buf, ok := value.([]byte)
	if !ok {
		return errors.New("unexpected value type")
	}
	f.data[key] = string(buf)
	return nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(logger.WithOutputPaths([]string{"/dev/null"}))
	require.NoError(t, err)
	return log
}

func TestStore_LoadStoreOnMissingKeyReturnsErrNoSnapshot(t *testing.T) {
	client := newFakeClient()
	store := New(client, "BTC-USD", testLogger(t))

	snap, err := store.LoadStore(context.Background())
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, snapshotv1.ErrNoSnapshot)
}

func TestStore_StoreThenLoadRoundTrips(t *testing.T) {
	client := newFakeClient()
	store := New(client, "BTC-USD", testLogger(t))

	want := &snapshotv1.Snapshot{
		Symbol: "BTC-USD",
		Bids:   []snapshotv1.BookOrder{{OrderID: "1", Quantity: 5, Price: "100"}},
	}
	require.NoError(t, store.Store(context.Background(), want))

	got, err := store.LoadStore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Symbol, got.Symbol)
	require.Len(t, got.Bids, 1)
	assert.Equal(t, "1", got.Bids[0].OrderID)
}

func TestStore_LoadStorePropagatesClientError(t *testing.T) {
	client := newFakeClient()
	client.getErr = errors.New("connection refused")
	store := New(client, "BTC-USD", testLogger(t))

	_, err := store.LoadStore(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, snapshotv1.ErrNoSnapshot)
}

func TestStore_StorePropagatesClientError(t *testing.T) {
	client := newFakeClient()
	client.setErr = errors.New("connection refused")
	store := New(client, "BTC-USD", testLogger(t))

	err := store.Store(context.Background(), &snapshotv1.Snapshot{Symbol: "BTC-USD"})
	assert.Error(t, err)
}
