package orderstore

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/coopfood/coopconsole/pkg/enums"
	pkgerrors "github.com/coopfood/coopconsole/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const memorySnapshot = `{
  "orders": [
    {"id": "o1", "buyerId": "u1", "consumerGroupId": "g1", "totalAmount": "25", "transportCost": 2,
     "items": [{"id": "i1", "articleId": "a1", "totalPrice": 10}, {"id": "i2", "articleId": "a2", "totalPrice": "15"}]},
    {"id": "o2", "buyerId": "u2", "consumerGroupId": "g2", "totalAmount": 5,
     "items": [{"id": "i3", "articleId": "a1", "totalPrice": 5}]},
    {"id": "o3", "buyerId": "u3", "totalAmount": 4,
     "items": [{"id": "i4", "articleId": "a1", "totalPrice": 4}]}
  ],
  "periods": [{"id": "p1", "name": "Setmana 1", "consumerGroupId": "g1"}]
}`

func newMemoryStore(t *testing.T) *MemoryStore {
	t.Helper()
	snap, err := ReadSnapshot(strings.NewReader(memorySnapshot))
	require.NoError(t, err)
	return NewMemoryStore(snap)
}

func TestMemoryStoreScopesByGroup(t *testing.T) {
	store := newMemoryStore(t)

	snap, err := store.LoadSnapshot(context.Background(), "g1")
	require.NoError(t, err)

	ids := []string{}
	for _, o := range snap.Orders {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"o1", "o3"}, ids)
	assert.Len(t, snap.Periods, 1)

	snap.Orders[0].Items[0].IsPrepared = true
	again, err := store.LoadSnapshot(context.Background(), "g1")
	require.NoError(t, err)
	assert.False(t, again.Orders[0].Items[0].IsPrepared, "loaded snapshots must not alias the store")
}

func wholeOrders(ids ...string) []PaymentTarget {
	out := make([]PaymentTarget, 0, len(ids))
	for _, id := range ids {
		out = append(out, PaymentTarget{OrderID: id, Whole: true})
	}
	return out
}

func TestMemoryStoreSetItemsPaid(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetItemsPaid(ctx, "g1", wholeOrders("o1", "o1"), true))
	snap, err := store.LoadSnapshot(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 27.0, snap.Orders[0].PaidAmount.Float64())
	assert.Equal(t, enums.PaymentStatusPaid, snap.Orders[0].PaymentStatus)
	assert.Equal(t, 15.0, snap.Orders[0].Items[1].PaidAmount.Float64())

	err = store.SetItemsPaid(ctx, "g1", wholeOrders("o2"), true)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	require.NoError(t, store.SetItemsPaid(ctx, "g1", wholeOrders("o1"), false))
	snap, err = store.LoadSnapshot(ctx, "g1")
	require.NoError(t, err)
	assert.Zero(t, snap.Orders[0].PaidAmount.Float64())
	assert.Equal(t, enums.PaymentStatusUnpaid, snap.Orders[0].PaymentStatus)
}

func TestMemoryStoreSetItemsPaidOnlyTouchesTargetedItems(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetItemsPaid(ctx, "g1", []PaymentTarget{{OrderID: "o1", ItemIDs: []string{"i1"}}}, true))
	snap, err := store.LoadSnapshot(ctx, "g1")
	require.NoError(t, err)
	order := snap.Orders[0]
	assert.Equal(t, 10.0, order.Items[0].PaidAmount.Float64())
	assert.Zero(t, order.Items[1].PaidAmount.Float64())
	assert.Equal(t, 10.0, order.PaidAmount.Float64())
	assert.Equal(t, enums.PaymentStatusPartial, order.PaymentStatus)

	require.NoError(t, store.SetItemsPaid(ctx, "g1", []PaymentTarget{{OrderID: "o1", ItemIDs: []string{"i2"}}}, true))
	snap, err = store.LoadSnapshot(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 27.0, snap.Orders[0].PaidAmount.Float64())
	assert.Equal(t, enums.PaymentStatusPaid, snap.Orders[0].PaymentStatus)

	err = store.SetItemsPaid(ctx, "g1", []PaymentTarget{{OrderID: "o1", ItemIDs: []string{"i1", "i9"}}}, false)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
	snap, err = store.LoadSnapshot(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, snap.Orders[0].Items[0].PaidAmount.Float64(), "failed command must not apply")

	err = store.SetItemsPaid(ctx, "g1", []PaymentTarget{{OrderID: "o1"}}, true)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestMemoryStorePreparedAndDelete(t *testing.T) {
	store := newMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetItemPrepared(ctx, "g1", "o1", "i2", true))
	err := store.SetItemPrepared(ctx, "g1", "o2", "i3", true)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	removed, err := store.DeleteItem(ctx, "g1", "o1", "i1")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = store.DeleteItem(ctx, "g1", "o3", "i4")
	require.NoError(t, err)
	assert.True(t, removed)

	snap, err := store.LoadSnapshot(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, snap.Orders, 1)
	assert.Equal(t, 15.0, snap.Orders[0].TotalAmount.Float64())
	assert.True(t, snap.Orders[0].Items[0].IsPrepared)

	var buf bytes.Buffer
	require.NoError(t, store.WriteSnapshot(&buf))
	reread, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	assert.Len(t, reread.Orders, 2)
}
