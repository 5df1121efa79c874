package service

import (
	"context"
	"testing"

	"github.com/marketday/fleamarket-api/internal/domain/enum"
	"github.com/marketday/fleamarket-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveAndFinish(t *testing.T) {
	f := newFixture()
	vendor := f.newVendor()
	a := f.newItem(vendor.ID, enum.ItemStateBrought, 100)
	b := f.newItem(vendor.ID, enum.ItemStateBrought, 250)
	svc := f.receiptService()
	ctx := context.Background()
	actor := testActor()

	receipt, err := svc.Start(ctx, actor)
	require.NoError(t, err)

	res, err := svc.Reserve(ctx, a.Code, receipt.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, enum.ItemStateStaged, res.Item.State)
	assert.Equal(t, int64(100), res.Total)
	assert.Empty(t, res.Message)

	res, err = svc.Reserve(ctx, b.Code, receipt.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, int64(350), res.Total)

	finished, err := svc.Finish(ctx, receipt.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, enum.ReceiptStatusFinished, finished.Status)
	assert.Equal(t, int64(350), finished.Total)
	assert.NotNil(t, finished.SellTime)

	stored, err := f.items.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ItemStateSold, stored.State)
}

func TestReserveAdvertisedItemAdvises(t *testing.T) {
	f := newFixture()
	vendor := f.newVendor()
	item := f.newItem(vendor.ID, enum.ItemStateAdvertised, 100)
	svc := f.receiptService()
	ctx := context.Background()
	actor := testActor()

	receipt, err := svc.Start(ctx, actor)
	require.NoError(t, err)

	res, err := svc.Reserve(ctx, item.Code, receipt.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, "Item has not been brought to event", res.Message)
	assert.Equal(t, enum.ItemStateStaged, res.Item.State)
}

func TestReserveStagedItemLocks(t *testing.T) {
	f := newFixture()
	vendor := f.newVendor()
	item := f.newItem(vendor.ID, enum.ItemStateBrought, 100)
	svc := f.receiptService()
	ctx := context.Background()
	actor := testActor()

	first, err := svc.Start(ctx, actor)
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, item.Code, first.ID, actor)
	require.NoError(t, err)

	second, err := svc.Start(ctx, actor)
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, item.Code, second.ID, actor)
	require.Error(t, err)
	assert.True(t, apperror.IsLocked(err))
}

func TestReserveSoldItemConflicts(t *testing.T) {
	f := newFixture()
	vendor := f.newVendor()
	item := f.newItem(vendor.ID, enum.ItemStateSold, 100)
	svc := f.receiptService()
	ctx := context.Background()
	actor := testActor()

	receipt, err := svc.Start(ctx, actor)
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, item.Code, receipt.ID, actor)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestReleaseRoundTrip(t *testing.T) {
	f := newFixture()
	vendor := f.newVendor()
	item := f.newItem(vendor.ID, enum.ItemStateBrought, 100)
	svc := f.receiptService()
	ctx := context.Background()
	actor := testActor()

	receipt, err := svc.Start(ctx, actor)
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, item.Code, receipt.ID, actor)
	require.NoError(t, err)

	removal, err := svc.Release(ctx, item.Code, receipt.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, enum.ReceiptActionRemove, removal.Action)

	stored, err := f.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ItemStateBrought, stored.State)

	got, err := svc.Get(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Total)

	// The original Add is reclassified, not deleted.
	var actions []enum.ReceiptAction
	for _, line := range got.Items {
		actions = append(actions, line.Action)
	}
	assert.Equal(t, []enum.ReceiptAction{enum.ReceiptActionRemovedLater, enum.ReceiptActionRemove}, actions)

	// The item can be sold again on the same receipt.
	res, err := svc.Reserve(ctx, item.Code, receipt.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, int64(100), res.Total)
}

func TestReleaseItemNotInReceipt(t *testing.T) {
	f := newFixture()
	vendor := f.newVendor()
	item := f.newItem(vendor.ID, enum.ItemStateBrought, 100)
	svc := f.receiptService()
	ctx := context.Background()
	actor := testActor()

	receipt, err := svc.Start(ctx, actor)
	require.NoError(t, err)

	_, err = svc.Release(ctx, item.Code, receipt.ID, actor)
	assert.EqualError(t, err, "Item is not in the receipt")
}

func TestAbortRestoresItems(t *testing.T) {
	f := newFixture()
	vendor := f.newVendor()
	a := f.newItem(vendor.ID, enum.ItemStateBrought, 100)
	b := f.newItem(vendor.ID, enum.ItemStateBrought, 200)
	svc := f.receiptService()
	ctx := context.Background()
	actor := testActor()

	receipt, err := svc.Start(ctx, actor)
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, a.Code, receipt.ID, actor)
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, b.Code, receipt.ID, actor)
	require.NoError(t, err)

	aborted, err := svc.Abort(ctx, receipt.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, enum.ReceiptStatusAborted, aborted.Status)
	assert.Equal(t, int64(0), aborted.Total)

	for _, id := range []string{a.Code, b.Code} {
		stored, err := f.items.GetByCode(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, enum.ItemStateBrought, stored.State)
	}

	// Two Adds reclassified plus two Remove rows, no duplicates.
	var removes, removedLater int
	for _, line := range aborted.Items {
		switch line.Action {
		case enum.ReceiptActionRemove:
			removes++
		case enum.ReceiptActionRemovedLater:
			removedLater++
		}
	}
	assert.Equal(t, 2, removes)
	assert.Equal(t, 2, removedLater)
}

func TestAbortTwiceConflicts(t *testing.T) {
	f := newFixture()
	svc := f.receiptService()
	ctx := context.Background()
	actor := testActor()

	receipt, err := svc.Start(ctx, actor)
	require.NoError(t, err)
	_, err = svc.Abort(ctx, receipt.ID, actor)
	require.NoError(t, err)

	_, err = svc.Abort(ctx, receipt.ID, actor)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestFinishTwiceConflicts(t *testing.T) {
	f := newFixture()
	svc := f.receiptService()
	ctx := context.Background()
	actor := testActor()

	receipt, err := svc.Start(ctx, actor)
	require.NoError(t, err)
	_, err = svc.Finish(ctx, receipt.ID, actor)
	require.NoError(t, err)

	_, err = svc.Finish(ctx, receipt.ID, actor)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestSaleOperationsRejectCompensationReceipt(t *testing.T) {
	f := newFixture()
	vendor := f.newVendor()
	item := f.newItem(vendor.ID, enum.ItemStateSold, 125)
	comp := f.compensation(nil)
	sale := f.receiptService()
	ctx := context.Background()
	actor := testActor()

	receipt, err := comp.Start(ctx, vendor.ID, actor)
	require.NoError(t, err)
	_, err = comp.AddItem(ctx, receipt.ID, item.Code, actor)
	require.NoError(t, err)

	// A pending compensation receipt must not be driven through the sale
	// endpoints: finishing it there would flip the item to Sold and skip
	// the provision lines entirely.
	_, err = sale.Finish(ctx, receipt.ID, actor)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))

	_, err = sale.Abort(ctx, receipt.ID, actor)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))

	_, err = sale.Release(ctx, item.Code, receipt.ID, actor)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))

	stored, err := f.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.ItemStateCompensated, stored.State)
}

func TestActivateRequiresOwnPendingReceipt(t *testing.T) {
	f := newFixture()
	svc := f.receiptService()
	ctx := context.Background()
	owner := testActor()
	other := testActor()

	receipt, err := svc.Start(ctx, owner)
	require.NoError(t, err)

	got, err := svc.Activate(ctx, receipt.ID, owner.ClerkID)
	require.NoError(t, err)
	assert.Equal(t, receipt.ID, got.ID)

	_, err = svc.Activate(ctx, receipt.ID, other.ClerkID)
	assert.Error(t, err)
}

func TestGetByItem(t *testing.T) {
	f := newFixture()
	vendor := f.newVendor()
	item := f.newItem(vendor.ID, enum.ItemStateBrought, 100)
	svc := f.receiptService()
	ctx := context.Background()
	actor := testActor()

	receipt, err := svc.Start(ctx, actor)
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, item.Code, receipt.ID, actor)
	require.NoError(t, err)

	found, err := svc.GetByItem(ctx, item.Code)
	require.NoError(t, err)
	assert.Equal(t, receipt.ID, found.ID)
}
