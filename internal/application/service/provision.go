package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/domain/entity"
	"github.com/marketday/fleamarket-api/internal/domain/enum"
	"github.com/marketday/fleamarket-api/internal/domain/repository"
)

// ProvisionFunc is the externally supplied commission policy. It receives a
// set of items and returns the commission owed for that set in minor currency
// units, or nil when no commission policy is active. The output is trusted
// verbatim; any rounding is the policy's own business.
type ProvisionFunc func(items []entity.Item) *int64

// Provision is the commission owed when a vendor is compensated, reconciled
// against commission already charged in earlier partial compensations.
//
// Eligible set S: with an in-progress compensation receipt, the vendor's
// Compensated items as seen by this transaction (concurrently sold items are
// excluded); without one, everything Sold or Compensated. Settled subset P:
// Compensated items outside the current receipt. With charged = sum of
// Provision lines on the vendor's finished compensation receipts,
//
//	Value    = -(f(S) - f(P))   marginal charge for the current batch
//	FixValue = -f(P) - charged  true-up of history against f(P)
//
// so cumulative charged provision always lands on -f(S) no matter how many
// partial phases the vendor is compensated in.
type Provision struct {
	// VendorItems is the vendor's full eligible item history S.
	VendorItems []entity.Item
	// HasProvision is false when no policy is active or S is empty; the
	// remaining fields are meaningless then.
	HasProvision bool
	// Value is the Provision line amount, non-positive.
	Value int64
	// FixValue is the ProvisionFix line amount, zero when history is in sync.
	FixValue int64
}

// computeProvision evaluates the commission policy for a vendor, optionally
// against an in-progress compensation receipt. Must run inside the same
// transaction as the receipt being finished so the eligible set is read at
// the transaction's snapshot.
func computeProvision(
	ctx context.Context,
	itemRepo repository.ItemRepository,
	lineRepo repository.ReceiptItemRepository,
	vendorID uuid.UUID,
	receipt *entity.Receipt,
	lines []entity.ReceiptItem,
	fn ProvisionFunc,
) (*Provision, error) {
	if fn == nil {
		return &Provision{}, nil
	}

	var eligible, settled []entity.Item
	if receipt != nil {
		compensated, err := itemRepo.ListByVendor(ctx, vendorID, []enum.ItemState{enum.ItemStateCompensated})
		if err != nil {
			return nil, err
		}
		current := make(map[uuid.UUID]bool)
		for _, line := range lines {
			if line.Action == enum.ReceiptActionAdd && line.ItemID != nil {
				current[*line.ItemID] = true
			}
		}
		eligible = compensated
		for _, item := range compensated {
			if !current[item.ID] {
				settled = append(settled, item)
			}
		}
	} else {
		all, err := itemRepo.ListByVendor(ctx, vendorID,
			[]enum.ItemState{enum.ItemStateSold, enum.ItemStateCompensated})
		if err != nil {
			return nil, err
		}
		eligible = all
		for _, item := range all {
			if item.State == enum.ItemStateCompensated {
				settled = append(settled, item)
			}
		}
	}

	if len(eligible) == 0 {
		return &Provision{VendorItems: eligible}, nil
	}

	fullDue := fn(eligible)
	if fullDue == nil {
		return &Provision{VendorItems: eligible}, nil
	}

	var settledDue int64
	if len(settled) > 0 {
		if v := fn(settled); v != nil {
			settledDue = *v
		}
	}

	charged, err := lineRepo.SumExtras(ctx, vendorID, enum.ExtraTypeProvision)
	if err != nil {
		return nil, err
	}

	return &Provision{
		VendorItems:  eligible,
		HasProvision: true,
		Value:        -(*fullDue - settledDue),
		FixValue:     -settledDue - charged,
	}, nil
}
