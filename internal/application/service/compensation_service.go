package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/domain/entity"
	"github.com/marketday/fleamarket-api/internal/domain/enum"
	"github.com/marketday/fleamarket-api/internal/domain/repository"
	"github.com/marketday/fleamarket-api/pkg/apperror"
)

// CompensationService pays vendors for sold items. A compensation is itself
// a receipt: items move Sold → Compensated as they are scanned in, and the
// commission policy injects Extra lines when the receipt is finished.
type CompensationService struct {
	tx              repository.TxManager
	receiptRepo     repository.ReceiptRepository
	receiptItemRepo repository.ReceiptItemRepository
	itemRepo        repository.ItemRepository
	logRepo         repository.ItemStateLogRepository
	vendorRepo      repository.VendorRepository
	provisionFn     ProvisionFunc
}

// NewCompensationService creates a new compensation service
func NewCompensationService(
	tx repository.TxManager,
	receiptRepo repository.ReceiptRepository,
	receiptItemRepo repository.ReceiptItemRepository,
	itemRepo repository.ItemRepository,
	logRepo repository.ItemStateLogRepository,
	vendorRepo repository.VendorRepository,
	provisionFn ProvisionFunc,
) *CompensationService {
	return &CompensationService{
		tx:              tx,
		receiptRepo:     receiptRepo,
		receiptItemRepo: receiptItemRepo,
		itemRepo:        itemRepo,
		logRepo:         logRepo,
		vendorRepo:      vendorRepo,
		provisionFn:     provisionFn,
	}
}

// Start opens a pending compensation receipt for a vendor
func (s *CompensationService) Start(ctx context.Context, vendorID uuid.UUID, actor Actor) (*entity.Receipt, error) {
	var receipt *entity.Receipt
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		vendor, err := s.vendorRepo.GetByID(ctx, vendorID)
		if err != nil {
			return err
		}
		if vendor == nil {
			return apperror.NewNotFoundError("Vendor")
		}
		vid := vendorID
		receipt = &entity.Receipt{
			ClerkID:   actor.ClerkID,
			CounterID: actor.CounterID,
			VendorID:  &vid,
			Type:      enum.ReceiptTypeCompensation,
			Status:    enum.ReceiptStatusPending,
			StartTime: time.Now(),
		}
		return s.receiptRepo.Create(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

func (s *CompensationService) getPendingCompensation(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	if receipt.Type != enum.ReceiptTypeCompensation || receipt.VendorID == nil {
		return nil, apperror.NewConflictError("Receipt is not a compensation receipt")
	}
	if !receipt.IsPending() {
		return nil, apperror.NewConflictError("Receipt is no longer pending")
	}
	return receipt, nil
}

// AddItem compensates one sold item into the receipt: the item becomes
// Compensated and an Add line snapshots its price.
func (s *CompensationService) AddItem(ctx context.Context, receiptID uuid.UUID, code string, actor Actor) (*ReserveResult, error) {
	var result *ReserveResult
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		receipt, err := s.getPendingCompensation(ctx, receiptID)
		if err != nil {
			return err
		}
		item, err := s.itemRepo.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.NewNotFoundError("Item")
		}
		if item.VendorID != *receipt.VendorID {
			return apperror.NewConflictError("Item belongs to another vendor")
		}
		if item.State != enum.ItemStateSold {
			return apperror.NewConflictError("Item has not been sold")
		}

		old := item.State
		if err := s.logRepo.Create(ctx, &entity.ItemStateLog{
			ItemID:    item.ID,
			OldState:  &old,
			NewState:  enum.ItemStateCompensated,
			Time:      time.Now(),
			ClerkID:   actor.clerkRef(),
			CounterID: actor.counterRef(),
		}); err != nil {
			return err
		}
		item.State = enum.ItemStateCompensated
		item.Hidden = false
		if err := s.itemRepo.Update(ctx, item); err != nil {
			return err
		}

		itemID := item.ID
		line := &entity.ReceiptItem{
			ItemID: &itemID,
			Action: enum.ReceiptActionAdd,
			Price:  item.Price,
		}
		if err := appendLine(ctx, s.receiptItemRepo, receipt.ID, line); err != nil {
			return err
		}
		if err := recalcTotal(ctx, s.receiptRepo, s.receiptItemRepo, receipt); err != nil {
			return err
		}
		result = &ReserveResult{Item: item, Total: receipt.Total}
		return nil
	})
	return result, err
}

// Finish closes the compensation: the commission policy is evaluated at this
// transaction's snapshot and nonzero Provision/ProvisionFix lines are
// appended before the total is frozen.
func (s *CompensationService) Finish(ctx context.Context, receiptID uuid.UUID, actor Actor) (*entity.Receipt, error) {
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		receipt, err := s.getPendingCompensation(ctx, receiptID)
		if err != nil {
			return err
		}
		lines, err := s.receiptItemRepo.ListByReceipt(ctx, receipt.ID)
		if err != nil {
			return err
		}

		prov, err := computeProvision(ctx, s.itemRepo, s.receiptItemRepo, *receipt.VendorID, receipt, lines, s.provisionFn)
		if err != nil {
			return err
		}
		if prov.HasProvision {
			for _, extra := range provisionLines(prov) {
				line := extra
				if err := appendLine(ctx, s.receiptItemRepo, receipt.ID, &line); err != nil {
					return err
				}
			}
		}

		if err := recalcTotal(ctx, s.receiptRepo, s.receiptItemRepo, receipt); err != nil {
			return err
		}
		now := time.Now()
		receipt.SellTime = &now
		receipt.Status = enum.ReceiptStatusFinished
		return s.receiptRepo.Update(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}
	return s.receiptRepo.GetWithItems(ctx, receiptID)
}

// provisionLines renders a computed provision as Extra lines, omitting
// zero-valued ones so receipts carry no zero clutter.
func provisionLines(prov *Provision) []entity.ReceiptItem {
	var out []entity.ReceiptItem
	if prov.Value != 0 {
		t := enum.ExtraTypeProvision
		out = append(out, entity.ReceiptItem{
			Action:    enum.ReceiptActionExtra,
			ExtraType: &t,
			Value:     prov.Value,
		})
	}
	if prov.FixValue != 0 {
		t := enum.ExtraTypeProvisionFix
		out = append(out, entity.ReceiptItem{
			Action:    enum.ReceiptActionExtra,
			ExtraType: &t,
			Value:     prov.FixValue,
		})
	}
	return out
}

// Compensate runs a whole compensation cycle for the given item codes in one
// transaction: start, add every item, finish.
func (s *CompensationService) Compensate(ctx context.Context, vendorID uuid.UUID, codes []string, actor Actor) (*entity.Receipt, error) {
	var receiptID uuid.UUID
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		receipt, err := s.Start(ctx, vendorID, actor)
		if err != nil {
			return err
		}
		receiptID = receipt.ID
		for _, code := range codes {
			if _, err := s.AddItem(ctx, receipt.ID, code, actor); err != nil {
				return err
			}
		}
		_, err = s.Finish(ctx, receipt.ID, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.receiptRepo.GetWithItems(ctx, receiptID)
}

// CompensableResult previews a vendor's compensable items and the commission
// lines a compensation of all of them would carry right now.
type CompensableResult struct {
	Items  []entity.Item        `json:"items"`
	Extras []entity.ReceiptItem `json:"extras"`
}

// Compensable lists the vendor's sold-but-uncompensated items together with
// the projected Provision/ProvisionFix lines.
func (s *CompensationService) Compensable(ctx context.Context, vendorID uuid.UUID) (*CompensableResult, error) {
	var result *CompensableResult
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		vendor, err := s.vendorRepo.GetByID(ctx, vendorID)
		if err != nil {
			return err
		}
		if vendor == nil {
			return apperror.NewNotFoundError("Vendor")
		}
		sold, err := s.itemRepo.ListByVendor(ctx, vendorID, []enum.ItemState{enum.ItemStateSold})
		if err != nil {
			return err
		}
		prov, err := computeProvision(ctx, s.itemRepo, s.receiptItemRepo, vendorID, nil, nil, s.provisionFn)
		if err != nil {
			return err
		}
		result = &CompensableResult{Items: sold, Extras: []entity.ReceiptItem{}}
		if prov.HasProvision {
			result.Extras = provisionLines(prov)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
