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

// ReceiptService manages the lifecycle of sale receipts: reserving and
// releasing items, finishing and aborting. All mutations run inside one
// transaction so receipt lines, item state and log entries commit together.
type ReceiptService struct {
	tx              repository.TxManager
	receiptRepo     repository.ReceiptRepository
	receiptItemRepo repository.ReceiptItemRepository
	itemRepo        repository.ItemRepository
	logRepo         repository.ItemStateLogRepository
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	tx repository.TxManager,
	receiptRepo repository.ReceiptRepository,
	receiptItemRepo repository.ReceiptItemRepository,
	itemRepo repository.ItemRepository,
	logRepo repository.ItemStateLogRepository,
) *ReceiptService {
	return &ReceiptService{
		tx:              tx,
		receiptRepo:     receiptRepo,
		receiptItemRepo: receiptItemRepo,
		itemRepo:        itemRepo,
		logRepo:         logRepo,
	}
}

// ReserveResult is the outcome of staging an item into a receipt
type ReserveResult struct {
	Item    *entity.Item `json:"item"`
	Total   int64        `json:"total"`
	Message string       `json:"message,omitempty"`
}

// recalcTotal recomputes and stores the receipt total: the sum of live Add
// line prices plus the signed values of Extra lines, in minor currency units.
func recalcTotal(ctx context.Context, receipts repository.ReceiptRepository, lines repository.ReceiptItemRepository, receipt *entity.Receipt) error {
	all, err := lines.ListByReceipt(ctx, receipt.ID)
	if err != nil {
		return err
	}
	var total int64
	for _, line := range all {
		switch line.Action {
		case enum.ReceiptActionAdd:
			total += line.Price
		case enum.ReceiptActionExtra:
			total += line.Value
		}
	}
	receipt.Total = total
	return receipts.Update(ctx, receipt)
}

// appendLine adds a line at the end of the receipt, keeping insertion order
func appendLine(ctx context.Context, lines repository.ReceiptItemRepository, receiptID uuid.UUID, line *entity.ReceiptItem) error {
	existing, err := lines.ListByReceipt(ctx, receiptID)
	if err != nil {
		return err
	}
	line.ReceiptID = receiptID
	line.Sequence = len(existing) + 1
	line.AddTime = time.Now()
	return lines.Create(ctx, line)
}

// removeLineFromReceipt records the reversal of one Add line: a Remove row
// keeps the cancellation event, the Add itself becomes RemovedLater so that
// history recomputes as always-cancelled. The receipt total is refreshed.
func removeLineFromReceipt(ctx context.Context, receipts repository.ReceiptRepository, lines repository.ReceiptItemRepository, add entity.ReceiptItem) error {
	receipt, err := receipts.GetByID(ctx, add.ReceiptID)
	if err != nil {
		return err
	}
	if receipt == nil {
		return apperror.NewNotFoundError("Receipt")
	}
	remove := &entity.ReceiptItem{
		ItemID: add.ItemID,
		Action: enum.ReceiptActionRemove,
		Price:  add.Price,
	}
	if err := appendLine(ctx, lines, receipt.ID, remove); err != nil {
		return err
	}
	if err := lines.UpdateAction(ctx, add.ID, enum.ReceiptActionRemovedLater); err != nil {
		return err
	}
	return recalcTotal(ctx, receipts, lines, receipt)
}

func (s *ReceiptService) getPending(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	if receipt.Type != enum.ReceiptTypeSale {
		return nil, apperror.NewConflictError("Receipt is not a sale receipt")
	}
	if !receipt.IsPending() {
		return nil, apperror.NewConflictError("Receipt is no longer pending")
	}
	return receipt, nil
}

// Start opens a new pending sale receipt bound to the acting clerk and counter
func (s *ReceiptService) Start(ctx context.Context, actor Actor) (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		ClerkID:   actor.ClerkID,
		CounterID: actor.CounterID,
		Type:      enum.ReceiptTypeSale,
		Status:    enum.ReceiptStatusPending,
		StartTime: time.Now(),
	}
	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// Reserve stages an item into a pending receipt at its current price.
// A staged item is locked against other clerks; sold, compensated and
// returned items conflict. Reserving a not-yet-brought item proceeds with
// an advisory.
func (s *ReceiptService) Reserve(ctx context.Context, code string, receiptID uuid.UUID, actor Actor) (*ReserveResult, error) {
	var result *ReserveResult
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		item, err := s.itemRepo.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.NewNotFoundError("Item")
		}
		receipt, err := s.getPending(ctx, receiptID)
		if err != nil {
			return err
		}

		msg, err := checkAvailable(item)
		if err != nil {
			return err
		}
		if !item.State.In(enum.ItemStateAdvertised, enum.ItemStateBrought, enum.ItemStateMissing) {
			return apperror.NewConflictError("Item is not available")
		}

		old := item.State
		if err := s.logRepo.Create(ctx, &entity.ItemStateLog{
			ItemID:    item.ID,
			OldState:  &old,
			NewState:  enum.ItemStateStaged,
			Time:      time.Now(),
			ClerkID:   actor.clerkRef(),
			CounterID: actor.counterRef(),
		}); err != nil {
			return err
		}
		item.State = enum.ItemStateStaged
		item.Hidden = false
		if err := s.itemRepo.Update(ctx, item); err != nil {
			return err
		}

		itemID := item.ID
		line := &entity.ReceiptItem{
			ItemID: &itemID,
			Action: enum.ReceiptActionAdd,
			Price:  item.Price, // Snapshot: later price edits do not move this line
		}
		if err := appendLine(ctx, s.receiptItemRepo, receipt.ID, line); err != nil {
			return err
		}
		if err := recalcTotal(ctx, s.receiptRepo, s.receiptItemRepo, receipt); err != nil {
			return err
		}

		result = &ReserveResult{Item: item, Total: receipt.Total, Message: msg}
		return nil
	})
	return result, err
}

// Release undoes a reservation: the item's latest live Add line is reversed
// and the item returns to Brought. Fails with Conflict when the item is not
// held by this receipt.
func (s *ReceiptService) Release(ctx context.Context, code string, receiptID uuid.UUID, actor Actor) (*entity.ReceiptItem, error) {
	var removal *entity.ReceiptItem
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		item, err := s.itemRepo.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.NewNotFoundError("Item")
		}
		receipt, err := s.getPending(ctx, receiptID)
		if err != nil {
			return err
		}

		all, err := s.receiptItemRepo.ListByReceipt(ctx, receipt.ID)
		if err != nil {
			return err
		}
		var add *entity.ReceiptItem
		for i := len(all) - 1; i >= 0; i-- {
			if all[i].Action == enum.ReceiptActionAdd && all[i].ItemID != nil && *all[i].ItemID == item.ID {
				add = &all[i]
				break
			}
		}
		if add == nil {
			return apperror.NewConflictError("Item is not in the receipt")
		}

		if err := removeLineFromReceipt(ctx, s.receiptRepo, s.receiptItemRepo, *add); err != nil {
			return err
		}

		if item.State != enum.ItemStateBrought {
			old := item.State
			if err := s.logRepo.Create(ctx, &entity.ItemStateLog{
				ItemID:    item.ID,
				OldState:  &old,
				NewState:  enum.ItemStateBrought,
				Time:      time.Now(),
				ClerkID:   actor.clerkRef(),
				CounterID: actor.counterRef(),
			}); err != nil {
				return err
			}
			item.State = enum.ItemStateBrought
			item.Hidden = false
			if err := s.itemRepo.Update(ctx, item); err != nil {
				return err
			}
		}

		lines, err := s.receiptItemRepo.ListByReceipt(ctx, receipt.ID)
		if err != nil {
			return err
		}
		removal = &lines[len(lines)-1]
		return nil
	})
	return removal, err
}

// Finish completes a pending sale: every item still held by a live Add line
// becomes Sold, the total is frozen as last computed.
func (s *ReceiptService) Finish(ctx context.Context, receiptID uuid.UUID, actor Actor) (*entity.Receipt, error) {
	var receipt *entity.Receipt
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		receipt, err = s.getPending(ctx, receiptID)
		if err != nil {
			return err
		}

		lines, err := s.receiptItemRepo.ListByReceipt(ctx, receipt.ID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if line.Action != enum.ReceiptActionAdd || line.ItemID == nil {
				continue
			}
			item, err := s.itemRepo.GetByID(ctx, *line.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return apperror.NewNotFoundError("Item")
			}
			old := item.State
			if err := s.logRepo.Create(ctx, &entity.ItemStateLog{
				ItemID:    item.ID,
				OldState:  &old,
				NewState:  enum.ItemStateSold,
				Time:      time.Now(),
				ClerkID:   actor.clerkRef(),
				CounterID: actor.counterRef(),
			}); err != nil {
				return err
			}
			item.State = enum.ItemStateSold
			item.Hidden = false
			if err := s.itemRepo.Update(ctx, item); err != nil {
				return err
			}
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

// Abort cancels a pending receipt. Every live Add line gets a Remove row and
// its item returns to Brought; only after that insertion loop completes are
// the original Add lines reclassified to RemovedLater, because the Remove
// rows change what counts as a live Add.
func (s *ReceiptService) Abort(ctx context.Context, receiptID uuid.UUID, actor Actor) (*entity.Receipt, error) {
	var receipt *entity.Receipt
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		receipt, err = s.getPending(ctx, receiptID)
		if err != nil {
			return err
		}

		lines, err := s.receiptItemRepo.ListByReceipt(ctx, receipt.ID)
		if err != nil {
			return err
		}
		var adds []entity.ReceiptItem
		for _, line := range lines {
			if line.Action == enum.ReceiptActionAdd {
				adds = append(adds, line)
			}
		}

		for _, add := range adds {
			remove := &entity.ReceiptItem{
				ItemID: add.ItemID,
				Action: enum.ReceiptActionRemove,
				Price:  add.Price,
			}
			if err := appendLine(ctx, s.receiptItemRepo, receipt.ID, remove); err != nil {
				return err
			}
			if add.ItemID == nil {
				continue
			}
			item, err := s.itemRepo.GetByID(ctx, *add.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return apperror.NewNotFoundError("Item")
			}
			if item.State != enum.ItemStateBrought {
				old := item.State
				if err := s.logRepo.Create(ctx, &entity.ItemStateLog{
					ItemID:    item.ID,
					OldState:  &old,
					NewState:  enum.ItemStateBrought,
					Time:      time.Now(),
					ClerkID:   actor.clerkRef(),
					CounterID: actor.counterRef(),
				}); err != nil {
					return err
				}
				item.State = enum.ItemStateBrought
				item.Hidden = false
				if err := s.itemRepo.Update(ctx, item); err != nil {
					return err
				}
			}
		}

		for _, add := range adds {
			if err := s.receiptItemRepo.UpdateAction(ctx, add.ID, enum.ReceiptActionRemovedLater); err != nil {
				return err
			}
		}

		now := time.Now()
		receipt.SellTime = &now
		receipt.Status = enum.ReceiptStatusAborted
		if err := s.receiptRepo.Update(ctx, receipt); err != nil {
			return err
		}
		return recalcTotal(ctx, s.receiptRepo, s.receiptItemRepo, receipt)
	})
	if err != nil {
		return nil, err
	}
	return s.receiptRepo.GetWithItems(ctx, receiptID)
}

// Get returns a receipt with its lines in insertion order
func (s *ReceiptService) Get(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return receipt, nil
}

// GetByItem finds the receipt currently holding the item
func (s *ReceiptService) GetByItem(ctx context.Context, code string) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.FindByItemCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	return s.Get(ctx, receipt.ID)
}

// Activate resumes a clerk's previously started pending receipt
func (s *ReceiptService) Activate(ctx context.Context, receiptID, clerkID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetWithItems(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil || receipt.ClerkID != clerkID || !receipt.IsPending() {
		return nil, apperror.NewNotFoundError("Pending receipt")
	}
	return receipt, nil
}

// ListPending lists all pending receipts, for overseers
func (s *ReceiptService) ListPending(ctx context.Context) ([]entity.Receipt, error) {
	return s.receiptRepo.ListPending(ctx)
}

// ListPendingByClerk lists the clerk's own pending receipts, for login resume
func (s *ReceiptService) ListPendingByClerk(ctx context.Context, clerkID uuid.UUID) ([]entity.Receipt, error) {
	return s.receiptRepo.ListPendingByClerk(ctx, clerkID)
}
