package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/domain/entity"
	"github.com/marketday/fleamarket-api/internal/domain/enum"
	"github.com/marketday/fleamarket-api/internal/domain/repository"
	"github.com/marketday/fleamarket-api/pkg/apperror"
	"github.com/marketday/fleamarket-api/pkg/pagination"
	"github.com/marketday/fleamarket-api/pkg/utils"
)

// codeRetries bounds the regenerate-and-retry loop on barcode collisions.
const codeRetries = 5

// LedgerService tracks each item's state and flags, recording every state
// transition to the append-only log before the item itself is mutated.
type LedgerService struct {
	tx              repository.TxManager
	itemRepo        repository.ItemRepository
	logRepo         repository.ItemStateLogRepository
	receiptRepo     repository.ReceiptRepository
	receiptItemRepo repository.ReceiptItemRepository
	vendorRepo      repository.VendorRepository
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	tx repository.TxManager,
	itemRepo repository.ItemRepository,
	logRepo repository.ItemStateLogRepository,
	receiptRepo repository.ReceiptRepository,
	receiptItemRepo repository.ReceiptItemRepository,
	vendorRepo repository.VendorRepository,
) *LedgerService {
	return &LedgerService{
		tx:              tx,
		itemRepo:        itemRepo,
		logRepo:         logRepo,
		receiptRepo:     receiptRepo,
		receiptItemRepo: receiptItemRepo,
		vendorRepo:      vendorRepo,
	}
}

// ItemResult is an item snapshot plus an optional advisory message.
// The message signals an informational caveat on a successful operation,
// never a failure.
type ItemResult struct {
	Item    *entity.Item `json:"item"`
	Message string       `json:"message,omitempty"`
}

// transition appends a log entry and then moves the item to the new state.
// Any interaction with an item un-hides it. Must run inside a transaction.
func (s *LedgerService) transition(ctx context.Context, item *entity.Item, to enum.ItemState, actor Actor) error {
	old := item.State
	entry := &entity.ItemStateLog{
		ItemID:    item.ID,
		OldState:  &old,
		NewState:  to,
		Time:      time.Now(),
		ClerkID:   actor.clerkRef(),
		CounterID: actor.counterRef(),
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		return err
	}
	item.State = to
	item.Hidden = false
	return s.itemRepo.Update(ctx, item)
}

func (s *LedgerService) getByCode(ctx context.Context, code string) (*entity.Item, error) {
	item, err := s.itemRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("Item '%s'", code))
	}
	return item, nil
}

// modeChange moves an item between states when its current state is one of
// from. When the transition happened from a state other than the first listed
// one, msgIfNotFirst is attached as an advisory.
func (s *LedgerService) modeChange(ctx context.Context, code string, from []enum.ItemState, to enum.ItemState, actor Actor, msgIfNotFirst string) (*ItemResult, error) {
	var result *ItemResult
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		item, err := s.getByCode(ctx, code)
		if err != nil {
			return err
		}
		if !item.State.In(from...) {
			return apperror.NewConflictError(fmt.Sprintf("Unexpected item state: %s", item.State))
		}
		old := item.State
		if err := s.transition(ctx, item, to, actor); err != nil {
			return err
		}
		result = &ItemResult{Item: item}
		if msgIfNotFirst != "" && len(from) > 1 && old != from[0] {
			result.Message = msgIfNotFirst
		}
		return nil
	})
	return result, err
}

// RegisterItemInput represents the register item input
type RegisterItemInput struct {
	VendorID uuid.UUID
	Name     string
	Price    int64
}

// RegisterItem creates a new Advertised item for a vendor, generating a
// fresh barcode. Code generation retries on unique-constraint collisions.
func (s *LedgerService) RegisterItem(ctx context.Context, input *RegisterItemInput) (*entity.Item, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Item name is required")
	}
	if input.Price < 0 {
		return nil, apperror.NewBadRequestError("Price must not be negative")
	}

	var item *entity.Item
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		vendor, err := s.vendorRepo.GetByID(ctx, input.VendorID)
		if err != nil {
			return err
		}
		if vendor == nil {
			return apperror.NewNotFoundError("Vendor")
		}

		for attempt := 0; ; attempt++ {
			code, err := utils.NewItemCode()
			if err != nil {
				return err
			}
			item = &entity.Item{
				VendorID: input.VendorID,
				Code:     code,
				Name:     input.Name,
				Price:    input.Price,
				State:    enum.ItemStateAdvertised,
			}
			err = s.itemRepo.Create(ctx, item)
			if err == nil {
				break
			}
			if !errors.Is(err, repository.ErrDuplicateKey) || attempt >= codeRetries {
				return err
			}
		}

		return s.logRepo.Create(ctx, &entity.ItemStateLog{
			ItemID:   item.ID,
			NewState: enum.ItemStateAdvertised,
			Time:     time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Checkin brings an Advertised item to the event
func (s *LedgerService) Checkin(ctx context.Context, code string, actor Actor) (*ItemResult, error) {
	return s.modeChange(ctx, code,
		[]enum.ItemState{enum.ItemStateAdvertised},
		enum.ItemStateBrought, actor, "")
}

// Checkout returns an unsold item to its owner. Checking out an item that was
// never brought succeeds with an advisory message.
func (s *LedgerService) Checkout(ctx context.Context, code string, actor Actor) (*ItemResult, error) {
	return s.modeChange(ctx, code,
		[]enum.ItemState{enum.ItemStateBrought, enum.ItemStateAdvertised},
		enum.ItemStateReturned, actor, "Item was not brought to event")
}

// MarkMissing records that a brought item cannot be located. Missing items
// stay sellable, so reserving one later moves it straight back into a sale.
func (s *LedgerService) MarkMissing(ctx context.Context, code string, actor Actor) (*ItemResult, error) {
	return s.modeChange(ctx, code,
		[]enum.ItemState{enum.ItemStateBrought},
		enum.ItemStateMissing, actor, "")
}

// Find looks an item up by barcode. With checkAvailability set the
// availability rules are applied and may fail with Locked or Conflict.
func (s *LedgerService) Find(ctx context.Context, code string, checkAvailability bool) (*ItemResult, error) {
	item, err := s.getByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	result := &ItemResult{Item: item}
	if checkAvailability {
		msg, err := checkAvailable(item)
		if err != nil {
			return nil, err
		}
		result.Message = msg
	}
	return result, nil
}

// MarkLost flags an item as lost property. Not allowed for sold, staged or
// abandoned items; the state itself does not change.
func (s *LedgerService) MarkLost(ctx context.Context, code string) (*entity.Item, error) {
	var item *entity.Item
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		item, err = s.getByCode(ctx, code)
		if err != nil {
			return err
		}
		if item.State == enum.ItemStateSold {
			return apperror.NewConflictError("Item is sold")
		}
		if item.State == enum.ItemStateStaged {
			return apperror.NewConflictError("Item is staged to be sold")
		}
		if item.Abandoned {
			return apperror.NewConflictError("Item is abandoned")
		}
		item.LostProperty = true
		return s.itemRepo.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// AbandonAll flags all of a vendor's Brought and Missing items as abandoned.
// This is an administrative bulk flag, not a state change, and is not logged.
func (s *LedgerService) AbandonAll(ctx context.Context, vendorID uuid.UUID) (int64, error) {
	return s.itemRepo.SetAbandoned(ctx, vendorID,
		[]enum.ItemState{enum.ItemStateBrought, enum.ItemStateMissing})
}

// ListByVendor returns a vendor's items, optionally restricted to one state
func (s *LedgerService) ListByVendor(ctx context.Context, vendorID uuid.UUID, state *enum.ItemState) ([]entity.Item, error) {
	var states []enum.ItemState
	if state != nil {
		states = []enum.ItemState{*state}
	}
	return s.itemRepo.ListByVendor(ctx, vendorID, states)
}

// Search lists items with filtering, for overseers
func (s *LedgerService) Search(ctx context.Context, params *repository.ItemFilterParams) (*pagination.PaginatedResult[entity.Item], error) {
	items, total, err := s.itemRepo.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

// EditItemInput represents the authorized item edit input
type EditItemInput struct {
	Code  string
	Price int64
	State enum.ItemState
}

// priceEditableStates are the states in which an item's price may change.
var priceEditableStates = []enum.ItemState{enum.ItemStateAdvertised, enum.ItemStateBrought}

// unsoldStates are the states an overseer may force an item back into.
var unsoldStates = []enum.ItemState{
	enum.ItemStateAdvertised,
	enum.ItemStateBrought,
	enum.ItemStateMissing,
	enum.ItemStateReturned,
}

// Edit applies an overseer's price/state correction. Price is editable only
// around the Advertised/Brought end of the lifecycle. Forcing a sold item back
// to an unsold state first removes it from every receipt still holding it.
func (s *LedgerService) Edit(ctx context.Context, input *EditItemInput, actor Actor) (*entity.Item, error) {
	if !input.State.Valid() {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown state: %d", input.State))
	}
	if input.Price < 0 {
		return nil, apperror.NewBadRequestError("Price must not be negative")
	}

	var item *entity.Item
	err := s.tx.Do(ctx, func(ctx context.Context) error {
		var err error
		item, err = s.getByCode(ctx, input.Code)
		if err != nil {
			return err
		}

		if input.Price != item.Price {
			if !item.State.In(priceEditableStates...) && !input.State.In(priceEditableStates...) {
				return apperror.NewBadRequestError(fmt.Sprintf("Cannot change price in state %q", item.State))
			}
		}

		if input.State != item.State {
			fromSold := !item.State.In(unsoldStates...) && item.State != enum.ItemStateStaged
			if !(fromSold && input.State.In(unsoldStates...)) {
				return apperror.NewBadRequestError(fmt.Sprintf("Cannot change state from %q to %q", item.State, input.State))
			}
			// The item is leaving a sold state: detach it from every receipt
			// that still counts it.
			adds, err := s.receiptItemRepo.ListAddsByItem(ctx, item.ID)
			if err != nil {
				return err
			}
			for _, add := range adds {
				if err := removeLineFromReceipt(ctx, s.receiptRepo, s.receiptItemRepo, add); err != nil {
					return err
				}
			}
			if err := s.transition(ctx, item, input.State, actor); err != nil {
				return err
			}
		}

		item.Price = input.Price
		return s.itemRepo.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}
