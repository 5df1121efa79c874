package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/domain/entity"
	"github.com/marketday/fleamarket-api/internal/domain/enum"
	"github.com/marketday/fleamarket-api/internal/domain/repository"
)

// In-memory repository fakes backing the service tests. They mimic the
// database contract: unique-code violations surface ErrDuplicateKey, reads
// return copies, and the fake transaction manager just runs the function.

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memItemRepo struct {
	items map[uuid.UUID]entity.Item
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[uuid.UUID]entity.Item)}
}

func (r *memItemRepo) Create(_ context.Context, item *entity.Item) error {
	for _, existing := range r.items {
		if existing.Code == item.Code {
			return repository.ErrDuplicateKey
		}
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.CreatedAt = time.Now()
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *memItemRepo) GetByCode(_ context.Context, code string) (*entity.Item, error) {
	for _, item := range r.items {
		if item.Code == code {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memItemRepo) Update(_ context.Context, item *entity.Item) error {
	r.items[item.ID] = *item
	return nil
}

func (r *memItemRepo) ListByVendor(_ context.Context, vendorID uuid.UUID, states []enum.ItemState) ([]entity.Item, error) {
	var out []entity.Item
	for _, item := range r.items {
		if item.VendorID != vendorID {
			continue
		}
		if len(states) > 0 && !item.State.In(states...) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memItemRepo) SetAbandoned(_ context.Context, vendorID uuid.UUID, states []enum.ItemState) (int64, error) {
	var n int64
	for id, item := range r.items {
		if item.VendorID == vendorID && item.State.In(states...) {
			item.Abandoned = true
			r.items[id] = item
			n++
		}
	}
	return n, nil
}

func (r *memItemRepo) Search(_ context.Context, params *repository.ItemFilterParams) ([]entity.Item, int64, error) {
	var out []entity.Item
	for _, item := range r.items {
		if params.Query != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(params.Query)) {
			continue
		}
		if params.Code != "" && item.Code != params.Code {
			continue
		}
		if params.VendorID != nil && item.VendorID != *params.VendorID {
			continue
		}
		if len(params.States) > 0 && !item.State.In(params.States...) {
			continue
		}
		out = append(out, item)
	}
	return out, int64(len(out)), nil
}

type memLogRepo struct {
	entries []entity.ItemStateLog
}

func (r *memLogRepo) Create(_ context.Context, entry *entity.ItemStateLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memLogRepo) Each(_ context.Context, filter repository.StateLogFilter, fn func(entity.ItemStateLog) error) error {
	sorted := make([]entity.ItemStateLog, len(r.entries))
	copy(sorted, r.entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })
	for _, entry := range sorted {
		if filter.OnlyNewState != nil && entry.NewState != *filter.OnlyNewState {
			continue
		}
		if filter.ExcludeNewState != nil && entry.NewState == *filter.ExcludeNewState {
			continue
		}
		if err := fn(entry); err != nil {
			return err
		}
	}
	return nil
}

type memReceiptRepo struct {
	receipts map[uuid.UUID]entity.Receipt
	lines    *memReceiptItemRepo
	items    *memItemRepo
}

func (r *memReceiptRepo) Create(_ context.Context, receipt *entity.Receipt) error {
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	if receipt.StartTime.IsZero() {
		receipt.StartTime = time.Now()
	}
	r.receipts[receipt.ID] = *receipt
	return nil
}

func (r *memReceiptRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, ok := r.receipts[id]
	if !ok {
		return nil, nil
	}
	return &receipt, nil
}

func (r *memReceiptRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := r.GetByID(ctx, id)
	if err != nil || receipt == nil {
		return receipt, err
	}
	receipt.Items, err = r.lines.ListByReceipt(ctx, id)
	return receipt, err
}

func (r *memReceiptRepo) Update(_ context.Context, receipt *entity.Receipt) error {
	stored := *receipt
	stored.Items = nil
	r.receipts[receipt.ID] = stored
	return nil
}

func (r *memReceiptRepo) ListPending(_ context.Context) ([]entity.Receipt, error) {
	var out []entity.Receipt
	for _, receipt := range r.receipts {
		if receipt.IsPending() {
			out = append(out, receipt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *memReceiptRepo) ListPendingByClerk(_ context.Context, clerkID uuid.UUID) ([]entity.Receipt, error) {
	var out []entity.Receipt
	for _, receipt := range r.receipts {
		if receipt.IsPending() && receipt.ClerkID == clerkID {
			out = append(out, receipt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *memReceiptRepo) FindByItemCode(ctx context.Context, code string) (*entity.Receipt, error) {
	item, err := r.items.GetByCode(ctx, code)
	if err != nil || item == nil {
		return nil, err
	}
	var latest *entity.ReceiptItem
	for i := range r.lines.lines {
		line := &r.lines.lines[i]
		if line.Action == enum.ReceiptActionAdd && line.ItemID != nil && *line.ItemID == item.ID {
			if latest == nil || line.AddTime.After(latest.AddTime) {
				latest = line
			}
		}
	}
	if latest == nil {
		return nil, nil
	}
	return r.GetByID(ctx, latest.ReceiptID)
}

type memReceiptItemRepo struct {
	lines    []entity.ReceiptItem
	receipts *memReceiptRepo
}

func (r *memReceiptItemRepo) Create(_ context.Context, line *entity.ReceiptItem) error {
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	r.lines = append(r.lines, *line)
	return nil
}

func (r *memReceiptItemRepo) ListByReceipt(_ context.Context, receiptID uuid.UUID) ([]entity.ReceiptItem, error) {
	var out []entity.ReceiptItem
	for _, line := range r.lines {
		if line.ReceiptID == receiptID {
			out = append(out, line)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r *memReceiptItemRepo) UpdateAction(_ context.Context, id uuid.UUID, action enum.ReceiptAction) error {
	for i := range r.lines {
		if r.lines[i].ID == id {
			r.lines[i].Action = action
			return nil
		}
	}
	return nil
}

func (r *memReceiptItemRepo) SumExtras(_ context.Context, vendorID uuid.UUID, extraType enum.ExtraType) (int64, error) {
	var sum int64
	for _, line := range r.lines {
		if line.Action != enum.ReceiptActionExtra || line.ExtraType == nil || *line.ExtraType != extraType {
			continue
		}
		receipt, ok := r.receipts.receipts[line.ReceiptID]
		if !ok || receipt.Type != enum.ReceiptTypeCompensation || receipt.Status != enum.ReceiptStatusFinished {
			continue
		}
		if receipt.VendorID == nil || *receipt.VendorID != vendorID {
			continue
		}
		sum += line.Value
	}
	return sum, nil
}

func (r *memReceiptItemRepo) ListAddsByItem(_ context.Context, itemID uuid.UUID) ([]entity.ReceiptItem, error) {
	var out []entity.ReceiptItem
	for _, line := range r.lines {
		if line.Action == enum.ReceiptActionAdd && line.ItemID != nil && *line.ItemID == itemID {
			out = append(out, line)
		}
	}
	return out, nil
}

type memVendorRepo struct {
	vendors map[uuid.UUID]entity.Vendor
}

func (r *memVendorRepo) Create(_ context.Context, vendor *entity.Vendor) error {
	if vendor.ID == uuid.Nil {
		vendor.ID = uuid.New()
	}
	r.vendors[vendor.ID] = *vendor
	return nil
}

func (r *memVendorRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Vendor, error) {
	vendor, ok := r.vendors[id]
	if !ok {
		return nil, nil
	}
	return &vendor, nil
}

func (r *memVendorRepo) Find(_ context.Context, query string) ([]entity.Vendor, error) {
	var out []entity.Vendor
	for _, vendor := range r.vendors {
		if strings.Contains(strings.ToLower(vendor.Name), strings.ToLower(query)) {
			out = append(out, vendor)
		}
	}
	return out, nil
}

type memClerkRepo struct {
	clerks map[uuid.UUID]entity.Clerk
}

func (r *memClerkRepo) Create(_ context.Context, clerk *entity.Clerk) error {
	for _, existing := range r.clerks {
		if existing.Number == clerk.Number {
			return repository.ErrDuplicateKey
		}
	}
	if clerk.ID == uuid.Nil {
		clerk.ID = uuid.New()
	}
	r.clerks[clerk.ID] = *clerk
	return nil
}

func (r *memClerkRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Clerk, error) {
	clerk, ok := r.clerks[id]
	if !ok {
		return nil, nil
	}
	return &clerk, nil
}

func (r *memClerkRepo) GetByNumber(_ context.Context, number int) (*entity.Clerk, error) {
	for _, clerk := range r.clerks {
		if clerk.Number == number {
			found := clerk
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memClerkRepo) MaxNumber(_ context.Context) (int, error) {
	max := 0
	for _, clerk := range r.clerks {
		if clerk.Number > max {
			max = clerk.Number
		}
	}
	return max, nil
}

type memCounterRepo struct {
	counters map[uuid.UUID]entity.Counter
}

func (r *memCounterRepo) Create(_ context.Context, counter *entity.Counter) error {
	if counter.ID == uuid.Nil {
		counter.ID = uuid.New()
	}
	r.counters[counter.ID] = *counter
	return nil
}

func (r *memCounterRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Counter, error) {
	counter, ok := r.counters[id]
	if !ok {
		return nil, nil
	}
	return &counter, nil
}

func (r *memCounterRepo) GetByIdentifier(_ context.Context, identifier string) (*entity.Counter, error) {
	for _, counter := range r.counters {
		if strings.EqualFold(counter.Identifier, identifier) {
			found := counter
			return &found, nil
		}
	}
	return nil, nil
}

// fixture wires every fake together the way main wires the real stores.
type fixture struct {
	items    *memItemRepo
	logs     *memLogRepo
	receipts *memReceiptRepo
	lines    *memReceiptItemRepo
	vendors  *memVendorRepo
	clerks   *memClerkRepo
	counters *memCounterRepo
}

func newFixture() *fixture {
	items := newMemItemRepo()
	lines := &memReceiptItemRepo{}
	receipts := &memReceiptRepo{receipts: make(map[uuid.UUID]entity.Receipt), lines: lines, items: items}
	lines.receipts = receipts
	return &fixture{
		items:    items,
		logs:     &memLogRepo{},
		receipts: receipts,
		lines:    lines,
		vendors:  &memVendorRepo{vendors: make(map[uuid.UUID]entity.Vendor)},
		clerks:   &memClerkRepo{clerks: make(map[uuid.UUID]entity.Clerk)},
		counters: &memCounterRepo{counters: make(map[uuid.UUID]entity.Counter)},
	}
}

func (f *fixture) ledger() *LedgerService {
	return NewLedgerService(fakeTx{}, f.items, f.logs, f.receipts, f.lines, f.vendors)
}

func (f *fixture) receiptService() *ReceiptService {
	return NewReceiptService(fakeTx{}, f.receipts, f.lines, f.items, f.logs)
}

func (f *fixture) compensation(fn ProvisionFunc) *CompensationService {
	return NewCompensationService(fakeTx{}, f.receipts, f.lines, f.items, f.logs, f.vendors, fn)
}

func (f *fixture) newVendor() *entity.Vendor {
	vendor := &entity.Vendor{Name: "Vendor"}
	_ = f.vendors.Create(context.Background(), vendor)
	return vendor
}

// newItem seeds an item directly into the store in the given state.
func (f *fixture) newItem(vendorID uuid.UUID, state enum.ItemState, price int64) *entity.Item {
	item := &entity.Item{
		VendorID: vendorID,
		Code:     uuid.NewString(),
		Name:     "Thing",
		Price:    price,
		State:    state,
	}
	_ = f.items.Create(context.Background(), item)
	return item
}

func testActor() Actor {
	return Actor{ClerkID: uuid.New(), CounterID: uuid.New()}
}
