package service

import (
	"github.com/google/uuid"
	"github.com/marketday/fleamarket-api/internal/domain/entity"
	"github.com/marketday/fleamarket-api/internal/domain/enum"
	"github.com/marketday/fleamarket-api/pkg/apperror"
)

// Actor identifies the clerk and counter performing an operation, recorded
// on every item state transition. Zero-value fields stay null in the log
// (vendor self-service registration has no clerk).
type Actor struct {
	ClerkID   uuid.UUID
	CounterID uuid.UUID
}

func (a Actor) clerkRef() *uuid.UUID {
	if a.ClerkID == uuid.Nil {
		return nil
	}
	id := a.ClerkID
	return &id
}

func (a Actor) counterRef() *uuid.UUID {
	if a.CounterID == uuid.Nil {
		return nil
	}
	id := a.CounterID
	return &id
}

// checkAvailable validates that an item is in a buyable state. A non-empty
// message with a nil error is an advisory: the operation may proceed but the
// caller should surface the caveat.
func checkAvailable(item *entity.Item) (string, error) {
	switch {
	case item.State == enum.ItemStateStaged:
		return "", apperror.NewLockedError("Item is already staged to be sold")
	case item.State == enum.ItemStateAdvertised:
		return "Item has not been brought to event", nil
	case item.State.In(enum.ItemStateSold, enum.ItemStateCompensated):
		return "", apperror.NewConflictError("Item has already been sold")
	case item.State == enum.ItemStateReturned:
		return "", apperror.NewConflictError("Item has already been returned to owner")
	}
	return "", nil
}
