package repository

import (
	"context"
	"errors"

	domainRepo "github.com/marketday/fleamarket-api/internal/domain/repository"
	"gorm.io/gorm"
)

type txKey struct{}

type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager over a GORM connection
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &gormTxManager{db: db}
}

// Do runs fn inside a transaction, propagating the transaction handle via
// the context. Nested calls join the enclosing transaction instead of
// opening a new one.
func (m *gormTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func txFrom(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}

// dbFrom returns the transaction bound to ctx, or the base connection when
// the call happens outside any transaction.
func dbFrom(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return base.WithContext(ctx)
}

// translateErr maps driver errors onto the domain's sentinel errors.
// Requires TranslateError enabled on the GORM config.
func translateErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainRepo.ErrDuplicateKey
	}
	return err
}
