package repository

import (
	"context"

	domainRepo "github.com/sangkips/pharmacare-api/internal/domain/repository"
	"gorm.io/gorm"
)

const txKey ctxKey = "tx"

// txManager implements domain TransactionManager on top of gorm
type txManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a transaction manager backed by gorm
func NewTransactionManager(db *gorm.DB) domainRepo.TransactionManager {
	return &txManager{db: db}
}

// WithinTx runs fn inside a database transaction. The transactional
// handle is carried in the context so repository calls made through it
// join the same transaction.
func (m *txManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey, tx))
	})
}

// dbFromContext returns the transactional handle when the context carries
// one, the fallback connection otherwise.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx
	}
	return fallback
}
