package repository

import (
	"context"

	domainRepo "ketpa-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type txKey struct{}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) domainRepo.Transactor {
	return &gormTransactor{db: db}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise.
// A call nested inside another transaction joins the outer one.
func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction bound to ctx, or db otherwise
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
