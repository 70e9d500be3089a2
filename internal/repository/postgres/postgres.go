package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/schedly/catalog-api/internal/repository"
)

type baseRepository struct {
	db *sqlx.DB
}

// withTx runs fn inside a transaction, rolling back on error or panic.
func (r *baseRepository) withTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

type serviceRepository struct {
	baseRepository
}

type outboxRepository struct {
	baseRepository
}

func NewServiceRepository(db *sqlx.DB) repository.ServiceRepository {
	return &serviceRepository{baseRepository{db: db}}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{baseRepository{db: db}}
}
