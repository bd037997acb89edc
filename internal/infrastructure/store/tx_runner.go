package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/jhoicas/cafecraft/internal/domain/repository"
)

// Repos construye el conjunto de repositorios sobre db (conexión o transacción).
func Repos(db bun.IDB) repository.Set {
	return repository.Set{
		Users:        NewUserRepository(db),
		Products:     NewProductRepository(db),
		Recipes:      NewRecipeRepository(db),
		CustomDrinks: NewCustomDrinkRepository(db),
		Ingredients:  NewIngredientRepository(db),
		Stock:        NewStockRepository(db),
		Transactions: NewTransactionRepository(db),
		Orders:       NewOrderRepository(db),
		Audit:        NewAuditRepository(db),
		Settings:     NewSettingRepository(db),
		Reports:      NewReportRepository(db),
	}
}

// TxRunner ejecuta callbacks dentro de una transacción.
type TxRunner struct {
	db *bun.DB
}

// NewTxRunner construye el runner.
func NewTxRunner(db *bun.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Dentro de fn solo deben usarse los repos recibidos.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos repository.Set) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, Repos(tx))
	})
}

// DryRun ejecuta fn en una transacción que siempre se revierte.
func (r *TxRunner) DryRun(ctx context.Context, fn func(ctx context.Context, repos repository.Set) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	return fn(ctx, Repos(tx))
}
