package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	catalogpostgres "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/adapters/persistence/postgres"
	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
)

var _ ports.Transactor = (*Transactor)(nil)

// Transactor runs order placement inside a single PostgreSQL transaction.
type Transactor struct {
	db *gorm.DB
}

// NewTransactor wires the transactor to a pooled handle.
func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx hands fn order and product repositories bound to one transaction.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos ports.TxRepositories) error) error {
	if t == nil || t.db == nil {
		return errors.New("postgres transactor not configured")
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, ports.TxRepositories{
			Orders:    NewRepository(tx),
			Inventory: catalogpostgres.NewRepository(tx),
		})
	})
}
