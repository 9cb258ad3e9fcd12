package ports

import (
	"context"

	catalogports "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
)

// Inventory is the slice of the catalog the order context reads and decrements.
// Catalog repositories satisfy it directly.
type Inventory interface {
	GetByID(ctx context.Context, id string) (*catalogports.ProductProjection, error)
	DecrementStock(ctx context.Context, id string, qty int) (*catalogports.ProductProjection, error)
}

// LockingInventory additionally locks a product row for the rest of a transaction.
type LockingInventory interface {
	Inventory
	GetForUpdate(ctx context.Context, id string) (*catalogports.ProductProjection, error)
}

// TxRepositories are the repositories bound to one open transaction.
type TxRepositories struct {
	Orders    Repository
	Inventory LockingInventory
}

// Transactor runs fn inside a single database transaction, committing when fn
// returns nil and rolling back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
