package domain

import "context"

// InventoryReader serves read-only views of the hall and event inventory.
type InventoryReader interface {
	Load(ctx context.Context) (*Theatre, error)
}

// InventoryStore persists the whole theatre snapshot as one unit.
type InventoryStore interface {
	InventoryReader
	Save(ctx context.Context, theatre *Theatre) error
}

// LedgerStore persists the whole booking ledger as one unit.
type LedgerStore interface {
	Load(ctx context.Context) (*Ledger, error)
	Save(ctx context.Context, ledger *Ledger) error
}

// ReferenceGenerator issues booking references that sort in issuance order.
type ReferenceGenerator interface {
	NextReference(ctx context.Context) (string, error)
}
