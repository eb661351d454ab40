package repository

import (
	"context"
	"sync"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
)

// MemoryStore keeps a snapshot as encoded bytes so callers never share memory
// with the stored value.
type MemoryStore[T any] struct {
	mu    sync.RWMutex
	data  []byte
	codec codec[T]
}

func NewMemoryInventoryStore() *MemoryStore[domain.Theatre] {
	return &MemoryStore[domain.Theatre]{codec: theatreCodec}
}

func NewMemoryLedgerStore() *MemoryStore[domain.Ledger] {
	return &MemoryStore[domain.Ledger]{codec: ledgerCodec}
}

func (m *MemoryStore[T]) Load(ctx context.Context) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.codec.decode(m.data)
}

func (m *MemoryStore[T]) Save(ctx context.Context, v *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := m.codec.encode(v)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.data = data
	m.mu.Unlock()

	return nil
}

// Bytes returns a copy of the stored encoding.
func (m *MemoryStore[T]) Bytes() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]byte(nil), m.data...)
}
