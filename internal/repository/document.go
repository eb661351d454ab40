package repository

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
)

// Document names double as file names and as keys in the documents table.
const (
	InventoryDocument = "theatreData"
	LedgerDocument    = "bookings"
)

// codec turns one snapshot type into bytes and back. Decoding an empty input
// yields the empty snapshot.
type codec[T any] struct {
	empty     func() *T
	normalize func(*T)
}

var theatreCodec = codec[domain.Theatre]{
	empty:     func() *domain.Theatre { return &domain.Theatre{Halls: []domain.Hall{}} },
	normalize: (*domain.Theatre).Normalize,
}

var ledgerCodec = codec[domain.Ledger]{
	empty:     func() *domain.Ledger { return &domain.Ledger{Bookings: []domain.Booking{}} },
	normalize: (*domain.Ledger).Normalize,
}

func (c codec[T]) decode(data []byte) (*T, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return c.empty(), nil
	}

	v := new(T)

	err := json.Unmarshal(data, v)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	c.normalize(v)

	return v, nil
}

func (c codec[T]) encode(v *T) ([]byte, error) {
	if v == nil {
		v = c.empty()
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	return data, nil
}

// DecodeTheatre parses an inventory snapshot in the theatreData.json layout.
func DecodeTheatre(data []byte) (*domain.Theatre, error) {
	return theatreCodec.decode(data)
}
