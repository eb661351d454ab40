package repository

import (
	"context"
	"fmt"
	"os"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
)

// SeedInventory saves the theatre found in path when the store holds no halls yet.
// It reports whether the seed was applied.
func SeedInventory(ctx context.Context, store domain.InventoryStore, path string) (bool, error) {
	if path == "" {
		return false, nil
	}

	current, err := store.Load(ctx)
	if err != nil {
		return false, err
	}

	if len(current.Halls) > 0 {
		return false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read seed file: %w", err)
	}

	theatre, err := DecodeTheatre(data)
	if err != nil {
		return false, err
	}

	err = store.Save(ctx, theatre)
	if err != nil {
		return false, err
	}

	return true, nil
}

// NormalizeInventory rewrites a populated inventory in the encoding Save produces.
func NormalizeInventory(ctx context.Context, store domain.InventoryStore) error {
	current, err := store.Load(ctx)
	if err != nil {
		return err
	}

	if len(current.Halls) == 0 {
		return nil
	}

	return store.Save(ctx, current)
}
