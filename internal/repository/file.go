package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
	"github.com/google/renameio/v2"
)

// FileStore keeps a snapshot in a single JSON file. Saves go through renameio, so
// readers see either the previous or the new snapshot and never a partial write.
type FileStore[T any] struct {
	mu    sync.Mutex
	path  string
	codec codec[T]
}

// NewFileInventoryStore stores the inventory as theatreData.json inside dir.
func NewFileInventoryStore(dir string) *FileStore[domain.Theatre] {
	return &FileStore[domain.Theatre]{
		path:  filepath.Join(dir, InventoryDocument+".json"),
		codec: theatreCodec,
	}
}

// NewFileLedgerStore stores the ledger as bookings.json inside dir.
func NewFileLedgerStore(dir string) *FileStore[domain.Ledger] {
	return &FileStore[domain.Ledger]{
		path:  filepath.Join(dir, LedgerDocument+".json"),
		codec: ledgerCodec,
	}
}

func (f *FileStore[T]) Path() string {
	return f.path
}

func (f *FileStore[T]) Load(ctx context.Context) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return f.codec.empty(), nil
		}

		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	return f.codec.decode(data)
}

func (f *FileStore[T]) Save(ctx context.Context, v *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := f.codec.encode(v)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return writeFileAtomic(f.path, data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	err = renameio.WriteFile(path, data, 0o644, renameio.WithTempDir(dir))
	if err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
