package reference

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// UUIDSource uses time-ordered version 7 UUIDs, upper-cased without dashes.
type UUIDSource struct{}

func (UUIDSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}

	return strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")), nil
}
