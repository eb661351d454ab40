// Package reference issues booking reference numbers. A reference is the fixed
// prefix followed by a suffix drawn from a Source; suffixes from one source sort
// lexicographically in issuance order.
package reference

import (
	"context"
	"fmt"

	"github.com/OnsongoMabeya/simple-theatre-ticketing/internal/domain"
)

// Source produces the variable part of a reference.
type Source interface {
	Next(ctx context.Context) (string, error)
}

type Generator struct {
	prefix string
	source Source
}

// NewGenerator returns a generator using the standard booking prefix.
func NewGenerator(source Source) *Generator {
	return &Generator{
		prefix: domain.ReferencePrefix,
		source: source,
	}
}

func (g *Generator) NextReference(ctx context.Context) (string, error) {
	suffix, err := g.source.Next(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to generate booking reference: %w", err)
	}

	return g.prefix + suffix, nil
}
