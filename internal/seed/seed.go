package seed

import (
	"context"
	"fmt"

	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/domain"
)

type productWriter interface {
	Upsert(ctx context.Context, p domain.Product) error
}

// Apply loads a small catalog for manual testing. It is idempotent: documents
// are keyed by id and fully overwritten on each run.
func Apply(ctx context.Context, products productWriter) error {
	catalog := []domain.Product{
		{
			ID:        "filamento-pla-negro",
			Nombre:    "Filamento PLA Negro 1kg",
			Precio:    18500,
			Stock:     25,
			Categoria: "filamentos",
		},
		{
			ID:        "filamento-petg-blanco",
			Nombre:    "Filamento PETG Blanco 1kg",
			Precio:    21000,
			Stock:     14,
			Categoria: "filamentos",
		},
		{
			ID:        "mate-impreso",
			Nombre:    "Mate Impreso 3D",
			Precio:    7800,
			Stock:     40,
			Categoria: "impresiones",
		},
	}

	for _, p := range catalog {
		if err := products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}
	return nil
}
