package product

import (
	"context"

	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/domain"
)

type Repository interface {
	Upsert(ctx context.Context, p domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
}
