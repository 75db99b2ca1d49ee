package product

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/domain"
)

const productsCollection = "products"

type Firestore struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

func (r *Firestore) products() *firestore.CollectionRef {
	return r.client.Collection(productsCollection)
}

// Upsert writes the full product document, overwriting any previous version.
func (r *Firestore) Upsert(ctx context.Context, p domain.Product) error {
	_, err := r.products().Doc(p.ID).Set(ctx, map[string]any{
		"nombre":    p.Nombre,
		"precio":    p.Precio,
		"stock":     p.Stock,
		"imgUrl":    p.ImgURL,
		"categoria": p.Categoria,
		"updatedAt": firestore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("upsert product %s: %w", p.ID, err)
	}
	return nil
}

func (r *Firestore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	snap, err := r.products().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return snapToProduct(snap)
}

func (r *Firestore) List(ctx context.Context) ([]domain.Product, error) {
	iter := r.products().OrderBy("nombre", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var products []domain.Product
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		p, err := snapToProduct(snap)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}

func snapToProduct(snap *firestore.DocumentSnapshot) (*domain.Product, error) {
	var p domain.Product
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", snap.Ref.ID, err)
	}
	p.ID = snap.Ref.ID
	return &p, nil
}
