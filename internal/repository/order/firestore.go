package order

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/domain"
)

const (
	ordersCollection   = "orders"
	productsCollection = "products"
)

// Firestore persists orders as documents in the "orders" collection, with
// server-assigned creation and update timestamps.
type Firestore struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

func (r *Firestore) orders() *firestore.CollectionRef {
	return r.client.Collection(ordersCollection)
}

func (r *Firestore) products() *firestore.CollectionRef {
	return r.client.Collection(productsCollection)
}

// orderDoc mirrors the persisted order document for reads.
type orderDoc struct {
	Buyer                *domain.Buyer       `firestore:"buyer"`
	Items                []domain.OrderItem  `firestore:"items"`
	CantidadProductos    int                 `firestore:"cantidadProductos"`
	Total                float64             `firestore:"total"`
	Estado               string              `firestore:"estado"`
	PaymentID            string              `firestore:"paymentId"`
	PaymentStatus        string              `firestore:"paymentStatus"`
	PaymentStatusDetail  string              `firestore:"paymentStatusDetail"`
	PaymentInfo          *domain.PaymentInfo `firestore:"paymentInfo"`
	PaymentConfirmed     bool                `firestore:"paymentConfirmed"`
	FulfillmentStatus    string              `firestore:"fulfillmentStatus"`
	Shipping             *domain.Shipping    `firestore:"shipping"`
	PreferenceID         string              `firestore:"preferenceId"`
	InitPoint            string              `firestore:"initPoint"`
	SandboxInitPoint     string              `firestore:"sandboxInitPoint"`
	CheckoutErrorMessage string              `firestore:"checkoutErrorMessage"`
	Fecha                time.Time           `firestore:"fecha"`
	UpdatedAt            time.Time           `firestore:"updatedAt"`
}

func docToOrder(snap *firestore.DocumentSnapshot) (*domain.Order, error) {
	var d orderDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}

	fulfillment := domain.FulfillmentStatus(d.FulfillmentStatus)
	if fulfillment == "" {
		fulfillment = domain.FulfillmentPendiente
	}

	return &domain.Order{
		ID:                   snap.Ref.ID,
		Buyer:                d.Buyer,
		Items:                d.Items,
		CantidadProductos:    d.CantidadProductos,
		Total:                d.Total,
		Estado:               d.Estado,
		PaymentID:            d.PaymentID,
		PaymentStatus:        d.PaymentStatus,
		PaymentStatusDetail:  d.PaymentStatusDetail,
		PaymentInfo:          d.PaymentInfo,
		PaymentConfirmed:     d.PaymentConfirmed,
		FulfillmentStatus:    fulfillment,
		Shipping:             d.Shipping,
		PreferenceID:         d.PreferenceID,
		InitPoint:            d.InitPoint,
		SandboxInitPoint:     d.SandboxInitPoint,
		CheckoutErrorMessage: d.CheckoutErrorMessage,
		Fecha:                d.Fecha,
		UpdatedAt:            d.UpdatedAt,
	}, nil
}

func itemToDoc(item domain.OrderItem) map[string]any {
	doc := map[string]any{
		"id":       item.ID,
		"nombre":   item.Nombre,
		"precio":   item.Precio,
		"cantidad": item.Cantidad,
		"subtotal": item.Subtotal,
	}
	if item.ImgURL != "" {
		doc["imgUrl"] = item.ImgURL
	}
	return doc
}

func shippingToDoc(s *domain.Shipping) map[string]any {
	if s == nil {
		return nil
	}
	doc := map[string]any{"method": s.Method}
	if s.Address != nil {
		addr := map[string]any{
			"street":     s.Address.Street,
			"number":     s.Address.Number,
			"city":       s.Address.City,
			"province":   s.Address.Province,
			"postalCode": s.Address.PostalCode,
		}
		if s.Address.Notes != "" {
			addr["notes"] = s.Address.Notes
		}
		doc["address"] = addr
	}
	return doc
}

func buyerToDoc(b *domain.Buyer) map[string]any {
	if b == nil {
		return nil
	}
	return map[string]any{
		"nombre":   b.Nombre,
		"telefono": b.Telefono,
		"email":    b.Email,
	}
}

func (r *Firestore) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	ref := r.orders().NewDoc()

	items := make([]map[string]any, 0, len(in.Items))
	for _, item := range in.Items {
		items = append(items, itemToDoc(item))
	}

	data := map[string]any{
		"buyer":             buyerToDoc(in.Buyer),
		"items":             items,
		"cantidadProductos": in.CantidadProductos,
		"total":             in.Total,
		"estado":            in.Estado,
		"fulfillmentStatus": string(in.FulfillmentStatus),
		"shipping":          shippingToDoc(in.Shipping),
		"preferenceId":      nil,
		"initPoint":         nil,
		"sandboxInitPoint":  nil,
		"paymentConfirmed":  false,
		"fecha":             firestore.ServerTimestamp,
		"updatedAt":         firestore.ServerTimestamp,
	}

	if _, err := ref.Set(ctx, data); err != nil {
		return nil, err
	}

	return &domain.Order{
		ID:                ref.ID,
		Buyer:             in.Buyer,
		Items:             in.Items,
		CantidadProductos: in.CantidadProductos,
		Total:             in.Total,
		Estado:            in.Estado,
		FulfillmentStatus: in.FulfillmentStatus,
		Shipping:          in.Shipping,
	}, nil
}

func (r *Firestore) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	snap, err := r.orders().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return docToOrder(snap)
}

// List returns every order, newest first.
func (r *Firestore) List(ctx context.Context) ([]domain.Order, error) {
	iter := r.orders().OrderBy("fecha", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var orders []domain.Order
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		o, err := docToOrder(snap)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

func (r *Firestore) merge(ctx context.Context, id string, updates map[string]any) error {
	updates["updatedAt"] = firestore.ServerTimestamp
	_, err := r.orders().Doc(id).Set(ctx, updates, firestore.MergeAll)
	if err != nil && status.Code(err) == codes.NotFound {
		return domain.ErrNotFound
	}
	return err
}

func (r *Firestore) SetPreference(ctx context.Context, id string, upd PreferenceUpdate) error {
	return r.merge(ctx, id, map[string]any{
		"preferenceId":     upd.PreferenceID,
		"initPoint":        upd.InitPoint,
		"sandboxInitPoint": upd.SandboxInitPoint,
	})
}

func (r *Firestore) MarkCheckoutError(ctx context.Context, id, message string) error {
	return r.merge(ctx, id, map[string]any{
		"estado":               domain.EstadoError,
		"checkoutErrorMessage": message,
	})
}

func (r *Firestore) MergePayment(ctx context.Context, id string, upd PaymentUpdate) error {
	return r.merge(ctx, id, map[string]any{
		"estado":              upd.Estado,
		"paymentId":           upd.PaymentID,
		"paymentStatus":       upd.PaymentStatus,
		"paymentStatusDetail": upd.PaymentStatusDetail,
		"paymentInfo": map[string]any{
			"currencyId":        upd.PaymentInfo.CurrencyID,
			"transactionAmount": upd.PaymentInfo.TransactionAmount,
			"dateApproved":      upd.PaymentInfo.DateApproved,
			"dateLastUpdated":   upd.PaymentInfo.DateLastUpdated,
			"payer": map[string]any{
				"email":     upd.PaymentInfo.Payer.Email,
				"firstName": upd.PaymentInfo.Payer.FirstName,
				"lastName":  upd.PaymentInfo.Payer.LastName,
				"id":        upd.PaymentInfo.Payer.ID,
			},
		},
	})
}

func (r *Firestore) SetFulfillmentStatus(ctx context.Context, id string, st domain.FulfillmentStatus) error {
	return r.merge(ctx, id, map[string]any{
		"fulfillmentStatus": string(st),
	})
}

// ConfirmPayment decrements product stock and marks the payment confirmed in a
// single transaction, so the paymentConfirmed guard is atomic with the stock
// writes. Reads run before writes as Firestore transactions require.
func (r *Firestore) ConfirmPayment(ctx context.Context, id string) (*ConfirmResult, error) {
	ref := r.orders().Doc(id)
	var result ConfirmResult

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		result = ConfirmResult{}

		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return domain.ErrNotFound
			}
			return err
		}
		o, err := docToOrder(snap)
		if err != nil {
			return err
		}
		if o.PaymentConfirmed {
			result.AlreadyConfirmed = true
			return nil
		}

		stocks := map[string]int{}
		refs := map[string]*firestore.DocumentRef{}
		for _, item := range o.Items {
			if item.ID == "" || item.Cantidad <= 0 {
				continue
			}
			if _, seen := refs[item.ID]; seen {
				continue
			}
			productRef := r.products().Doc(item.ID)
			productSnap, err := tx.Get(productRef)
			if err != nil {
				if status.Code(err) == codes.NotFound {
					continue
				}
				return err
			}
			stocks[item.ID] = stockFromSnapshot(productSnap)
			refs[item.ID] = productRef
		}

		plan := domain.PlanConfirmation(o, stocks)
		for productID, newStock := range plan.StockUpdates {
			if err := tx.Update(refs[productID], []firestore.Update{
				{Path: "stock", Value: newStock},
			}); err != nil {
				return err
			}
		}

		updates := map[string]any{
			"estado":              domain.EstadoAprobado,
			"paymentStatus":       "approved",
			"paymentStatusDetail": "manual_confirmation",
			"paymentConfirmed":    true,
			"updatedAt":           firestore.ServerTimestamp,
		}
		if plan.AdvanceFulfillment {
			updates["fulfillmentStatus"] = string(domain.FulfillmentPagado)
		}
		if err := tx.Set(ref, updates, firestore.MergeAll); err != nil {
			return err
		}

		result.StockUpdated = len(plan.StockUpdates) > 0
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func stockFromSnapshot(snap *firestore.DocumentSnapshot) int {
	raw, err := snap.DataAt("stock")
	if err != nil {
		return 0
	}
	switch v := raw.(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
