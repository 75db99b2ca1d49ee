package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/domain"
	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/gateway/mercadopago"
	orderrepo "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/repository/order"
)

const (
	currencyID          = "ARS"
	statementDescriptor = "ZonaEste3D"
	maxNotesLength      = 300
)

type Service struct {
	orders      orderStore
	gateway     paymentGateway
	frontendURL string
	backendURL  string
	logger      *slog.Logger
}

type orderStore interface {
	Create(ctx context.Context, in orderrepo.CreateInput) (*domain.Order, error)
	SetPreference(ctx context.Context, id string, upd orderrepo.PreferenceUpdate) error
	MarkCheckoutError(ctx context.Context, id, message string) error
}

type paymentGateway interface {
	CreatePreference(ctx context.Context, req mercadopago.PreferenceRequest) (*mercadopago.Preference, error)
}

func New(orders orderrepo.Repository, gateway paymentGateway, frontendURL, backendURL string, logger *slog.Logger) *Service {
	return &Service{
		orders:      orders,
		gateway:     gateway,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
		backendURL:  strings.TrimSuffix(backendURL, "/"),
		logger:      logger,
	}
}

type BuyerInput struct {
	Nombre   string `json:"nombre"`
	Telefono string `json:"telefono"`
	Email    string `json:"email"`
}

type ItemInput struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	Precio   float64 `json:"precio"`
	Cantidad float64 `json:"cantidad"`
	ImgURL   string  `json:"imgUrl"`
}

type AddressInput struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
	Notes      string `json:"notes"`
}

type ShippingInput struct {
	Method  string        `json:"method"`
	Address *AddressInput `json:"address"`
}

type Request struct {
	Buyer    *BuyerInput   `json:"buyer"`
	Items    []ItemInput   `json:"items"`
	Shipping ShippingInput `json:"shipping"`
}

type Result struct {
	OrderID          string `json:"orderId"`
	PreferenceID     string `json:"preferenceId"`
	InitPoint        string `json:"initPoint"`
	SandboxInitPoint string `json:"sandboxInitPoint"`
}

func validate(req Request) *domain.ValidationError {
	fields := map[string]string{}

	if len(req.Items) == 0 {
		fields["items"] = "El carrito no puede estar vacio"
	}
	for i, item := range req.Items {
		prefix := fmt.Sprintf("items[%d].", i)
		if strings.TrimSpace(item.ID) == "" {
			fields[prefix+"id"] = "El ID del producto es obligatorio"
		}
		if strings.TrimSpace(item.Nombre) == "" {
			fields[prefix+"nombre"] = "El nombre del producto es obligatorio"
		}
		if item.Precio <= 0 {
			fields[prefix+"precio"] = "El precio debe ser mayor que cero"
		}
		switch {
		case item.Cantidad <= 0:
			fields[prefix+"cantidad"] = "La cantidad debe ser mayor que cero"
		case item.Cantidad != math.Trunc(item.Cantidad):
			fields[prefix+"cantidad"] = "La cantidad debe ser un numero entero"
		}
	}

	if req.Buyer != nil && req.Buyer.Email != "" && !strings.Contains(req.Buyer.Email, "@") {
		fields["buyer.email"] = "Email invalido"
	}

	switch req.Shipping.Method {
	case "pickup":
	case "delivery":
		addr := req.Shipping.Address
		if addr == nil {
			fields["shipping.address"] = "Debes ingresar la direccion completa para el envio a domicilio"
			break
		}
		required := map[string]struct {
			value   string
			message string
		}{
			"shipping.address.street":     {addr.Street, "La calle es obligatoria"},
			"shipping.address.number":     {addr.Number, "El numero es obligatorio"},
			"shipping.address.city":       {addr.City, "La ciudad es obligatoria"},
			"shipping.address.province":   {addr.Province, "La provincia es obligatoria"},
			"shipping.address.postalCode": {addr.PostalCode, "El codigo postal es obligatorio"},
		}
		for field, check := range required {
			if strings.TrimSpace(check.value) == "" {
				fields[field] = check.message
			}
		}
		if len(addr.Notes) > maxNotesLength {
			fields["shipping.address.notes"] = "Las notas no pueden superar los 300 caracteres"
		}
	default:
		fields["shipping.method"] = "Selecciona una forma de entrega"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func toOrderItems(items []ItemInput) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		cantidad := int(item.Cantidad)
		out = append(out, domain.OrderItem{
			ID:       item.ID,
			Nombre:   item.Nombre,
			Precio:   item.Precio,
			Cantidad: cantidad,
			Subtotal: item.Precio * float64(cantidad),
			ImgURL:   item.ImgURL,
		})
	}
	return out
}

func toShipping(in ShippingInput) *domain.Shipping {
	shipping := &domain.Shipping{Method: in.Method}
	if in.Address != nil {
		shipping.Address = &domain.ShippingAddress{
			Street:     in.Address.Street,
			Number:     in.Address.Number,
			City:       in.Address.City,
			Province:   in.Address.Province,
			PostalCode: in.Address.PostalCode,
			Notes:      in.Address.Notes,
		}
	}
	return shipping
}

func (s *Service) backURLs(orderID string) mercadopago.BackURLs {
	base := fmt.Sprintf("%s/order/%s?status=", s.frontendURL, orderID)
	return mercadopago.BackURLs{
		Success: base + "approved",
		Failure: base + "failure",
		Pending: base + "pending",
	}
}

// Create validates the payload, persists a pending order, registers a payment
// preference with the gateway and stores the redirect URLs on the order. If
// anything fails after the order was created, the order is tagged with
// estado=error and the failure propagates to the caller.
func (s *Service) Create(ctx context.Context, req Request) (*Result, error) {
	if verr := validate(req); verr != nil {
		return nil, verr
	}

	items := toOrderItems(req.Items)
	var total float64
	var cantidadProductos int
	for _, item := range items {
		total += item.Subtotal
		cantidadProductos += item.Cantidad
	}

	var buyer *domain.Buyer
	if req.Buyer != nil {
		buyer = &domain.Buyer{
			Nombre:   req.Buyer.Nombre,
			Telefono: req.Buyer.Telefono,
			Email:    req.Buyer.Email,
		}
	}

	created, err := s.orders.Create(ctx, orderrepo.CreateInput{
		Buyer:             buyer,
		Items:             items,
		CantidadProductos: cantidadProductos,
		Total:             total,
		Estado:            domain.EstadoPendiente,
		FulfillmentStatus: domain.FulfillmentPendiente,
		Shipping:          toShipping(req.Shipping),
	})
	if err != nil {
		return nil, err
	}

	prefItems := make([]mercadopago.PreferenceItem, 0, len(items))
	for _, item := range items {
		prefItems = append(prefItems, mercadopago.PreferenceItem{
			ID:          item.ID,
			Title:       item.Nombre,
			Description: item.Nombre,
			Quantity:    item.Cantidad,
			CurrencyID:  currencyID,
			UnitPrice:   item.Precio,
		})
	}

	prefReq := mercadopago.PreferenceRequest{
		Items:               prefItems,
		BackURLs:            s.backURLs(created.ID),
		ExternalReference:   created.ID,
		NotificationURL:     s.backendURL + "/api/mercadopago/webhook",
		Metadata:            map[string]any{"orderId": created.ID},
		StatementDescriptor: statementDescriptor,
	}
	if strings.HasPrefix(s.frontendURL, "https://") {
		prefReq.AutoReturn = "approved"
	}

	pref, err := s.gateway.CreatePreference(ctx, prefReq)
	if err != nil {
		s.tagCheckoutError(ctx, created.ID, err)
		return nil, err
	}

	if err := s.orders.SetPreference(ctx, created.ID, orderrepo.PreferenceUpdate{
		PreferenceID:     pref.ID,
		InitPoint:        pref.InitPoint,
		SandboxInitPoint: pref.SandboxInitPoint,
	}); err != nil {
		s.tagCheckoutError(ctx, created.ID, err)
		return nil, err
	}

	return &Result{
		OrderID:          created.ID,
		PreferenceID:     pref.ID,
		InitPoint:        pref.InitPoint,
		SandboxInitPoint: pref.SandboxInitPoint,
	}, nil
}

// tagCheckoutError keeps the order row for manual recovery instead of deleting it.
func (s *Service) tagCheckoutError(ctx context.Context, orderID string, cause error) {
	if err := s.orders.MarkCheckoutError(ctx, orderID, cause.Error()); err != nil {
		s.logger.Error("failed to tag order with checkout error",
			slog.String("orderId", orderID), slog.Any("error", err))
	}
}
