package checkout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/domain"
	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/gateway/mercadopago"
	orderrepo "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/repository/order"
)

type stubOrderStore struct {
	createCalls    []orderrepo.CreateInput
	createErr      error
	prefCalls      map[string]orderrepo.PreferenceUpdate
	prefErr        error
	errorTags      map[string]string
	markedErrorErr error
}

func newStubOrderStore() *stubOrderStore {
	return &stubOrderStore{
		prefCalls: map[string]orderrepo.PreferenceUpdate{},
		errorTags: map[string]string{},
	}
}

func (s *stubOrderStore) Create(_ context.Context, in orderrepo.CreateInput) (*domain.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.createCalls = append(s.createCalls, in)
	return &domain.Order{
		ID:                "ord-1",
		Buyer:             in.Buyer,
		Items:             in.Items,
		CantidadProductos: in.CantidadProductos,
		Total:             in.Total,
		Estado:            in.Estado,
		FulfillmentStatus: in.FulfillmentStatus,
		Shipping:          in.Shipping,
	}, nil
}

func (s *stubOrderStore) SetPreference(_ context.Context, id string, upd orderrepo.PreferenceUpdate) error {
	if s.prefErr != nil {
		return s.prefErr
	}
	s.prefCalls[id] = upd
	return nil
}

func (s *stubOrderStore) MarkCheckoutError(_ context.Context, id, message string) error {
	if s.markedErrorErr != nil {
		return s.markedErrorErr
	}
	s.errorTags[id] = message
	return nil
}

type stubGateway struct {
	lastRequest *mercadopago.PreferenceRequest
	preference  *mercadopago.Preference
	err         error
}

func (s *stubGateway) CreatePreference(_ context.Context, req mercadopago.PreferenceRequest) (*mercadopago.Preference, error) {
	s.lastRequest = &req
	if s.err != nil {
		return nil, s.err
	}
	return s.preference, nil
}

func newTestService(store *stubOrderStore, gw *stubGateway, frontendURL string) *Service {
	return &Service{
		orders:      store,
		gateway:     gw,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
		backendURL:  "https://api.zonaeste3d.com",
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func validRequest() Request {
	return Request{
		Buyer: &BuyerInput{Nombre: "Ana", Telefono: "1144556677", Email: "ana@example.com"},
		Items: []ItemInput{
			{ID: "p1", Nombre: "Filament", Precio: 10, Cantidad: 2},
			{ID: "p2", Nombre: "Nozzle", Precio: 5.5, Cantidad: 1},
		},
		Shipping: ShippingInput{Method: "pickup"},
	}
}

func TestCreateComputesTotals(t *testing.T) {
	store := newStubOrderStore()
	gw := &stubGateway{preference: &mercadopago.Preference{
		ID:               "pref-1",
		InitPoint:        "https://mp.example/init",
		SandboxInitPoint: "https://mp.example/sandbox",
	}}
	svc := newTestService(store, gw, "https://shop.zonaeste3d.com")

	res, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, store.createCalls, 1)
	created := store.createCalls[0]
	assert.Equal(t, 25.5, created.Total)
	assert.Equal(t, 3, created.CantidadProductos)
	assert.Equal(t, domain.EstadoPendiente, created.Estado)
	assert.Equal(t, domain.FulfillmentPendiente, created.FulfillmentStatus)
	assert.Equal(t, 20.0, created.Items[0].Subtotal)

	assert.Equal(t, "ord-1", res.OrderID)
	assert.Equal(t, "pref-1", res.PreferenceID)
	assert.Equal(t, "https://mp.example/init", res.InitPoint)
	assert.Equal(t, "https://mp.example/sandbox", res.SandboxInitPoint)

	require.Contains(t, store.prefCalls, "ord-1")
	assert.Equal(t, "pref-1", store.prefCalls["ord-1"].PreferenceID)
}

func TestCreateBuildsPreferenceRequest(t *testing.T) {
	store := newStubOrderStore()
	gw := &stubGateway{preference: &mercadopago.Preference{ID: "pref-1"}}
	svc := newTestService(store, gw, "https://shop.zonaeste3d.com/")

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	req := gw.lastRequest
	require.NotNil(t, req)
	assert.Equal(t, "ord-1", req.ExternalReference)
	assert.Equal(t, map[string]any{"orderId": "ord-1"}, req.Metadata)
	assert.Equal(t, "https://api.zonaeste3d.com/api/mercadopago/webhook", req.NotificationURL)
	assert.Equal(t, "ZonaEste3D", req.StatementDescriptor)
	assert.Equal(t, "approved", req.AutoReturn, "https frontend requests auto return")

	assert.Equal(t, "https://shop.zonaeste3d.com/order/ord-1?status=approved", req.BackURLs.Success)
	assert.Equal(t, "https://shop.zonaeste3d.com/order/ord-1?status=failure", req.BackURLs.Failure)
	assert.Equal(t, "https://shop.zonaeste3d.com/order/ord-1?status=pending", req.BackURLs.Pending)

	require.Len(t, req.Items, 2)
	assert.Equal(t, mercadopago.PreferenceItem{
		ID: "p1", Title: "Filament", Description: "Filament",
		Quantity: 2, CurrencyID: "ARS", UnitPrice: 10,
	}, req.Items[0])
}

func TestCreateNoAutoReturnOverPlainHTTP(t *testing.T) {
	store := newStubOrderStore()
	gw := &stubGateway{preference: &mercadopago.Preference{ID: "pref-1"}}
	svc := newTestService(store, gw, "http://localhost:5173")

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Empty(t, gw.lastRequest.AutoReturn)
}

func TestCreateEmptyItemsFailsValidation(t *testing.T) {
	store := newStubOrderStore()
	svc := newTestService(store, &stubGateway{}, "https://shop.zonaeste3d.com")

	req := validRequest()
	req.Items = nil
	_, err := svc.Create(context.Background(), req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "items")
	assert.Empty(t, store.createCalls, "no order must be created")
}

func TestCreateValidatesItems(t *testing.T) {
	svc := newTestService(newStubOrderStore(), &stubGateway{}, "https://shop.zonaeste3d.com")

	req := validRequest()
	req.Items = []ItemInput{
		{ID: "", Nombre: "", Precio: 0, Cantidad: 1.5},
	}
	_, err := svc.Create(context.Background(), req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "items[0].id")
	assert.Contains(t, verr.Fields, "items[0].nombre")
	assert.Contains(t, verr.Fields, "items[0].precio")
	assert.Equal(t, "La cantidad debe ser un numero entero", verr.Fields["items[0].cantidad"])
}

func TestCreateDeliveryRequiresCompleteAddress(t *testing.T) {
	svc := newTestService(newStubOrderStore(), &stubGateway{}, "https://shop.zonaeste3d.com")

	req := validRequest()
	req.Shipping = ShippingInput{
		Method:  "delivery",
		Address: &AddressInput{Street: "Av. Siempreviva", City: "Springfield"},
	}
	_, err := svc.Create(context.Background(), req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "shipping.address.number")
	assert.Contains(t, verr.Fields, "shipping.address.province")
	assert.Contains(t, verr.Fields, "shipping.address.postalCode")
	assert.NotContains(t, verr.Fields, "shipping.address.street")
}

func TestCreateDeliveryWithoutAddressFails(t *testing.T) {
	svc := newTestService(newStubOrderStore(), &stubGateway{}, "https://shop.zonaeste3d.com")

	req := validRequest()
	req.Shipping = ShippingInput{Method: "delivery"}
	_, err := svc.Create(context.Background(), req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "shipping.address")
}

func TestCreateRejectsUnknownShippingMethod(t *testing.T) {
	svc := newTestService(newStubOrderStore(), &stubGateway{}, "https://shop.zonaeste3d.com")

	req := validRequest()
	req.Shipping.Method = "drone"
	_, err := svc.Create(context.Background(), req)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Selecciona una forma de entrega", verr.Fields["shipping.method"])
}

func TestCreateGatewayFailureTagsOrder(t *testing.T) {
	store := newStubOrderStore()
	gatewayErr := &domain.GatewayError{Op: "create preference", Err: errors.New("timeout")}
	svc := newTestService(store, &stubGateway{err: gatewayErr}, "https://shop.zonaeste3d.com")

	_, err := svc.Create(context.Background(), validRequest())
	require.ErrorIs(t, err, gatewayErr)

	require.Contains(t, store.errorTags, "ord-1", "order kept and tagged, not deleted")
	assert.Contains(t, store.errorTags["ord-1"], "timeout")
}

func TestCreatePreferencePersistFailureTagsOrder(t *testing.T) {
	store := newStubOrderStore()
	store.prefErr = errors.New("store unavailable")
	gw := &stubGateway{preference: &mercadopago.Preference{ID: "pref-1"}}
	svc := newTestService(store, gw, "https://shop.zonaeste3d.com")

	_, err := svc.Create(context.Background(), validRequest())
	require.Error(t, err)
	assert.Contains(t, store.errorTags["ord-1"], "store unavailable")
}
