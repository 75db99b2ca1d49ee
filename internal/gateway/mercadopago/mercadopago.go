// Package mercadopago wraps the Mercado Pago SDK behind transport-neutral
// types so the services depending on it can be exercised with fakes.
package mercadopago

import (
	"context"
	"net/http"
	"strconv"
	"time"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/domain"
)

type PreferenceItem struct {
	ID          string
	Title       string
	Description string
	Quantity    int
	CurrencyID  string
	UnitPrice   float64
}

type BackURLs struct {
	Success string
	Pending string
	Failure string
}

type PreferenceRequest struct {
	Items               []PreferenceItem
	BackURLs            BackURLs
	ExternalReference   string
	NotificationURL     string
	Metadata            map[string]any
	StatementDescriptor string
	AutoReturn          string
}

type Preference struct {
	ID               string
	InitPoint        string
	SandboxInitPoint string
}

type Payer struct {
	Email     string
	FirstName string
	LastName  string
	ID        string
}

// Payment is the canonical payment record fetched from the gateway.
type Payment struct {
	ID                string
	Status            string
	StatusDetail      string
	ExternalReference string
	CurrencyID        string
	TransactionAmount float64
	Payer             Payer
	DateApproved      time.Time
	DateLastUpdated   time.Time
}

// Client talks to the Mercado Pago API with a fixed request timeout.
type Client struct {
	preferences preference.Client
	payments    payment.Client
}

func New(accessToken string, timeout time.Duration) (*Client, error) {
	cfg, err := mpconfig.New(accessToken, mpconfig.WithHTTPClient(&http.Client{Timeout: timeout}))
	if err != nil {
		return nil, &domain.GatewayError{Op: "configure", Err: err}
	}
	return &Client{
		preferences: preference.NewClient(cfg),
		payments:    payment.NewClient(cfg),
	}, nil
}

// CreatePreference registers a checkout preference and returns the redirect URLs.
func (c *Client) CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	items := make([]preference.ItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, preference.ItemRequest{
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
			Quantity:    item.Quantity,
			CurrencyID:  item.CurrencyID,
			UnitPrice:   item.UnitPrice,
		})
	}

	body := preference.Request{
		Items: items,
		BackURLs: &preference.BackURLsRequest{
			Success: req.BackURLs.Success,
			Pending: req.BackURLs.Pending,
			Failure: req.BackURLs.Failure,
		},
		ExternalReference:   req.ExternalReference,
		NotificationURL:     req.NotificationURL,
		Metadata:            req.Metadata,
		StatementDescriptor: req.StatementDescriptor,
		AutoReturn:          req.AutoReturn,
	}

	resp, err := c.preferences.Create(ctx, body)
	if err != nil {
		return nil, &domain.GatewayError{Op: "create preference", Err: err}
	}

	return &Preference{
		ID:               resp.ID,
		InitPoint:        resp.InitPoint,
		SandboxInitPoint: resp.SandboxInitPoint,
	}, nil
}

// GetPayment fetches the authoritative payment record by id.
func (c *Client) GetPayment(ctx context.Context, id string) (*Payment, error) {
	numericID, err := strconv.Atoi(id)
	if err != nil {
		return nil, &domain.GatewayError{Op: "get payment", Err: err}
	}

	resp, err := c.payments.Get(ctx, numericID)
	if err != nil {
		return nil, &domain.GatewayError{Op: "get payment", Err: err}
	}

	return &Payment{
		ID:                strconv.Itoa(resp.ID),
		Status:            resp.Status,
		StatusDetail:      resp.StatusDetail,
		ExternalReference: resp.ExternalReference,
		CurrencyID:        resp.CurrencyID,
		TransactionAmount: resp.TransactionAmount,
		Payer: Payer{
			Email:     resp.Payer.Email,
			FirstName: resp.Payer.FirstName,
			LastName:  resp.Payer.LastName,
			ID:        resp.Payer.ID,
		},
		DateApproved:    resp.DateApproved,
		DateLastUpdated: resp.DateLastUpdated,
	}, nil
}
