package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/domain"
	orderrepo "github.com/agustinlorca/zonaeste3d-cibergauchos/internal/repository/order"
)

// ErrInvalidFulfillmentStatus rejects values outside the fixed enumeration.
var ErrInvalidFulfillmentStatus = errors.New("invalid fulfillment status")

type Service struct {
	repo orderStore
}

type orderStore interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	SetFulfillmentStatus(ctx context.Context, id string, status domain.FulfillmentStatus) error
	ConfirmPayment(ctx context.Context, id string) (*orderrepo.ConfirmResult, error)
}

func New(repo orderrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// ListFilter narrows the order listing. Status "todos"/"all" (or empty) keeps
// every fulfillment state; the To date is inclusive up to end of day; Search
// is a case-insensitive substring over the order id or the buyer email.
type ListFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
	Search string
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterOrders(orders, f), nil
}

func filterOrders(orders []domain.Order, f ListFilter) []domain.Order {
	status := strings.ToLower(strings.TrimSpace(f.Status))
	search := strings.ToLower(strings.TrimSpace(f.Search))

	filtered := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if status != "" && status != "todos" && status != "all" {
			current := o.FulfillmentStatus
			if current == "" {
				current = domain.FulfillmentPendiente
			}
			if strings.ToLower(string(current)) != status {
				continue
			}
		}

		if f.From != nil || f.To != nil {
			if o.Fecha.IsZero() {
				continue
			}
			if f.From != nil && o.Fecha.Before(*f.From) {
				continue
			}
			if f.To != nil && o.Fecha.After(endOfDay(*f.To)) {
				continue
			}
		}

		if search != "" {
			matchesID := strings.Contains(strings.ToLower(o.ID), search)
			matchesEmail := o.Buyer != nil && strings.Contains(strings.ToLower(o.Buyer.Email), search)
			if !matchesID && !matchesEmail {
				continue
			}
		}

		filtered = append(filtered, o)
	}
	return filtered
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// UpdateFulfillment sets the fulfillment state and returns the refreshed
// order. An empty value is a no-op that still returns the current order.
func (s *Service) UpdateFulfillment(ctx context.Context, id, status string) (*domain.Order, error) {
	if strings.TrimSpace(status) != "" {
		parsed, ok := domain.ParseFulfillmentStatus(status)
		if !ok {
			return nil, ErrInvalidFulfillmentStatus
		}
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		if err := s.repo.SetFulfillmentStatus(ctx, id, parsed); err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(ctx, id)
}

// Confirm marks the payment confirmed and decrements stock at most once per
// order; a repeated call reports AlreadyConfirmed without touching stock.
func (s *Service) Confirm(ctx context.Context, id string) (*orderrepo.ConfirmResult, error) {
	return s.repo.ConfirmPayment(ctx, id)
}
