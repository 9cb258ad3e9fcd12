package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	catalogports "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/apperrors"
	"github.com/Apurer/go-gin-marketplace/internal/shared/identity"
)

// Service implements order placement, the order lifecycle, and order history.
type Service struct {
	orders      ports.Repository
	inventory   ports.Inventory
	tx          ports.Transactor
	idempotency ports.IdempotencyStore
	events      ports.EventPublisher
	newID       func() string
	now         func() time.Time
}

// Option customizes the orders service.
type Option func(*Service)

// WithTransactor makes placement run both writes in one database transaction.
// Without it placement falls back to a compensating rollback.
func WithTransactor(tx ports.Transactor) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

// WithIdempotencyStore enables Idempotency-Key handling for placement.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithEventPublisher sets where committed order events are sent.
func WithEventPublisher(p ports.EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

// WithIDGenerator overrides how order identifiers are minted.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the orders service with its repositories.
func NewService(orders ports.Repository, inventory ports.Inventory, opts ...Option) *Service {
	s := &Service{
		orders:    orders,
		inventory: inventory,
		events:    ports.NoopPublisher{},
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder records a pending order and decrements the product's stock so
// that neither write is ever observable without the other.
func (s *Service) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*ports.OrderProjection, error) {
	if s.tx != nil {
		return s.placeWithinTx(ctx, input)
	}
	placement, err := s.RecordOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	if placement.Replayed {
		return placement.Order, nil
	}
	order := placement.Order.Entity
	if err := s.ReserveStock(ctx, order); err != nil {
		if derr := s.DiscardOrder(ctx, order.ID); derr != nil {
			return nil, apperrors.Persistence(errors.Join(err, derr))
		}
		return nil, err
	}
	return s.FinalizeOrder(ctx, order.ID, placement.IdempotencyKey)
}

func (s *Service) placeWithinTx(ctx context.Context, input ports.PlaceOrderInput) (*ports.OrderProjection, error) {
	// An order row only exists here once its stock decrement committed with it.
	c, err := s.claim(ctx, input, true)
	if err != nil || c.replay != nil {
		return c.replay, err
	}
	var placed *ports.OrderProjection
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos ports.TxRepositories) error {
		product, err := repos.Inventory.GetForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		order, err := buildOrder(c.orderID, input, product)
		if err != nil {
			return err
		}
		created, err := repos.Orders.Create(ctx, order)
		if err != nil {
			return err
		}
		if _, err := repos.Inventory.DecrementStock(ctx, order.ProductID, order.Quantity); err != nil {
			return err
		}
		placed = created
		return nil
	})
	if err != nil {
		if errors.Is(err, ports.ErrAlreadyExists) {
			return s.replayExisting(ctx, c.orderID)
		}
		return nil, mapError(err)
	}
	// Replays in this mode are decided by the order row, so a lost flag is harmless.
	_ = s.markCommitted(ctx, c.key)
	s.publish(ctx, domain.NewOrderPlaced(placed.Entity, s.now()))
	return placed, nil
}

// RecordOrder validates the purchase against the current product and writes
// the pending order without touching stock.
func (s *Service) RecordOrder(ctx context.Context, input ports.PlaceOrderInput) (*ports.Placement, error) {
	c, err := s.claim(ctx, input, false)
	if err != nil {
		return nil, err
	}
	if c.replay != nil {
		return &ports.Placement{Order: c.replay, Replayed: true, IdempotencyKey: c.key}, nil
	}
	product, err := s.inventory.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, mapError(err)
	}
	order, err := buildOrder(c.orderID, input, product)
	if err != nil {
		return nil, mapError(err)
	}
	created, err := s.orders.Create(ctx, order)
	if err != nil {
		if errors.Is(err, ports.ErrAlreadyExists) {
			// A concurrent attempt with the same key owns this order and has not reserved stock yet.
			return nil, apperrors.Wrap(apperrors.ErrConflict, errReplayPending)
		}
		return nil, mapError(err)
	}
	return &ports.Placement{Order: created, IdempotencyKey: c.key}, nil
}

// ReserveStock atomically takes the order's quantity from the product.
func (s *Service) ReserveStock(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, errors.New("order is required"))
	}
	if _, err := s.inventory.DecrementStock(ctx, order.ProductID, order.Quantity); err != nil {
		return mapError(err)
	}
	return nil
}

// DiscardOrder is the compensating rollback for a recorded order whose stock
// could not be reserved. Discarding an already removed order succeeds.
func (s *Service) DiscardOrder(ctx context.Context, orderID string) error {
	if err := s.orders.Delete(ctx, orderID); err != nil && !errors.Is(err, ports.ErrNotFound) {
		return mapError(err)
	}
	return nil
}

// FinalizeOrder marks the placement's idempotency key as committed, announces
// the order and returns it.
func (s *Service) FinalizeOrder(ctx context.Context, orderID, idempotencyKey string) (*ports.OrderProjection, error) {
	placed, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.markCommitted(ctx, idempotencyKey); err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, domain.NewOrderPlaced(placed.Entity, s.now()))
	return placed, nil
}

// TransitionStatus lets the order's seller move it along the lifecycle.
func (s *Service) TransitionStatus(ctx context.Context, actor identity.Identity, orderID string, status string) (*ports.OrderProjection, error) {
	current, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	if actor.Role != identity.RoleSeller || !current.Entity.SoldBy(actor.Email) {
		return nil, apperrors.Wrap(apperrors.ErrForbidden, errNotSeller)
	}
	next, ok := domain.ParseStatus(status)
	if !ok {
		return nil, mapError(fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, status))
	}
	order := current.Entity.Clone()
	from := order.Status
	if err := order.TransitionTo(next); err != nil {
		return nil, mapError(err)
	}
	updated, err := s.orders.UpdateStatus(ctx, order.ID, from, next)
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, domain.NewOrderStatusChanged(updated.Entity, from, s.now()))
	return updated, nil
}

type claimed struct {
	orderID string
	key     string
	replay  *ports.OrderProjection
}

// claim checks the buyer and resolves the idempotency key within the buyer's
// own key space. It returns the identifier the new order must use, or the
// order a previous attempt produced. Unless orderImpliesCommit is set, an
// existing order is only replayed once its key was marked committed.
func (s *Service) claim(ctx context.Context, input ports.PlaceOrderInput, orderImpliesCommit bool) (claimed, error) {
	if input.Buyer.Role != identity.RoleBuyer || strings.TrimSpace(input.Buyer.Email) == "" {
		return claimed{}, apperrors.Wrap(apperrors.ErrForbidden, errBuyerOnly)
	}
	c := claimed{orderID: s.newID()}
	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" || s.idempotency == nil {
		return c, nil
	}
	c.key = ScopedIdempotencyKey(input.Buyer.Email, key)
	hash, err := FingerprintPlaceOrder(input)
	if err != nil {
		return claimed{}, apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}
	record, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{Key: c.key, RequestHash: hash, OrderID: c.orderID})
	switch {
	case err == nil:
		return c, nil
	case !errors.Is(err, ports.ErrIdempotencyConflict):
		return claimed{}, mapError(err)
	case record == nil || record.RequestHash != hash:
		return claimed{}, mapError(err)
	}
	existing, err := s.orders.GetByID(ctx, record.OrderID)
	if err == nil {
		if !record.Committed && !orderImpliesCommit {
			return claimed{}, apperrors.Wrap(apperrors.ErrConflict, errReplayPending)
		}
		c.replay = existing
		return c, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return claimed{}, mapError(err)
	}
	// An earlier attempt with this key never committed; retry under its identifier.
	c.orderID = record.OrderID
	return c, nil
}

func (s *Service) markCommitted(ctx context.Context, key string) error {
	if key == "" || s.idempotency == nil {
		return nil
	}
	return s.idempotency.MarkCommitted(ctx, key)
}

func (s *Service) replayExisting(ctx context.Context, orderID string) (*ports.OrderProjection, error) {
	existing, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrConflict, errReplayPending)
		}
		return nil, mapError(err)
	}
	return existing, nil
}

func (s *Service) publish(ctx context.Context, events ...domain.Event) {
	// Delivery is best effort; publishers report their own failures.
	_ = s.events.Publish(ctx, events...)
}

func buildOrder(orderID string, input ports.PlaceOrderInput, product *catalogports.ProductProjection) (*domain.Order, error) {
	p := product.Entity
	if err := p.CheckPurchase(input.Quantity); err != nil {
		return nil, err
	}
	return domain.NewOrder(orderID, input.Buyer.Email, p.SellerEmail, p.ID, input.Quantity, p.Price, input.Notes)
}

var (
	_ ports.Service        = (*Service)(nil)
	_ ports.PlacementSteps = (*Service)(nil)
)
