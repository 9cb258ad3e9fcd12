package application

import (
	"errors"

	catalogdomain "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/apperrors"
)

var (
	errBuyerOnly     = errors.New("only buyers place orders")
	errSellerOnly    = errors.New("only sellers manage orders")
	errNotSeller     = errors.New("order belongs to another seller")
	errNotParty      = errors.New("order belongs to other parties")
	errNoActor       = errors.New("an identified caller is required")
	errReplayPending = errors.New("a placement with this idempotency key is still being processed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ports.ErrNotFound), errors.Is(err, catalogports.ErrNotFound):
		return apperrors.Wrap(apperrors.ErrNotFound, err)
	case errors.Is(err, domain.ErrEmptyBuyer),
		errors.Is(err, domain.ErrEmptySeller),
		errors.Is(err, domain.ErrEmptyProduct),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidUnitPrice),
		errors.Is(err, catalogdomain.ErrInvalidQuantity):
		return apperrors.Wrap(apperrors.ErrInvalidInput, err)
	case errors.Is(err, catalogdomain.ErrInactive):
		return apperrors.Wrap(apperrors.ErrUnavailable, err)
	case errors.Is(err, catalogdomain.ErrInsufficientStock):
		return apperrors.Wrap(apperrors.ErrInsufficientStock, err)
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, ports.ErrStatusChanged):
		return apperrors.Wrap(apperrors.ErrInvalidTransition, err)
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return apperrors.Wrap(apperrors.ErrConflict, err)
	}
	return apperrors.Persistence(err)
}
