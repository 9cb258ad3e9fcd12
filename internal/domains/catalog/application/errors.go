package application

import (
	"errors"

	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/apperrors"
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return apperrors.Wrap(apperrors.ErrNotFound, err)
	case errors.Is(err, domain.ErrEmptySeller),
		errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrShortDescription),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrNegativeStock),
		errors.Is(err, domain.ErrEmptyCategory),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidBracket),
		errors.Is(err, domain.ErrInvalidQuantity):
		return apperrors.Wrap(apperrors.ErrInvalidInput, err)
	case errors.Is(err, domain.ErrInactive):
		return apperrors.Wrap(apperrors.ErrUnavailable, err)
	case errors.Is(err, domain.ErrInsufficientStock):
		return apperrors.Wrap(apperrors.ErrInsufficientStock, err)
	case errors.Is(err, ports.ErrStale):
		return apperrors.Wrap(apperrors.ErrConflict, err)
	}
	return apperrors.Persistence(err)
}
