package application

import (
	"errors"

	"github.com/Apurer/go-gin-marketplace/internal/domains/users/domain"
	"github.com/Apurer/go-gin-marketplace/internal/domains/users/ports"
	"github.com/Apurer/go-gin-marketplace/internal/shared/apperrors"
)

var errSessionExpired = errors.New("session expired")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrEmptyPassword),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidRole):
		return apperrors.Wrap(apperrors.ErrInvalidInput, err)
	case errors.Is(err, ports.ErrAlreadyExists):
		return apperrors.Wrap(apperrors.ErrConflict, err)
	case errors.Is(err, ports.ErrInvalidCredentials),
		errors.Is(err, ports.ErrSessionNotFound),
		errors.Is(err, errSessionExpired):
		return apperrors.Wrap(apperrors.ErrUnauthorized, err)
	default:
		return apperrors.Persistence(err)
	}
}
