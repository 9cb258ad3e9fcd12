package errors

import "github.com/Apurer/go-gin-marketplace/internal/shared/apperrors"

// AppErrorMapper maps the shared application error kinds to problem details.
// The kind name is exposed as the "kind" extension so clients can branch on it.
func AppErrorMapper(err error) (ProblemDetail, bool) {
	var problem ProblemDetail
	switch apperrors.Kind(err) {
	case apperrors.ErrNotFound:
		problem = ErrNotFound
	case apperrors.ErrInvalidInput:
		problem = ErrValidation
	case apperrors.ErrUnavailable:
		problem = ErrProductUnavailable
	case apperrors.ErrInsufficientStock:
		problem = ErrInsufficientStock
	case apperrors.ErrInvalidTransition:
		problem = ErrInvalidTransition
	case apperrors.ErrForbidden:
		problem = ErrForbidden
	case apperrors.ErrUnauthorized:
		problem = ErrUnauthorized
	case apperrors.ErrConflict:
		problem = ErrConflict
	case apperrors.ErrPersistence:
		// Store errors are not echoed to clients.
		return ErrServiceUnavailable.WithExtension("kind", apperrors.KindName(err)), true
	default:
		return ProblemDetail{}, false
	}
	return problem.WithDetail(err.Error()).WithExtension("kind", apperrors.KindName(err)), true
}
