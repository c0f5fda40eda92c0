package api

import (
	"context"
	"errors"

	"FxScore/internal/domain/models"
	domrepo "FxScore/internal/domain/repository"
	"FxScore/internal/usecase"
	xhttp "FxScore/pkg/http"
)

func init() {
	xhttp.MustRegisterValidation("regime", models.IsRegime, func(field string) string {
		return field + " must be one of: RISK_OFF, RISK_ON, NEUTRAL, CENTRAL_BANK_WEEK"
	})
}

// appError maps domain errors onto the HTTP error envelope.
func appError(err error) *xhttp.AppError {
	var appErr *xhttp.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, usecase.ErrUnknownCurrency):
		return xhttp.NotFoundError(err.Error()).WithError(err)
	case errors.Is(err, domrepo.ErrNotFound):
		return xhttp.NotFoundError("nothing calculated yet").WithError(err)
	case errors.Is(err, models.ErrInvalidInput):
		return xhttp.InvalidInputError(err.Error()).WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.UnavailableError("timed out").WithError(err)
	}
	return xhttp.InternalError("scoring failed").WithError(err)
}
