package httputil

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/andy11223386/akashicConnect/internal/model"
)

// WriteServiceError maps an error from the service layer onto a status code
// through the error classes in model.
func WriteServiceError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	switch {
	case errors.Is(err, model.ErrFileTooLarge):
		WriteBadRequestWithCode(w, model.CodeFileTooLarge, err.Error())
	case errors.Is(err, model.ErrInvalidImageType):
		WriteBadRequestWithCode(w, model.CodeInvalidImageType, err.Error())
	case errors.As(err, &verr):
		WriteError(w, http.StatusBadRequest, ErrCodeValidation, verr.Error())
	case errors.Is(err, model.ErrNotFound):
		WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrEmptyResult):
		WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrConflict):
		WriteConflict(w, err.Error())
	case errors.Is(err, model.ErrRefreshTokenExpired):
		WriteUnauthorizedWithCode(w, model.CodeTokenExpired, "Refresh token has expired")
	case errors.Is(err, model.ErrRefreshTokenReused):
		WriteUnauthorizedWithCode(w, model.CodeTokenReused, "Refresh token reuse detected. Please login again.")
	case errors.Is(err, model.ErrCredentials):
		WriteUnauthorized(w, err.Error())
	case errors.Is(err, model.ErrForbidden):
		WriteForbidden(w, err.Error())
	case errors.Is(err, model.ErrStoreUnavailable):
		log.Error().Str("component", "HTTP").Err(err).Msg("store unavailable")
		WriteError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "Service temporarily unavailable")
	default:
		log.Error().Str("component", "HTTP").Err(err).Msg("unhandled error")
		WriteInternalError(w, "Internal server error")
	}
}
