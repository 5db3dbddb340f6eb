package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/rm-hull/inteliver/internal/command"
	"github.com/rm-hull/inteliver/internal/imaging"
	"github.com/rm-hull/inteliver/internal/source"
	"github.com/rm-hull/inteliver/internal/tenant"
)

// ErrorType is the class of failure reported to clients and metrics.
type ErrorType string

const (
	ErrorTypeSyntax                 ErrorType = "syntax"
	ErrorTypeInvalidOperation       ErrorType = "invalid_operation"
	ErrorTypeInsufficientArguments  ErrorType = "insufficient_arguments"
	ErrorTypeUnprocessableArguments ErrorType = "unprocessable_arguments"
	ErrorTypeProcessing             ErrorType = "processing"
	ErrorTypeNotFound               ErrorType = "not_found"
	ErrorTypeFetch                  ErrorType = "fetch"
	ErrorTypeMalformedImage         ErrorType = "malformed_image"
	ErrorTypeUnsupportedImage       ErrorType = "unsupported_image"
	ErrorTypeCancelled              ErrorType = "cancelled"
	ErrorTypeInternal               ErrorType = "internal"
)

// StatusClientClosedRequest is the non-standard status logged when the client
// went away before the response was ready.
const StatusClientClosedRequest = 499

type Failure struct {
	Type       ErrorType
	HTTPStatus int
}

// Classify maps an error from Process onto its failure class.
func Classify(err error) Failure {
	switch command.KindOf(err) {
	case command.KindSyntax:
		return Failure{ErrorTypeSyntax, http.StatusBadRequest}
	case command.KindInvalidOperation:
		return Failure{ErrorTypeInvalidOperation, http.StatusUnprocessableEntity}
	case command.KindInsufficientArguments:
		return Failure{ErrorTypeInsufficientArguments, http.StatusUnprocessableEntity}
	case command.KindUnprocessableArguments:
		return Failure{ErrorTypeUnprocessableArguments, http.StatusUnprocessableEntity}
	case command.KindProcessing:
		return Failure{ErrorTypeProcessing, http.StatusBadRequest}
	}

	switch {
	case errors.Is(err, tenant.ErrNotFound), errors.Is(err, source.ErrNotFound):
		return Failure{ErrorTypeNotFound, http.StatusNotFound}
	case errors.Is(err, source.ErrFetch):
		return Failure{ErrorTypeFetch, http.StatusBadGateway}
	case errors.Is(err, imaging.ErrMalformed):
		return Failure{ErrorTypeMalformedImage, http.StatusBadRequest}
	case errors.Is(err, imaging.ErrUnsupported):
		return Failure{ErrorTypeUnsupportedImage, http.StatusUnprocessableEntity}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Failure{ErrorTypeCancelled, StatusClientClosedRequest}
	default:
		return Failure{ErrorTypeInternal, http.StatusInternalServerError}
	}
}
