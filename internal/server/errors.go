package server

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/lockgraph/pkg/deps"
	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/integrations"
)

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

func errorBody(code, msg string) errorResponse {
	return errorResponse{Error: errorDetail{Code: code, Message: msg}}
}

// classify maps an error to an HTTP status and error code.
func classify(err error) (int, errors.Code) {
	switch {
	case stderrors.Is(err, deps.ErrNotFound):
		return http.StatusNotFound, errors.ErrCodePackageNotFound
	case stderrors.Is(err, integrations.ErrNotFound):
		return http.StatusNotFound, errors.ErrCodeNotFound
	case stderrors.Is(err, integrations.ErrNetwork):
		return http.StatusBadGateway, errors.ErrCodeNetwork
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errors.ErrCodeTimeout
	}

	code := errors.GetCode(err)
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPackage,
		errors.ErrCodeInvalidVersion, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath,
		errors.ErrCodeUnsupported:
		return http.StatusBadRequest, code
	case errors.ErrCodeNotFound, errors.ErrCodePackageNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound, code
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway, code
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout, code
	case errors.ErrCodeRender:
		return http.StatusInternalServerError, code
	}
	return http.StatusInternalServerError, errors.ErrCodeInternal
}

func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeJSON(w, status, errorBody(string(code), errors.UserMessage(err)))
}
