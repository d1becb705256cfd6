package query

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-linkbridge/core"
)

const queryErrorInternal = "LINKBRIDGE_INTERNAL_ERROR"

// missingReaderError reports a handler constructed without its read collaborator.
func missingReaderError(reader string) error {
	return goerrors.New("query: "+reader+" is required", goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(queryErrorInternal).
		WithMetadata(map[string]any{"reader": reader})
}

func invalidParamError(param string, message string) error {
	return goerrors.NewValidation("query: "+param+" is invalid", goerrors.FieldError{
		Field:   param,
		Message: message,
	}).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.BridgeErrorBadInput)
}

func invalidFilterError(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "query: invalid event filter").
		WithCode(http.StatusBadRequest).
		WithTextCode(core.BridgeErrorBadInput)
}
