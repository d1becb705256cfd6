package command

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-linkbridge/core"
)

const commandErrorInternal = "LINKBRIDGE_INTERNAL_ERROR"

// missingBridgeError reports a handler constructed without the bridge it drives.
func missingBridgeError(handler string) error {
	return goerrors.New("command: "+handler+" bridge is required", goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(commandErrorInternal).
		WithMetadata(map[string]any{"handler": handler})
}

func invalidFieldError(field string, message string) error {
	return goerrors.NewValidation("command: "+field+" is invalid", goerrors.FieldError{
		Field:   field,
		Message: message,
	}).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.BridgeErrorBadInput).
		WithSeverity(goerrors.SeverityError)
}

func invalidConfigError(err error) error {
	if err == nil {
		return nil
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.TextCode != "" {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command: invalid sdk config").
		WithCode(http.StatusBadRequest).
		WithTextCode(core.BridgeErrorBadInput)
}
