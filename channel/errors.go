package channel

import (
	"fmt"
	"strings"
	"unicode"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-linkbridge/core"
)

// Reply codes sent back to the host application.
const (
	CodeNotInitialized       = "NOT_INITIALIZED"
	CodeInvalidArguments     = "INVALID_ARGUMENTS"
	CodeParseError           = "PARSE_ERROR"
	CodeParseConfigError     = "PARSE_CONFIG_ERROR"
	CodeInitializationError  = "INITIALIZATION_ERROR"
	CodeCreateLinkError      = "CREATE_LINK_ERROR"
	CodeResolveLinkError     = "RESOLVE_LINK_ERROR"
	CodeInvalidConfiguration = "INVALID_CONFIGURATION"
	CodeNetworkError         = "NETWORK_ERROR"
	CodeInvalidLinkData      = "INVALID_LINK_DATA"
	CodeNotImplemented       = "NOT_IMPLEMENTED"
	CodeUnknownError         = "UNKNOWN_ERROR"
)

// MethodError is the coded failure returned by Dispatch and pushed on event
// channels.
type MethodError struct {
	Code    string
	Message string
	Details any
	Err     error
}

func (e *MethodError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code + ": " + e.Message
}

func (e *MethodError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func invalidArguments(message string) *MethodError {
	return &MethodError{Code: CodeInvalidArguments, Message: message}
}

func parseError(code string, err error) *MethodError {
	return &MethodError{Code: code, Message: err.Error(), Err: err}
}

func notImplemented(method string) *MethodError {
	return &MethodError{Code: CodeNotImplemented, Message: fmt.Sprintf("method %q is not implemented", method)}
}

// toMethodError converts a bridge error into the reply code the host
// expects for method.
func toMethodError(method string, err error) *MethodError {
	if err == nil {
		return nil
	}
	if methodErr, ok := err.(*MethodError); ok {
		return methodErr
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return &MethodError{Code: methodErrorCode(method), Message: err.Error(), Err: err}
	}

	out := &MethodError{Message: rich.Message, Err: err}
	switch rich.TextCode {
	case core.BridgeErrorNotInitialized:
		out.Code = CodeNotInitialized
		out.Message = "ULink not initialized"
	case core.BridgeErrorLinkRejected:
		out.Code = methodErrorCode(method)
		out.Details = responseDetails(rich.Metadata)
	case core.BridgeErrorBadInput:
		out.Code = CodeInvalidArguments
	case core.BridgeErrorInvalidConfiguration:
		out.Code = CodeInvalidConfiguration
	case core.BridgeErrorNetwork:
		out.Code = CodeNetworkError
	case core.BridgeErrorInvalidLinkData:
		out.Code = CodeInvalidLinkData
		out.Details = copyMap(rich.Metadata)
	default:
		out.Code = vendorOrMethodCode(method, rich.Metadata)
		out.Details = copyMap(rich.Metadata)
	}
	if method == MethodInitialize && out.Code != CodeInvalidArguments {
		out.Code = CodeInitializationError
	}
	return out
}

func methodErrorCode(method string) string {
	switch method {
	case MethodCreateLink:
		return CodeCreateLinkError
	case MethodResolveLink:
		return CodeResolveLinkError
	case MethodInitialize:
		return CodeInitializationError
	case "":
		return CodeUnknownError
	}
	var b strings.Builder
	for i, r := range method {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	b.WriteString("_ERROR")
	return b.String()
}

func vendorOrMethodCode(method string, metadata map[string]any) string {
	if code, ok := metadata["vendor_code"].(string); ok && strings.TrimSpace(code) != "" {
		return code
	}
	return methodErrorCode(method)
}

func responseDetails(metadata map[string]any) map[string]any {
	details := copyMap(metadata)
	delete(details, "operation")
	if len(details) == 0 {
		return nil
	}
	return details
}

func copyMap(in map[string]any) map[string]any {
	if len(in) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
