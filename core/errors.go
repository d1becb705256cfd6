package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	BridgeErrorInvalidConfiguration = "LINKBRIDGE_INVALID_CONFIGURATION"
	BridgeErrorNotInitialized       = "LINKBRIDGE_NOT_INITIALIZED"
	BridgeErrorBadInput             = "LINKBRIDGE_BAD_INPUT"
	BridgeErrorInitConflict         = "LINKBRIDGE_INIT_CONFLICT"
	BridgeErrorBackend              = "LINKBRIDGE_BACKEND_ERROR"
	BridgeErrorNetwork              = "LINKBRIDGE_NETWORK_ERROR"
	BridgeErrorCancelled            = "LINKBRIDGE_CANCELLED"
	BridgeErrorLinkRejected         = "LINKBRIDGE_LINK_REJECTED"
	BridgeErrorInvalidLinkData      = "LINKBRIDGE_INVALID_LINK_DATA"
	BridgeErrorEventNotFound        = "LINKBRIDGE_EVENT_NOT_FOUND"
	BridgeErrorUnknown              = "LINKBRIDGE_UNKNOWN_ERROR"
)

// Vendor codes reported by the native SDKs.
const (
	VendorNotInitialized       = "NOT_INITIALIZED"
	VendorInvalidConfiguration = "INVALID_CONFIGURATION"
	VendorNetworkError         = "NETWORK_ERROR"
	VendorInvalidURL           = "INVALID_URL"
	VendorInvalidResponse      = "INVALID_RESPONSE"
	VendorHTTPError            = "HTTP_ERROR"
	VendorInvalidParameters    = "INVALID_PARAMETERS"
	VendorSessionError         = "SESSION_ERROR"
	VendorInstallationError    = "INSTALLATION_ERROR"
	VendorLinkCreationError    = "LINK_CREATION_ERROR"
	VendorLinkResolutionError  = "LINK_RESOLUTION_ERROR"
	VendorPersistenceError     = "PERSISTENCE_ERROR"
	VendorUnknown              = "UNKNOWN_ERROR"
)

// VendorError is a ready-made BackendError for backend implementations.
type VendorError struct {
	Code       string
	Message    string
	StatusCode int
	Details    map[string]any
}

func (e *VendorError) Error() string {
	if e == nil {
		return ""
	}
	message := strings.TrimSpace(e.Message)
	if message == "" {
		message = "backend operation failed"
	}
	if code := strings.TrimSpace(e.Code); code != "" {
		return code + ": " + message
	}
	return message
}

func (e *VendorError) VendorCode() string {
	if e == nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(e.Code))
}

func NotReadyError(kind OperationKind) *goerrors.Error {
	return newBridgeError(
		"core: bridge is not initialized",
		goerrors.CategoryOperation,
		BridgeErrorNotInitialized,
	).WithMetadata(map[string]any{"operation": string(kind)})
}

func ConfigurationError(message string) *goerrors.Error {
	return newBridgeError(message, goerrors.CategoryValidation, BridgeErrorInvalidConfiguration)
}

func BadInputError(kind OperationKind, err error) *goerrors.Error {
	var wrapped *goerrors.Error
	if err == nil {
		wrapped = goerrors.New("core: invalid operation input", goerrors.CategoryBadInput)
	} else {
		wrapped = goerrors.Wrap(err, goerrors.CategoryBadInput, err.Error())
	}
	wrapped = wrapped.WithTextCode(BridgeErrorBadInput)
	if kind != "" {
		wrapped = wrapped.WithMetadata(map[string]any{"operation": string(kind)})
	}
	return ensureBridgeErrorEnvelope(wrapped)
}

func InitConflictError(state InitState) *goerrors.Error {
	return newBridgeError(
		fmt.Sprintf("core: initialize not allowed while bridge is %s", state),
		goerrors.CategoryConflict,
		BridgeErrorInitConflict,
	).WithMetadata(map[string]any{"state": string(state)})
}

// LinkResponseError surfaces a response the backend returned with
// Success=false. The response data travels in metadata.
func LinkResponseError(kind OperationKind, response LinkResponse) *goerrors.Error {
	base := strings.TrimSpace(response.Error)
	if base == "" {
		switch kind {
		case OperationCreateLink:
			base = "Error creating link"
		case OperationResolveLink:
			base = "Error resolving link"
		default:
			base = "Backend request failed"
		}
	}
	metadata := copyAnyMap(response.Data)
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["operation"] = string(kind)
	return newBridgeError(
		DetailedErrorMessage(base, response.Data),
		goerrors.CategoryExternal,
		BridgeErrorLinkRejected,
	).WithMetadata(metadata)
}

// DetailedErrorMessage appends HTTP status, backend message and details
// found in data unless base already carries them.
func DetailedErrorMessage(base string, data map[string]any) string {
	if strings.HasPrefix(base, "HTTP ") && strings.Contains(base, ":") {
		return base
	}
	message := base
	if len(data) == 0 {
		return message
	}
	if !strings.Contains(message, "HTTP ") {
		if status, ok := intValue(data["statusCode"]); ok {
			message += fmt.Sprintf(" (HTTP %d)", status)
		}
	}
	if !strings.Contains(message, "Backend:") {
		if backend, ok := data["message"].(string); ok {
			message += " - Backend: " + backend
		} else if backend, ok := data["error"].(string); ok {
			message += " - Backend: " + backend
		}
	}
	if details, ok := data["details"].(string); ok {
		message += " - Details: " + details
	}
	return message
}

// InvalidLinkDataError carries the raw payload the backend delivered, when
// it had one, under received_data.
func InvalidLinkDataError(channel EventChannel, received map[string]any) *goerrors.Error {
	metadata := map[string]any{"channel": string(channel)}
	if len(received) > 0 {
		metadata["received_data"] = copyAnyMap(received)
	}
	return newBridgeError(
		"core: received link data without routable content",
		goerrors.CategoryBadInput,
		BridgeErrorInvalidLinkData,
	).WithMetadata(metadata)
}

func EventNotFoundError(channel EventChannel) *goerrors.Error {
	return newBridgeError(
		fmt.Sprintf("core: no events recorded on %s", channel),
		goerrors.CategoryNotFound,
		BridgeErrorEventNotFound,
	).WithMetadata(map[string]any{"channel": string(channel)})
}

func IsEventNotFound(err error) bool {
	return hasTextCode(err, BridgeErrorEventNotFound)
}

func intValue(value any) (int, bool) {
	switch typed := value.(type) {
	case int:
		return typed, true
	case int32:
		return int(typed), true
	case int64:
		return int(typed), true
	case float64:
		return int(typed), true
	default:
		return 0, false
	}
}

// IsNotReady reports whether err is the gate's not-initialized outcome.
func IsNotReady(err error) bool {
	return hasTextCode(err, BridgeErrorNotInitialized)
}

func hasTextCode(err error, code string) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == code
}

func bridgeErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureBridgeErrorEnvelope(richErr)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ensureBridgeErrorEnvelope(
			goerrors.Wrap(err, goerrors.CategoryOperation, err.Error()).
				WithTextCode(BridgeErrorCancelled),
		)
	}

	var backendErr BackendError
	if errors.As(err, &backendErr) {
		return mapVendorError(err, backendErr.VendorCode())
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "not initialized"):
		return newBridgeError(err.Error(), goerrors.CategoryOperation, BridgeErrorNotInitialized)
	case strings.Contains(msg, "network"), strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "timeout"), strings.Contains(msg, "no such host"):
		return ensureBridgeErrorEnvelope(
			goerrors.Wrap(err, goerrors.CategoryExternal, err.Error()).
				WithTextCode(BridgeErrorNetwork),
		)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"):
		return ensureBridgeErrorEnvelope(
			goerrors.Wrap(err, goerrors.CategoryBadInput, err.Error()).
				WithTextCode(BridgeErrorBadInput),
		)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	if mapped != nil && mapped.Category == goerrors.CategoryInternal {
		mapped = mapped.WithTextCode(BridgeErrorUnknown)
	}
	return ensureBridgeErrorEnvelope(mapped)
}

func mapVendorError(err error, vendorCode string) *goerrors.Error {
	vendorCode = strings.ToUpper(strings.TrimSpace(vendorCode))
	var (
		category goerrors.Category
		textCode string
	)
	switch vendorCode {
	case VendorNotInitialized:
		category, textCode = goerrors.CategoryOperation, BridgeErrorNotInitialized
	case VendorInvalidConfiguration:
		category, textCode = goerrors.CategoryValidation, BridgeErrorInvalidConfiguration
	case VendorNetworkError:
		category, textCode = goerrors.CategoryExternal, BridgeErrorNetwork
	case VendorInvalidURL, VendorInvalidParameters:
		category, textCode = goerrors.CategoryBadInput, BridgeErrorBadInput
	case "", VendorUnknown:
		category, textCode = goerrors.CategoryInternal, BridgeErrorUnknown
	default:
		category, textCode = goerrors.CategoryExternal, BridgeErrorBackend
	}
	metadata := map[string]any{}
	if vendorCode != "" {
		metadata["vendor_code"] = vendorCode
	}
	var vendorErr *VendorError
	if errors.As(err, &vendorErr) && vendorErr != nil {
		if vendorErr.StatusCode > 0 {
			metadata["status_code"] = vendorErr.StatusCode
		}
		for key, value := range vendorErr.Details {
			if _, exists := metadata[key]; !exists {
				metadata[key] = value
			}
		}
	}
	mapped := goerrors.Wrap(err, category, err.Error()).WithTextCode(textCode)
	if len(metadata) > 0 {
		mapped = mapped.WithMetadata(metadata)
	}
	return ensureBridgeErrorEnvelope(mapped)
}

func newBridgeError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureBridgeErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureBridgeErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = bridgeHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultBridgeTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultBridgeTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput:
		return BridgeErrorBadInput
	case goerrors.CategoryValidation:
		return BridgeErrorInvalidConfiguration
	case goerrors.CategoryConflict:
		return BridgeErrorInitConflict
	case goerrors.CategoryExternal:
		return BridgeErrorBackend
	default:
		return BridgeErrorUnknown
	}
}

func bridgeHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryOperation:
		return http.StatusServiceUnavailable
	case goerrors.CategoryExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
