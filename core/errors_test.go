package core

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestBridgeErrorMapper_VendorCodes(t *testing.T) {
	cases := []struct {
		code     string
		textCode string
		category goerrors.Category
	}{
		{VendorNotInitialized, BridgeErrorNotInitialized, goerrors.CategoryOperation},
		{VendorInvalidConfiguration, BridgeErrorInvalidConfiguration, goerrors.CategoryValidation},
		{VendorNetworkError, BridgeErrorNetwork, goerrors.CategoryExternal},
		{VendorInvalidURL, BridgeErrorBadInput, goerrors.CategoryBadInput},
		{VendorSessionError, BridgeErrorBackend, goerrors.CategoryExternal},
		{VendorUnknown, BridgeErrorUnknown, goerrors.CategoryInternal},
	}
	for _, tc := range cases {
		mapped := bridgeErrorMapper(&VendorError{Code: tc.code, Message: "failed", StatusCode: 418})
		if mapped.TextCode != tc.textCode {
			t.Fatalf("%s: expected text code %q, got %q", tc.code, tc.textCode, mapped.TextCode)
		}
		if mapped.Category != tc.category {
			t.Fatalf("%s: expected category %q, got %q", tc.code, tc.category, mapped.Category)
		}
		if mapped.Code == 0 {
			t.Fatalf("%s: expected http status on mapped error", tc.code)
		}
		if tc.code != VendorUnknown && mapped.Metadata["vendor_code"] != tc.code {
			t.Fatalf("%s: expected vendor_code metadata, got %#v", tc.code, mapped.Metadata)
		}
		if mapped.Metadata["status_code"] != 418 {
			t.Fatalf("%s: expected status_code metadata, got %#v", tc.code, mapped.Metadata)
		}
	}
}

func TestBridgeErrorMapper_PlainErrors(t *testing.T) {
	mapped := bridgeErrorMapper(fmt.Errorf("wrapped: %w", context.Canceled))
	if mapped.TextCode != BridgeErrorCancelled {
		t.Fatalf("expected cancelled text code, got %q", mapped.TextCode)
	}

	mapped = bridgeErrorMapper(stderrors.New("dial tcp: connection refused"))
	if mapped.TextCode != BridgeErrorNetwork {
		t.Fatalf("expected network text code, got %q", mapped.TextCode)
	}

	mapped = bridgeErrorMapper(stderrors.New("core: link domain is required"))
	if mapped.TextCode != BridgeErrorBadInput || mapped.Code != http.StatusBadRequest {
		t.Fatalf("expected bad input 400, got %q %d", mapped.TextCode, mapped.Code)
	}

	rich := NotReadyError(OperationCreateLink)
	if bridgeErrorMapper(rich) != rich {
		t.Fatalf("expected rich errors to pass through")
	}
}

func TestNotReadyError_Envelope(t *testing.T) {
	err := NotReadyError(OperationGetSessionState)
	if err.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", err.Code)
	}
	if err.Metadata["operation"] != "get_session_state" {
		t.Fatalf("expected operation metadata, got %#v", err.Metadata)
	}
	if !IsNotReady(fmt.Errorf("outer: %w", err)) {
		t.Fatalf("expected wrapped not ready to be detected")
	}
	if IsNotReady(stderrors.New("not initialized")) {
		t.Fatalf("plain errors are not gate outcomes")
	}
}

func TestDetailedErrorMessage(t *testing.T) {
	cases := []struct {
		name string
		base string
		data map[string]any
		want string
	}{
		{"no data", "Error creating link", nil, "Error creating link"},
		{"http prefix kept", "HTTP 400: bad body", map[string]any{"statusCode": 400}, "HTTP 400: bad body"},
		{
			"status message details",
			"Error creating link",
			map[string]any{"statusCode": float64(422), "message": "slug taken", "details": "try another"},
			"Error creating link (HTTP 422) - Backend: slug taken - Details: try another",
		},
		{
			"error fallback",
			"Error resolving link",
			map[string]any{"error": "not found"},
			"Error resolving link - Backend: not found",
		},
	}
	for _, tc := range cases {
		if got := DetailedErrorMessage(tc.base, tc.data); got != tc.want {
			t.Fatalf("%s: want %q got %q", tc.name, tc.want, got)
		}
	}
}

func TestLinkResponseError_DefaultsMessage(t *testing.T) {
	err := LinkResponseError(OperationResolveLink, LinkResponse{Data: map[string]any{"statusCode": 404}})
	if !strings.HasPrefix(err.Message, "Error resolving link (HTTP 404)") {
		t.Fatalf("unexpected message %q", err.Message)
	}
	if err.Metadata["operation"] != "resolve_link" || err.Metadata["statusCode"] != 404 {
		t.Fatalf("expected response data in metadata, got %#v", err.Metadata)
	}
	if err.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", err.Code)
	}
}

func TestVendorError_Message(t *testing.T) {
	err := &VendorError{Code: "session_error", Message: "expired"}
	if err.Error() != "session_error: expired" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if err.VendorCode() != VendorSessionError {
		t.Fatalf("expected upper-cased vendor code, got %q", err.VendorCode())
	}
}
