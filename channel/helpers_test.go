package channel

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/goliatone/go-linkbridge/core"
)

type stubBackend struct {
	session *stubSession
	err     error
}

func (b *stubBackend) Initialize(context.Context, core.SDKConfig) (core.Session, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.session, nil
}

type stubSession struct {
	mu          sync.Mutex
	calls       []string
	createResp  core.LinkResponse
	resolveResp core.LinkResponse
	initialURI  *string
	lastLink    *core.ResolvedLink
}

func newStubSession() *stubSession {
	return &stubSession{
		createResp:  core.LinkResponse{Success: true, URL: "https://x.ly/created"},
		resolveResp: core.LinkResponse{Success: true, URL: "https://x.ly/resolved", Data: map[string]any{"slug": "promo"}},
	}
}

func (s *stubSession) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *stubSession) callLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubSession) CreateLink(context.Context, core.LinkParameters) (core.LinkResponse, error) {
	s.record("create_link")
	return s.createResp, nil
}

func (s *stubSession) ResolveLink(_ context.Context, url string) (core.LinkResponse, error) {
	s.record("resolve_link:" + url)
	return s.resolveResp, nil
}

func (s *stubSession) EndSession(context.Context) (bool, error) { return true, nil }

func (s *stubSession) HandleDeepLink(_ context.Context, url string) {
	s.record("handle_deep_link:" + url)
}

func (s *stubSession) SetInitialURI(url *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialURI = url
}

func (s *stubSession) InitialURI() *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialURI
}

func (s *stubSession) InitialDeepLink(context.Context) (*core.ResolvedLink, error) { return nil, nil }
func (s *stubSession) LastLinkData() (*core.ResolvedLink, error)                   { return s.lastLink, nil }
func (s *stubSession) CurrentSessionID() string                                    { return "" }
func (s *stubSession) HasActiveSession() bool                                      { return true }
func (s *stubSession) SessionState() core.SessionState                             { return core.SessionStateActive }
func (s *stubSession) InstallationID() string                                      { return "inst_1" }
func (s *stubSession) IsReinstall() bool                                           { return false }
func (s *stubSession) CheckDeferredLink(context.Context) error                     { return nil }
func (s *stubSession) Streams() core.SessionStreams                                { return core.SessionStreams{} }
func (s *stubSession) Dispose()                                                    {}

func (s *stubSession) InstallationInfo() *core.InstallationInfo {
	return &core.InstallationInfo{InstallationID: "inst_1", PersistentDeviceID: "dev_1"}
}

type recordingSink struct {
	mu       sync.Mutex
	payloads []any
	codes    []string
	details  []any
}

func (s *recordingSink) Success(payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, payload)
}

func (s *recordingSink) Error(code, _ string, details any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = append(s.codes, code)
	s.details = append(s.details, details)
}

func newDispatcher(t *testing.T, backend *stubBackend, opts ...core.Option) (*MethodDispatcher, *core.Bridge) {
	t.Helper()
	bridge, err := core.NewBridge(backend, opts...)
	if err != nil {
		t.Fatalf("new bridge: %v", err)
	}
	return NewMethodDispatcher(bridge), bridge
}

func initArgs() map[string]any {
	return map[string]any{"config": map[string]any{"apiKey": "ulk_test"}}
}

func requireMethodError(t *testing.T, err error, code string) *MethodError {
	t.Helper()
	var methodErr *MethodError
	if !errors.As(err, &methodErr) {
		t.Fatalf("expected method error %s, got %v", code, err)
	}
	if methodErr.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, methodErr.Code, methodErr.Message)
	}
	return methodErr
}
