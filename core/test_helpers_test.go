package core

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type stubBackend struct {
	mu      sync.Mutex
	session *stubSession
	err     error
	release chan struct{}
	started chan struct{}
	calls   int
	configs []SDKConfig
}

func newStubBackend() *stubBackend {
	return &stubBackend{session: newStubSession()}
}

// blocking makes Initialize wait until unblock is called.
func (b *stubBackend) blocking() *stubBackend {
	b.release = make(chan struct{})
	b.started = make(chan struct{}, 1)
	return b
}

func (b *stubBackend) unblock() {
	close(b.release)
}

func (b *stubBackend) Initialize(ctx context.Context, cfg SDKConfig) (Session, error) {
	b.mu.Lock()
	b.calls++
	b.configs = append(b.configs, cfg)
	release, started, session := b.release, b.started, b.session
	b.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if b.err != nil {
		return nil, b.err
	}
	return session, nil
}

// swapSession makes later Initialize calls hand out next.
func (b *stubBackend) swapSession(next *stubSession) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.session = next
}

func (b *stubBackend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

type stubSession struct {
	mu          sync.Mutex
	calls       []string
	created     []LinkParameters
	handled     []string
	initialURI  *string
	createResp  LinkResponse
	createErr   error
	resolveResp LinkResponse
	state       SessionState
	disposed    int

	// createStarted/createRelease, when set, park CreateLink mid-call.
	createStarted chan struct{}
	createRelease chan struct{}

	dynamic    chan ResolvedLink
	unified    chan ResolvedLink
	logs       chan LogEntry
	reinstalls chan InstallationInfo
}

func newStubSession() *stubSession {
	return &stubSession{
		createResp:  LinkResponse{Success: true, URL: "https://x.ly/created"},
		resolveResp: LinkResponse{Success: true, URL: "https://x.ly/resolved"},
		state:       SessionStateActive,
		dynamic:     make(chan ResolvedLink, 4),
		unified:     make(chan ResolvedLink, 4),
		logs:        make(chan LogEntry, 4),
		reinstalls:  make(chan InstallationInfo, 4),
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
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *stubSession) CreateLink(_ context.Context, params LinkParameters) (LinkResponse, error) {
	s.record("create_link")
	if s.createStarted != nil {
		s.createStarted <- struct{}{}
	}
	if s.createRelease != nil {
		<-s.createRelease
	}
	s.mu.Lock()
	s.created = append(s.created, params)
	s.mu.Unlock()
	return s.createResp, s.createErr
}

func (s *stubSession) ResolveLink(_ context.Context, url string) (LinkResponse, error) {
	s.record("resolve_link:" + url)
	return s.resolveResp, nil
}

func (s *stubSession) EndSession(context.Context) (bool, error) {
	s.record("end_session")
	return true, nil
}

func (s *stubSession) HandleDeepLink(_ context.Context, url string) {
	s.record("handle_deep_link:" + url)
	s.mu.Lock()
	s.handled = append(s.handled, url)
	s.mu.Unlock()
}

func (s *stubSession) SetInitialURI(url *string) {
	s.record("set_initial_uri")
	s.mu.Lock()
	s.initialURI = url
	s.mu.Unlock()
}

func (s *stubSession) InitialURI() *string {
	s.record("get_initial_uri")
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialURI
}

func (s *stubSession) InitialDeepLink(context.Context) (*ResolvedLink, error) {
	s.record("get_initial_deep_link")
	return nil, nil
}

func (s *stubSession) LastLinkData() (*ResolvedLink, error) {
	s.record("get_last_link_data")
	return &ResolvedLink{Slug: "last"}, nil
}

func (s *stubSession) CurrentSessionID() string {
	s.record("get_current_session_id")
	return "sess_1"
}

func (s *stubSession) HasActiveSession() bool {
	s.record("has_active_session")
	return true
}

func (s *stubSession) SessionState() SessionState {
	s.record("get_session_state")
	return s.state
}

func (s *stubSession) InstallationID() string {
	s.record("get_installation_id")
	return "inst_1"
}

func (s *stubSession) InstallationInfo() *InstallationInfo {
	s.record("get_installation_info")
	return &InstallationInfo{InstallationID: "inst_1"}
}

func (s *stubSession) IsReinstall() bool {
	s.record("is_reinstall")
	return false
}

func (s *stubSession) CheckDeferredLink(context.Context) error {
	s.record("check_deferred_link")
	return nil
}

func (s *stubSession) Streams() SessionStreams {
	return SessionStreams{
		DynamicLinks: s.dynamic,
		UnifiedLinks: s.unified,
		Logs:         s.logs,
		Reinstalls:   s.reinstalls,
	}
}

func (s *stubSession) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed++
}

type recordingListener struct {
	mu     sync.Mutex
	name   string
	events []Event
	err    error
	notify chan Event
}

func newRecordingListener(name string) *recordingListener {
	return &recordingListener{name: name, notify: make(chan Event, 16)}
}

func (l *recordingListener) Name() string { return l.name }

func (l *recordingListener) OnEvent(_ context.Context, event Event) error {
	l.mu.Lock()
	l.events = append(l.events, event)
	l.mu.Unlock()
	select {
	case l.notify <- event:
	default:
	}
	return l.err
}

func (l *recordingListener) next(timeout time.Duration) (Event, error) {
	select {
	case event := <-l.notify:
		return event, nil
	case <-time.After(timeout):
		return Event{}, fmt.Errorf("no event within %s", timeout)
	}
}

func (l *recordingListener) snapshot() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}
func (s stubLogger) WithContext(context.Context) Logger {
	return s
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.values))
	for key, value := range l.values {
		out[key] = value
	}
	return out, nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestBridge(backend Backend, opts ...Option) (*Bridge, error) {
	base := []Option{WithLogger(stubLogger{}), WithLoggerProvider(stubLoggerProvider{logger: stubLogger{}})}
	return NewBridge(backend, append(base, opts...)...)
}

func testSDKConfig() SDKConfig {
	cfg := DefaultSDKConfig()
	cfg.APIKey = "ulk_test"
	return cfg
}
