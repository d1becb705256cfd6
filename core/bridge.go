package core

import (
	"context"
	"strings"
	"sync"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// Bridge gates a deep-link backend behind its asynchronous initialization.
// Calls made before the backend is ready are queued and replayed in
// submission order once initialization settles.
type Bridge struct {
	backend         Backend
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	errorMapper     ErrorMapper
	gate            *Gate
	filter          *DuplicateFilter
	hub             *EventHub
	now             func() time.Time
	newID           func() string

	mu        sync.RWMutex
	session   Session
	epoch     uint64
	sdkConfig SDKConfig
	scope     context.Context
	cancel    context.CancelFunc
}

// attempt is the session an initialization attempt settled with. Replay is
// pinned to it so a dispose in the middle cannot leak queued work into a
// later session.
type attempt struct {
	epoch   uint64
	session Session
	scope   context.Context
	cfg     SDKConfig
}

// live reports whether the attempt still owns the bridge.
func (a attempt) live(gate *Gate) bool {
	if a.session == nil || a.scope == nil || a.scope.Err() != nil {
		return false
	}
	return gate.Epoch() == a.epoch
}

func NewBridge(backend Backend, opts ...Option) (*Bridge, error) {
	builder := defaultBridgeBuilder(Config{})
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.now == nil {
		builder.now = func() time.Time { return time.Now().UTC() }
	}
	if builder.idGenerator == nil {
		builder.idGenerator = defaultBridgeBuilder(Config{}).idGenerator
	}

	if backend == nil {
		return nil, mapBuildError(builder.errorMapper, ConfigurationError("core: backend is required"))
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	provider, logger := resolveBridgeLogger(finalConfig.ServiceName, builder.loggerProvider, builder.logger)

	filter := NewDuplicateFilter(finalConfig.DuplicateWindow())
	filter.Now = builder.now

	return &Bridge{
		backend:         backend,
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		errorMapper:     builder.errorMapper,
		gate:            NewGate(builder.requiresReadiness),
		filter:          filter,
		hub:             NewEventHub(builder.listeners...),
		now:             builder.now,
		newID:           builder.idGenerator,
	}, nil
}

// resolveBridgeLogger names the bridge logger after the configured service.
func resolveBridgeLogger(name string, provider LoggerProvider, logger Logger) (LoggerProvider, Logger) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultConfig().ServiceName
	}
	provider, logger = glog.Resolve(name, provider, logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger(name); named != nil {
			logger = glog.Ensure(named)
		}
	}
	return provider, logger
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

func (b *Bridge) Config() Config {
	if b == nil {
		return Config{}
	}
	return b.config
}

func (b *Bridge) State() InitState {
	return b.gate.State()
}

// Pending reports how many calls and external urls wait for initialization.
func (b *Bridge) Pending() (operations int, urls int) {
	return b.gate.Pending(), b.gate.PendingURLs()
}

func (b *Bridge) Subscribe(listener EventListener) {
	b.hub.Register(listener)
}

// Initialize runs one initialization attempt against the backend and then
// replays everything queued while it ran. Gated calls and urls arriving
// during the replay queue behind it, so no caller overtakes one queued
// earlier. It returns once replay has been dispatched, or abandoned by a
// concurrent Dispose. Calling it again after success is a no-op; after a
// failure the bridge must be disposed first.
func (b *Bridge) Initialize(ctx context.Context, cfg SDKConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	startedAt := b.now()
	epoch, err := b.gate.Begin()
	if err != nil {
		if b.gate.State() == InitStateReady {
			return nil
		}
		b.observeOperation(ctx, startedAt, "initialize", err, nil)
		return err
	}

	scope, cancel := context.WithCancel(context.WithoutCancel(ctx))
	cfg = cfg.Normalized()
	b.mu.Lock()
	if b.gate.Epoch() == epoch {
		b.scope, b.cancel = scope, cancel
		b.sdkConfig = cfg
	}
	b.mu.Unlock()

	var session Session
	initErr := cfg.Validate()
	if initErr != nil {
		initErr = ConfigurationError(initErr.Error())
	} else {
		runCtx, stop := joinContext(ctx, scope)
		session, initErr = b.backend.Initialize(runCtx, cfg)
		stop()
		if initErr == nil && session == nil {
			initErr = ConfigurationError("core: backend returned no session")
		}
	}
	ready := initErr == nil

	b.mu.Lock()
	drain, current := b.gate.Settle(epoch, ready)
	if current && ready {
		b.session = session
		b.epoch = epoch
	}
	b.mu.Unlock()

	if !current {
		// Disposed while the backend was initializing.
		cancel()
		if session != nil {
			session.Dispose()
		}
		err := b.mapError(context.Canceled)
		b.observeOperation(ctx, startedAt, "initialize", err, map[string]any{"stale": true})
		return err
	}

	fields := map[string]any{
		"queued_operations": len(drain.Operations),
		"queued_urls":       len(drain.URLs),
		"deep_links":        cfg.DeepLinksEnabled(),
	}
	if !ready {
		err := b.mapError(initErr)
		b.mu.Lock()
		if b.scope == scope {
			b.cancel, b.scope = nil, nil
		}
		b.mu.Unlock()
		cancel()
		b.failDrain(ctx, drain)
		b.observeOperation(ctx, startedAt, "initialize", err, fields)
		return err
	}

	b.startForwarders(scope, session.Streams())
	b.replayDrain(attempt{epoch: epoch, session: session, scope: scope, cfg: cfg}, drain)
	b.observeOperation(ctx, startedAt, "initialize", nil, fields)
	return nil
}

// Submit routes payload through the gate. The returned completion is
// already resolved unless the call was queued.
func (b *Bridge) Submit(ctx context.Context, payload Payload) *Completion {
	if ctx == nil {
		ctx = context.Background()
	}
	completion := NewCompletion()
	if payload == nil {
		completion.Resolve(nil, BadInputError("", nil))
		return completion
	}
	kind := payload.Kind()
	if !kind.Known() {
		completion.Resolve(nil, BadInputError(kind, nil))
		return completion
	}
	if err := payload.Validate(); err != nil {
		completion.Resolve(nil, BadInputError(kind, err))
		return completion
	}

	op := PendingOperation{
		ID:         b.newID(),
		Kind:       kind,
		Payload:    payload,
		Completion: completion,
		QueuedAt:   b.now(),
		ctx:        ctx,
	}
	decision, err := b.gate.Submit(op)
	tags := map[string]string{"operation": string(kind)}
	switch decision {
	case GateQueued:
		b.recordCounter(ctx, metricGateQueued, 1, tags)
		b.logDebug(ctx, "operation queued until initialization settles", map[string]any{
			"operation":    string(kind),
			"operation_id": op.ID,
		})
	case GateRejected:
		b.recordCounter(ctx, metricGateRejected, 1, tags)
		completion.Resolve(nil, err)
		b.observeOperation(ctx, op.QueuedAt, kind, err, map[string]any{"mode": "rejected"})
	default:
		b.execute(op, "direct", b.active())
	}
	return completion
}

// ReceiveURL is the intake for urls delivered by the OS. It reports whether
// the url was accepted for processing.
func (b *Bridge) ReceiveURL(ctx context.Context, delivery URLDelivery) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	delivery.URL = strings.TrimSpace(delivery.URL)
	if err := ValidateLinkURL(delivery.URL); err != nil {
		b.logWarn(ctx, "external url ignored", map[string]any{
			"source": string(delivery.Source),
			"error":  err.Error(),
		})
		return false
	}
	if delivery.ReceivedAt.IsZero() {
		delivery.ReceivedAt = b.now()
	}
	if !b.filter.Accept(delivery.URL, delivery.ReceivedAt) {
		b.recordCounter(ctx, metricFilterSuppressed, 1, map[string]string{"source": string(delivery.Source)})
		b.logDebug(ctx, "duplicate external url suppressed", map[string]any{
			"url":    delivery.URL,
			"source": string(delivery.Source),
		})
		return false
	}

	switch b.gate.SubmitURL(delivery) {
	case GateQueued:
		b.recordCounter(ctx, metricGateQueued, 1, map[string]string{"operation": "external_url"})
		return true
	case GateRejected:
		b.recordCounter(ctx, metricGateRejected, 1, map[string]string{"operation": "external_url"})
		b.emitNotReady(ctx)
		return false
	default:
		return b.processURL(ctx, b.active(), delivery)
	}
}

// Dispose cancels the bridge scope, abandons queued work without resolving
// it and releases the backend session. The bridge can be initialized again
// afterwards.
func (b *Bridge) Dispose() {
	if b == nil {
		return
	}
	b.mu.Lock()
	drain := b.gate.Reset()
	session, cancel := b.session, b.cancel
	b.session, b.cancel, b.scope = nil, nil, nil
	b.sdkConfig = SDKConfig{}
	b.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if session != nil {
		session.Dispose()
	}
	b.filter.Reset()

	ctx := context.Background()
	if abandoned := len(drain.Operations) + len(drain.URLs); abandoned > 0 {
		b.recordCounter(ctx, metricGateAbandoned, int64(abandoned), nil)
	}
	b.logInfo(ctx, "bridge disposed", map[string]any{
		"abandoned_operations": len(drain.Operations),
		"abandoned_urls":       len(drain.URLs),
	})
}

// replayDrain dispatches the settle snapshot and then anything that queued
// behind it, until the gate reports the replay done. Work left when the
// attempt goes stale is abandoned unresolved, like Dispose does.
func (b *Bridge) replayDrain(att attempt, drain GateDrain) {
	for {
		if abandoned := b.replayBatch(att, drain); abandoned > 0 {
			b.recordCounter(att.scope, metricGateAbandoned, int64(abandoned), nil)
			b.logInfo(att.scope, "replay abandoned, session disposed", map[string]any{
				"abandoned": abandoned,
			})
			return
		}
		next, more := b.gate.NextReplay(att.epoch)
		if !more {
			return
		}
		drain = next
	}
}

// replayBatch returns how many items it left undispatched.
func (b *Bridge) replayBatch(att attempt, drain GateDrain) int {
	for index, delivery := range drain.URLs {
		if !att.live(b.gate) {
			return len(drain.URLs) - index + len(drain.Operations)
		}
		b.processURL(att.scope, att, delivery)
	}
	for index, op := range drain.Operations {
		if !att.live(b.gate) {
			return len(drain.Operations) - index
		}
		b.recordCounter(att.scope, metricGateReplayed, 1, map[string]string{"operation": string(op.Kind)})
		b.execute(op, "replay", att)
	}
	return 0
}

func (b *Bridge) failDrain(ctx context.Context, drain GateDrain) {
	for _, op := range drain.Operations {
		err := NotReadyError(op.Kind)
		op.Completion.Resolve(nil, err)
		b.recordCounter(ctx, metricGateRejected, 1, map[string]string{"operation": string(op.Kind)})
		b.observeOperation(op.Context(), op.QueuedAt, op.Kind, err, map[string]any{
			"operation_id": op.ID,
			"mode":         "replay",
		})
	}
	if len(drain.URLs) > 0 {
		b.emitNotReady(ctx)
	}
}

func (b *Bridge) emitNotReady(ctx context.Context) {
	b.emit(ctx, Event{Channel: ChannelDynamicLinks, Err: NotReadyError(OperationHandleDeepLink)})
	b.emit(ctx, Event{Channel: ChannelUnifiedLinks, Err: NotReadyError(OperationHandleDeepLink)})
}

func (b *Bridge) processURL(ctx context.Context, att attempt, delivery URLDelivery) bool {
	if att.session == nil {
		b.emitNotReady(ctx)
		return false
	}
	if !att.cfg.DeepLinksEnabled() {
		b.logDebug(ctx, "external url dropped, deep link integration disabled", map[string]any{
			"source": string(delivery.Source),
		})
		return false
	}
	att.session.HandleDeepLink(att.scope, delivery.URL)
	b.logDebug(ctx, "external url handed to backend", map[string]any{
		"url":    delivery.URL,
		"source": string(delivery.Source),
	})
	return true
}

func (b *Bridge) execute(op PendingOperation, mode string, att attempt) {
	ctx := op.Context()
	startedAt := b.now()
	fields := map[string]any{"operation_id": op.ID, "mode": mode}
	if mode == "replay" {
		fields["queued_ms"] = startedAt.Sub(op.QueuedAt).Milliseconds()
	}

	if err := ctx.Err(); err != nil {
		err = b.mapError(err)
		op.Completion.Resolve(nil, err)
		b.observeOperation(ctx, startedAt, op.Kind, err, fields)
		return
	}
	if op.Kind == OperationGetBridgeState {
		op.Completion.Resolve(b.gate.State(), nil)
		b.observeOperation(ctx, startedAt, op.Kind, nil, fields)
		return
	}

	if att.session == nil {
		err := NotReadyError(op.Kind)
		op.Completion.Resolve(nil, err)
		b.observeOperation(ctx, startedAt, op.Kind, err, fields)
		return
	}
	runCtx, stop := joinContext(ctx, att.scope)
	defer stop()

	value, err := b.dispatch(runCtx, att.scope, att.session, op.Payload)
	if err != nil {
		err = b.mapError(err)
		value = nil
	}
	op.Completion.Resolve(value, err)
	b.observeOperation(ctx, startedAt, op.Kind, err, fields)
}

func (b *Bridge) dispatch(ctx context.Context, scope context.Context, session Session, payload Payload) (any, error) {
	switch p := payload.(type) {
	case CreateLinkPayload:
		response, err := session.CreateLink(ctx, p.Parameters.Normalized())
		if err != nil {
			return nil, err
		}
		if !response.Success {
			return nil, LinkResponseError(OperationCreateLink, response)
		}
		return response, nil
	case ResolveLinkPayload:
		response, err := session.ResolveLink(ctx, strings.TrimSpace(p.URL))
		if err != nil {
			return nil, err
		}
		if !response.Success {
			return nil, LinkResponseError(OperationResolveLink, response)
		}
		return response, nil
	case HandleDeepLinkPayload:
		session.HandleDeepLink(scope, strings.TrimSpace(p.URL))
		return nil, nil
	case SetInitialURIPayload:
		session.SetInitialURI(p.URL)
		return nil, nil
	case AccessorPayload:
		return b.dispatchAccessor(ctx, session, p.Operation)
	default:
		return nil, BadInputError(payload.Kind(), nil)
	}
}

func (b *Bridge) dispatchAccessor(ctx context.Context, session Session, kind OperationKind) (any, error) {
	switch kind {
	case OperationEndSession:
		return session.EndSession(ctx)
	case OperationGetInitialURI:
		return session.InitialURI(), nil
	case OperationGetInitialDeepLink:
		return session.InitialDeepLink(ctx)
	case OperationGetLastLinkData:
		return session.LastLinkData()
	case OperationGetCurrentSessionID:
		return session.CurrentSessionID(), nil
	case OperationHasActiveSession:
		return session.HasActiveSession(), nil
	case OperationGetSessionState:
		return session.SessionState(), nil
	case OperationGetInstallationID:
		return session.InstallationID(), nil
	case OperationGetInstallationInfo:
		return session.InstallationInfo(), nil
	case OperationIsReinstall:
		return session.IsReinstall(), nil
	case OperationCheckDeferredLink:
		return nil, session.CheckDeferredLink(ctx)
	default:
		return nil, BadInputError(kind, nil)
	}
}

func (b *Bridge) active() attempt {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return attempt{epoch: b.epoch, session: b.session, scope: b.scope, cfg: b.sdkConfig}
}

func (b *Bridge) mapError(err error) error {
	if err == nil {
		return nil
	}
	if b == nil || b.errorMapper == nil {
		return err
	}
	mapped := b.errorMapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

// joinContext derives a context from ctx that also ends when scope ends.
func joinContext(ctx context.Context, scope context.Context) (context.Context, context.CancelFunc) {
	joined, cancel := context.WithCancel(ctx)
	if scope == nil {
		return joined, cancel
	}
	stop := context.AfterFunc(scope, cancel)
	return joined, func() {
		stop()
		cancel()
	}
}
