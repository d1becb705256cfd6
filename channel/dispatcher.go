package channel

import (
	"context"
	"strings"

	"github.com/goliatone/go-linkbridge/core"
	glog "github.com/goliatone/go-logger/glog"
)

// Bridge is the slice of core.Bridge the dispatcher drives.
type Bridge interface {
	Initialize(ctx context.Context, cfg core.SDKConfig) error
	Submit(ctx context.Context, payload core.Payload) *core.Completion
	Dispose()
}

type DispatcherOption func(*MethodDispatcher)

func WithDispatcherLogger(logger core.Logger) DispatcherOption {
	return func(d *MethodDispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// MethodDispatcher decodes host method calls into bridge operations and
// encodes their results as plain maps and scalars.
type MethodDispatcher struct {
	bridge Bridge
	logger core.Logger
}

func NewMethodDispatcher(bridge Bridge, opts ...DispatcherOption) *MethodDispatcher {
	d := &MethodDispatcher{bridge: bridge, logger: glog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Dispatch runs method with args and blocks until the reply is available.
// Failures are always *MethodError.
func (d *MethodDispatcher) Dispatch(ctx context.Context, method string, args map[string]any) (any, error) {
	if d == nil || d.bridge == nil {
		return nil, &MethodError{Code: CodeUnknownError, Message: "bridge is not configured"}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	reply, err := d.dispatch(ctx, method, args)
	if err != nil {
		methodErr := toMethodError(method, err)
		d.logger.Debug("linkbridge method failed", "method", method, "code", methodErr.Code, "error", methodErr.Message)
		return nil, methodErr
	}
	return reply, nil
}

func (d *MethodDispatcher) dispatch(ctx context.Context, method string, args map[string]any) (any, error) {
	switch method {
	case MethodInitialize:
		return d.initialize(ctx, args)
	case MethodCreateLink:
		raw, ok := args["parameters"].(map[string]any)
		if !ok {
			return nil, invalidArguments("Parameters are required")
		}
		params, err := ParseLinkParameters(raw)
		if err != nil {
			return nil, parseError(CodeParseError, err)
		}
		return d.await(ctx, core.CreateLinkPayload{Parameters: params})
	case MethodResolveLink:
		url, ok := urlArg(args)
		if !ok {
			return nil, invalidArguments("URL is required")
		}
		return d.await(ctx, core.ResolveLinkPayload{URL: url})
	case MethodHandleDeepLink:
		url, ok := urlArg(args)
		if !ok {
			return nil, invalidArguments("URL is required")
		}
		if _, err := d.await(ctx, core.HandleDeepLinkPayload{URL: url}); err != nil {
			return nil, err
		}
		return nil, nil
	case MethodSetInitialURI:
		var url *string
		if value, ok := urlArg(args); ok {
			url = &value
		}
		if _, err := d.await(ctx, core.SetInitialURIPayload{URL: url}); err != nil {
			return nil, err
		}
		return nil, nil
	case MethodDispose:
		d.bridge.Dispose()
		return true, nil
	}
	if kind, ok := accessorMethods[method]; ok {
		return d.await(ctx, core.Accessor(kind))
	}
	return nil, notImplemented(method)
}

func (d *MethodDispatcher) initialize(ctx context.Context, args map[string]any) (any, error) {
	raw, ok := args["config"].(map[string]any)
	if !ok {
		return nil, invalidArguments("Config is required")
	}
	cfg, err := ParseSDKConfig(raw)
	if err != nil {
		return nil, parseError(CodeParseConfigError, err)
	}
	if err := d.bridge.Initialize(ctx, cfg); err != nil {
		return nil, err
	}
	return true, nil
}

func (d *MethodDispatcher) await(ctx context.Context, payload core.Payload) (any, error) {
	value, err := d.bridge.Submit(ctx, payload).Wait(ctx)
	if err != nil {
		return nil, err
	}
	return encodeReply(value), nil
}

func urlArg(args map[string]any) (string, bool) {
	value, ok := args["url"].(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

func encodeReply(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case core.LinkResponse:
		return ResponseToMap(typed)
	case *core.ResolvedLink:
		if typed == nil {
			return nil
		}
		return LinkToMap(typed)
	case *core.InstallationInfo:
		if typed == nil {
			return nil
		}
		return InstallationToMap(typed)
	case *string:
		if typed == nil {
			return nil
		}
		return *typed
	case core.SessionState:
		return string(typed)
	case core.InitState:
		return string(typed)
	case string:
		return nilIfEmpty(typed)
	default:
		return typed
	}
}
