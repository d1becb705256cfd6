package gologger

import (
	"strings"

	"github.com/goliatone/go-linkbridge/channel"
	"github.com/goliatone/go-linkbridge/core"
	glog "github.com/goliatone/go-logger/glog"
)

const rootLoggerName = "linkbridge"

// Resolve uses deterministic precedence provider > logger > nop.
func Resolve(name string, provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger) {
	return glog.Resolve(name, provider, logger)
}

// ComponentLogger returns the provider logger named linkbridge.<component>,
// falling back to logger and then nop.
func ComponentLogger(provider glog.LoggerProvider, logger glog.Logger, component string) glog.Logger {
	name := rootLoggerName
	if component = strings.TrimSpace(component); component != "" {
		name += "." + component
	}
	resolvedProvider, resolved := Resolve(name, provider, logger)
	if resolvedProvider != nil {
		if named := resolvedProvider.GetLogger(name); named != nil {
			return glog.Ensure(named)
		}
	}
	return glog.Ensure(resolved)
}

// BridgeOptions resolves provider and logger once and returns the matching
// core options.
func BridgeOptions(provider glog.LoggerProvider, logger glog.Logger) []core.Option {
	resolvedProvider, resolved := Resolve(rootLoggerName, provider, logger)
	opts := []core.Option{core.WithLogger(glog.Ensure(resolved))}
	if resolvedProvider != nil {
		opts = append(opts, core.WithLoggerProvider(resolvedProvider))
	}
	return opts
}

// DispatcherOption names the method dispatcher logger linkbridge.channel.
func DispatcherOption(provider glog.LoggerProvider, logger glog.Logger) channel.DispatcherOption {
	return channel.WithDispatcherLogger(ComponentLogger(provider, logger, "channel"))
}
