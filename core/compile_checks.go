package core

import glog "github.com/goliatone/go-logger/glog"

var (
	_ URLReceiver     = (*Bridge)(nil)
	_ EventListener   = EventListenerFunc{}
	_ BackendError    = (*VendorError)(nil)
	_ MetricsRecorder = NopMetricsRecorder{}
	_ ConfigProvider  = (*CfgxConfigProvider)(nil)
	_ OptionsResolver = GoOptionsResolver{}
	_ RawConfigLoader = StaticConfigLoader{}

	_ Logger         = glog.Nop()
	_ LoggerProvider = glog.ProviderFromLogger(glog.Nop())
)
