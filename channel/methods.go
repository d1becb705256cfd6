package channel

import "github.com/goliatone/go-linkbridge/core"

// Method names accepted by MethodDispatcher.
const (
	MethodInitialize          = "initialize"
	MethodCreateLink          = "createLink"
	MethodResolveLink         = "resolveLink"
	MethodEndSession          = "endSession"
	MethodHandleDeepLink      = "handleDeepLink"
	MethodSetInitialURI       = "setInitialUri"
	MethodGetInitialURI       = "getInitialUri"
	MethodGetInitialDeepLink  = "getInitialDeepLink"
	MethodGetLastLinkData     = "getLastLinkData"
	MethodGetCurrentSessionID = "getCurrentSessionId"
	MethodHasActiveSession    = "hasActiveSession"
	MethodGetSessionState     = "getSessionState"
	MethodGetInstallationID   = "getInstallationId"
	MethodGetInstallationInfo = "getInstallationInfo"
	MethodIsReinstall         = "isReinstall"
	MethodCheckDeferredLink   = "checkDeferredLink"
	MethodGetBridgeState      = "getBridgeState"
	MethodDispose             = "dispose"
)

// accessorMethods take no arguments and map one to one onto an operation.
var accessorMethods = map[string]core.OperationKind{
	MethodEndSession:          core.OperationEndSession,
	MethodGetInitialURI:       core.OperationGetInitialURI,
	MethodGetInitialDeepLink:  core.OperationGetInitialDeepLink,
	MethodGetLastLinkData:     core.OperationGetLastLinkData,
	MethodGetCurrentSessionID: core.OperationGetCurrentSessionID,
	MethodHasActiveSession:    core.OperationHasActiveSession,
	MethodGetSessionState:     core.OperationGetSessionState,
	MethodGetInstallationID:   core.OperationGetInstallationID,
	MethodGetInstallationInfo: core.OperationGetInstallationInfo,
	MethodIsReinstall:         core.OperationIsReinstall,
	MethodCheckDeferredLink:   core.OperationCheckDeferredLink,
	MethodGetBridgeState:      core.OperationGetBridgeState,
}

// Methods lists every method name the dispatcher understands.
func Methods() []string {
	return []string{
		MethodInitialize,
		MethodCreateLink,
		MethodResolveLink,
		MethodEndSession,
		MethodHandleDeepLink,
		MethodSetInitialURI,
		MethodGetInitialURI,
		MethodGetInitialDeepLink,
		MethodGetLastLinkData,
		MethodGetCurrentSessionID,
		MethodHasActiveSession,
		MethodGetSessionState,
		MethodGetInstallationID,
		MethodGetInstallationInfo,
		MethodIsReinstall,
		MethodCheckDeferredLink,
		MethodGetBridgeState,
		MethodDispose,
	}
}
