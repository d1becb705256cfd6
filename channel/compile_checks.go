package channel

import "github.com/goliatone/go-linkbridge/core"

var (
	_ Bridge             = (*core.Bridge)(nil)
	_ core.EventListener = (*ChannelListener)(nil)
	_ error              = (*MethodError)(nil)
)
