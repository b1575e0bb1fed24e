package ports

import (
	"context"

	"github.com/layer-3/portal/core"
)

// Signals is the channel the gateway uses to talk to the UI
type Signals interface {
	// ShowLogin asks the UI to prompt the user to authenticate again
	ShowLogin(ctx context.Context)

	// Notify shows a transient notification
	Notify(ctx context.Context, n core.Notification)
}

// Telemetry records analytics events
type Telemetry interface {
	LogEvent(ctx context.Context, event core.TelemetryEvent)
}
