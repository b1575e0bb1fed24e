package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/layer-3/portal/core"
	"github.com/layer-3/portal/ports"
	"go.uber.org/zap"
)

const (
	// KindMetadataKey names the metadata entry carrying the signal kind
	KindMetadataKey = "kind"

	// AddressMetadataKey names the metadata entry carrying the wallet the
	// message belongs to. It is absent when no wallet is connected.
	AddressMetadataKey = "address"

	// KindShowLogin asks the UI to show the login prompt
	KindShowLogin = "show_login"

	// KindNotification carries a core.Notification
	KindNotification = "notification"

	// KindTelemetry carries a core.TelemetryEvent
	KindTelemetry = "telemetry"
)

// ShowLoginEvent is the payload of a show_login signal
type ShowLoginEvent struct {
	Show bool `json:"show"`
}

// WatermillPublisher publishes UI signals and telemetry with Watermill.
// It implements ports.Signals and ports.Telemetry.
type WatermillPublisher struct {
	publisher      message.Publisher
	wallet         ports.WalletProvider
	signalTopic    string
	telemetryTopic string
	logger         *zap.Logger
}

// NewWatermillPublisher creates a new Watermill publisher. Messages are
// tagged with the address wallet resolves from the publishing context.
func NewWatermillPublisher(publisher message.Publisher, wallet ports.WalletProvider, signalTopic, telemetryTopic string, logger *zap.Logger) *WatermillPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WatermillPublisher{
		publisher:      publisher,
		wallet:         wallet,
		signalTopic:    signalTopic,
		telemetryTopic: telemetryTopic,
		logger:         logger,
	}
}

// ShowLogin publishes a show_login signal
func (p *WatermillPublisher) ShowLogin(ctx context.Context) {
	p.publish(ctx, p.signalTopic, KindShowLogin, ShowLoginEvent{Show: true})
}

// Notify publishes a notification signal
func (p *WatermillPublisher) Notify(ctx context.Context, n core.Notification) {
	p.publish(ctx, p.signalTopic, KindNotification, n)
}

// LogEvent publishes a telemetry event
func (p *WatermillPublisher) LogEvent(ctx context.Context, event core.TelemetryEvent) {
	p.publish(ctx, p.telemetryTopic, KindTelemetry, event)
}

// publish never fails the caller; delivery problems are only logged
func (p *WatermillPublisher) publish(ctx context.Context, topic, kind string, data any) {
	if err := p.send(ctx, topic, kind, data); err != nil {
		p.logger.Warn("failed to publish event",
			zap.String("topic", topic),
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
}

func (p *WatermillPublisher) send(ctx context.Context, topic, kind string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)
	msg.Metadata.Set(KindMetadataKey, kind)
	if p.wallet != nil {
		if address, ok := p.wallet.Address(ctx); ok {
			msg.Metadata.Set(AddressMetadataKey, address)
		}
	}
	msg.SetContext(ctx)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
