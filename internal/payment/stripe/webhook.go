package stripe

import (
	"encoding/hex"
	"fmt"
	"time"

	stripego "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// DefaultTolerance bounds how old a signed webhook may be before it is
// rejected as a possible replay.
const DefaultTolerance = webhook.DefaultTolerance

// ConstructEvent verifies the signature header against the raw payload and
// only then decodes the event envelope. Nothing is trusted from the payload
// before verification succeeds.
func ConstructEvent(payload []byte, sigHeader, secret string) (*Event, error) {
	return fromSDKEvent(webhook.ConstructEvent(payload, sigHeader, secret))
}

func ConstructEventWithTolerance(payload []byte, sigHeader, secret string, tolerance time.Duration) (*Event, error) {
	return fromSDKEvent(webhook.ConstructEventWithTolerance(payload, sigHeader, secret, tolerance))
}

// ConstructEventIgnoringTolerance skips the timestamp check; for replaying
// stored deliveries in local tooling.
func ConstructEventIgnoringTolerance(payload []byte, sigHeader, secret string) (*Event, error) {
	return fromSDKEvent(webhook.ConstructEventIgnoringTolerance(payload, sigHeader, secret))
}

func fromSDKEvent(sdkEvent stripego.Event, err error) (*Event, error) {
	if err != nil {
		return nil, err
	}
	event := &Event{ID: sdkEvent.ID, Type: string(sdkEvent.Type)}
	if sdkEvent.Data != nil {
		event.Data.Object = sdkEvent.Data.Raw
	}
	return event, nil
}

// SignatureHeader renders a valid header for the given payload; used by
// tests and local tooling.
func SignatureHeader(timestamp int64, payload []byte, secret string) string {
	sig := webhook.ComputeSignature(time.Unix(timestamp, 0), payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(sig))
}
