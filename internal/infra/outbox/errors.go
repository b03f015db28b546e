package outbox

import "errors"

var (
	// ErrWebhookRejected the receiver answered with a non-2xx status
	ErrWebhookRejected = errors.New("outbox: webhook rejected event")

	// ErrInternal failed to build or send a delivery
	ErrInternal = errors.New("outbox: internal error")
)
