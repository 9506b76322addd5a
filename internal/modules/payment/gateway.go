package payment

import (
	"context"

	"roomreserve/internal/domain"
)

// Outcome is the provider-agnostic result of initiating a payment.
// PENDING is a valid non-terminal outcome: a virtual-account provider
// issues the instrument synchronously and confirms by webhook later.
type Outcome struct {
	Status        domain.PaymentStatus
	TransactionID string
	RawResponse   string
}

// Gateway is the capability every payment provider implements.
type Gateway interface {
	// Initiate runs the provider-side payment for an already-persisted
	// PENDING payment. Treated as slow and fallible; the orchestrator
	// calls it under a caller-supplied timeout and holds no row lock
	// across the call.
	Initiate(ctx context.Context, p *domain.Payment) (*Outcome, error)

	// ApplyWebhookPayload vets a webhook payload in provider-specific
	// terms before the orchestrator reconciles it. An error means the
	// payload is malformed for this provider.
	ApplyWebhookPayload(ctx context.Context, payload WebhookPayload) error
}
