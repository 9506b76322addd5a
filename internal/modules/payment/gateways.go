package payment

import (
	"context"
	"fmt"
	"strings"

	"roomreserve/internal/domain"

	"github.com/google/uuid"
)

// Provider names as stored in payment_providers and used for registry
// lookup.
const (
	ProviderCard           = "Card"
	ProviderSimple         = "Simple"
	ProviderVirtualAccount = "VirtualAccount"
)

// NewGatewayRegistry builds the static name-to-capability mapping
// resolved at startup. Unknown names are rejected by the orchestrator.
func NewGatewayRegistry(loggerf func(format string, args ...interface{})) map[string]Gateway {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return map[string]Gateway{
		ProviderCard:           &CardGateway{loggerf: loggerf},
		ProviderSimple:         &SimpleGateway{loggerf: loggerf},
		ProviderVirtualAccount: &VirtualAccountGateway{loggerf: loggerf},
	}
}

// CardGateway mocks a card acquirer that authorizes synchronously.
type CardGateway struct {
	loggerf func(format string, args ...interface{})
}

func (g *CardGateway) Initiate(ctx context.Context, p *domain.Payment) (*Outcome, error) {
	id := "CARD_" + shortID()
	raw := fmt.Sprintf(`{"status":"SUCCESS","txnId":"%s"}`, id)
	g.loggerf("level=info msg=card payment authorized txn=%s amount=%.2f", id, p.Amount)
	return &Outcome{Status: domain.PaymentSuccess, TransactionID: id, RawResponse: raw}, nil
}

func (g *CardGateway) ApplyWebhookPayload(ctx context.Context, payload WebhookPayload) error {
	return requireWellFormed(payload)
}

// SimpleGateway mocks a wallet provider; it answers in XML but still
// succeeds synchronously.
type SimpleGateway struct {
	loggerf func(format string, args ...interface{})
}

func (g *SimpleGateway) Initiate(ctx context.Context, p *domain.Payment) (*Outcome, error) {
	id := "SIMPLE_" + shortID()
	raw := fmt.Sprintf("<result><state>OK</state><tid>%s</tid></result>", id)
	g.loggerf("level=info msg=wallet payment authorized txn=%s amount=%.2f", id, p.Amount)
	return &Outcome{Status: domain.PaymentSuccess, TransactionID: id, RawResponse: raw}, nil
}

func (g *SimpleGateway) ApplyWebhookPayload(ctx context.Context, payload WebhookPayload) error {
	return requireWellFormed(payload)
}

// VirtualAccountGateway mocks a bank-transfer provider: issuing the
// account succeeds immediately but funds arrive later, so Initiate
// returns PENDING and confirmation comes entirely through the webhook.
type VirtualAccountGateway struct {
	loggerf func(format string, args ...interface{})
}

func (g *VirtualAccountGateway) Initiate(ctx context.Context, p *domain.Payment) (*Outcome, error) {
	id := "VIRT_" + shortID()
	raw := fmt.Sprintf(`{"code":200,"message":"virtual account issued","tid":"%s"}`, id)
	g.loggerf("level=info msg=virtual account issued txn=%s amount=%.2f", id, p.Amount)
	return &Outcome{Status: domain.PaymentPending, TransactionID: id, RawResponse: raw}, nil
}

func (g *VirtualAccountGateway) ApplyWebhookPayload(ctx context.Context, payload WebhookPayload) error {
	return requireWellFormed(payload)
}

func requireWellFormed(payload WebhookPayload) error {
	if payload.TransactionID == "" || payload.Status == "" {
		return fmt.Errorf("webhook payload missing transactionId or status")
	}
	return nil
}

func shortID() string {
	return strings.ToUpper(uuid.New().String()[:8])
}
