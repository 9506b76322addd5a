package payment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"roomreserve/internal/domain"
	"roomreserve/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// Version races during outcome application are retried this many
	// times before surfacing as Conflict. Webhook senders redeliver on
	// failure, so they get the same small budget.
	maxApplyAttempts = 3

	defaultRetryBackoff   = 50 * time.Millisecond
	defaultGatewayTimeout = 5 * time.Second
)

type Service struct {
	reservations   reservationStore
	payments       paymentStore
	providers      providerStore
	gateways       map[string]Gateway
	gatewayTimeout time.Duration
	loggerf        func(format string, args ...interface{})

	retryBackoff     time.Duration
	now              func() time.Time
	newTransactionID func() string
}

func NewService(
	reservations reservationStore,
	payments paymentStore,
	providers providerStore,
	gateways map[string]Gateway,
	gatewayTimeout time.Duration,
	loggerf func(format string, args ...interface{}),
) *Service {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	if gatewayTimeout <= 0 {
		gatewayTimeout = defaultGatewayTimeout
	}
	s := &Service{
		reservations:   reservations,
		payments:       payments,
		providers:      providers,
		gateways:       gateways,
		gatewayTimeout: gatewayTimeout,
		loggerf:        loggerf,
		retryBackoff:   defaultRetryBackoff,
		now:            time.Now,
	}
	s.newTransactionID = func() string { return generateTransactionID(s.now()) }
	return s
}

// ProcessPayment drives a PENDING_PAYMENT reservation through payment
// with the named provider. At most one call per reservation ever gets to
// create the Payment row; every other concurrent caller observes
// Conflict.
func (s *Service) ProcessPayment(ctx context.Context, reservationID int64, providerName string) (*ProcessPaymentResponse, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, reservationID)
		}
		return nil, err
	}
	if res.Status != domain.ReservationPendingPayment {
		return nil, fmt.Errorf("%w: reservation %d is %s, payment requires PENDING_PAYMENT", ErrInvalidState, reservationID, res.Status)
	}

	if _, err := s.payments.GetByReservationID(ctx, reservationID); err == nil {
		return nil, fmt.Errorf("%w: payment already exists for reservation %d", ErrConflict, reservationID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.providers.GetByName(ctx, providerName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown payment provider %q", ErrNotFound, providerName)
		}
		return nil, err
	}
	gateway, ok := s.gateways[providerName]
	if !ok {
		return nil, fmt.Errorf("%w: no gateway registered for provider %q", ErrNotFound, providerName)
	}

	p := &domain.Payment{
		ReservationID: reservationID,
		Provider:      providerName,
		Status:        domain.PaymentPending,
		Amount:        res.TotalAmount,
		TransactionID: s.newTransactionID(),
	}
	if err := s.payments.CreateGuarded(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicatePayment) {
			return nil, fmt.Errorf("%w: payment already exists for reservation %d", ErrConflict, reservationID)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reservation %d", ErrNotFound, reservationID)
		}
		return nil, err
	}
	s.loggerf("level=info msg=payment created reservation_id=%d provider=%s txn=%s amount=%.2f",
		reservationID, providerName, p.TransactionID, p.Amount)

	outcome, gerr := s.initiate(ctx, gateway, p)
	if gerr != nil {
		s.loggerf("level=error msg=gateway initiate failed reservation_id=%d provider=%s err=%v",
			reservationID, providerName, gerr)
		failed := &Outcome{Status: domain.PaymentFailed, RawResponse: fmt.Sprintf("gateway error: %v", gerr)}
		if _, _, ferr := s.applyOutcome(ctx, reservationID, failed); ferr != nil {
			s.loggerf("level=error msg=failed to record gateway failure reservation_id=%d err=%v", reservationID, ferr)
		}
		return nil, fmt.Errorf("%w: %v", ErrGateway, gerr)
	}

	savedPayment, savedRes, err := s.applyOutcome(ctx, reservationID, outcome)
	if err != nil {
		return nil, err
	}
	s.loggerf("level=info msg=payment outcome applied reservation_id=%d txn=%s payment_status=%s reservation_status=%s",
		reservationID, savedPayment.TransactionID, savedPayment.Status, savedRes.Status)
	return toProcessResponse(savedPayment, savedRes), nil
}

func (s *Service) initiate(ctx context.Context, gateway Gateway, p *domain.Payment) (*Outcome, error) {
	cctx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()
	return gateway.Initiate(cctx, p)
}

// applyOutcome is the second critical section of ProcessPayment: reload
// both rows, derive the reservation transition from the payment status,
// and persist them together under version checks. A lost version race is
// retried with jittered exponential backoff.
func (s *Service) applyOutcome(ctx context.Context, reservationID int64, outcome *Outcome) (*domain.Payment, *domain.Reservation, error) {
	var lastErr error
	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		if attempt > 1 {
			if err := s.sleep(ctx, s.backoff(attempt)); err != nil {
				return nil, nil, err
			}
		}

		p, err := s.payments.GetByReservationID(ctx, reservationID)
		if err != nil {
			return nil, nil, err
		}
		res, err := s.reservations.GetByID(ctx, reservationID)
		if err != nil {
			return nil, nil, err
		}

		// The reload may observe state written by a concurrent caller.
		// A payment that already reached a terminal status is never
		// overwritten, and a reservation that left PENDING_PAYMENT can
		// no longer be confirmed or kept waiting.
		if p.Status.Terminal() {
			if p.Status == outcome.Status {
				return p, res, nil
			}
			return nil, nil, fmt.Errorf("%w: payment %q is already %s, outcome wants %s",
				ErrInvalidState, p.TransactionID, p.Status, outcome.Status)
		}

		p.Status = outcome.Status
		if outcome.TransactionID != "" {
			p.TransactionID = outcome.TransactionID
		}
		p.RawResponse = outcome.RawResponse

		switch outcome.Status {
		case domain.PaymentSuccess:
			if res.Status != domain.ReservationPendingPayment {
				return nil, nil, fmt.Errorf("%w: reservation %d is %s, cannot confirm",
					ErrInvalidState, reservationID, res.Status)
			}
			res.Status = domain.ReservationConfirmed
		case domain.PaymentPending:
			if res.Status != domain.ReservationPendingPayment {
				return nil, nil, fmt.Errorf("%w: reservation %d is %s, cannot await payment",
					ErrInvalidState, reservationID, res.Status)
			}
			// deferred instrument: reservation keeps waiting for funds
		default:
			if res.Status == domain.ReservationPendingPayment {
				res.Status = domain.ReservationCancelled
			}
		}

		if err := s.payments.ApplyOutcome(ctx, p, res); err != nil {
			if errors.Is(err, repository.ErrStaleVersion) {
				lastErr = err
				s.loggerf("level=warn msg=version race applying payment outcome reservation_id=%d attempt=%d", reservationID, attempt)
				continue
			}
			return nil, nil, err
		}
		return p, res, nil
	}
	return nil, nil, fmt.Errorf("%w: could not apply payment outcome for reservation %d after %d attempts: %v",
		ErrConflict, reservationID, maxApplyAttempts, lastErr)
}

// HandleWebhook reconciles an asynchronous provider notification against
// the stored payment. Duplicate deliveries of a terminal status are
// no-ops; conflicting terminal transitions are rejected.
func (s *Service) HandleWebhook(ctx context.Context, providerName string, payload WebhookPayload) error {
	gateway, ok := s.gateways[providerName]
	if !ok {
		return fmt.Errorf("%w: no gateway registered for provider %q", ErrNotFound, providerName)
	}
	if err := gateway.ApplyWebhookPayload(ctx, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxApplyAttempts; attempt++ {
		if attempt > 1 {
			if err := s.sleep(ctx, s.backoff(attempt)); err != nil {
				return err
			}
		}

		p, err := s.payments.GetByTransactionID(ctx, payload.TransactionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: no payment for transaction %q", ErrNotFound, payload.TransactionID)
			}
			return err
		}
		if p.Provider != providerName {
			return fmt.Errorf("%w: transaction %q belongs to provider %q, webhook declared %q",
				ErrProviderMismatch, payload.TransactionID, p.Provider, providerName)
		}
		// Status vocabulary is checked after the transaction lookup so a
		// webhook for an unknown transaction reports NotFound regardless
		// of how mangled the rest of the payload is.
		newStatus, err := parseWebhookStatus(payload.Status)
		if err != nil {
			return err
		}
		if p.Status.Terminal() {
			if p.Status == newStatus {
				s.loggerf("level=info msg=duplicate webhook delivery ignored txn=%s status=%s", payload.TransactionID, newStatus)
				return nil
			}
			return fmt.Errorf("%w: payment %q is already %s, webhook wants %s",
				ErrInvalidState, payload.TransactionID, p.Status, newStatus)
		}

		res, err := s.reservations.GetByID(ctx, p.ReservationID)
		if err != nil {
			return err
		}

		p.Status = newStatus
		switch newStatus {
		case domain.PaymentSuccess:
			if res.Status != domain.ReservationPendingPayment {
				return fmt.Errorf("%w: reservation %d is %s, cannot confirm",
					ErrInvalidState, p.ReservationID, res.Status)
			}
			res.Status = domain.ReservationConfirmed
		case domain.PaymentFailed, domain.PaymentCanceled:
			if res.Status == domain.ReservationPendingPayment {
				res.Status = domain.ReservationCancelled
			}
		case domain.PaymentPending:
			// no reservation change
		}

		if err := s.payments.ApplyOutcome(ctx, p, res); err != nil {
			if errors.Is(err, repository.ErrStaleVersion) {
				lastErr = err
				s.loggerf("level=warn msg=version race applying webhook txn=%s attempt=%d", payload.TransactionID, attempt)
				continue
			}
			return err
		}
		s.loggerf("level=info msg=webhook applied txn=%s status=%s reservation_id=%d reservation_status=%s",
			payload.TransactionID, newStatus, p.ReservationID, res.Status)
		return nil
	}
	return fmt.Errorf("%w: could not apply webhook for transaction %q after %d attempts: %v",
		ErrConflict, payload.TransactionID, maxApplyAttempts, lastErr)
}

// GetStatus returns the payment status for a reservation, or NotFound
// when no payment exists yet.
func (s *Service) GetStatus(ctx context.Context, reservationID int64) (domain.PaymentStatus, error) {
	p, err := s.payments.GetByReservationID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: no payment for reservation %d", ErrNotFound, reservationID)
		}
		return "", err
	}
	return p.Status, nil
}

// parseWebhookStatus matches the wire vocabulary case-sensitively; the
// CANCELLED wire spelling maps to the stored CANCELED status.
func parseWebhookStatus(raw string) (domain.PaymentStatus, error) {
	switch raw {
	case "PENDING":
		return domain.PaymentPending, nil
	case "SUCCESS":
		return domain.PaymentSuccess, nil
	case "FAILED":
		return domain.PaymentFailed, nil
	case "CANCELLED":
		return domain.PaymentCanceled, nil
	}
	return "", fmt.Errorf("%w: unrecognized status %q", ErrInvalidPayload, raw)
}

func (s *Service) backoff(attempt int) time.Duration {
	d := s.retryBackoff << (attempt - 2)
	return d + time.Duration(rand.Int63n(int64(s.retryBackoff)))
}

func (s *Service) sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func generateTransactionID(t time.Time) string {
	return "TXN-" + t.Format("20060102150405") + "-" + strings.ToUpper(uuid.New().String()[:8])
}
