package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/artem13815/resumepay/pkg/payment"
	"github.com/artem13815/resumepay/pkg/resume"
)

// ErrCheckoutUnavailable is returned by Checkout when no payment provider is wired.
var ErrCheckoutUnavailable = errors.New("checkout is not configured")

const (
	defaultPaidStatus = "paid"
	maxIDAttempts     = 3
)

// UseCase owns the order lifecycle and is the only path that releases paid resume data.
type UseCase interface {
	Create(ctx context.Context, in CreateInput) (Order, error)
	Get(ctx context.Context, id string) (Order, error)
	RecordPaymentConfirmation(ctx context.Context, c Confirmation) error
	IssueCheckoutReference(ctx context.Context, id, sessionID string) error
	AuthorizeDownload(ctx context.Context, id string) (resume.ResumeData, resume.Template, error)
	Checkout(ctx context.Context, id string, urls CheckoutURLs) (payment.Session, error)
}

// Pricing is applied to orders created without an explicit price.
type Pricing struct {
	Price    decimal.Decimal
	Currency string
}

// Observer receives lifecycle events, typically to export metrics.
type Observer interface {
	OrderCreated(t resume.Template)
	ConfirmationRecorded(outcome string)
	DownloadAuthorized(outcome string)
}

type nopObserver struct{}

func (nopObserver) OrderCreated(resume.Template) {}
func (nopObserver) ConfirmationRecorded(string) {}
func (nopObserver) DownloadAuthorized(string) {}

// Option customizes the service.
type Option func(*service)

func WithClock(now func() time.Time) Option { return func(s *service) { s.now = now } }
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *service) { s.newID = gen }
}
func WithObserver(o Observer) Option { return func(s *service) { s.observer = o } }

type service struct {
	store    Store
	provider payment.Provider
	pricing  Pricing
	log      *zap.Logger
	observer Observer
	now      func() time.Time
	newID    func() (string, error)
}

// NewService wires the ledger. provider may be nil, in which case Checkout
// fails with ErrCheckoutUnavailable.
func NewService(store Store, provider payment.Provider, pricing Pricing, logger *zap.Logger, opts ...Option) UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pricing.Currency == "" {
		pricing.Currency = "brl"
	}
	s := &service{
		store:    store,
		provider: provider,
		pricing:  pricing,
		log:      logger.Named("ledger"),
		observer: nopObserver{},
		now:      func() time.Time { return time.Now().UTC() },
		newID:    NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, in CreateInput) (Order, error) {
	data := in.Data.Trimmed()
	if data.PersonalInfo.Name == "" {
		return Order{}, &ValidationError{Field: "personalInfo.name", Message: "is required"}
	}
	if data.PersonalInfo.Email == "" {
		return Order{}, &ValidationError{Field: "personalInfo.email", Message: "is required"}
	}
	price := s.pricing.Price
	if in.Price != nil {
		if in.Price.IsNegative() {
			return Order{}, &ValidationError{Field: "price", Message: "must not be negative"}
		}
		price = *in.Price
	}
	currency := strings.ToLower(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.pricing.Currency
	}

	now := s.now()
	o := Order{
		Price:         price.Round(2),
		Currency:      currency,
		PaymentStatus: StatusPending,
		Template:      resume.NormalizeTemplate(in.Template),
		Data:          data,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := s.newID()
		if err != nil {
			return Order{}, err
		}
		o.ID = id
		err = s.store.Insert(ctx, o)
		if err == nil {
			s.log.Info("order created",
				zap.String("order_id", o.ID),
				zap.String("template", o.Template.String()),
				zap.String("price", o.Price.StringFixed(2)),
				zap.String("currency", o.Currency),
			)
			s.observer.OrderCreated(o.Template)
			return o, nil
		}
		if !errors.Is(err, ErrAlreadyExists) {
			return Order{}, fmt.Errorf("insert order: %w", err)
		}
		s.log.Warn("order id collision, regenerating", zap.String("order_id", o.ID))
	}
	return Order{}, fmt.Errorf("insert order: %w", ErrAlreadyExists)
}

func (s *service) Get(ctx context.Context, id string) (Order, error) {
	return s.store.Get(ctx, id)
}

func (s *service) RecordPaymentConfirmation(ctx context.Context, c Confirmation) error {
	if c.OrderID == "" {
		s.log.Warn("payment confirmation without order id ignored", zap.String("session_id", c.SessionID))
		s.observer.ConfirmationRecorded(string(ReasonUnknownOrder))
		return &ConfirmationIgnored{Reason: ReasonUnknownOrder}
	}
	status := c.Status
	if status == "" {
		status = defaultPaidStatus
	}
	paid := true
	patch := Patch{Paid: &paid, PaymentStatus: &status, UpdatedAt: s.now()}
	if c.Provider != "" {
		patch.PaymentProvider = &c.Provider
	}
	if c.SessionID != "" {
		patch.PaymentSessionID = &c.SessionID
	}

	applied, err := s.store.UpdateIf(ctx, c.OrderID, Unpaid, patch)
	if err != nil {
		return fmt.Errorf("record confirmation: %w", err)
	}
	if applied {
		s.log.Info("order paid",
			zap.String("order_id", c.OrderID),
			zap.String("provider", c.Provider),
			zap.String("session_id", c.SessionID),
			zap.String("status", status),
		)
		s.observer.ConfirmationRecorded("applied")
		return nil
	}

	// Nothing changed; look the order up only to say why.
	reason, err := s.classifyIgnored(ctx, c)
	if err != nil {
		return fmt.Errorf("record confirmation: %w", err)
	}
	fields := []zap.Field{
		zap.String("order_id", c.OrderID),
		zap.String("session_id", c.SessionID),
		zap.String("reason", string(reason)),
	}
	switch reason {
	case ReasonAlreadyPaid:
		s.log.Info("duplicate payment confirmation ignored", fields...)
	default:
		s.log.Warn("payment confirmation ignored", fields...)
	}
	s.observer.ConfirmationRecorded(string(reason))
	return &ConfirmationIgnored{OrderID: c.OrderID, Reason: reason}
}

func (s *service) classifyIgnored(ctx context.Context, c Confirmation) (IgnoreReason, error) {
	existing, err := s.store.Get(ctx, c.OrderID)
	if errors.Is(err, ErrNotFound) {
		return ReasonUnknownOrder, nil
	}
	if err != nil {
		return "", err
	}
	if !existing.Paid {
		// created after the update was attempted
		return ReasonUnknownOrder, nil
	}
	if c.SessionID != "" && existing.PaymentSessionID != "" && existing.PaymentSessionID != c.SessionID {
		return ReasonSessionMismatch, nil
	}
	return ReasonAlreadyPaid, nil
}

func (s *service) IssueCheckoutReference(ctx context.Context, id, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return &ValidationError{Field: "sessionId", Message: "is required"}
	}
	applied, err := s.store.UpdateIf(ctx, id, Unpaid, Patch{PaymentSessionID: &sessionID, UpdatedAt: s.now()})
	if err != nil {
		return fmt.Errorf("issue checkout reference: %w", err)
	}
	if applied {
		s.log.Info("checkout reference issued", zap.String("order_id", id), zap.String("session_id", sessionID))
		return nil
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	return ErrAlreadyPaid
}

func (s *service) AuthorizeDownload(ctx context.Context, id string) (resume.ResumeData, resume.Template, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.observer.DownloadAuthorized("not_found")
		}
		return resume.ResumeData{}, "", err
	}
	if !o.Paid {
		s.log.Info("download refused, order unpaid", zap.String("order_id", id))
		s.observer.DownloadAuthorized("payment_required")
		return resume.ResumeData{}, "", ErrPaymentRequired
	}
	s.observer.DownloadAuthorized("granted")
	return o.Data, resume.NormalizeTemplate(string(o.Template)), nil
}

func (s *service) Checkout(ctx context.Context, id string, urls CheckoutURLs) (payment.Session, error) {
	if s.provider == nil {
		return payment.Session{}, ErrCheckoutUnavailable
	}
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return payment.Session{}, err
	}
	if o.Paid {
		return payment.Session{}, ErrAlreadyPaid
	}
	sess, err := s.provider.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		OrderID:     o.ID,
		AmountMinor: o.PriceMinorUnits(),
		Currency:    o.Currency,
		Description: "Currículo " + o.Template.String(),
		SuccessURL:  expandURL(urls.Success, o.ID),
		CancelURL:   expandURL(urls.Cancel, o.ID),
	})
	if err != nil {
		s.log.Error("checkout session failed", zap.String("order_id", o.ID), zap.String("provider", s.provider.Name()), zap.Error(err))
		return payment.Session{}, err
	}
	if err := s.IssueCheckoutReference(ctx, o.ID, sess.ID); err != nil {
		return payment.Session{}, err
	}
	return sess, nil
}

// expandURL substitutes the {orderId} placeholder in redirect URLs.
func expandURL(raw, id string) string {
	return strings.ReplaceAll(raw, "{orderId}", id)
}
