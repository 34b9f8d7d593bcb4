package order_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/artem13815/resumepay/pkg/order"
	"github.com/artem13815/resumepay/pkg/payment"
	"github.com/artem13815/resumepay/pkg/repository/memory"
	"github.com/artem13815/resumepay/pkg/resume"
)

type fakeProvider struct {
	mu       sync.Mutex
	requests []payment.CheckoutRequest
	err      error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (payment.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	if p.err != nil {
		return payment.Session{}, p.err
	}
	return payment.Session{ID: "cs_" + req.OrderID, RedirectURL: "https://pay.example/" + req.OrderID}, nil
}

type countingObserver struct {
	mu            sync.Mutex
	created       int
	confirmations map[string]int
	downloads     map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{confirmations: map[string]int{}, downloads: map[string]int{}}
}

func (o *countingObserver) OrderCreated(resume.Template) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.created++
}

func (o *countingObserver) ConfirmationRecorded(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.confirmations[outcome]++
}

func (o *countingObserver) DownloadAuthorized(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.downloads[outcome]++
}

func newLedger(t *testing.T, opts ...order.Option) (order.UseCase, *memory.OrderRepository) {
	t.Helper()
	store := memory.NewOrderRepository()
	pricing := order.Pricing{Price: decimal.RequireFromString("9.90"), Currency: "brl"}
	return order.NewService(store, &fakeProvider{}, pricing, zap.NewNop(), opts...), store
}

func anaSilva() resume.ResumeData {
	return resume.ResumeData{
		PersonalInfo: resume.PersonalInfo{Name: "Ana Silva", Email: "ana@x.com"},
	}
}

func createOrder(t *testing.T, svc order.UseCase) order.Order {
	t.Helper()
	o, err := svc.Create(context.Background(), order.CreateInput{Data: anaSilva(), Template: "classic"})
	require.NoError(t, err)
	return o
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		data  resume.ResumeData
		field string
	}{
		{name: "missing name", data: resume.ResumeData{PersonalInfo: resume.PersonalInfo{Email: "a@b.c"}}, field: "personalInfo.name"},
		{name: "missing email", data: resume.ResumeData{PersonalInfo: resume.PersonalInfo{Name: "Ana"}}, field: "personalInfo.email"},
		{name: "blank name", data: resume.ResumeData{PersonalInfo: resume.PersonalInfo{Name: "   ", Email: "a@b.c"}}, field: "personalInfo.name"},
		{name: "empty", data: resume.ResumeData{}, field: "personalInfo.name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newLedger(t)
			_, err := svc.Create(context.Background(), order.CreateInput{Data: tt.data})
			require.Error(t, err)
			var ve *order.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Zero(t, store.Len())
		})
	}
}

func TestCreate_Defaults(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc, store := newLedger(t, order.WithClock(func() time.Time { return now }))

	o, err := svc.Create(context.Background(), order.CreateInput{Data: anaSilva(), Template: " Escuro "})
	require.NoError(t, err)

	assert.NotEmpty(t, o.ID)
	assert.Regexp(t, `^ord_`, o.ID)
	assert.False(t, o.Paid)
	assert.Equal(t, order.StatusPending, o.PaymentStatus)
	assert.Empty(t, o.PaymentSessionID)
	assert.Equal(t, resume.TemplateModern, o.Template)
	assert.Equal(t, "9.90", o.Price.StringFixed(2))
	assert.Equal(t, "brl", o.Currency)
	assert.Equal(t, now, o.CreatedAt)
	assert.Equal(t, 1, store.Len())

	stored, err := svc.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, stored.ID)
}

func TestCreate_ExplicitPrice(t *testing.T) {
	svc, _ := newLedger(t)
	price := decimal.RequireFromString("25.005")
	o, err := svc.Create(context.Background(), order.CreateInput{Data: anaSilva(), Price: &price, Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, "25.01", o.Price.StringFixed(2))
	assert.Equal(t, int64(2501), o.PriceMinorUnits())
	assert.Equal(t, "usd", o.Currency)

	negative := decimal.RequireFromString("-1")
	_, err = svc.Create(context.Background(), order.CreateInput{Data: anaSilva(), Price: &negative})
	assert.True(t, order.IsValidation(err))
}

func TestCreate_RegeneratesCollidingID(t *testing.T) {
	ids := []string{"ord_a", "ord_a", "ord_b"}
	var i int
	gen := func() (string, error) {
		id := ids[i]
		i++
		return id, nil
	}
	svc, store := newLedger(t, order.WithIDGenerator(gen))

	first := createOrder(t, svc)
	second := createOrder(t, svc)
	assert.Equal(t, "ord_a", first.ID)
	assert.Equal(t, "ord_b", second.ID)
	assert.Equal(t, 2, store.Len())
}

func TestCreate_IDGeneratorFailure(t *testing.T) {
	boom := errors.New("entropy source unavailable")
	svc, store := newLedger(t, order.WithIDGenerator(func() (string, error) { return "", boom }))

	_, err := svc.Create(context.Background(), order.CreateInput{Data: anaSilva()})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, store.Len())
}

func TestNewID(t *testing.T) {
	a, err := order.NewID()
	require.NoError(t, err)
	b, err := order.NewID()
	require.NoError(t, err)
	assert.Regexp(t, `^ord_[0-9a-z]{26}$`, a)
	assert.NotEqual(t, a, b)
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newLedger(t)
	_, err := svc.Get(context.Background(), "ord_nope")
	require.ErrorIs(t, err, order.ErrNotFound)
}

func TestRecordPaymentConfirmation_FirstWins(t *testing.T) {
	obs := newCountingObserver()
	svc, _ := newLedger(t, order.WithObserver(obs))
	o := createOrder(t, svc)
	ctx := context.Background()

	err := svc.RecordPaymentConfirmation(ctx, order.Confirmation{OrderID: o.ID, Status: "paid", Provider: "mock", SessionID: "cs_1"})
	require.NoError(t, err)

	err = svc.RecordPaymentConfirmation(ctx, order.Confirmation{OrderID: o.ID, Status: "paid", Provider: "mock", SessionID: "cs_2"})
	require.True(t, order.IsIgnored(err))
	var ig *order.ConfirmationIgnored
	require.ErrorAs(t, err, &ig)
	assert.Equal(t, order.ReasonSessionMismatch, ig.Reason)

	got, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.Paid)
	assert.Equal(t, "cs_1", got.PaymentSessionID)
	assert.Equal(t, "mock", got.PaymentProvider)
	assert.Equal(t, "paid", got.PaymentStatus)

	assert.Equal(t, 1, obs.confirmations["applied"])
	assert.Equal(t, 1, obs.confirmations[string(order.ReasonSessionMismatch)])
}

func TestRecordPaymentConfirmation_Replay(t *testing.T) {
	svc, _ := newLedger(t)
	o := createOrder(t, svc)
	ctx := context.Background()
	c := order.Confirmation{OrderID: o.ID, Provider: "mock", SessionID: "cs_1"}

	require.NoError(t, svc.RecordPaymentConfirmation(ctx, c))
	before, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", before.PaymentStatus)

	for i := 0; i < 5; i++ {
		err := svc.RecordPaymentConfirmation(ctx, c)
		var ig *order.ConfirmationIgnored
		require.ErrorAs(t, err, &ig)
		assert.Equal(t, order.ReasonAlreadyPaid, ig.Reason)
	}
	after, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRecordPaymentConfirmation_UnknownOrderCreatesNothing(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	store := memory.NewOrderRepository()
	svc := order.NewService(store, nil, order.Pricing{}, zap.New(core))

	err := svc.RecordPaymentConfirmation(context.Background(), order.Confirmation{OrderID: "ord_ghost", SessionID: "cs_9"})
	require.True(t, order.IsIgnored(err))
	assert.Zero(t, store.Len())
	assert.Equal(t, 1, logs.FilterMessage("payment confirmation ignored").Len())

	err = svc.RecordPaymentConfirmation(context.Background(), order.Confirmation{})
	require.True(t, order.IsIgnored(err))
	assert.Zero(t, store.Len())
}

func TestRecordPaymentConfirmation_KeepsCheckoutSession(t *testing.T) {
	svc, _ := newLedger(t)
	o := createOrder(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.IssueCheckoutReference(ctx, o.ID, "cs_checkout"))
	require.NoError(t, svc.RecordPaymentConfirmation(ctx, order.Confirmation{OrderID: o.ID, Provider: "mock"}))

	got, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.Paid)
	assert.Equal(t, "cs_checkout", got.PaymentSessionID)
}

func TestRecordPaymentConfirmation_Concurrent(t *testing.T) {
	svc, _ := newLedger(t)
	o := createOrder(t, svc)

	const n = 32
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.RecordPaymentConfirmation(context.Background(), order.Confirmation{OrderID: o.ID, SessionID: "cs_same"})
			if err == nil {
				mu.Lock()
				applied++
				mu.Unlock()
				return
			}
			assert.True(t, order.IsIgnored(err), "unexpected error: %v", err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, applied)
}

func TestIssueCheckoutReference(t *testing.T) {
	svc, _ := newLedger(t)
	o := createOrder(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.IssueCheckoutReference(ctx, o.ID, "cs_a"))
	got, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "cs_a", got.PaymentSessionID)
	assert.False(t, got.Paid)
	assert.Equal(t, order.StatusPending, got.PaymentStatus)

	assert.True(t, order.IsValidation(svc.IssueCheckoutReference(ctx, o.ID, " ")))
	assert.ErrorIs(t, svc.IssueCheckoutReference(ctx, "ord_missing", "cs_b"), order.ErrNotFound)

	require.NoError(t, svc.RecordPaymentConfirmation(ctx, order.Confirmation{OrderID: o.ID}))
	assert.ErrorIs(t, svc.IssueCheckoutReference(ctx, o.ID, "cs_late"), order.ErrAlreadyPaid)
}

func TestAuthorizeDownload(t *testing.T) {
	obs := newCountingObserver()
	svc, _ := newLedger(t, order.WithObserver(obs))
	ctx := context.Background()
	o, err := svc.Create(ctx, order.CreateInput{Data: anaSilva(), Template: "escuro"})
	require.NoError(t, err)

	data, tmpl, err := svc.AuthorizeDownload(ctx, o.ID)
	require.ErrorIs(t, err, order.ErrPaymentRequired)
	assert.Empty(t, data.PersonalInfo.Name)
	assert.Empty(t, tmpl)

	_, _, err = svc.AuthorizeDownload(ctx, "ord_missing")
	require.ErrorIs(t, err, order.ErrNotFound)
	assert.False(t, errors.Is(err, order.ErrPaymentRequired))

	require.NoError(t, svc.RecordPaymentConfirmation(ctx, order.Confirmation{OrderID: o.ID, SessionID: "cs_1"}))
	data, tmpl, err = svc.AuthorizeDownload(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Silva", data.PersonalInfo.Name)
	assert.Equal(t, resume.TemplateModern, tmpl)

	assert.Equal(t, 1, obs.downloads["payment_required"])
	assert.Equal(t, 1, obs.downloads["not_found"])
	assert.Equal(t, 1, obs.downloads["granted"])
}

func TestAuthorizeDownload_LegacyStoredTemplate(t *testing.T) {
	svc, store := newLedger(t)
	ctx := context.Background()
	now := time.Now().UTC()
	for id, stored := range map[string]resume.Template{
		"ord_legacy_escuro": "escuro",
		"ord_legacy_upper":  "Modern",
		"ord_legacy_claro":  "claro",
	} {
		require.NoError(t, store.Insert(ctx, order.Order{
			ID:            id,
			Price:         decimal.RequireFromString("9.90"),
			Currency:      "brl",
			Paid:          true,
			PaymentStatus: "paid",
			Template:      stored,
			Data:          anaSilva(),
			CreatedAt:     now,
			UpdatedAt:     now,
		}))
	}

	_, tmpl, err := svc.AuthorizeDownload(ctx, "ord_legacy_escuro")
	require.NoError(t, err)
	assert.Equal(t, resume.TemplateModern, tmpl)

	_, tmpl, err = svc.AuthorizeDownload(ctx, "ord_legacy_upper")
	require.NoError(t, err)
	assert.Equal(t, resume.TemplateModern, tmpl)

	_, tmpl, err = svc.AuthorizeDownload(ctx, "ord_legacy_claro")
	require.NoError(t, err)
	assert.Equal(t, resume.TemplateClassic, tmpl)
}

func TestCheckout(t *testing.T) {
	provider := &fakeProvider{}
	store := memory.NewOrderRepository()
	svc := order.NewService(store, provider, order.Pricing{Price: decimal.RequireFromString("9.90")}, zap.NewNop())
	ctx := context.Background()
	o := createOrder(t, svc)

	sess, err := svc.Checkout(ctx, o.ID, order.CheckoutURLs{
		Success: "https://app.example/orders/{orderId}/done",
		Cancel:  "https://app.example/cancel",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_"+o.ID, sess.ID)

	require.Len(t, provider.requests, 1)
	req := provider.requests[0]
	assert.Equal(t, int64(990), req.AmountMinor)
	assert.Equal(t, "brl", req.Currency)
	assert.Equal(t, "https://app.example/orders/"+o.ID+"/done", req.SuccessURL)

	got, err := svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.PaymentSessionID)
	assert.False(t, got.Paid)

	require.NoError(t, svc.RecordPaymentConfirmation(ctx, order.Confirmation{OrderID: o.ID, SessionID: sess.ID}))
	_, err = svc.Checkout(ctx, o.ID, order.CheckoutURLs{})
	assert.ErrorIs(t, err, order.ErrAlreadyPaid)

	_, err = svc.Checkout(ctx, "ord_missing", order.CheckoutURLs{})
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestCheckout_ProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: payment.ErrProvider}
	svc := order.NewService(memory.NewOrderRepository(), provider, order.Pricing{}, zap.NewNop())
	o := createOrder(t, svc)

	_, err := svc.Checkout(context.Background(), o.ID, order.CheckoutURLs{})
	require.ErrorIs(t, err, payment.ErrProvider)

	got, err := svc.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Empty(t, got.PaymentSessionID)
}

func TestCheckout_NoProvider(t *testing.T) {
	svc := order.NewService(memory.NewOrderRepository(), nil, order.Pricing{}, zap.NewNop())
	o := createOrder(t, svc)
	_, err := svc.Checkout(context.Background(), o.ID, order.CheckoutURLs{})
	require.ErrorIs(t, err, order.ErrCheckoutUnavailable)
}
