// Package storetest holds the behaviour every order.Store implementation must share.
package storetest

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/resumepay/pkg/order"
	"github.com/artem13815/resumepay/pkg/resume"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) order.Store

// Run exercises a store implementation against the contract.
func Run(t *testing.T, newStore Factory) {
	t.Run("insert and get", func(t *testing.T) { testInsertGet(t, newStore(t)) })
	t.Run("get missing", func(t *testing.T) { testGetMissing(t, newStore(t)) })
	t.Run("duplicate insert", func(t *testing.T) { testDuplicate(t, newStore(t)) })
	t.Run("update if unpaid", func(t *testing.T) { testUpdateIfUnpaid(t, newStore(t)) })
	t.Run("update unknown", func(t *testing.T) { testUpdateUnknown(t, newStore(t)) })
	t.Run("partial patch", func(t *testing.T) { testPartialPatch(t, newStore(t)) })
	t.Run("concurrent confirmations", func(t *testing.T) { testConcurrentUpdate(t, newStore(t)) })
	t.Run("data is not shared with callers", func(t *testing.T) { testDataIsolation(t, newStore(t)) })
}

// NewID returns a fresh order id or fails the test.
func NewID(t *testing.T) string {
	t.Helper()
	id, err := order.NewID()
	require.NoError(t, err)
	return id
}

// Sample returns a fully populated unpaid order.
func Sample(id string) order.Order {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return order.Order{
		ID:            id,
		Price:         decimal.RequireFromString("19.90"),
		Currency:      "brl",
		PaymentStatus: order.StatusPending,
		Template:      resume.TemplateModern,
		Data: resume.ResumeData{
			PersonalInfo: resume.PersonalInfo{Name: "Ana Silva", Email: "ana@example.com", City: "Recife", Region: "PE"},
			Objective:    resume.Objective{Text: "Atuar como analista de dados."},
			Experiences: []resume.Experience{
				{Role: "Analista", Organization: "Banco Azul", Start: "2020"},
			},
			Skills:    []string{"SQL", "Go"},
			Languages: []resume.Language{{Name: "Inglês", Level: "Avançado"}},
			Courses:   []resume.Course{{Name: "Power BI", Institution: "Senac", Hours: "40"}},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func ptr[T any](v T) *T { return &v }

func testInsertGet(t *testing.T, s order.Store) {
	ctx := context.Background()
	want := Sample(NewID(t))
	require.NoError(t, s.Insert(ctx, want))

	got, err := s.Get(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.True(t, want.Price.Equal(got.Price), "price %s != %s", want.Price, got.Price)
	assert.Equal(t, want.Currency, got.Currency)
	assert.False(t, got.Paid)
	assert.Equal(t, order.StatusPending, got.PaymentStatus)
	assert.Empty(t, got.PaymentSessionID)
	assert.Equal(t, want.Template, got.Template)
	assert.Equal(t, want.Data, got.Data)
	assert.WithinDuration(t, want.CreatedAt, got.CreatedAt, time.Second)
}

func testGetMissing(t *testing.T, s order.Store) {
	_, err := s.Get(context.Background(), "ord_missing")
	require.ErrorIs(t, err, order.ErrNotFound)
}

func testDuplicate(t *testing.T, s order.Store) {
	ctx := context.Background()
	o := Sample(NewID(t))
	require.NoError(t, s.Insert(ctx, o))
	require.ErrorIs(t, s.Insert(ctx, o), order.ErrAlreadyExists)
}

func testUpdateIfUnpaid(t *testing.T, s order.Store) {
	ctx := context.Background()
	o := Sample(NewID(t))
	require.NoError(t, s.Insert(ctx, o))

	first := order.Patch{
		Paid:             ptr(true),
		PaymentStatus:    ptr("paid"),
		PaymentProvider:  ptr("mock"),
		PaymentSessionID: ptr("cs_first"),
		UpdatedAt:        time.Now().UTC(),
	}
	applied, err := s.UpdateIf(ctx, o.ID, order.Unpaid, first)
	require.NoError(t, err)
	require.True(t, applied)

	second := first
	second.PaymentSessionID = ptr("cs_second")
	applied, err = s.UpdateIf(ctx, o.ID, order.Unpaid, second)
	require.NoError(t, err)
	require.False(t, applied)

	got, err := s.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.Paid)
	assert.Equal(t, "paid", got.PaymentStatus)
	assert.Equal(t, "mock", got.PaymentProvider)
	assert.Equal(t, "cs_first", got.PaymentSessionID)
	assert.Equal(t, o.Data, got.Data)
	assert.True(t, o.Price.Equal(got.Price))
}

func testUpdateUnknown(t *testing.T, s order.Store) {
	ctx := context.Background()
	applied, err := s.UpdateIf(ctx, "ord_missing", order.Always, order.Patch{Paid: ptr(true)})
	require.NoError(t, err)
	assert.False(t, applied)

	_, err = s.Get(ctx, "ord_missing")
	require.ErrorIs(t, err, order.ErrNotFound)
}

func testPartialPatch(t *testing.T, s order.Store) {
	ctx := context.Background()
	o := Sample(NewID(t))
	require.NoError(t, s.Insert(ctx, o))

	applied, err := s.UpdateIf(ctx, o.ID, order.Unpaid, order.Patch{PaymentSessionID: ptr("cs_pending"), UpdatedAt: time.Now().UTC()})
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = s.UpdateIf(ctx, o.ID, order.Unpaid, order.Patch{Paid: ptr(true), PaymentStatus: ptr("paid"), UpdatedAt: time.Now().UTC()})
	require.NoError(t, err)
	require.True(t, applied)

	got, err := s.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.Paid)
	assert.Equal(t, "cs_pending", got.PaymentSessionID)
	assert.Empty(t, got.PaymentProvider)
}

func testConcurrentUpdate(t *testing.T, s order.Store) {
	ctx := context.Background()
	o := Sample(NewID(t))
	require.NoError(t, s.Insert(ctx, o))

	const workers = 16
	var (
		wg      sync.WaitGroup
		applied atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.UpdateIf(ctx, o.ID, order.Unpaid, order.Patch{Paid: ptr(true), UpdatedAt: time.Now().UTC()})
			assert.NoError(t, err)
			if ok {
				applied.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), applied.Load())
}

func testDataIsolation(t *testing.T, s order.Store) {
	ctx := context.Background()
	o := Sample(NewID(t))
	require.NoError(t, s.Insert(ctx, o))

	// mutating the inserted value must not reach the store
	o.Data.Skills[0] = "COBOL"
	o.Data.Experiences[0].Role = "Estagiária"

	got, err := s.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"SQL", "Go"}, got.Data.Skills)

	got.Data.Skills[0] = "Fortran"
	got.Data.Experiences[0].Organization = "Outro"
	got.Data.Courses[0].Hours = "1"

	again, err := s.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, Sample(o.ID).Data, again.Data)
}
