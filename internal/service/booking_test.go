package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriskke/teeko-booking-service/internal/model"
	"github.com/chriskke/teeko-booking-service/internal/queue"
	"github.com/chriskke/teeko-booking-service/internal/repository"
	"github.com/chriskke/teeko-booking-service/internal/window"
)

// memStore is an in-memory BookingStore with the same conditional
// check-and-set semantics as the MySQL repository: every guarded
// transition checks and applies under one lock acquisition.
type memStore struct {
	mu       sync.Mutex
	seq      uint64
	bookings map[uint64]*model.Booking
	pkgs     map[uint64]model.SimPackage
	emails   map[uint64]string
}

func newMemStore() *memStore {
	return &memStore{
		bookings: map[uint64]*model.Booking{},
		pkgs: map[uint64]model.SimPackage{
			1: {ID: 1, Name: "Global eSIM 10GB", Price: "RM 49.00", IsActive: true},
			2: {ID: 2, Name: "Japan eSIM 5GB", Price: "RM 29.00", IsActive: true},
		},
		emails: map[uint64]string{7: "alice@example.com", 8: "bob@example.com"},
	}
}

func (m *memStore) snapshot(b *model.Booking) *model.BookingSnapshot {
	p := m.pkgs[b.SimID]
	return &model.BookingSnapshot{
		ID: b.ID, PackageName: p.Name, Price: p.Price, Quantity: b.Quantity,
		Email: m.emails[b.UserID], CollectionDate: b.CollectionDate,
		Status: b.Status, VerificationCode: b.VerificationCode, CreatedAt: b.CreatedAt,
	}
}

func (m *memStore) Create(ctx context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	b.ID = m.seq
	b.Status = model.StatusBooked
	b.CreatedAt = time.Now().UTC()
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memStore) UpdateStatusFrom(ctx context.Context, id uint64, from, to model.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	if b.Status != from {
		return repository.ErrInvalidTransition
	}
	b.Status = to
	return nil
}

func (m *memStore) RedeemByCode(ctx context.Context, code string) (*model.BookingSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.VerificationCode == code {
			if b.Status != model.StatusBooked {
				return nil, repository.ErrInvalidTransition
			}
			b.Status = model.StatusCompleted
			return m.snapshot(b), nil
		}
	}
	return nil, repository.ErrCodeNotFound
}

func (m *memStore) SnapshotByID(ctx context.Context, id uint64) (*model.BookingSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	return m.snapshot(b), nil
}

func (m *memStore) HasActiveBooking(ctx context.Context, userID, simID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.UserID == userID && b.SimID == simID && b.Status == model.StatusBooked {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListForUser(ctx context.Context, userID uint64, bucket string, page, pageSize int) ([]model.BookingSnapshot, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.BookingSnapshot{}
	for _, b := range m.bookings {
		if b.UserID != userID {
			continue
		}
		current := b.Status == model.StatusBooked
		if (bucket == "current") == current {
			out = append(out, *m.snapshot(b))
		}
	}
	return out, int64(len(out)), nil
}

func (m *memStore) SearchBookings(ctx context.Context, q repository.BookingSearchQuery) (*repository.BookingSearchResult, error) {
	return &repository.BookingSearchResult{TotalPages: 1}, nil
}

// GetActive satisfies PackageStore.
func (m *memStore) GetActive(ctx context.Context, id uint64) (*model.SimPackage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pkgs[id]
	if !ok {
		return nil, repository.ErrPackageNotFound
	}
	return &p, nil
}

func noPublish(ctx context.Context, ev queue.BookingRedeemedEvent) error { return nil }

// fixedNow pins the clock to a known instant in the civil calendar.
func fixedNow() time.Time {
	return time.Date(2025, 6, 15, 10, 0, 0, 0, window.Zone)
}

func newTestService(store *memStore) *BookingService {
	return NewBookingService(store, store, fixedNow, WithPublisher(noPublish))
}

func TestCreateOnLastWindowDay(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	// Window for 2025-06-15 runs through 2025-09-15 inclusive.
	b, pkg, err := svc.Create(context.Background(), 7, CreateBookingInput{
		SimID: 1, Quantity: 10, CollectionDate: "2025-09-15",
	})
	require.NoError(t, err)
	assert.Equal(t, "Global eSIM 10GB", pkg.Name)
	assert.Equal(t, model.StatusBooked, b.Status)
	assert.Equal(t, 10, b.Quantity)
	assert.Len(t, b.VerificationCode, 10)

	// Redeeming that code completes the booking and the snapshot
	// carries the created quantity.
	snap, err := svc.RedeemByCode(context.Background(), b.VerificationCode)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, snap.Status)
	assert.Equal(t, 10, snap.Quantity)

	// A second redemption of the same code must fail.
	_, err = svc.RedeemByCode(context.Background(), b.VerificationCode)
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)
}

func TestCreateValidation(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, _, err := svc.Create(ctx, 7, CreateBookingInput{SimID: 1, Quantity: 11, CollectionDate: "2025-07-01"})
	assert.ErrorIs(t, err, ErrQuantityRange)

	_, _, err = svc.Create(ctx, 7, CreateBookingInput{SimID: 1, Quantity: 0, CollectionDate: "2025-07-01"})
	assert.ErrorIs(t, err, ErrQuantityRange)

	_, _, err = svc.Create(ctx, 7, CreateBookingInput{SimID: 1, Quantity: 2, CollectionDate: "2025-06-14"})
	assert.ErrorIs(t, err, ErrDateOutOfWindow, "yesterday is outside the window")

	_, _, err = svc.Create(ctx, 7, CreateBookingInput{SimID: 1, Quantity: 2, CollectionDate: "2025-09-16"})
	assert.ErrorIs(t, err, ErrDateOutOfWindow, "one day past the bound")

	_, _, err = svc.Create(ctx, 7, CreateBookingInput{SimID: 1, Quantity: 2, CollectionDate: "07/01/2025"})
	assert.ErrorIs(t, err, window.ErrBadDate)

	_, _, err = svc.Create(ctx, 7, CreateBookingInput{SimID: 99, Quantity: 2, CollectionDate: "2025-07-01"})
	assert.ErrorIs(t, err, repository.ErrPackageNotFound)

	assert.Empty(t, store.bookings, "no booking may be created on validation failure")
}

func TestCancel(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	b, _, err := svc.Create(ctx, 7, CreateBookingInput{SimID: 1, Quantity: 1, CollectionDate: "2025-07-01"})
	require.NoError(t, err)

	// Someone else's cancel is forbidden and mutates nothing.
	err = svc.Cancel(ctx, 8, b.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	require.NoError(t, svc.Cancel(ctx, 7, b.ID))

	// A second cancel must fail loudly, not silently succeed.
	err = svc.Cancel(ctx, 7, b.ID)
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)

	err = svc.Cancel(ctx, 7, 999)
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestSetStatusTargets(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	b, _, err := svc.Create(ctx, 7, CreateBookingInput{SimID: 2, Quantity: 3, CollectionDate: "2025-07-01"})
	require.NoError(t, err)

	// booked and cancelled are not staff targets.
	_, err = svc.SetStatus(ctx, b.ID, model.StatusBooked)
	assert.ErrorIs(t, err, ErrBadStatusTarget)
	_, err = svc.SetStatus(ctx, b.ID, model.StatusCancelled)
	assert.ErrorIs(t, err, ErrBadStatusTarget)

	snap, err := svc.SetStatus(ctx, b.ID, model.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, snap.Status)

	// The booking left 'booked'; every further transition loses.
	_, err = svc.SetStatus(ctx, b.ID, model.StatusCompleted)
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)
	_, err = svc.RedeemByCode(ctx, b.VerificationCode)
	assert.ErrorIs(t, err, repository.ErrInvalidTransition)
}

func TestRedeemByCode(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	b, _, err := svc.Create(ctx, 7, CreateBookingInput{SimID: 1, Quantity: 2, CollectionDate: "2025-07-01"})
	require.NoError(t, err)

	_, err = svc.RedeemByCode(ctx, "NOSUCHCODE")
	assert.ErrorIs(t, err, repository.ErrCodeNotFound)

	_, err = svc.RedeemByCode(ctx, "")
	assert.ErrorIs(t, err, repository.ErrCodeNotFound)

	// The match is case-sensitive: a case-folded code is not found.
	lower := []byte(b.VerificationCode)
	for i, ch := range lower {
		if ch >= 'A' && ch <= 'Z' {
			lower[i] = ch + 32
		}
	}
	_, err = svc.RedeemByCode(ctx, string(lower))
	assert.ErrorIs(t, err, repository.ErrCodeNotFound)

	snap, err := svc.RedeemByCode(ctx, b.VerificationCode)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", snap.Email)
	assert.Equal(t, b.VerificationCode, snap.VerificationCode)
}

// TestTerminalTransitionRace drives cancel, staff overrides and both
// redemption entry points concurrently against one booking: exactly
// one attempt may win and all others must observe ErrInvalidTransition.
func TestTerminalTransitionRace(t *testing.T) {
	for round := 0; round < 20; round++ {
		store := newMemStore()
		svc := newTestService(store)
		ctx := context.Background()

		b, _, err := svc.Create(ctx, 7, CreateBookingInput{SimID: 1, Quantity: 1, CollectionDate: "2025-07-01"})
		require.NoError(t, err)

		attempts := []func() error{
			func() error { return svc.Cancel(ctx, 7, b.ID) },
			func() error { _, err := svc.SetStatus(ctx, b.ID, model.StatusCompleted); return err },
			func() error { _, err := svc.SetStatus(ctx, b.ID, model.StatusRejected); return err },
			func() error { _, err := svc.RedeemByCode(ctx, b.VerificationCode); return err },
			func() error { _, err := svc.RedeemByCode(ctx, b.VerificationCode); return err },
		}

		errs := make([]error, len(attempts))
		var wg sync.WaitGroup
		for i, attempt := range attempts {
			wg.Add(1)
			go func(i int, attempt func() error) {
				defer wg.Done()
				errs[i] = attempt()
			}(i, attempt)
		}
		wg.Wait()

		wins := 0
		for _, err := range errs {
			if err == nil {
				wins++
			} else {
				assert.ErrorIs(t, err, repository.ErrInvalidTransition)
			}
		}
		assert.Equal(t, 1, wins, "exactly one terminal transition may succeed")

		got, err := store.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.True(t, got.Status.Terminal())
	}
}

func TestMyBookingsBuckets(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	b1, _, err := svc.Create(ctx, 7, CreateBookingInput{SimID: 1, Quantity: 1, CollectionDate: "2025-07-01"})
	require.NoError(t, err)
	_, _, err = svc.Create(ctx, 7, CreateBookingInput{SimID: 2, Quantity: 1, CollectionDate: "2025-07-02"})
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, 7, b1.ID))

	current, total, err := svc.MyBookings(ctx, 7, "current", 1, 10)
	require.NoError(t, err)
	assert.Len(t, current, 1)
	assert.EqualValues(t, 1, total)

	past, _, err := svc.MyBookings(ctx, 7, "past", 1, 10)
	require.NoError(t, err)
	assert.Len(t, past, 1)
	assert.Equal(t, model.StatusCancelled, past[0].Status)

	// Empty bucket defaults to current.
	def, _, err := svc.MyBookings(ctx, 7, "", 1, 10)
	require.NoError(t, err)
	assert.Len(t, def, 1)

	_, _, err = svc.MyBookings(ctx, 7, "bogus", 1, 10)
	assert.Error(t, err)
}

func TestCheckStatus(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)
	ctx := context.Background()

	booked, err := svc.CheckStatus(ctx, 7, 1)
	require.NoError(t, err)
	assert.False(t, booked)

	b, _, err := svc.Create(ctx, 7, CreateBookingInput{SimID: 1, Quantity: 1, CollectionDate: "2025-07-01"})
	require.NoError(t, err)

	booked, err = svc.CheckStatus(ctx, 7, 1)
	require.NoError(t, err)
	assert.True(t, booked)

	// Terminal bookings do not count as active.
	require.NoError(t, svc.Cancel(ctx, 7, b.ID))
	booked, err = svc.CheckStatus(ctx, 7, 1)
	require.NoError(t, err)
	assert.False(t, booked)
}
