// Package service implements the booking lifecycle: creation inside
// the collection-date window, the customer cancellation path, staff
// status overrides and code/QR redemption.  Both redemption entry
// points (typed code and scanned QR) funnel into the single
// RedeemByCode implementation here, so the booked→terminal guard is
// enforced in exactly one place.
package service

import (
    "context"
    "errors"
    "fmt"
    "log"
    "time"

    "github.com/chriskke/teeko-booking-service/internal/model"
    "github.com/chriskke/teeko-booking-service/internal/queue"
    "github.com/chriskke/teeko-booking-service/internal/repository"
    "github.com/chriskke/teeko-booking-service/internal/utils"
    "github.com/chriskke/teeko-booking-service/internal/window"
)

// Validation sentinels.  Handlers translate these into 400 responses;
// the same checks run client-side before submission, but the server
// never trusts client input for them.
var (
    ErrQuantityRange   = errors.New("quantity must be between 1 and 10")
    ErrDateOutOfWindow = errors.New("collection date is outside the booking window")
    ErrBadStatusTarget = errors.New("status must be completed, rejected or expired")
)

// Quantity bounds for a single booking.
const (
    MinQuantity = 1
    MaxQuantity = 10
)

// BookingStore is the persistence surface the lifecycle needs.  The
// MySQL implementation lives in the repository package; tests swap in
// an in-memory store with the same conditional-update semantics.
type BookingStore interface {
    Create(ctx context.Context, b *model.Booking) error
    GetByID(ctx context.Context, id uint64) (*model.Booking, error)
    UpdateStatusFrom(ctx context.Context, id uint64, from, to model.BookingStatus) error
    RedeemByCode(ctx context.Context, code string) (*model.BookingSnapshot, error)
    SnapshotByID(ctx context.Context, id uint64) (*model.BookingSnapshot, error)
    HasActiveBooking(ctx context.Context, userID, simID uint64) (bool, error)
    ListForUser(ctx context.Context, userID uint64, bucket string, page, pageSize int) ([]model.BookingSnapshot, int64, error)
    SearchBookings(ctx context.Context, q repository.BookingSearchQuery) (*repository.BookingSearchResult, error)
}

// PackageStore resolves catalog entries referenced by bookings.
type PackageStore interface {
    GetActive(ctx context.Context, id uint64) (*model.SimPackage, error)
}

// BookingService drives every status transition for bookings.  The
// clock is injectable so window checks are testable; it defaults to
// time.Now.  The publisher defaults to the RabbitMQ publisher and can
// be swapped out in tests.
type BookingService struct {
    store    BookingStore
    packages PackageStore
    now      func() time.Time
    publish  func(ctx context.Context, ev queue.BookingRedeemedEvent) error
}

// BookingServiceOption customises a BookingService at construction.
type BookingServiceOption func(*BookingService)

// WithPublisher overrides the event publisher used after redemption.
func WithPublisher(publish func(ctx context.Context, ev queue.BookingRedeemedEvent) error) BookingServiceOption {
    return func(s *BookingService) { s.publish = publish }
}

// NewBookingService constructs a BookingService.  Store and packages
// must be non-nil; now may be nil to use the wall clock.
func NewBookingService(store BookingStore, packages PackageStore, now func() time.Time, opts ...BookingServiceOption) *BookingService {
    if store == nil || packages == nil {
        panic("nil store passed to NewBookingService")
    }
    if now == nil {
        now = time.Now
    }
    s := &BookingService{store: store, packages: packages, now: now, publish: PublishBookingRedeemed}
    for _, opt := range opts {
        opt(s)
    }
    return s
}

// CreateBookingInput carries a customer's create request after JSON
// binding.  CollectionDate is the canonical YYYY-MM-DD civil date.
type CreateBookingInput struct {
    SimID          uint64 `json:"simId"`
    Quantity       int    `json:"quantity"`
    CollectionDate string `json:"collectionDate"`
}

// Create validates quantity and collection date against the current
// window, resolves the package, generates the verification code and
// persists the booking in status 'booked'.  The code is returned to
// the caller exactly once here; it is never regenerated.
func (s *BookingService) Create(ctx context.Context, userID uint64, in CreateBookingInput) (*model.Booking, *model.SimPackage, error) {
    if in.Quantity < MinQuantity || in.Quantity > MaxQuantity {
        return nil, nil, ErrQuantityRange
    }
    day, err := window.Parse(in.CollectionDate)
    if err != nil {
        return nil, nil, err
    }
    // Re-validate the window server-side; the calendar grid enforces
    // the same bound client-side but is not trusted.
    if !window.Current(s.now()).Contains(day) {
        return nil, nil, ErrDateOutOfWindow
    }
    pkg, err := s.packages.GetActive(ctx, in.SimID)
    if err != nil {
        return nil, nil, err
    }
    code, err := utils.NewVerificationCode()
    if err != nil {
        return nil, nil, err
    }
    b := &model.Booking{
        UserID:           userID,
        SimID:            pkg.ID,
        Quantity:         in.Quantity,
        CollectionDate:   window.Format(day),
        VerificationCode: code,
    }
    if err := s.store.Create(ctx, b); err != nil {
        return nil, nil, err
    }
    return b, pkg, nil
}

// Cancel moves the caller's own booking from booked to cancelled.  A
// booking that already left 'booked' fails with ErrInvalidTransition
// and is not mutated; the caller must see the failure, not a silent
// success.  Bookings belonging to someone else fail with ErrForbidden.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID uint64) error {
    b, err := s.store.GetByID(ctx, bookingID)
    if err != nil {
        return err
    }
    if b.UserID != userID {
        return repository.ErrForbidden
    }
    return s.store.UpdateStatusFrom(ctx, bookingID, model.StatusBooked, model.StatusCancelled)
}

// SetStatus is the staff override for terminal transitions.  It shares
// the same conditional update as Cancel and RedeemByCode, so a manual
// completion cannot race a QR scan past 'booked' twice.
func (s *BookingService) SetStatus(ctx context.Context, bookingID uint64, target model.BookingStatus) (*model.BookingSnapshot, error) {
    if !model.StaffTargets[target] || !model.CanTransition(model.StatusBooked, target) {
        return nil, ErrBadStatusTarget
    }
    if err := s.store.UpdateStatusFrom(ctx, bookingID, model.StatusBooked, target); err != nil {
        return nil, err
    }
    return s.store.SnapshotByID(ctx, bookingID)
}

// RedeemByCode is the single redemption implementation behind manual
// entry and QR scanning.  On success it returns the completed
// booking's snapshot; on failure the call had no effect and may be
// retried with a different code.  The redemption event is published
// best-effort and never fails the redemption itself.
func (s *BookingService) RedeemByCode(ctx context.Context, code string) (*model.BookingSnapshot, error) {
    if code == "" {
        return nil, repository.ErrCodeNotFound
    }
    snap, err := s.store.RedeemByCode(ctx, code)
    if err != nil {
        return nil, err
    }
    if perr := s.publish(ctx, RedeemedEventFromSnapshot(snap, s.now())); perr != nil {
        log.Printf("booking: publish redeemed event failed: %v", perr)
    }
    return snap, nil
}

// Get loads one booking by id.
func (s *BookingService) Get(ctx context.Context, id uint64) (*model.Booking, error) {
    return s.store.GetByID(ctx, id)
}

// CheckStatus reports whether the user holds an active booking for the
// package.
func (s *BookingService) CheckStatus(ctx context.Context, userID, simID uint64) (bool, error) {
    return s.store.HasActiveBooking(ctx, userID, simID)
}

// MyBookings pages through the caller's own bookings.  bucket is
// "current" (default) or "past"; anything else is rejected before the
// store is touched.
func (s *BookingService) MyBookings(ctx context.Context, userID uint64, bucket string, page, pageSize int) ([]model.BookingSnapshot, int64, error) {
    switch bucket {
    case "", "current":
        bucket = "current"
    case "past":
    default:
        return nil, 0, fmt.Errorf("unknown bookings bucket %q", bucket)
    }
    return s.store.ListForUser(ctx, userID, bucket, page, pageSize)
}

// Search runs the staff admin query.
func (s *BookingService) Search(ctx context.Context, q repository.BookingSearchQuery) (*repository.BookingSearchResult, error) {
    return s.store.SearchBookings(ctx, q)
}
