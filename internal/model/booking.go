package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.  A booking
// starts as StatusBooked and moves to exactly one terminal state.  The
// set is closed: repositories and handlers must never compare raw
// strings, they go through ParseStatus and CanTransition instead so the
// legal transitions live in one place.
type BookingStatus string

const (
    StatusBooked    BookingStatus = "booked"    // initial state, redeemable
    StatusCompleted BookingStatus = "completed" // redeemed by code/QR or staff override
    StatusCancelled BookingStatus = "cancelled" // cancelled by the owning customer
    StatusExpired   BookingStatus = "expired"   // collection date passed unredeemed
    StatusRejected  BookingStatus = "rejected"  // refused by staff
)

// transitions is the full transition table.  Every terminal edge starts
// at StatusBooked; terminal states have no outgoing edges at all, which
// is what makes double-redeem and double-cancel structurally impossible.
var transitions = map[BookingStatus]map[BookingStatus]bool{
    StatusBooked: {
        StatusCompleted: true,
        StatusCancelled: true,
        StatusExpired:   true,
        StatusRejected:  true,
    },
}

// ParseStatus validates a raw status string against the closed set.  It
// returns the typed status and true, or empty and false for anything
// outside the enumeration.
func ParseStatus(raw string) (BookingStatus, bool) {
    switch BookingStatus(raw) {
    case StatusBooked, StatusCompleted, StatusCancelled, StatusExpired, StatusRejected:
        return BookingStatus(raw), true
    }
    return "", false
}

// CanTransition reports whether moving a booking from one status to
// another is legal.  The table is the single source of truth; the
// repository applies the same rule atomically with a conditional UPDATE.
func CanTransition(from, to BookingStatus) bool {
    return transitions[from][to]
}

// Terminal reports whether a status has no outgoing transitions.
func (s BookingStatus) Terminal() bool {
    return len(transitions[s]) == 0
}

// StaffTargets lists the statuses staff may set manually through the
// status endpoint.  Cancellation is reserved for the owning customer
// and completion-by-code goes through redemption, but staff can force
// any of these three from the admin view.
var StaffTargets = map[BookingStatus]bool{
    StatusCompleted: true,
    StatusRejected:  true,
    StatusExpired:   true,
}

// Booking represents a customer's reservation of quantity units of a
// SIM package, as stored in the `bookings` table.  The verification
// code is assigned once at creation and never regenerated; it is the
// redemption secret for the booked→completed transition.
//
// Fields:
//  ID               – primary key identifier.
//  UserID           – owning customer.
//  SimID            – the reserved SIM package.
//  Quantity         – units reserved, always within [1,10].
//  CollectionDate   – civil date (YYYY-MM-DD, UTC+8) of fulfilment.
//  Status           – current lifecycle state.
//  VerificationCode – one-time redemption secret, stable for life.
//  CreatedAt        – timestamp of creation.
//  UpdatedAt        – timestamp of last update.
type Booking struct {
    ID               uint64        // bookings.id
    UserID           uint64        // bookings.user_id
    SimID            uint64        // bookings.sim_id
    Quantity         int           // bookings.quantity
    CollectionDate   string        // bookings.collection_date (DATE)
    Status           BookingStatus // bookings.status
    VerificationCode string        // bookings.verification_code
    CreatedAt        time.Time     // bookings.created_at
    UpdatedAt        time.Time     // bookings.updated_at
}

// BookingSnapshot carries everything needed to render a redemption or
// listing row without a second round trip: package display data joined
// from the catalog plus the booking's own fields.
type BookingSnapshot struct {
    ID               uint64        `json:"id"`
    PackageName      string        `json:"packageName"`
    Price            string        `json:"price"`
    Quantity         int           `json:"quantity"`
    Email            string        `json:"email"`
    CollectionDate   string        `json:"collectionDate"`
    Status           BookingStatus `json:"status"`
    VerificationCode string        `json:"verificationCode"`
    CreatedAt        time.Time     `json:"createdAt"`
}
