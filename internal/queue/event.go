// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingRedeemedEvent is published when a verification code is
// successfully redeemed (by typed code, QR scan or staff override).
// It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type BookingRedeemedEvent struct {
    BookingID      uint64 `json:"booking_id"`
    PackageName    string `json:"package_name"`
    Quantity       int    `json:"quantity"`
    Price          string `json:"price"`
    Email          string `json:"email"`
    CollectionDate string `json:"collection_date"`
    RedeemedAt     string `json:"redeemed_at"`
}
