package client

import (
    "context"
    "fmt"
    "net/http"

    "github.com/chriskke/teeko-booking-service/internal/model"
)

// Meta mirrors the pagination envelope returned by list endpoints.
type Meta struct {
    Total      int64 `json:"total"`
    TotalPages int   `json:"totalPages"`
}

// BookingPage is one page of snapshots with its meta.
type BookingPage struct {
    Data []model.BookingSnapshot `json:"data"`
    Meta Meta                    `json:"meta"`
}

// AdminBookingPage adds the filter-independent package-name list used
// to populate the package dropdown.
type AdminBookingPage struct {
    Data     []model.BookingSnapshot `json:"data"`
    Packages []string                `json:"packages"`
    Meta     Meta                    `json:"meta"`
}

// CreateBookingRequest is the create payload.
type CreateBookingRequest struct {
    SimID          uint64 `json:"simId"`
    Quantity       int    `json:"quantity"`
    CollectionDate string `json:"collectionDate"`
}

// CreatedBooking is the create response, including the verification
// code issued exactly once at creation.
type CreatedBooking struct {
    ID               uint64 `json:"id"`
    PackageName      string `json:"packageName"`
    Price            string `json:"price"`
    Quantity         int    `json:"quantity"`
    CollectionDate   string `json:"collectionDate"`
    Status           string `json:"status"`
    VerificationCode string `json:"verificationCode"`
}

// CreateBooking submits a new booking.
func (c *Client) CreateBooking(ctx context.Context, in CreateBookingRequest) (*CreatedBooking, error) {
    var out CreatedBooking
    if err := c.do(ctx, http.MethodPost, "/v1/bookings", in, &out); err != nil {
        return nil, err
    }
    return &out, nil
}

// CancelBooking cancels the caller's own booking.
func (c *Client) CancelBooking(ctx context.Context, id uint64) error {
    return c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/bookings/%d/cancel", id), nil, nil)
}

// SetBookingStatus is the staff override for terminal transitions.
func (c *Client) SetBookingStatus(ctx context.Context, id uint64, status model.BookingStatus) (*model.BookingSnapshot, error) {
    var out struct {
        Booking *model.BookingSnapshot `json:"booking"`
    }
    body := map[string]string{"status": string(status)}
    if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/v1/bookings/%d/status", id), body, &out); err != nil {
        return nil, err
    }
    return out.Booking, nil
}

// CompleteByCode redeems a typed verification code.  The scanner path
// funnels into the same server-side implementation, so redeeming by
// QR or by typing the same code is equivalent and mutually exclusive.
func (c *Client) CompleteByCode(ctx context.Context, code string) (*model.BookingSnapshot, error) {
    var out struct {
        Booking *model.BookingSnapshot `json:"booking"`
    }
    body := map[string]string{"code": code}
    if err := c.do(ctx, http.MethodPost, "/v1/bookings/complete-by-code", body, &out); err != nil {
        return nil, err
    }
    return out.Booking, nil
}

// AdminBookings runs the staff query described by q.
func (c *Client) AdminBookings(ctx context.Context, q AdminQuery) (*AdminBookingPage, error) {
    var out AdminBookingPage
    if err := c.do(ctx, http.MethodGet, "/v1/bookings/admin/all?"+q.Values().Encode(), nil, &out); err != nil {
        return nil, err
    }
    return &out, nil
}

// MyBookings fetches one page of the caller's bookings; bucket is
// "current" or "past".
func (c *Client) MyBookings(ctx context.Context, bucket string, page, limit int) (*BookingPage, error) {
    var out BookingPage
    path := fmt.Sprintf("/v1/bookings/my-bookings?status=%s&page=%d&limit=%d", bucket, page, limit)
    if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
        return nil, err
    }
    return &out, nil
}

// CheckStatus reports whether the caller holds an active booking for
// the package.
func (c *Client) CheckStatus(ctx context.Context, packageID uint64) (bool, error) {
    var out struct {
        IsBooked bool `json:"isBooked"`
    }
    if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/bookings/check-status/%d", packageID), nil, &out); err != nil {
        return false, err
    }
    return out.IsBooked, nil
}
