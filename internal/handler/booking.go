package handler

import (
    "errors"   // for errors.Is comparisons on repository sentinels
    "net/http" // HTTP status codes
    "strconv"  // parsing path parameters

    qrcode "github.com/skip2/go-qrcode" // QR PNG generation
    "github.com/labstack/echo/v4"       // Echo web framework

    "github.com/chriskke/teeko-booking-service/internal/repository"
    "github.com/chriskke/teeko-booking-service/internal/service"
    "github.com/chriskke/teeko-booking-service/internal/window"
)

// BookingHandler serves the customer-facing booking endpoints: create,
// cancel, own-bookings listing, package status check and the QR image
// of a booking's verification code.  JWT authentication and role
// validation have already been performed by middleware; methods return
// 401 only when the user ID cannot be extracted from the context.
type BookingHandler struct {
    Bookings *service.BookingService
}

// NewBookingHandler constructs a BookingHandler.  The service must be
// non-nil.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
    if svc == nil {
        panic("nil service passed to NewBookingHandler")
    }
    return &BookingHandler{Bookings: svc}
}

// Create handles POST /v1/bookings.  The body carries the package id,
// quantity in [1,10] and a YYYY-MM-DD collection date inside the
// current window.  On success it returns 201 with the booking id and
// the freshly generated verification code; this is the only time the
// code is returned to the customer alongside its creation.
func (h *BookingHandler) Create(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var in service.CreateBookingInput
    if err := c.Bind(&in); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    b, pkg, err := h.Bookings.Create(c.Request().Context(), userID, in)
    if err != nil {
        switch {
        case errors.Is(err, service.ErrQuantityRange),
            errors.Is(err, service.ErrDateOutOfWindow),
            errors.Is(err, window.ErrBadDate):
            return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
        case errors.Is(err, repository.ErrPackageNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"message": "package not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "id":               b.ID,
        "packageName":      pkg.Name,
        "price":            pkg.Price,
        "quantity":         b.Quantity,
        "collectionDate":   b.CollectionDate,
        "status":           b.Status,
        "verificationCode": b.VerificationCode,
    })
}

// Cancel handles POST /v1/bookings/:id/cancel.  Only the owning
// customer may cancel, and only while the booking is still 'booked';
// a booking that already reached a terminal state fails with 409 and
// is not mutated.
func (h *BookingHandler) Cancel(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || bookingID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    if err := h.Bookings.Cancel(c.Request().Context(), userID, bookingID); err != nil {
        switch {
        case errors.Is(err, repository.ErrBookingNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        case errors.Is(err, repository.ErrInvalidTransition):
            return c.JSON(http.StatusConflict, echo.Map{"message": "booking can no longer be cancelled"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "cancelled"})
}

// MyBookings handles GET /v1/bookings/my-bookings.  The status query
// selects the "current" bucket (still booked) or the "past" bucket
// (terminal states); page/limit page through the result newest-first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    page, limit := pageParams(c, repository.DefaultPageSize)
    data, total, err := h.Bookings.MyBookings(c.Request().Context(), userID, c.QueryParam("status"), page, limit)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
        }
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bookings query"})
    }
    totalPages := int((total + int64(limit) - 1) / int64(limit))
    if totalPages < 1 {
        totalPages = 1
    }
    return c.JSON(http.StatusOK, echo.Map{
        "data": data,
        "meta": echo.Map{"total": total, "totalPages": totalPages},
    })
}

// CheckStatus handles GET /v1/bookings/check-status/:packageId and
// reports whether the caller already holds an active booking for the
// package, which drives the book/booked state of the booking button.
func (h *BookingHandler) CheckStatus(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    simID, err := strconv.ParseUint(c.Param("packageId"), 10, 64)
    if err != nil || simID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid package id"})
    }
    booked, err := h.Bookings.CheckStatus(c.Request().Context(), userID, simID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status check failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"isBooked": booked})
}

// QRCode handles GET /v1/bookings/:id/qr.  It renders the booking's
// verification code as a PNG so the customer can present it for
// scanning instead of reading the code out.  Only the owner (or staff)
// may fetch it; the code itself never changes, so the image is stable
// for the life of the booking.
func (h *BookingHandler) QRCode(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || bookingID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    b, err := h.Bookings.Get(c.Request().Context(), bookingID)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load booking failed"})
    }
    if role, _ := c.Get("role").(string); role != "STAFF" && b.UserID != userID {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    }
    png, err := qrcode.Encode(b.VerificationCode, qrcode.Medium, 256)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "encode qr failed"})
    }
    return c.Blob(http.StatusOK, "image/png", png)
}
