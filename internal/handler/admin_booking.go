package handler

import (
    "errors"
    "image"
    _ "image/jpeg" // register decoders for uploaded scan stills
    _ "image/png"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/chriskke/teeko-booking-service/internal/model"
    "github.com/chriskke/teeko-booking-service/internal/repository"
    "github.com/chriskke/teeko-booking-service/internal/scanner"
    "github.com/chriskke/teeko-booking-service/internal/service"
)

// AdminBookingHandler serves the staff endpoints: the filtered,
// sorted, paginated bookings view, manual status overrides, and both
// redemption entry points (typed code and uploaded QR still).  Routes
// using it are wrapped in RequireRole("STAFF").
type AdminBookingHandler struct {
    Bookings *service.BookingService
}

// NewAdminBookingHandler constructs an AdminBookingHandler.
func NewAdminBookingHandler(svc *service.BookingService) *AdminBookingHandler {
    if svc == nil {
        panic("nil service passed to NewAdminBookingHandler")
    }
    return &AdminBookingHandler{Bookings: svc}
}

// List handles GET /v1/bookings/admin/all.  Query parameters: page,
// limit, status, packageName, email, sortBy, order.  Unknown sort keys
// fall back to created_at and out-of-range pages return an empty data
// array with correct meta, so a staff view narrowed past its last page
// degrades instead of erroring.
func (h *AdminBookingHandler) List(c echo.Context) error {
    page, limit := pageParams(c, repository.DefaultPageSize)
    q := repository.BookingSearchQuery{
        Status:      c.QueryParam("status"),
        PackageName: c.QueryParam("packageName"),
        Email:       c.QueryParam("email"),
        SortBy:      c.QueryParam("sortBy"),
        Order:       c.QueryParam("order"),
        Page:        page,
        PageSize:    limit,
    }
    res, err := h.Bookings.Search(c.Request().Context(), q)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "bookings query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "data":     res.Data,
        "packages": res.Packages,
        "meta":     echo.Map{"total": res.Total, "totalPages": res.TotalPages},
    })
}

// SetStatus handles PATCH /v1/bookings/:id/status.  The body's status
// must be completed, rejected or expired, and the booking must still
// be 'booked'; the guard is the same conditional update used by
// redemption, so a manual completion cannot race a scan past 'booked'
// twice.
func (h *AdminBookingHandler) SetStatus(c echo.Context) error {
    bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || bookingID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    var body struct {
        Status string `json:"status"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    target, ok := model.ParseStatus(body.Status)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown status"})
    }
    snap, err := h.Bookings.SetStatus(c.Request().Context(), bookingID, target)
    if err != nil {
        switch {
        case errors.Is(err, service.ErrBadStatusTarget):
            return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
        case errors.Is(err, repository.ErrBookingNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"message": "booking not found"})
        case errors.Is(err, repository.ErrInvalidTransition):
            return c.JSON(http.StatusConflict, echo.Map{"message": "booking is no longer pending"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status update failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": snap})
}

// CompleteByCode handles POST /v1/bookings/complete-by-code, the
// manual entry path of redemption.  The code match is exact and
// case-sensitive.  On success the completed booking's snapshot is
// returned so the counter screen can render a confirmation without a
// second round trip.
func (h *AdminBookingHandler) CompleteByCode(c echo.Context) error {
    var body struct {
        Code string `json:"code"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    return h.redeem(c, body.Code)
}

// CompleteByScan handles POST /v1/bookings/complete-by-scan.  A staff
// device without a live camera session can upload a single still
// (field "frame", PNG or JPEG); the QR payload is decoded with the
// same reader the scanner uses and funneled into the same redemption
// path as typed codes.
func (h *AdminBookingHandler) CompleteByScan(c echo.Context) error {
    file, err := c.FormFile("frame")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "frame image required"})
    }
    src, err := file.Open()
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable frame"})
    }
    defer src.Close()
    img, _, err := image.Decode(src)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "frame is not a valid image"})
    }
    code, err := scanner.DecodeFrame(img)
    if err != nil {
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "no QR code found in frame"})
    }
    return h.redeem(c, code)
}

// redeem funnels both entry points into the single service call and
// maps its sentinel errors onto the wire contract.
func (h *AdminBookingHandler) redeem(c echo.Context, code string) error {
    snap, err := h.Bookings.RedeemByCode(c.Request().Context(), code)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrCodeNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"message": "verification code not found"})
        case errors.Is(err, repository.ErrInvalidTransition):
            return c.JSON(http.StatusConflict, echo.Map{"message": "booking already redeemed or closed"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "redemption failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": snap})
}
