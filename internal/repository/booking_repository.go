package repository

import (
    "context"
    "database/sql"

    "github.com/chriskke/teeko-booking-service/internal/model"
)

// BookingRepo provides persistence for bookings.  Every terminal
// status change goes through a single conditional UPDATE keyed by the
// booking id (or verification code) AND the expected current status,
// so concurrent attempts (two staff members, or a staff scan racing a
// customer cancellation) can never both succeed.  The repository
// never deletes rows; terminal bookings are retained for history.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for callers that need transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// snapshotSelect joins bookings with their package and owner so a
// single row scan yields a renderable snapshot.  collection_date is
// formatted in SQL because it is a civil date, not an instant.
const snapshotSelect = `SELECT b.id, p.name, p.price, b.quantity, u.email,
           DATE_FORMAT(b.collection_date, '%Y-%m-%d'), b.status,
           b.verification_code, b.created_at
       FROM bookings b
       JOIN sim_packages p ON p.id = b.sim_id
       JOIN users u ON u.id = b.user_id`

func scanSnapshot(row interface{ Scan(...any) error }) (*model.BookingSnapshot, error) {
    var s model.BookingSnapshot
    err := row.Scan(&s.ID, &s.PackageName, &s.Price, &s.Quantity, &s.Email,
        &s.CollectionDate, &s.Status, &s.VerificationCode, &s.CreatedAt)
    if err != nil {
        return nil, err
    }
    return &s, nil
}

// Create inserts a new booking in status 'booked' and populates the
// generated ID and timestamps on the passed record.  The verification
// code must already be set by the caller; it is written once here and
// never updated again.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
    const q = `INSERT INTO bookings (user_id, sim_id, quantity, collection_date, status, verification_code)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, b.UserID, b.SimID, b.Quantity, b.CollectionDate, model.StatusBooked, b.VerificationCode)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    b.Status = model.StatusBooked
    // Query back timestamps set by the database defaults.
    const sel = `SELECT created_at, updated_at FROM bookings WHERE id = ?`
    return r.db.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// GetByID returns a booking by primary key.  ErrBookingNotFound is
// returned when no row matches.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
    const q = `SELECT id, user_id, sim_id, quantity,
                      DATE_FORMAT(collection_date, '%Y-%m-%d'), status,
                      verification_code, created_at, updated_at
               FROM bookings WHERE id = ?`
    var b model.Booking
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &b.ID, &b.UserID, &b.SimID, &b.Quantity, &b.CollectionDate,
        &b.Status, &b.VerificationCode, &b.CreatedAt, &b.UpdatedAt,
    )
    if err == sql.ErrNoRows {
        return nil, ErrBookingNotFound
    }
    if err != nil {
        return nil, err
    }
    return &b, nil
}

// UpdateStatusFrom applies the guarded transition from → to on one
// booking as a single atomic conditional update.  When zero rows are
// affected the booking either does not exist (ErrBookingNotFound) or
// is no longer in the expected state (ErrInvalidTransition); in both
// cases nothing was mutated.
func (r *BookingRepo) UpdateStatusFrom(ctx context.Context, id uint64, from, to model.BookingStatus) error {
    const q = `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`
    res, err := r.db.ExecContext(ctx, q, to, id, from)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 1 {
        return nil
    }
    // Distinguish a missing booking from a lost race.
    var exists int
    err = r.db.QueryRowContext(ctx, `SELECT 1 FROM bookings WHERE id = ? LIMIT 1`, id).Scan(&exists)
    if err == sql.ErrNoRows {
        return ErrBookingNotFound
    }
    if err != nil {
        return err
    }
    return ErrInvalidTransition
}

// RedeemByCode performs the booked→completed transition for the
// booking carrying the given verification code and returns its
// snapshot.  The code match is exact and case-sensitive (BINARY
// defeats MySQL's case-folding collation).  The status guard sits in
// the same UPDATE as the lookup, so a typed code and a QR scan racing
// each other resolve to exactly one success.
func (r *BookingRepo) RedeemByCode(ctx context.Context, code string) (*model.BookingSnapshot, error) {
    const upd = `UPDATE bookings SET status = ? WHERE verification_code = BINARY ? AND status = ?`
    res, err := r.db.ExecContext(ctx, upd, model.StatusCompleted, code, model.StatusBooked)
    if err != nil {
        return nil, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return nil, err
    }
    if n == 0 {
        var exists int
        err = r.db.QueryRowContext(ctx,
            `SELECT 1 FROM bookings WHERE verification_code = BINARY ? LIMIT 1`, code).Scan(&exists)
        if err == sql.ErrNoRows {
            return nil, ErrCodeNotFound
        }
        if err != nil {
            return nil, err
        }
        return nil, ErrInvalidTransition
    }
    const sel = snapshotSelect + ` WHERE b.verification_code = BINARY ?`
    return scanSnapshot(r.db.QueryRowContext(ctx, sel, code))
}

// SnapshotByID loads the renderable snapshot of one booking.
func (r *BookingRepo) SnapshotByID(ctx context.Context, id uint64) (*model.BookingSnapshot, error) {
    snap, err := scanSnapshot(r.db.QueryRowContext(ctx, snapshotSelect+` WHERE b.id = ?`, id))
    if err == sql.ErrNoRows {
        return nil, ErrBookingNotFound
    }
    return snap, err
}

// HasActiveBooking reports whether the user currently holds a 'booked'
// booking for the given package.  The booking button uses this to
// decide between "Book now" and "Already booked".
func (r *BookingRepo) HasActiveBooking(ctx context.Context, userID, simID uint64) (bool, error) {
    var one int
    err := r.db.QueryRowContext(ctx,
        `SELECT 1 FROM bookings WHERE user_id = ? AND sim_id = ? AND status = ? LIMIT 1`,
        userID, simID, model.StatusBooked).Scan(&one)
    if err == sql.ErrNoRows {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return true, nil
}

// ListForUser returns one page of the user's bookings, split into the
// "current" bucket (still booked) or the "past" bucket (any terminal
// state).  Results are newest-first.  A page beyond the result set
// yields an empty slice, never an error.
func (r *BookingRepo) ListForUser(ctx context.Context, userID uint64, bucket string, page, pageSize int) ([]model.BookingSnapshot, int64, error) {
    cond := `b.user_id = ? AND b.status = ?`
    args := []any{userID, model.StatusBooked}
    if bucket == "past" {
        cond = `b.user_id = ? AND b.status <> ?`
    }

    var total int64
    countSQL := `SELECT COUNT(*) FROM bookings b WHERE ` + cond
    if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
        return nil, 0, err
    }

    if page < 1 {
        page = 1
    }
    if pageSize < 1 {
        pageSize = DefaultPageSize
    }
    if pageSize > MaxPageSize {
        pageSize = MaxPageSize
    }
    dataSQL := snapshotSelect + ` WHERE ` + cond + ` ORDER BY b.created_at DESC LIMIT ? OFFSET ?`
    argsData := append(append([]any{}, args...), pageSize, (page-1)*pageSize)

    rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()

    out := make([]model.BookingSnapshot, 0, pageSize)
    for rows.Next() {
        snap, err := scanSnapshot(rows)
        if err != nil {
            return nil, 0, err
        }
        out = append(out, *snap)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    return out, total, nil
}
