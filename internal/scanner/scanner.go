// Package scanner owns the exclusive camera resource used to redeem
// bookings by QR code.  A Scanner runs at most one session at a time:
// it acquires the device, decodes frames at a fixed rate, and releases
// the device on every exit path: first decode, user cancellation,
// caller teardown, or device failure.  The camera is always stopped
// before the redemption call goes out, so the device is never held
// across an in-flight network operation.
package scanner

import (
    "context"
    "errors"
    "fmt"
    "image"
    "sync"
    "time"

    "github.com/chriskke/teeko-booking-service/internal/model"
)

// State enumerates the session lifecycle.  Decoded, Cancelled and
// Failed are transient: the scanner returns to Idle before Scan
// returns, so external observers only ever see Idle, Acquiring or
// Active.
type State int

const (
    Idle State = iota
    Acquiring
    Active
)

func (s State) String() string {
    switch s {
    case Idle:
        return "idle"
    case Acquiring:
        return "acquiring"
    case Active:
        return "active"
    }
    return "unknown"
}

var (
    // ErrBusy is returned when Scan is called while a session is
    // already active.  The camera is exclusive; the caller must close
    // the existing session first.
    ErrBusy = errors.New("scanner session already active")
    // ErrCancelled is returned when the session was closed by the user
    // or by caller teardown before a code was decoded.
    ErrCancelled = errors.New("scan cancelled")
    // ErrCameraUnavailable wraps device acquisition failures (missing
    // hardware, denied permission).  The session holds no resource
    // when this is returned.
    ErrCameraUnavailable = errors.New("camera unavailable")
)

// Device abstracts the camera.  Open acquires the hardware, Frames
// streams captured images while open, and Close releases the hardware.
// Close must be safe to call more than once and after a failed Open.
type Device interface {
    Open(ctx context.Context) error
    Frames() <-chan image.Image
    Close() error
}

// Redeemer is the single redemption implementation the scanner feeds
// decoded text into; it is the same one behind manual code entry.
type Redeemer interface {
    RedeemByCode(ctx context.Context, code string) (*model.BookingSnapshot, error)
}

// Config tunes the decode loop.  DecodeInterval is the fixed rate at
// which frames are offered to the QR reader; BoxPx is the side of the
// centred detection box cropped out of each frame (0 disables the
// crop).
type Config struct {
    DecodeInterval time.Duration
    BoxPx          int
}

// DefaultConfig mirrors the scan rate and detection box used by the
// customer-facing scanner surface.
var DefaultConfig = Config{DecodeInterval: 100 * time.Millisecond, BoxPx: 250}

// Scanner coordinates one exclusive camera session.  All state changes
// happen under mu; the scan loop itself runs in the calling goroutine.
type Scanner struct {
    device   Device
    redeemer Redeemer
    cfg      Config

    mu     sync.Mutex
    state  State
    cancel chan struct{}
}

// New constructs a Scanner.  Device and redeemer must be non-nil; a
// zero DecodeInterval falls back to the default.
func New(device Device, redeemer Redeemer, cfg Config) *Scanner {
    if device == nil || redeemer == nil {
        panic("nil dependency passed to scanner.New")
    }
    if cfg.DecodeInterval <= 0 {
        cfg.DecodeInterval = DefaultConfig.DecodeInterval
    }
    return &Scanner{device: device, redeemer: redeemer, cfg: cfg}
}

// State reports the current session state.
func (s *Scanner) State() State {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.state
}

// Scan runs one full session: acquire the camera, decode frames until
// one yields a QR payload, stop the camera, then redeem the payload.
// Frames with no decodable code are normal and skipped silently.  The
// returned error is ErrBusy, ErrCancelled, ErrCameraUnavailable, a
// context error, or whatever the redemption produced; in every case
// the camera has been released by the time Scan returns.
func (s *Scanner) Scan(ctx context.Context) (*model.BookingSnapshot, error) {
    s.mu.Lock()
    if s.state != Idle {
        s.mu.Unlock()
        return nil, ErrBusy
    }
    s.state = Acquiring
    cancel := make(chan struct{})
    s.cancel = cancel
    s.mu.Unlock()

    if err := s.device.Open(ctx); err != nil {
        s.release()
        return nil, fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
    }
    s.setState(Active)

    frames := s.device.Frames()
    ticker := time.NewTicker(s.cfg.DecodeInterval)
    defer ticker.Stop()

    // One frame is pulled per tick, so decoding runs at a fixed rate
    // no matter how fast the device produces frames.
    for {
        select {
        case <-ctx.Done():
            s.release()
            return nil, ctx.Err()
        case <-cancel:
            s.release()
            return nil, ErrCancelled
        case <-ticker.C:
            select {
            case frame, ok := <-frames:
                if !ok {
                    s.release()
                    return nil, fmt.Errorf("%w: frame stream ended", ErrCameraUnavailable)
                }
                code, err := DecodeFrame(cropCenter(frame, s.cfg.BoxPx))
                if err != nil {
                    // A non-decodable frame is expected noise, not a failure.
                    continue
                }
                // Stop the device before the redemption call goes out.
                s.release()
                return s.redeemer.RedeemByCode(ctx, code)
            default:
                // No frame ready this tick.
            }
        }
    }
}

// Close cancels the running session, if any.  It is the single stop
// path shared by explicit user cancellation and caller teardown, and
// it is a safe no-op when no session is active.
func (s *Scanner) Close() {
    s.mu.Lock()
    defer s.mu.Unlock()
    if s.cancel != nil {
        close(s.cancel)
        s.cancel = nil
    }
}

// release stops the device and returns the session to Idle.  Safe to
// reach from every exit path; the device's Close is idempotent.
func (s *Scanner) release() {
    _ = s.device.Close()
    s.mu.Lock()
    s.state = Idle
    s.cancel = nil
    s.mu.Unlock()
}

func (s *Scanner) setState(st State) {
    s.mu.Lock()
    s.state = st
    s.mu.Unlock()
}
