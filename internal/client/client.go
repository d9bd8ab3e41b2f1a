// Package client is the Go client for the booking service.  Every
// authenticated call goes through one guard: the bearer token is
// attached from an explicit Session, a 401 from any endpoint maps to
// the single ErrSessionExpired sentinel (and clears the session), and
// other failures surface the server's message when it sent one.  Call
// sites check ErrSessionExpired first and return early; no partial
// result is ever delivered alongside it.
package client

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "sync"
    "time"
)

// ErrSessionExpired is returned by every call that received a 401.
// It is the sole session-expiry signal; callers must not re-surface
// it as a generic error.
var ErrSessionExpired = errors.New("session expired")

// APIError carries a non-2xx, non-401 response.  Message is the
// server-provided text when present, else a generic failure string.
type APIError struct {
    Status  int
    Message string
}

func (e *APIError) Error() string {
    return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Session holds the bearer token for authenticated calls.  Login
// populates it, logout or a detected expiry clears it.  It is passed
// into the Client explicitly rather than read from ambient storage so
// ownership and teardown are visible at the call site.
type Session struct {
    mu    sync.RWMutex
    token string
}

// NewSession returns an empty (logged-out) session.
func NewSession() *Session { return &Session{} }

// Set installs a fresh token after login.
func (s *Session) Set(token string) {
    s.mu.Lock()
    s.token = token
    s.mu.Unlock()
}

// Token returns the current bearer token, empty when logged out.
func (s *Session) Token() string {
    s.mu.RLock()
    defer s.mu.RUnlock()
    return s.token
}

// Clear drops the token.  Called on logout and automatically on the
// first 401 so queued calls fail fast instead of retrying a dead
// session.
func (s *Session) Clear() {
    s.mu.Lock()
    s.token = ""
    s.mu.Unlock()
}

// Client issues requests against the booking service.
type Client struct {
    base    string
    session *Session
    httpc   *http.Client
}

// New constructs a Client for the given base URL (no trailing slash)
// and session.  The HTTP client carries no implicit retry; a hung call
// is bounded only by the passed context or the transport timeout.
func New(base string, session *Session) *Client {
    if session == nil {
        session = NewSession()
    }
    return &Client{
        base:    base,
        session: session,
        httpc:   &http.Client{Timeout: 30 * time.Second},
    }
}

// Session exposes the client's session for login/logout flows.
func (c *Client) Session() *Session { return c.session }

// errorBody is the error shape the service uses: handlers populate
// either "message" (domain failures) or "error" (generic ones).
type errorBody struct {
    Message string `json:"message"`
    Error   string `json:"error"`
}

// do runs one guarded call: marshal body, attach the bearer token,
// map 401 to ErrSessionExpired, decode 2xx JSON into out (which may
// be nil).  It never retries; retries are caller-initiated.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
    var rdr io.Reader
    if body != nil {
        buf, err := json.Marshal(body)
        if err != nil {
            return err
        }
        rdr = bytes.NewReader(buf)
    }
    req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
    if err != nil {
        return err
    }
    if body != nil {
        req.Header.Set("Content-Type", "application/json")
    }
    if tok := c.session.Token(); tok != "" {
        req.Header.Set("Authorization", "Bearer "+tok)
    }
    resp, err := c.httpc.Do(req)
    if err != nil {
        return err
    }
    defer resp.Body.Close()

    if resp.StatusCode == http.StatusUnauthorized {
        // The uniform expiry signal: drop the session and short-circuit.
        c.session.Clear()
        return ErrSessionExpired
    }
    if resp.StatusCode < 200 || resp.StatusCode > 299 {
        var eb errorBody
        msg := "request failed"
        if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
            if eb.Message != "" {
                msg = eb.Message
            } else if eb.Error != "" {
                msg = eb.Error
            }
        }
        return &APIError{Status: resp.StatusCode, Message: msg}
    }
    if out == nil {
        return nil
    }
    return json.NewDecoder(resp.Body).Decode(out)
}
