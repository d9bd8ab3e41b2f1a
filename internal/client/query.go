package client

import (
    "net/url"
    "strconv"
)

// AdminQuery is the staff list view's state: pagination, one active
// sort key with its direction, and the three simultaneous filters.
// It is a plain value object; the same field tuple always produces
// the same request, so views are idempotent and shareable.  Mutating
// methods encode the view rules: any filter, sort or page-size change
// snaps the page back to 1 so a narrowed result set is never asked
// for an out-of-range page.
type AdminQuery struct {
    Page        int
    Limit       int
    Status      string
    PackageName string
    Email       string
    SortBy      string
    Order       string
}

// DefaultAdminQuery is the initial staff view: first page, newest
// bookings first, no filters.
func DefaultAdminQuery() AdminQuery {
    return AdminQuery{
        Page:   1,
        Limit:  10,
        Status: "all", PackageName: "all",
        SortBy: "created_at", Order: "desc",
    }
}

// ToggleSort applies the column-header click rule: a column that is
// not the current sort key becomes the key with descending order; a
// click on the current key flips the direction.  Exactly one key is
// active at any time, and the page resets.
func (q *AdminQuery) ToggleSort(key string) {
    if q.SortBy == key {
        if q.Order == "desc" {
            q.Order = "asc"
        } else {
            q.Order = "desc"
        }
    } else {
        q.SortBy = key
        q.Order = "desc"
    }
    q.Page = 1
}

// SetStatus replaces the status filter ("all" disables it).
func (q *AdminQuery) SetStatus(status string) {
    q.Status = status
    q.Page = 1
}

// SetPackage replaces the package-name filter ("all" disables it).
func (q *AdminQuery) SetPackage(name string) {
    q.PackageName = name
    q.Page = 1
}

// SetEmail replaces the email substring filter.  Callers debounce the
// keystrokes feeding this (see Debouncer); the query itself applies
// the change immediately.
func (q *AdminQuery) SetEmail(substr string) {
    q.Email = substr
    q.Page = 1
}

// SetLimit changes the page size and resets to the first page.
func (q *AdminQuery) SetLimit(limit int) {
    q.Limit = limit
    q.Page = 1
}

// Values renders the query as URL parameters matching the admin
// endpoint's contract.
func (q AdminQuery) Values() url.Values {
    v := url.Values{}
    v.Set("page", strconv.Itoa(q.Page))
    v.Set("limit", strconv.Itoa(q.Limit))
    if q.Status != "" {
        v.Set("status", q.Status)
    }
    if q.PackageName != "" {
        v.Set("packageName", q.PackageName)
    }
    if q.Email != "" {
        v.Set("email", q.Email)
    }
    v.Set("sortBy", q.SortBy)
    v.Set("order", q.Order)
    return v
}
