package repository

import (
	"context"
	"strings"

	"github.com/chriskke/teeko-booking-service/internal/model"
)

// BookingSearchQuery defines filters, sorting & pagination for the
// staff bookings view.  A query is fully determined by its fields; the
// same tuple against an unchanged dataset always yields the same page
// and totals, which keeps admin views idempotent and shareable.
type BookingSearchQuery struct {
	Status      string // exact status, or "all" / "" for no predicate
	PackageName string // exact package name, or "all" / "" for no predicate
	Email       string // case-insensitive substring on owner email
	SortBy      string // whitelisted sort key
	Order       string // "asc" or "desc"
	Page        int    // 1-based
	PageSize    int
}

// sortColumns whitelists client-supplied sort keys and maps them onto
// real columns.  Anything outside the map falls back to created_at, so
// a crafted sortBy can never reach the SQL string.
var sortColumns = map[string]string{
	"created_at":      "b.created_at",
	"collection_date": "b.collection_date",
	"quantity":        "b.quantity",
	"status":          "b.status",
	"package_name":    "p.name",
	"email":           "u.email",
}

// DefaultPageSize bounds how many rows a staff page shows when the
// client does not say; MaxPageSize caps what it may ask for.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize clamps pagination, resolves the sort whitelist and folds
// the "all" filter markers into empty predicates.  It returns the
// resolved ORDER BY column so SearchBookings does not repeat the
// lookup.
func (q *BookingSearchQuery) Normalize() string {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if strings.EqualFold(q.Status, "all") {
		q.Status = ""
	}
	if strings.EqualFold(q.PackageName, "all") {
		q.PackageName = ""
	}
	col, ok := sortColumns[q.SortBy]
	if !ok {
		q.SortBy = "created_at"
		col = sortColumns[q.SortBy]
	}
	if q.Order != "asc" {
		q.Order = "desc"
	}
	return col
}

// BookingSearchResult is one page of the staff view plus what the
// filter dropdowns need: the package-name list is computed independent
// of the active filters so the dropdown stays stable while narrowing.
type BookingSearchResult struct {
	Data       []model.BookingSnapshot
	Packages   []string
	Total      int64
	TotalPages int
}

// SearchBookings runs the staff query: count, page of joined
// snapshots, and the filter-independent package-name list.  Requesting
// a page past the end returns an empty Data slice with correct totals,
// never an error.
func (r *BookingRepo) SearchBookings(ctx context.Context, q BookingSearchQuery) (*BookingSearchResult, error) {
	orderCol := q.Normalize()

	where := []string{}
	args := []any{}
	if q.Status != "" {
		where = append(where, "b.status = ?")
		args = append(args, q.Status)
	}
	if q.PackageName != "" {
		where = append(where, "p.name = ?")
		args = append(args, q.PackageName)
	}
	if q.Email != "" {
		where = append(where, "LOWER(u.email) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Email)+"%")
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*)
		FROM bookings b
		JOIN sim_packages p ON p.id = b.sim_id
		JOIN users u ON u.id = b.user_id
		WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, err
	}

	dataSQL := snapshotSelect + `
		WHERE ` + cond + `
		ORDER BY ` + orderCol + ` ` + strings.ToUpper(q.Order) + `, b.id DESC
		LIMIT ? OFFSET ?`
	argsData := append(append([]any{}, args...), q.PageSize, (q.Page-1)*q.PageSize)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.BookingSnapshot, 0, q.PageSize)
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Package names come from the whole catalog-with-bookings set, not
	// the filtered one, so the dropdown does not collapse to a single
	// entry once a package filter is applied.
	names := []string{}
	nrows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT p.name FROM bookings b JOIN sim_packages p ON p.id = b.sim_id ORDER BY p.name`)
	if err != nil {
		return nil, err
	}
	defer nrows.Close()
	for nrows.Next() {
		var n string
		if err := nrows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	if err := nrows.Err(); err != nil {
		return nil, err
	}

	totalPages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	return &BookingSearchResult{Data: out, Packages: names, Total: total, TotalPages: totalPages}, nil
}
