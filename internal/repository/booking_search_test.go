package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDefaults(t *testing.T) {
	q := BookingSearchQuery{}
	col := q.Normalize()

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)
	assert.Equal(t, "created_at", q.SortBy)
	assert.Equal(t, "b.created_at", col)
	assert.Equal(t, "desc", q.Order)
}

func TestNormalizeClampsPageSize(t *testing.T) {
	q := BookingSearchQuery{Page: -3, PageSize: 100000}
	q.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxPageSize, q.PageSize)
}

func TestNormalizeSortWhitelist(t *testing.T) {
	// Every advertised key maps to a real column.
	for key, col := range map[string]string{
		"created_at":      "b.created_at",
		"collection_date": "b.collection_date",
		"quantity":        "b.quantity",
		"status":          "b.status",
		"package_name":    "p.name",
		"email":           "u.email",
	} {
		q := BookingSearchQuery{SortBy: key, Order: "asc"}
		assert.Equal(t, col, q.Normalize())
		assert.Equal(t, "asc", q.Order)
	}

	// Anything else, injection attempts included, falls back.
	q := BookingSearchQuery{SortBy: "created_at; DROP TABLE bookings", Order: "ascending"}
	col := q.Normalize()
	assert.Equal(t, "b.created_at", col)
	assert.Equal(t, "created_at", q.SortBy)
	assert.Equal(t, "desc", q.Order, "unknown order falls back to desc")
}

func TestNormalizeFoldsAllMarkers(t *testing.T) {
	q := BookingSearchQuery{Status: "All", PackageName: "ALL"}
	q.Normalize()
	assert.Empty(t, q.Status)
	assert.Empty(t, q.PackageName)

	q = BookingSearchQuery{Status: "booked", PackageName: "Global eSIM 10GB"}
	q.Normalize()
	assert.Equal(t, "booked", q.Status)
	assert.Equal(t, "Global eSIM 10GB", q.PackageName)
}
