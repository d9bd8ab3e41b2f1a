package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggleSort(t *testing.T) {
	q := DefaultAdminQuery()
	assert.Equal(t, "created_at", q.SortBy)
	assert.Equal(t, "desc", q.Order)

	// Clicking an inactive column activates it descending.
	q.ToggleSort("email")
	assert.Equal(t, "email", q.SortBy)
	assert.Equal(t, "desc", q.Order)

	// Clicking the active column flips the direction back and forth.
	q.ToggleSort("email")
	assert.Equal(t, "asc", q.Order)
	q.ToggleSort("email")
	assert.Equal(t, "desc", q.Order)

	// Moving to another column resets to descending; only one key is
	// ever active.
	q.ToggleSort("quantity")
	assert.Equal(t, "quantity", q.SortBy)
	assert.Equal(t, "desc", q.Order)
}

func TestMutationsResetPage(t *testing.T) {
	q := DefaultAdminQuery()
	q.Page = 7

	q.ToggleSort("status")
	assert.Equal(t, 1, q.Page, "sort change resets page")

	q.Page = 7
	q.SetStatus("completed")
	assert.Equal(t, 1, q.Page, "status filter resets page")

	q.Page = 7
	q.SetPackage("Global eSIM 10GB")
	assert.Equal(t, 1, q.Page, "package filter resets page")

	q.Page = 7
	q.SetEmail("alice")
	assert.Equal(t, 1, q.Page, "email filter resets page")

	q.Page = 7
	q.SetLimit(50)
	assert.Equal(t, 1, q.Page, "page size change resets page")
	assert.Equal(t, 50, q.Limit)
}

func TestValues(t *testing.T) {
	q := DefaultAdminQuery()
	q.SetEmail("alice")
	v := q.Values()

	assert.Equal(t, "1", v.Get("page"))
	assert.Equal(t, "10", v.Get("limit"))
	assert.Equal(t, "all", v.Get("status"))
	assert.Equal(t, "all", v.Get("packageName"))
	assert.Equal(t, "alice", v.Get("email"))
	assert.Equal(t, "created_at", v.Get("sortBy"))
	assert.Equal(t, "desc", v.Get("order"))

	// An empty email filter is omitted entirely.
	q.SetEmail("")
	assert.Empty(t, q.Values().Get("email"))
}
