package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionExpiryIsUniform(t *testing.T) {
	// Every endpoint answering 401 must map to the one sentinel and
	// clear the session so queued calls fail fast.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid token"}`))
	}))
	defer srv.Close()

	sess := NewSession()
	sess.Set("stale-token")
	c := New(srv.URL, sess)

	_, err := c.CompleteByCode(context.Background(), "ABC123XYZ9")
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Empty(t, sess.Token(), "401 clears the session")

	err = c.CancelBooking(context.Background(), 7)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"isBooked":true}`))
	}))
	defer srv.Close()

	sess := NewSession()
	sess.Set("tok-123")
	c := New(srv.URL, sess)

	booked, err := c.CheckStatus(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, booked)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestServerMessageSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"booking already redeemed or closed"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, NewSession())
	_, err := c.CompleteByCode(context.Background(), "USED")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "booking already redeemed or closed", apiErr.Message)
}

func TestOpaqueFailureIsGeneric(t *testing.T) {
	// A body without message/error degrades to a generic string
	// instead of leaking internals.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream exploded: stack trace ...`))
	}))
	defer srv.Close()

	c := New(srv.URL, NewSession())
	err := c.CancelBooking(context.Background(), 1)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "request failed", apiErr.Message)
}

func TestAdminBookingsRequestShape(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte(`{"data":[],"packages":["Global eSIM 10GB"],"meta":{"total":0,"totalPages":1}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, NewSession())
	q := DefaultAdminQuery()
	q.SetStatus("booked")
	q.SetPackage("Global eSIM 10GB")
	q.ToggleSort("email")

	page, err := c.AdminBookings(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"Global eSIM 10GB"}, page.Packages)
	assert.Equal(t, 1, page.Meta.TotalPages)

	assert.Equal(t, "1", gotQuery["page"])
	assert.Equal(t, "booked", gotQuery["status"])
	assert.Equal(t, "Global eSIM 10GB", gotQuery["packageName"])
	assert.Equal(t, "email", gotQuery["sortBy"])
	assert.Equal(t, "desc", gotQuery["order"])
}

func TestCreateBookingRoundTrip(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/bookings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":12,"packageName":"Japan eSIM 5GB","quantity":3,"collectionDate":"2025-07-01","status":"booked","verificationCode":"WDKJ7TQ2MR"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, NewSession())
	out, err := c.CreateBooking(context.Background(), CreateBookingRequest{SimID: 2, Quantity: 3, CollectionDate: "2025-07-01"})
	require.NoError(t, err)
	assert.EqualValues(t, 12, out.ID)
	assert.Equal(t, "WDKJ7TQ2MR", out.VerificationCode)
	assert.Equal(t, "booked", out.Status)

	// The create body uses the same camelCase keys as the query
	// parameters and responses.
	assert.EqualValues(t, 2, gotBody["simId"])
	assert.EqualValues(t, 3, gotBody["quantity"])
	assert.Equal(t, "2025-07-01", gotBody["collectionDate"])
	assert.NotContains(t, gotBody, "sim_id")
	assert.NotContains(t, gotBody, "collection_date")
}
