package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefit/studio-booking/internal/model"
	"github.com/pulsefit/studio-booking/internal/repository"
)

type fakeBookingStore struct {
	createErr error
	created   *model.Booking
	addonIDs  []string

	listItems []model.Booking
	listErr   error

	detail *repository.BookingDetail
	getErr error

	gotBookingID string
	gotUserID    string
}

func (f *fakeBookingStore) Create(ctx context.Context, b *model.Booking, addonIDs []string) error {
	f.created = b
	f.addonIDs = addonIDs
	return f.createErr
}

func (f *fakeBookingStore) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	f.gotUserID = userID
	return f.listItems, f.listErr
}

func (f *fakeBookingStore) GetByIDForUser(ctx context.Context, bookingID, userID string) (*repository.BookingDetail, error) {
	f.gotBookingID = bookingID
	f.gotUserID = userID
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.detail, nil
}

func newBookingContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user_abc")
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateBookingValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "neither class nor event",
			body:    `{"paymentId":"pay_1"}`,
			wantErr: "classId or eventId is required",
		},
		{
			name:    "both class and event",
			body:    `{"classId":"class_1","eventId":"event_1","paymentId":"pay_1"}`,
			wantErr: "provide exactly one of classId or eventId",
		},
		{
			name:    "missing payment",
			body:    `{"classId":"class_1"}`,
			wantErr: "paymentId is required",
		},
		{
			// The ambiguity check must fire before the payment check.
			name:    "both refs and no payment reports ambiguity first",
			body:    `{"classId":"class_1","eventId":"event_1"}`,
			wantErr: "provide exactly one of classId or eventId",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeBookingStore{}
			h := NewBookingHandler(store, zerolog.Nop())
			c, rec := newBookingContext(t, http.MethodPost, "/v1/bookings", tc.body)

			require.NoError(t, h.Create(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.wantErr, decodeBody(t, rec)["error"])
			assert.Nil(t, store.created, "no write may happen on validation failure")
		})
	}
}

func TestCreateBookingSuccess(t *testing.T) {
	store := &fakeBookingStore{}
	h := NewBookingHandler(store, zerolog.Nop())
	body := `{"classId":"class_1","paymentId":"pay_1","packId":"pack_1","addonIds":["addon_a","addon_a","","addon_b"]}`
	c, rec := newBookingContext(t, http.MethodPost, "/v1/bookings", body)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, store.created)
	assert.True(t, strings.HasPrefix(store.created.ID, "booking_"))
	assert.Equal(t, "user_abc", store.created.UserID)
	assert.Equal(t, model.BookingStatusPending, store.created.Status)
	require.NotNil(t, store.created.ClassID)
	assert.Equal(t, "class_1", *store.created.ClassID)
	assert.Nil(t, store.created.EventID)
	require.NotNil(t, store.created.PackID)
	assert.Equal(t, "pack_1", *store.created.PackID)

	// Duplicates and empties are dropped, order preserved.
	assert.Equal(t, []string{"addon_a", "addon_b"}, store.addonIDs)

	resp := decodeBody(t, rec)
	assert.Equal(t, store.created.ID, resp["id"])
	assert.EqualValues(t, 2, resp["addonsAttached"])
}

func TestCreateBookingCapacityFull(t *testing.T) {
	store := &fakeBookingStore{createErr: repository.ErrCapacityFull}
	h := NewBookingHandler(store, zerolog.Nop())
	c, rec := newBookingContext(t, http.MethodPost, "/v1/bookings", `{"eventId":"event_1","paymentId":"pay_1"}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "no spots available", decodeBody(t, rec)["error"])
}

func TestCreateBookingStorageError(t *testing.T) {
	store := &fakeBookingStore{createErr: errors.New("db down")}
	h := NewBookingHandler(store, zerolog.Nop())
	c, rec := newBookingContext(t, http.MethodPost, "/v1/bookings", `{"classId":"class_1","paymentId":"pay_1"}`)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// Internal details must not leak to the client.
	assert.Equal(t, "failed to create booking", decodeBody(t, rec)["error"])
}

func TestCreateBookingUnauthorizedWithoutUser(t *testing.T) {
	h := NewBookingHandler(&fakeBookingStore{}, zerolog.Nop())
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(`{"classId":"c","paymentId":"p"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListMine(t *testing.T) {
	classID := "class_1"
	store := &fakeBookingStore{listItems: []model.Booking{
		{ID: "booking_1", UserID: "user_abc", ClassID: &classID, Status: model.BookingStatusPending},
		{ID: "booking_2", UserID: "user_abc", ClassID: &classID, Status: model.BookingStatusConfirmed},
	}}
	h := NewBookingHandler(store, zerolog.Nop())
	c, rec := newBookingContext(t, http.MethodGet, "/v1/bookings/me", "")

	require.NoError(t, h.ListMine(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user_abc", store.gotUserID)

	resp := decodeBody(t, rec)
	assert.EqualValues(t, 2, resp["count"])
}

func TestGetMineMasksForeignBooking(t *testing.T) {
	// The store reports sql.ErrNoRows for both a missing booking and
	// one owned by someone else; the handler must answer 404 either
	// way with the same body.
	store := &fakeBookingStore{getErr: sql.ErrNoRows}
	h := NewBookingHandler(store, zerolog.Nop())
	c, rec := newBookingContext(t, http.MethodGet, "/v1/bookings/me/booking_9", "")
	c.SetParamNames("id")
	c.SetParamValues("booking_9")

	require.NoError(t, h.GetMine(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "booking not found", decodeBody(t, rec)["error"])
	assert.Equal(t, "booking_9", store.gotBookingID)
	assert.Equal(t, "user_abc", store.gotUserID)
}

func TestGetMineReturnsDetail(t *testing.T) {
	classID := "class_1"
	store := &fakeBookingStore{detail: &repository.BookingDetail{
		Booking: model.Booking{ID: "booking_1", UserID: "user_abc", ClassID: &classID, Status: model.BookingStatusPending},
		Addons:  []model.Addon{{ID: "addon_a", Name: "Towel", PriceCents: 300, IsActive: true}},
	}}
	h := NewBookingHandler(store, zerolog.Nop())
	c, rec := newBookingContext(t, http.MethodGet, "/v1/bookings/me/booking_1", "")
	c.SetParamNames("id")
	c.SetParamValues("booking_1")

	require.NoError(t, h.GetMine(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody(t, rec)
	item, ok := resp["item"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "booking_1", item["id"])
	addons, ok := item["addons"].([]interface{})
	require.True(t, ok)
	assert.Len(t, addons, 1)
}
