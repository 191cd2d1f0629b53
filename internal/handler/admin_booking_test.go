package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefit/studio-booking/internal/model"
	"github.com/pulsefit/studio-booking/internal/notify"
	"github.com/pulsefit/studio-booking/internal/queue"
	"github.com/pulsefit/studio-booking/internal/repository"
)

type fakeAdminStore struct {
	booking *model.Booking
	getErr  error

	transitionErr    error
	transitionTarget string

	listItems []model.Booking
	listErr   error
	gotStatus string
}

func (f *fakeAdminStore) ListAll(ctx context.Context, status string) ([]model.Booking, error) {
	f.gotStatus = status
	return f.listItems, f.listErr
}

func (f *fakeAdminStore) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.booking, nil
}

func (f *fakeAdminStore) Transition(ctx context.Context, b *model.Booking, target string) error {
	f.transitionTarget = target
	if f.transitionErr != nil {
		return f.transitionErr
	}
	b.Status = target
	return nil
}

type fakeUserGetter struct {
	user model.User
	err  error
}

func (f *fakeUserGetter) GetByID(ctx context.Context, id string) (model.User, error) {
	return f.user, f.err
}

type fakeClassGetter struct {
	class *model.Class
	err   error
}

func (f *fakeClassGetter) GetByID(ctx context.Context, id string) (*model.Class, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.class, nil
}

type fakeEventGetter struct {
	event *model.Event
	err   error
}

func (f *fakeEventGetter) GetByID(ctx context.Context, id string) (*model.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

type fakeSender struct {
	sent []notify.StatusNotification
	err  error
}

func (f *fakeSender) SendStatusNotification(ctx context.Context, n notify.StatusNotification) error {
	f.sent = append(f.sent, n)
	return f.err
}

type fakePublisher struct {
	events []queue.BookingStatusEvent
	err    error
}

func (f *fakePublisher) PublishBookingStatus(ctx context.Context, ev queue.BookingStatusEvent) error {
	f.events = append(f.events, ev)
	return f.err
}

type adminFixture struct {
	store     *fakeAdminStore
	users     *fakeUserGetter
	classes   *fakeClassGetter
	events    *fakeEventGetter
	sender    *fakeSender
	publisher *fakePublisher
	handler   *AdminBookingHandler
}

func newAdminFixture() *adminFixture {
	classID := "class_1"
	f := &adminFixture{
		store: &fakeAdminStore{booking: &model.Booking{
			ID:      "booking_1",
			UserID:  "user_abc",
			ClassID: &classID,
			Status:  model.BookingStatusPending,
		}},
		users:     &fakeUserGetter{user: model.User{ID: "user_abc", Email: "m@example.com", FullName: "Mina", Role: model.RoleMember}},
		classes:   &fakeClassGetter{class: &model.Class{ID: classID, Name: "Morning Yoga"}},
		events:    &fakeEventGetter{event: &model.Event{ID: "event_1", Name: "Open Day", StartsAt: time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)}},
		sender:    &fakeSender{},
		publisher: &fakePublisher{},
	}
	f.handler = NewAdminBookingHandler(
		f.store, f.users, f.classes, f.events, f.sender, f.publisher, time.Second, zerolog.Nop())
	return f
}

func newAdminContext(t *testing.T, method, target, bookingID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if bookingID != "" {
		c.SetParamNames("id")
		c.SetParamValues(bookingID)
	}
	return c, rec
}

func TestConfirmTransitionsAndNotifies(t *testing.T) {
	f := newAdminFixture()
	c, rec := newAdminContext(t, http.MethodPut, "/v1/bookings/booking_1/confirm", "booking_1")

	require.NoError(t, f.handler.Confirm(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.BookingStatusConfirmed, f.store.transitionTarget)
	assert.Equal(t, "Booking confirmed and notification email sent", decodeBody(t, rec)["message"])

	require.Len(t, f.sender.sent, 1)
	n := f.sender.sent[0]
	assert.Equal(t, "m@example.com", n.To)
	assert.Equal(t, "Mina", n.Name)
	assert.Equal(t, model.ActivityKindClass, n.ItemType)
	assert.Equal(t, "Morning Yoga", n.ItemName)
	assert.Equal(t, model.BookingStatusConfirmed, n.Status)

	require.Len(t, f.publisher.events, 1)
	ev := f.publisher.events[0]
	assert.Equal(t, "booking_1", ev.BookingID)
	assert.Equal(t, model.BookingStatusConfirmed, ev.Status)
}

func TestCancelTransitions(t *testing.T) {
	f := newAdminFixture()
	c, rec := newAdminContext(t, http.MethodPut, "/v1/bookings/booking_1/cancel", "booking_1")

	require.NoError(t, f.handler.Cancel(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.BookingStatusCancelled, f.store.transitionTarget)
	assert.Equal(t, "Booking cancelled and notification email sent", decodeBody(t, rec)["message"])
}

func TestConfirmUsesEventStartForEventBookings(t *testing.T) {
	f := newAdminFixture()
	eventID := "event_1"
	f.store.booking = &model.Booking{ID: "booking_1", UserID: "user_abc", EventID: &eventID, Status: model.BookingStatusPending}
	c, rec := newAdminContext(t, http.MethodPut, "/v1/bookings/booking_1/confirm", "booking_1")

	require.NoError(t, f.handler.Confirm(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, f.sender.sent, 1)
	n := f.sender.sent[0]
	assert.Equal(t, model.ActivityKindEvent, n.ItemType)
	assert.Equal(t, "Open Day", n.ItemName)
	assert.Equal(t, f.events.event.StartsAt, n.DateTime)
}

func TestCancelAfterConfirmLandsOnCancelled(t *testing.T) {
	f := newAdminFixture()

	c, rec := newAdminContext(t, http.MethodPut, "/v1/bookings/booking_1/confirm", "booking_1")
	require.NoError(t, f.handler.Confirm(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = newAdminContext(t, http.MethodPut, "/v1/bookings/booking_1/cancel", "booking_1")
	require.NoError(t, f.handler.Cancel(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// Last write wins: the cancel lands even right after a confirm.
	assert.Equal(t, model.BookingStatusCancelled, f.store.booking.Status)
	require.Len(t, f.sender.sent, 2)
	assert.Equal(t, model.BookingStatusConfirmed, f.sender.sent[0].Status)
	assert.Equal(t, model.BookingStatusCancelled, f.sender.sent[1].Status)
}

func TestReconfirmAfterCancelFullReturnsConflict(t *testing.T) {
	f := newAdminFixture()
	f.store.booking.Status = model.BookingStatusCancelled
	f.store.transitionErr = repository.ErrCapacityFull
	c, rec := newAdminContext(t, http.MethodPut, "/v1/bookings/booking_1/confirm", "booking_1")

	require.NoError(t, f.handler.Confirm(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "no spots available", decodeBody(t, rec)["error"])
	assert.Empty(t, f.sender.sent, "a refused transition must not notify")
	assert.Empty(t, f.publisher.events)
}

func TestNotifyFailureDoesNotFailTransition(t *testing.T) {
	f := newAdminFixture()
	f.sender.err = errors.New("provider 503")
	f.publisher.err = errors.New("broker gone")
	c, rec := newAdminContext(t, http.MethodPut, "/v1/bookings/booking_1/confirm", "booking_1")

	require.NoError(t, f.handler.Confirm(c))
	// The transition already committed; dispatch failures stay local.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.BookingStatusConfirmed, f.store.transitionTarget)
}

func TestActivityLookupFailureFallsBackToPlaceholder(t *testing.T) {
	f := newAdminFixture()
	f.classes.err = errors.New("db down")
	c, rec := newAdminContext(t, http.MethodPut, "/v1/bookings/booking_1/confirm", "booking_1")

	require.NoError(t, f.handler.Confirm(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "your class", f.sender.sent[0].ItemName)
}

func TestTransitionBookingNotFound(t *testing.T) {
	f := newAdminFixture()
	f.store.getErr = sql.ErrNoRows
	c, rec := newAdminContext(t, http.MethodPut, "/v1/bookings/booking_x/confirm", "booking_x")

	require.NoError(t, f.handler.Confirm(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "booking not found", decodeBody(t, rec)["error"])
	assert.Empty(t, f.sender.sent)
}

func TestTransitionOwnerMissing(t *testing.T) {
	f := newAdminFixture()
	f.users.err = sql.ErrNoRows
	c, rec := newAdminContext(t, http.MethodPut, "/v1/bookings/booking_1/confirm", "booking_1")

	require.NoError(t, f.handler.Confirm(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "user not found for this booking", decodeBody(t, rec)["error"])
	assert.Empty(t, f.store.transitionTarget, "transition must not run without an owner")
}

func TestTransitionStorageError(t *testing.T) {
	f := newAdminFixture()
	f.store.transitionErr = errors.New("deadlock")
	c, rec := newAdminContext(t, http.MethodPut, "/v1/bookings/booking_1/cancel", "booking_1")

	require.NoError(t, f.handler.Cancel(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, f.sender.sent)
}

func TestListAllPassesStatusFilter(t *testing.T) {
	f := newAdminFixture()
	f.store.listItems = []model.Booking{{ID: "booking_1", Status: model.BookingStatusPending}}
	c, rec := newAdminContext(t, http.MethodGet, "/v1/bookings?status=pending", "")

	require.NoError(t, f.handler.ListAll(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pending", f.store.gotStatus)
	assert.EqualValues(t, 1, decodeBody(t, rec)["count"])
}
