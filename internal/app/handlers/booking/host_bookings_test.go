package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domainbooking "staybook/internal/domain/booking"
	"staybook/internal/infra/storage/memory"
)

func seedPendingBooking(t *testing.T, factory memory.Factory) string {
	t.Helper()
	handler := &RequestBookingHandler{
		UoWFactory: factory,
		Outbox:     memory.NewOutbox(),
		Encoder:    outbox.JSONEventEncoder{},
		Now:        func() time.Time { return fixedNow },
	}
	result, err := handler.Handle(context.Background(), requestCommand("booking-pending", "2024-06-01", "2024-06-04"))
	require.NoError(t, err)
	require.Equal(t, string(domainbooking.StatusPending), result.Status)
	return result.BookingID
}

func unitContext(t *testing.T, factory memory.Factory) (context.Context, uow.UnitOfWork) {
	t.Helper()
	unit, err := factory.Begin(context.Background(), uow.TxOptions{})
	require.NoError(t, err)
	return uow.ContextWithUnitOfWork(context.Background(), unit), unit
}

func TestConfirmHostBookingTransitionsToConfirmed(t *testing.T) {
	factory, listings := newTestFactory(t)
	seedListing(t, listings, false)
	bookingID := seedPendingBooking(t, factory)
	box := memory.NewOutbox()

	handler := &ConfirmHostBookingHandler{Outbox: box, Encoder: outbox.JSONEventEncoder{}}
	ctx, _ := unitContext(t, factory)

	result, err := handler.Handle(ctx, ConfirmHostBookingCommand{HostID: "host-1", BookingID: bookingID})
	require.NoError(t, err)
	assert.Equal(t, string(domainbooking.StatusConfirmed), result.Status)

	records, err := box.Pending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "booking.confirmed", records[0].Name)
}

func TestConfirmHostBookingRejectsForeignHost(t *testing.T) {
	factory, listings := newTestFactory(t)
	seedListing(t, listings, false)
	bookingID := seedPendingBooking(t, factory)

	handler := &ConfirmHostBookingHandler{Outbox: memory.NewOutbox(), Encoder: outbox.JSONEventEncoder{}}
	ctx, _ := unitContext(t, factory)

	_, err := handler.Handle(ctx, ConfirmHostBookingCommand{HostID: "someone-else", BookingID: bookingID})
	assert.ErrorIs(t, err, ErrBookingNotOwned)
}

func TestDeclineHostBookingFreesCalendar(t *testing.T) {
	factory, listings := newTestFactory(t)
	seedListing(t, listings, false)
	bookingID := seedPendingBooking(t, factory)

	handler := &DeclineHostBookingHandler{Outbox: memory.NewOutbox(), Encoder: outbox.JSONEventEncoder{}}
	ctx, unit := unitContext(t, factory)

	result, err := handler.Handle(ctx, DeclineHostBookingCommand{HostID: "host-1", BookingID: bookingID, Reason: "maintenance"})
	require.NoError(t, err)
	assert.Equal(t, string(domainbooking.StatusCancelled), result.Status)

	booking, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(bookingID))
	require.NoError(t, err)
	calendar, err := unit.Availability().Calendar(ctx, booking.ListingID)
	require.NoError(t, err)
	assert.False(t, calendar.HasOverlap(booking.Range))
}

func TestConfirmHostBookingRejectsNonPending(t *testing.T) {
	factory, listings := newTestFactory(t)
	seedListing(t, listings, false)
	bookingID := seedPendingBooking(t, factory)

	handler := &ConfirmHostBookingHandler{Outbox: memory.NewOutbox(), Encoder: outbox.JSONEventEncoder{}}
	ctx, _ := unitContext(t, factory)

	_, err := handler.Handle(ctx, ConfirmHostBookingCommand{HostID: "host-1", BookingID: bookingID})
	require.NoError(t, err)
	_, err = handler.Handle(ctx, ConfirmHostBookingCommand{HostID: "host-1", BookingID: bookingID})
	assert.ErrorIs(t, err, domainbooking.ErrInvalidState)
}
