package middleware_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/app/commands"
	"staybook/internal/app/middleware"
	bookingapp "staybook/internal/app/handlers/booking"
	"staybook/internal/app/outbox"
	"staybook/internal/app/validation"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/infra/storage/memory"
)

var pipeNow = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func pipelineFixture(t *testing.T) commands.Bus {
	t.Helper()
	listings := memory.NewListingRepository()
	listing, err := domainlistings.NewListing(domainlistings.CreateListingParams{
		ID:               "listing-1",
		Host:             "host-1",
		Title:            "Old town flat",
		Address:          domainlistings.Address{City: "Tallinn", Country: "EE"},
		MaxGuests:        2,
		NightlyRateCents: 11000,
		Currency:         "EUR",
		Now:              pipeNow,
	})
	require.NoError(t, err)
	require.NoError(t, listing.Publish(pipeNow))
	require.NoError(t, listings.Save(context.Background(), listing))

	factory := memory.Factory{
		ListingsRepo:     listings,
		AvailabilityRepo: memory.NewAvailabilityRepository(),
		BookingRepo:      memory.NewBookingRepository(),
		FavoritesRepo:    memory.NewFavoritesRepository(),
	}

	bus := commands.NewInMemoryBus()
	commands.RegisterHandler(bus, bookingapp.RequestBookingCommand{}.Key(), &bookingapp.RequestBookingHandler{
		Outbox:  memory.NewOutbox(),
		Encoder: outbox.JSONEventEncoder{},
		Now:     func() time.Time { return pipeNow },
	})

	return middleware.ChainCommands(
		bus,
		middleware.Validation(validation.NewStructValidator()),
		middleware.Idempotency(memory.NewIdempotencyStore(time.Hour), nil),
		middleware.Transaction(factory, nil),
	)
}

func command(id, key string) bookingapp.RequestBookingCommand {
	return bookingapp.RequestBookingCommand{
		CommandID:       id,
		ListingID:       "listing-1",
		GuestID:         "guest-1",
		CheckIn:         "2024-06-01",
		CheckOut:        "2024-06-03",
		Guests:          2,
		IdempotencyKeyV: key,
	}
}

func TestPipelineRejectsInvalidCommand(t *testing.T) {
	bus := pipelineFixture(t)

	_, err := commands.Dispatch[bookingapp.RequestBookingCommand, *bookingapp.RequestBookingResult](
		context.Background(), bus, bookingapp.RequestBookingCommand{CommandID: "cmd-1"})
	assert.ErrorIs(t, err, validation.ErrValidation)
}

func TestPipelineDispatchesThroughTransaction(t *testing.T) {
	bus := pipelineFixture(t)

	result, err := commands.Dispatch[bookingapp.RequestBookingCommand, *bookingapp.RequestBookingResult](
		context.Background(), bus, command("cmd-1", ""))
	require.NoError(t, err)
	assert.Equal(t, "cmd-1", result.BookingID)
}

func TestPipelineReplaysIdempotentResult(t *testing.T) {
	bus := pipelineFixture(t)

	first, err := commands.Dispatch[bookingapp.RequestBookingCommand, *bookingapp.RequestBookingResult](
		context.Background(), bus, command("cmd-1", "idem-1"))
	require.NoError(t, err)

	// Same key, different command id: the stored result comes back and
	// no second booking is created.
	second, err := commands.Dispatch[bookingapp.RequestBookingCommand, *bookingapp.RequestBookingResult](
		context.Background(), bus, command("cmd-2", "idem-1"))
	require.NoError(t, err)
	assert.Equal(t, first.BookingID, second.BookingID)
}

func TestPipelineReplaysIdempotentError(t *testing.T) {
	bus := pipelineFixture(t)

	_, err := commands.Dispatch[bookingapp.RequestBookingCommand, *bookingapp.RequestBookingResult](
		context.Background(), bus, command("cmd-1", "idem-ok"))
	require.NoError(t, err)

	// Overlapping dates fail, and the failure is remembered for the key.
	_, err = commands.Dispatch[bookingapp.RequestBookingCommand, *bookingapp.RequestBookingResult](
		context.Background(), bus, command("cmd-2", "idem-fail"))
	require.Error(t, err)

	_, replayErr := commands.Dispatch[bookingapp.RequestBookingCommand, *bookingapp.RequestBookingResult](
		context.Background(), bus, command("cmd-3", "idem-fail"))
	require.Error(t, replayErr)
	assert.Equal(t, err.Error(), replayErr.Error())
}
