package booking

import (
	"context"

	"staybook/internal/app/dto"
	"staybook/internal/app/handlers/support"
	"staybook/internal/app/queries"
	"staybook/internal/app/uow"
	domainlistings "staybook/internal/domain/listings"
	"staybook/internal/domain/pricing"
	domainrange "staybook/internal/domain/shared/daterange"
)

const quotePriceKey = "booking.quote"

// QuotePriceQuery previews the price of a stay before the guest books.
// Recomputed on every date change; nothing is cached or persisted.
type QuotePriceQuery struct {
	ListingID string `validate:"required"`
	CheckIn   string `validate:"required"`
	CheckOut  string `validate:"required"`
	Guests    int
}

func (q QuotePriceQuery) Key() string { return quotePriceKey }

type QuotePriceHandler struct {
	UoWFactory uow.Factory
	Calculator pricing.Calculator
}

func (h *QuotePriceHandler) Handle(ctx context.Context, q QuotePriceQuery) (dto.PriceBreakdownDTO, error) {
	dr, err := domainrange.Parse(q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.PriceBreakdownDTO{}, err
	}

	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.PriceBreakdownDTO{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	listing, err := unit.Listings().ByID(execCtx, domainlistings.ListingID(q.ListingID))
	if err != nil {
		return dto.PriceBreakdownDTO{}, err
	}

	breakdown, err := h.calculator().Quote(execCtx, pricing.QuoteInput{
		ListingID:   q.ListingID,
		Nightly:     listing.NightlyRate(),
		CleaningFee: listing.CleaningFee(),
		Range:       dr,
		Guests:      q.Guests,
	})
	if err != nil {
		return dto.PriceBreakdownDTO{}, err
	}
	return dto.MapPriceBreakdown(breakdown), nil
}

func (h *QuotePriceHandler) calculator() pricing.Calculator {
	if h.Calculator != nil {
		return h.Calculator
	}
	return pricing.StandardCalculator{}
}

var _ queries.Handler[QuotePriceQuery, dto.PriceBreakdownDTO] = (*QuotePriceHandler)(nil)
