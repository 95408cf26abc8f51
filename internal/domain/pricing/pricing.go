package pricing

import (
	"context"
	"errors"

	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

var (
	ErrInvalidAmount = errors.New("pricing: nightly rate must be positive and fees non-negative")
	ErrCurrencyUnset = errors.New("pricing: currency must be defined")
)

// PriceBreakdown is the quoted cost of a stay. It is derived per
// request and embedded into a booking as a snapshot; it is never
// stored as its own entity.
type PriceBreakdown struct {
	Nights       int
	Nightly      money.Money
	NightlyTotal money.Money
	CleaningFee  money.Money
	Total        money.Money
}

// ComputeTotal quotes a validated date range against a nightly rate and
// an optional flat cleaning fee. All amounts are integer minor units,
// so total = nightly*nights + cleaning holds exactly. A zero-value
// cleaning fee is treated as zero in the nightly rate's currency.
func ComputeTotal(nightly, cleaning money.Money, dr daterange.DateRange) (PriceBreakdown, error) {
	if err := dr.Validate(); err != nil {
		return PriceBreakdown{}, err
	}
	if nightly.Currency == "" {
		return PriceBreakdown{}, ErrCurrencyUnset
	}
	if nightly.Amount <= 0 {
		return PriceBreakdown{}, ErrInvalidAmount
	}
	if cleaning.Currency == "" && cleaning.Amount == 0 {
		cleaning = money.Money{Amount: 0, Currency: nightly.Currency}
	}
	if cleaning.IsNegative() {
		return PriceBreakdown{}, ErrInvalidAmount
	}

	nights := dr.Nights()
	nightlyTotal := nightly.Multiply(int64(nights))
	total, err := nightlyTotal.Add(cleaning)
	if err != nil {
		return PriceBreakdown{}, err
	}
	return PriceBreakdown{
		Nights:       nights,
		Nightly:      nightly,
		NightlyTotal: nightlyTotal,
		CleaningFee:  cleaning,
		Total:        total,
	}, nil
}

// QuoteInput carries everything a calculator needs to price a stay.
type QuoteInput struct {
	ListingID   string
	Nightly     money.Money
	CleaningFee money.Money
	Range       daterange.DateRange
	Guests      int
}

// Calculator is the pricing port used by the booking use cases.
type Calculator interface {
	Quote(ctx context.Context, input QuoteInput) (PriceBreakdown, error)
}

// StandardCalculator prices stays with the listing's own rate and fee.
type StandardCalculator struct{}

func (StandardCalculator) Quote(ctx context.Context, input QuoteInput) (PriceBreakdown, error) {
	return ComputeTotal(input.Nightly, input.CleaningFee, input.Range)
}

var _ Calculator = StandardCalculator{}
