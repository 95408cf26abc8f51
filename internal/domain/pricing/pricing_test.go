package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

func rangeOf(t *testing.T, in, out string) daterange.DateRange {
	t.Helper()
	dr, err := daterange.Parse(in, out)
	require.NoError(t, err)
	return dr
}

func TestComputeTotalThreeNights(t *testing.T) {
	// $150/night, $50 cleaning, 3 nights -> $500.
	breakdown, err := ComputeTotal(money.Must(15000, "USD"), money.Must(5000, "USD"), rangeOf(t, "2024-03-01", "2024-03-04"))
	require.NoError(t, err)
	assert.Equal(t, 3, breakdown.Nights)
	assert.Equal(t, int64(45000), breakdown.NightlyTotal.Amount)
	assert.Equal(t, int64(5000), breakdown.CleaningFee.Amount)
	assert.Equal(t, int64(50000), breakdown.Total.Amount)
	assert.Equal(t, "USD", breakdown.Total.Currency)
}

func TestComputeTotalDefaultsCleaningFee(t *testing.T) {
	breakdown, err := ComputeTotal(money.Must(9900, "EUR"), money.Money{}, rangeOf(t, "2024-05-10", "2024-05-12"))
	require.NoError(t, err)
	assert.Equal(t, int64(19800), breakdown.Total.Amount)
	assert.Equal(t, "EUR", breakdown.CleaningFee.Currency)
	assert.True(t, breakdown.CleaningFee.IsZero())
}

func TestComputeTotalRejectsBadAmounts(t *testing.T) {
	dr := rangeOf(t, "2024-03-01", "2024-03-04")

	_, err := ComputeTotal(money.Must(0, "USD"), money.Money{}, dr)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ComputeTotal(money.Must(-100, "USD"), money.Money{}, dr)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ComputeTotal(money.Must(15000, "USD"), money.Must(-1, "USD"), dr)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ComputeTotal(money.Money{Amount: 100}, money.Money{}, dr)
	assert.ErrorIs(t, err, ErrCurrencyUnset)
}

func TestComputeTotalIsDeterministic(t *testing.T) {
	dr := rangeOf(t, "2024-03-01", "2024-03-31")
	first, err := ComputeTotal(money.Must(12345, "USD"), money.Must(678, "USD"), dr)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		again, err := ComputeTotal(money.Must(12345, "USD"), money.Must(678, "USD"), dr)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	// 30 nights * 123.45 + 6.78, exact in minor units.
	assert.Equal(t, int64(12345*30+678), first.Total.Amount)
}

func TestStandardCalculatorQuote(t *testing.T) {
	calc := StandardCalculator{}
	breakdown, err := calc.Quote(t.Context(), QuoteInput{
		ListingID:   "listing-1",
		Nightly:     money.Must(15000, "USD"),
		CleaningFee: money.Must(5000, "USD"),
		Range:       rangeOf(t, "2024-03-01", "2024-03-04"),
		Guests:      2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50000), breakdown.Total.Amount)
}
