package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesCurrency(t *testing.T) {
	m, err := New(1500, "usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", m.Currency)

	_, err = New(1500, "dollars")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestNewNonNegative(t *testing.T) {
	_, err := NewNonNegative(-1, "USD")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	m, err := NewNonNegative(0, "USD")
	require.NoError(t, err)
	assert.True(t, m.IsZero())
}

func TestArithmetic(t *testing.T) {
	a := Must(15000, "USD")
	b := Must(5000, "USD")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), sum.Amount)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), diff.Amount)

	assert.Equal(t, int64(45000), a.Multiply(3).Amount)
	assert.Equal(t, int64(-15000), a.Neg().Amount)
}

func TestCurrencyMismatch(t *testing.T) {
	a := Must(100, "USD")
	b := Must(100, "EUR")
	_, err := a.Add(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestString(t *testing.T) {
	assert.Equal(t, "150.00 USD", Must(15000, "USD").String())
	assert.Equal(t, "0.05 USD", Must(5, "USD").String())
}
