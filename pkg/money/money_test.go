package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafecraft/pkg/money"
)

func TestFormat_AgrupaMiles(t *testing.T) {
	f, err := money.NewFormatter("en", "PHP", "₱")
	require.NoError(t, err)

	assert.Equal(t, "₱1,234.50", f.Format(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "₱0.00", f.Format(decimal.Zero))
	assert.Equal(t, "-₱5.00", f.Format(decimal.NewFromInt(-5)))
	assert.Equal(t, "PHP", f.Code())
}

func TestNewFormatter_SimboloPorDefecto(t *testing.T) {
	f, err := money.NewFormatter("en", "USD", "")
	require.NoError(t, err)
	assert.Equal(t, "USD", f.Symbol())
}

func TestNewFormatter_MonedaInvalida(t *testing.T) {
	_, err := money.NewFormatter("en", "NOPE", "")
	assert.Error(t, err)
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "1234.50", money.Plain(decimal.RequireFromString("1234.499")))
	assert.Equal(t, "3.00", money.Plain(decimal.NewFromInt(3)))
}
