package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityDisplay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2", "2"},
		{"2.00", "2"},
		{"0", "0"},
		{"2.5", "2.50"},
		{"0.333", "0.33"},
		{"10.05", "10.05"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QuantityDisplay(decimal.RequireFromString(tt.in)), tt.in)
	}
	assert.Empty(t, NullQuantityDisplay(decimal.NullDecimal{}))
}

func TestNormalizeQuantity(t *testing.T) {
	q, err := NormalizeQuantity("quantity", decimal.RequireFromString("1.005"))
	require.NoError(t, err)
	assert.Equal(t, "1.01", q.StringFixed(2))

	_, err = NormalizeQuantity("quantity", decimal.NewFromInt(-1))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, ve.Fields, "quantity")

	null, err := NormalizeNullQuantity("quantity", decimal.NullDecimal{})
	require.NoError(t, err)
	assert.False(t, null.Valid)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Tomato", NormalizeName("tomato"))
	assert.Equal(t, "Tomato", NormalizeName("  TOMATO "))
	assert.Equal(t, "Ripe tomato", NormalizeName("ripe   Tomato"))
	assert.Equal(t, "Éclair", NormalizeName("éclair"))
	assert.Empty(t, NormalizeName("   "))
}

func TestValidateTitle(t *testing.T) {
	got, err := ValidateTitle("name", "  Spaghetti   Bolognese ", 100)
	require.NoError(t, err)
	assert.Equal(t, "Spaghetti Bolognese", got)

	_, err = ValidateTitle("name", "abcdef", 5)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ValidateName("name", "", 5)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPagination(t *testing.T) {
	p := PaginationRequest{}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 0, p.Offset())

	res := NewPaginationResponse(PaginationRequest{Page: 2, Limit: 10}, 21)
	assert.Equal(t, int64(3), res.TotalPage)
}
