package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restock/internal/core/apperror"
	"restock/internal/core/types"
)

func TestConverter_ToBaseQuantity(t *testing.T) {
	c := DefaultConverter()

	tests := []struct {
		name     string
		quantity int64
		unit     Unit
		want     types.Quantity
	}{
		{"piece is identity", 5, Piece, 5},
		{"dozen", 2, Dozen, 24},
		{"box", 3, Box, 72},
		{"tray", 1, Tray, 30},
		{"zero quantity", 0, Tray, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ToBaseQuantity(tt.quantity, tt.unit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConverter_UnknownUnit(t *testing.T) {
	c := DefaultConverter()

	_, err := c.ToBaseQuantity(1, Unit("pallet"))
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "INVALID_UNIT", appErr.Details["reason"])
	assert.Equal(t, "pallet", appErr.Details["unit"])
}

func TestConverter_CustomTable(t *testing.T) {
	c := NewConverter(map[Unit]int64{
		Piece:        1,
		Unit("pack"): 6,
	})

	got, err := c.ToBaseQuantity(4, Unit("pack"))
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(24), got)

	assert.False(t, c.IsRegistered(Tray))
	assert.True(t, c.IsRegistered(Piece))
}
