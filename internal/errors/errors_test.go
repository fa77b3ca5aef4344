package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  Input("quantity must be non-negative"),
			want: "[INPUT_ERROR] quantity must be non-negative",
		},
		{
			name: "with cause",
			err:  Parsing("bad unit_price", io.ErrUnexpectedEOF),
			want: "[PARSING_ERROR] bad unit_price: unexpected EOF",
		},
		{
			name: "missing columns listed",
			err:  MissingColumn("profit", "revenue"),
			want: "[MISSING_COLUMN] missing required column(s): profit, revenue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestIsTypeWalksWrapChain(t *testing.T) {
	inner := MissingColumn("order_id")
	outer := Wrap(TypeInput, "loading orders.csv", inner)
	wrapped := fmt.Errorf("analyze: %w", outer)

	assert.True(t, IsType(wrapped, TypeInput))
	assert.True(t, IsType(wrapped, TypeMissingColumn))
	assert.False(t, IsType(wrapped, TypeRender))
	assert.False(t, IsType(io.EOF, TypeInput))
	assert.False(t, IsType(nil, TypeInput))
}

func TestUnwrapAndContext(t *testing.T) {
	err := Wrapf(TypeParsing, io.ErrUnexpectedEOF, "row %d", 7).WithContext("row", 7)

	require.True(t, stderrors.Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, 7, err.Context["row"])
	assert.True(t, err.Is(TypeParsing))

	var target *Error
	require.True(t, stderrors.As(fmt.Errorf("outer: %w", err), &target))
	assert.Equal(t, "row 7", target.Message)
}
