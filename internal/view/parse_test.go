package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		in      string
		want    Sort
		wantErr error
	}{
		{in: "", want: Sort{Direction: Asc}},
		{in: "  ", want: Sort{Direction: Asc}},
		{in: "price", want: Sort{Key: "price", Direction: Asc}},
		{in: "price desc", want: Sort{Key: "price", Direction: Desc}},
		{in: "name asc", want: Sort{Key: "name", Direction: Asc}},
		{in: "image", wantErr: ErrUnknownSortKey},
		{in: "bogus desc", wantErr: ErrUnknownSortKey},
		{in: "name, price", wantErr: ErrMultipleSortKeys},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSort(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSortRejectsMalformed(t *testing.T) {
	_, err := ParseSort("price sideways")
	require.Error(t, err)

	_, err = ParseSort("price;drop")
	require.Error(t, err)
}

func TestSortStringRoundTrip(t *testing.T) {
	for _, key := range SortKeys() {
		for _, dir := range []Direction{Asc, Desc} {
			s := Sort{Key: key, Direction: dir}
			got, err := ParseSort(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, got)
		}
	}
	assert.Equal(t, "", Sort{Direction: Desc}.String())
}
