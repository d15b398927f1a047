package catalog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumbunglabs/kasir/internal/catalog"
)

func TestLookup(t *testing.T) {
	cat := catalog.Default()

	p, ok := cat.Lookup("1334566")
	require.True(t, ok)
	assert.Equal(t, "Blazing Canes", p.Name)
	assert.Equal(t, int64(35000), p.UnitPrice)

	_, ok = cat.Lookup("9999999")
	assert.False(t, ok)
}

func TestProductsSorted(t *testing.T) {
	cat := catalog.New([]catalog.Product{
		{Barcode: "222", Name: "B", UnitPrice: 2},
		{Barcode: "111", Name: "A", UnitPrice: 1},
	})

	products := cat.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "111", products[0].Barcode)
	assert.Equal(t, "222", products[1].Barcode)
}

func TestLoadCSV(t *testing.T) {
	input := "barcode,name,price\n1334566,Blazing Canes,35000\n1934560,Kue Lekker,3000\n"

	cat, err := catalog.LoadCSV(strings.NewReader(input))
	require.NoError(t, err)

	p, ok := cat.Lookup("1934560")
	require.True(t, ok)
	assert.Equal(t, int64(3000), p.UnitPrice)
	assert.Len(t, cat.Products(), 2)
}

func TestLoadCSV_NoHeader(t *testing.T) {
	input := "1334566,Blazing Canes,35000\n"

	cat, err := catalog.LoadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, cat.Products(), 1)
}

func TestLoadCSV_BOM(t *testing.T) {
	input := "\xEF\xBB\xBFbarcode,name,price\n1334566,Blazing Canes,35000\n"

	cat, err := catalog.LoadCSV(strings.NewReader(input))
	require.NoError(t, err)

	_, ok := cat.Lookup("1334566")
	assert.True(t, ok)
}

func TestLoadCSV_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad price", "1334566,Blazing Canes,banyak\n"},
		{"negative price", "1334566,Blazing Canes,-5\n"},
		{"missing column", "1334566,Blazing Canes\n"},
		{"duplicate barcode", "1334566,A,1\n1334566,B,2\n"},
		{"empty", ""},
		{"header only", "barcode,name,price\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.LoadCSV(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}
