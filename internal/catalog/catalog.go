package catalog

import "sort"

// Product is one sellable item. UnitPrice is whole rupiah.
type Product struct {
	Barcode   string
	Name      string
	UnitPrice int64
}

// Catalog is a read-only barcode -> product mapping, fixed at process start.
// Cart lines copy price and name out of it at scan time, so later catalog
// swaps never reprice items already in a cart.
type Catalog struct {
	products map[string]Product
}

func New(products []Product) *Catalog {
	m := make(map[string]Product, len(products))
	for _, p := range products {
		m[p.Barcode] = p
	}

	return &Catalog{products: m}
}

// Lookup returns the product for a barcode. A miss is a normal outcome,
// not an error: unknown codes come off the scanner all the time.
func (c *Catalog) Lookup(barcode string) (Product, bool) {
	p, ok := c.products[barcode]
	return p, ok
}

// Products returns all products sorted by barcode.
func (c *Catalog) Products() []Product {
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Barcode < out[j].Barcode })

	return out
}

// Default returns the built-in product list the till ships with.
func Default() *Catalog {
	return New([]Product{
		{Barcode: "1334566", Name: "Blazing Canes", UnitPrice: 35000},
		{Barcode: "1434565", Name: "Tangkuban Captures", UnitPrice: 13000},
		{Barcode: "1534564", Name: "Choco Eruption", UnitPrice: 14000},
		{Barcode: "1634563", Name: "Reversible Waves Tote", UnitPrice: 45000},
		{Barcode: "1734562", Name: "Mango Breeze", UnitPrice: 12000},
		{Barcode: "1834561", Name: "Sumbi's Accesories", UnitPrice: 8000},
		{Barcode: "1934560", Name: "Kue Lekker", UnitPrice: 3000},
		{Barcode: "2034559", Name: "Mountain Parfait", UnitPrice: 22000},
		{Barcode: "2134558", Name: "Keychain Plush Aruna", UnitPrice: 15000},
		{Barcode: "2234557", Name: "Keychain Plush Aruno", UnitPrice: 15000},
		{Barcode: "2334556", Name: "Legenda Nusa Keychain 1", UnitPrice: 18000},
		{Barcode: "2434555", Name: "Legenda Nusa Keychain 2", UnitPrice: 18000},
		{Barcode: "2534554", Name: "Seafoam Ocean Slime", UnitPrice: 15000},
	})
}
