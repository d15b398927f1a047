package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	enc "github.com/lumbunglabs/kasir/internal/encoding"
)

// LoadCSV reads a product list in barcode,name,price layout. The charset is
// auto-detected so spreadsheet exports in legacy encodings load cleanly.
// A header row is skipped when its price column is not numeric.
func LoadCSV(r io.Reader) (*Catalog, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	var products []Product

	seen := make(map[string]int)

	for i, row := range rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("row %d: expected barcode,name,price, got %d columns", i+1, len(row))
		}

		barcode := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])

		price, err := strconv.ParseInt(strings.TrimSpace(row[2]), 10, 64)
		if err != nil {
			if i == 0 {
				// Header row.
				continue
			}

			return nil, fmt.Errorf("row %d: parse price %q: %w", i+1, row[2], err)
		}

		if barcode == "" || name == "" {
			return nil, fmt.Errorf("row %d: barcode and name must not be empty", i+1)
		}

		if price < 0 {
			return nil, fmt.Errorf("row %d: negative price %d", i+1, price)
		}

		if prev, dup := seen[barcode]; dup {
			return nil, fmt.Errorf("row %d: barcode %s already defined at row %d", i+1, barcode, prev)
		}

		seen[barcode] = i + 1

		products = append(products, Product{Barcode: barcode, Name: name, UnitPrice: price})
	}

	if len(products) == 0 {
		return nil, fmt.Errorf("no products found")
	}

	return New(products), nil
}

// LoadFile loads a catalog CSV from disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	cat, err := LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}

	return cat, nil
}
