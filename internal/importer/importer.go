package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agustinlorca/zonaeste3d-cibergauchos/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, p domain.Product) error
}

// CSVImporter reads a product catalog export and upserts one document per row.
type CSVImporter struct {
	reader   *csv.Reader
	products ProductWriter
}

func NewCSVImporter(r io.Reader, products ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:   csvr,
		products: products,
	}
}

// Run parses CSV rows and upserts products. It returns the number of products
// written, which on error is the count before the failing row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		p, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if p == nil {
			continue
		}

		if err := i.products.Upsert(ctx, *p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.ID, err)
		}
		imported++
	}

	return imported, nil
}

func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	id := pick(record, index, "id")
	nombre := pick(record, index, "nombre")
	if id == "" && nombre == "" {
		return nil, nil
	}
	if id == "" || nombre == "" {
		return nil, fmt.Errorf("invalid product row (id %q, nombre %q)", id, nombre)
	}

	precio, err := strconv.ParseFloat(pick(record, index, "precio"), 64)
	if err != nil || precio <= 0 {
		return nil, fmt.Errorf("invalid precio for product %q", id)
	}

	stock := 0
	if raw := pick(record, index, "stock"); raw != "" {
		stock, err = strconv.Atoi(raw)
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("invalid stock for product %q", id)
		}
	}

	return &domain.Product{
		ID:        id,
		Nombre:    nombre,
		Precio:    precio,
		Stock:     stock,
		ImgURL:    pick(record, index, "imgUrl"),
		Categoria: pick(record, index, "categoria"),
	}, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
