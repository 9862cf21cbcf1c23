// Package importer bulk loads the ingredient catalog from CSV.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pageza/foodgram/backend/internal/models"
)

// Catalog is the get-or-create operation the importer needs.
type Catalog interface {
	EnsureIngredient(ctx context.Context, name, unit string) (*models.Ingredient, bool, error)
}

type Options struct {
	// SkipHeader drops the first row.
	SkipHeader bool
}

// Result counts the rows that created an ingredient and those that matched an
// existing one.
type Result struct {
	Created int
	Skipped int
}

type Importer struct {
	catalog Catalog
}

func New(catalog Catalog) *Importer {
	return &Importer{catalog: catalog}
}

// Import reads (name, unit) rows and get-or-creates each ingredient. Running it twice
// over the same file creates nothing the second time.
func (im *Importer) Import(ctx context.Context, r io.Reader, opts Options) (Result, error) {
	var result Result

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		line++
		if err != nil {
			return result, fmt.Errorf("read csv: %w", err)
		}
		if line == 1 && opts.SkipHeader {
			continue
		}
		if isBlank(record) {
			continue
		}
		if len(record) < 2 {
			return result, fmt.Errorf("line %d: expected name and measurement unit, got %d column(s)", line, len(record))
		}

		_, created, err := im.catalog.EnsureIngredient(ctx, strings.TrimSpace(record[0]), strings.TrimSpace(record[1]))
		if err != nil {
			return result, fmt.Errorf("line %d (%s): %w", line, record[0], err)
		}
		if created {
			result.Created++
		} else {
			result.Skipped++
		}
	}
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
