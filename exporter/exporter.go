// Package exporter writes the batch output: a JSON dump of the full
// report for review tooling, and a CSV shaped after Gomag's "Model
// import" spreadsheet for manual upload.
package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gomag-importer/internal/types"
)

// Gomag import template column order.
var csvHeaders = []string{
	"Cod Produs (SKU)",
	"Denumire Produs",
	"Descriere Produs",
	"URL Poza de Produs",
	"Pret",
	"Moneda",
	"Stoc Cantitativ",
	"Activ in Magazin",
	"Categorie / Categorii",
	"Variante",
	"URL Sursa",
}

// WriteJSON saves the full batch report, records included.
func WriteJSON(report types.BatchReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteCSV saves every assembled record in the platform's import
// column layout. Failed URLs without a record are left out; the JSON
// report is the place to review those.
func WriteCSV(report types.BatchReport, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeaders); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range report.Results {
		if result.Record == nil {
			continue
		}
		r := result.Record

		category := ""
		if r.CategoryID > 0 {
			category = strconv.Itoa(r.CategoryID)
		}

		row := []string{
			r.SKU,
			r.Name,
			r.Description,
			strings.Join(r.Images, " | "),
			strconv.FormatFloat(r.Price.Amount, 'f', 2, 64),
			r.Price.Currency,
			strconv.Itoa(r.Stock),
			activeFlag(r.Active),
			category,
			variantColumn(r.Variants),
			r.SourceURL,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", r.SKU, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// variantColumn flattens variants to "color=Red | color=Blue" for the
// spreadsheet cell.
func variantColumn(variants []types.Variant) string {
	parts := make([]string, len(variants))
	for i, v := range variants {
		parts[i] = v.Name + "=" + v.Value
	}
	return strings.Join(parts, " | ")
}

func activeFlag(active bool) string {
	if active {
		return "1"
	}
	return "0"
}
