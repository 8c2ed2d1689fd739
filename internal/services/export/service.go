package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/insuregenie/internal/core"
	"github.com/joseph-ayodele/insuregenie/internal/llm"
	"github.com/joseph-ayodele/insuregenie/internal/repository"
)

const (
	SheetDocuments  = "Documents"
	SheetCompliance = "Compliance"

	maxCellChars = 32767
)

// Service produces XLSX reports of persisted analyses.
type Service struct {
	docs   repository.DocumentRepository
	logger *slog.Logger
}

func NewService(docs repository.DocumentRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{docs: docs, logger: logger}
}

// AnalysesXLSX returns a workbook with one row per document on the Documents
// sheet and one row per compliance check on the Compliance sheet.
func (s *Service) AnalysesXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	analyses, err := s.docs.ListAnalyses(ctx)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetDocuments); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetCompliance); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	docHeaders := []string{
		"Document ID",
		"Filename",
		"Uploaded",
		"Validation Status",
		"Validation Errors",
		"Summary",
		"Extraction Method",
	}
	checkHeaders := []string{
		"Document ID",
		"Filename",
		"Check",
		"Status",
		"Details",
	}
	if err := writeRow(f, SheetDocuments, 1, toAny(docHeaders)); err != nil {
		return nil, err
	}
	if err := writeRow(f, SheetCompliance, 1, toAny(checkHeaders)); err != nil {
		return nil, err
	}

	docRow, checkRow := 2, 2
	for _, a := range analyses {
		status, errs := "", ""
		if a.Validation != nil {
			status = string(a.Validation.Status)
			errs = strings.Join(a.Validation.Errors, "; ")
		}
		uploaded := ""
		if !a.UploadTime.IsZero() {
			uploaded = a.UploadTime.UTC().Format(time.RFC3339)
		}
		row := []any{
			a.DocumentID,
			a.Filename,
			uploaded,
			status,
			errs,
			truncate(a.Fields[llm.FieldSummary], maxCellChars),
			a.Fields[core.FieldExtractionMethod],
		}
		if err := writeRow(f, SheetDocuments, docRow, row); err != nil {
			return nil, err
		}
		docRow++

		for _, c := range a.Compliance {
			row := []any{a.DocumentID, a.Filename, c.Check, string(c.Status()), truncate(c.Details, maxCellChars)}
			if err := writeRow(f, SheetCompliance, checkRow, row); err != nil {
				return nil, err
			}
			checkRow++
		}
	}

	_ = f.SetColWidth(SheetDocuments, "A", "A", 12)
	_ = f.SetColWidth(SheetDocuments, "B", "B", 32)
	_ = f.SetColWidth(SheetDocuments, "C", "D", 22)
	_ = f.SetColWidth(SheetDocuments, "E", "E", 40)
	_ = f.SetColWidth(SheetDocuments, "F", "F", 80)
	_ = f.SetColWidth(SheetDocuments, "G", "G", 18)
	_ = f.SetColWidth(SheetCompliance, "A", "A", 12)
	_ = f.SetColWidth(SheetCompliance, "B", "C", 32)
	_ = f.SetColWidth(SheetCompliance, "D", "D", 10)
	_ = f.SetColWidth(SheetCompliance, "E", "E", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"documents", len(analyses),
		"checks", checkRow-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// truncate keeps cells under the XLSX per-cell character limit.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
