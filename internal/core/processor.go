package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/insuregenie/constants"
	"github.com/joseph-ayodele/insuregenie/internal/common"
	"github.com/joseph-ayodele/insuregenie/internal/core/compliance"
	"github.com/joseph-ayodele/insuregenie/internal/core/extract"
	"github.com/joseph-ayodele/insuregenie/internal/core/validate"
	"github.com/joseph-ayodele/insuregenie/internal/llm"
	"github.com/joseph-ayodele/insuregenie/internal/repository"
)

// NoReadableText is reported when extraction produced nothing worth summarizing.
const NoReadableText = "No readable text found in the uploaded file."

// Metadata keys stored next to the summarizer fields.
const (
	FieldExtractionMethod = "extraction_method"
	FieldPageCount        = "page_count"
)

// Upload is one document handed to Analyze.
type Upload struct {
	Filename string
	Data     []byte
}

// Report is the full outcome of Analyze.
type Report struct {
	DocumentID int64                      `json:"document_id"`
	Filename   string                     `json:"filename"`
	Kind       constants.DocumentKind     `json:"kind"`
	Method     constants.ExtractionMethod `json:"extraction_method"`
	Pages      int                        `json:"pages"`
	Text       string                     `json:"text"`
	Fields     llm.Fields                 `json:"fields"`
	Compliance []compliance.Result        `json:"compliance"`
	Validation validate.Result            `json:"validation"`
}

// Processor coordinates extraction, summarization, compliance and validation.
type Processor struct {
	logger     *slog.Logger
	extractor  extract.TextExtractor
	summarizer llm.Summarizer
	docs       repository.DocumentRepository
}

// NewProcessor builds a Processor. docs may be nil, in which case Analyze
// does not persist anything.
func NewProcessor(logger *slog.Logger, extractor extract.TextExtractor, summarizer llm.Summarizer, docs repository.DocumentRepository) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:     logger,
		extractor:  extractor,
		summarizer: summarizer,
		docs:       docs,
	}
}

// RunAgent extracts text and summarizes it. When the text is not usable the
// summarizer is not called and the no-readable-text failure is returned with
// empty text.
func (p *Processor) RunAgent(ctx context.Context, data []byte, filename string) (string, llm.Fields, validate.Result) {
	ctx, _ = common.EnsureRequestID(ctx)
	text := p.extractor.Extract(ctx, data, filename)
	return p.summarize(ctx, text)
}

func (p *Processor) summarize(ctx context.Context, text string) (string, llm.Fields, validate.Result) {
	log := common.LoggerFrom(ctx, p.logger)
	if !extract.Usable(text) {
		log.Warn("processor.no_readable_text", "chars", len(text))
		return "", llm.FailedSummary(NoReadableText), validate.New(NoReadableText)
	}

	start := time.Now()
	fields := p.summarizer.Summarize(ctx, text)
	result := validate.Validate(fields)
	log.Info("processor.summarized",
		"status", result.Status,
		"errors", len(result.Errors),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, fields, result
}

// Analyze runs the full flow for one upload and persists every outcome. A
// persistence failure is returned wrapped in common.ErrDatabase together with
// the report, which is always complete.
func (p *Processor) Analyze(ctx context.Context, up Upload) (*Report, error) {
	ctx, _ = common.EnsureRequestID(ctx)
	start := time.Now()
	var persistErrs []error

	var docID int64
	if p.docs != nil {
		id, err := p.docs.SaveUpload(ctx, up.Filename)
		if err != nil {
			persistErrs = append(persistErrs, fmt.Errorf("save upload: %w", err))
		} else {
			docID = id
			ctx = common.WithDocumentID(ctx, docID)
		}
	}
	log := common.LoggerFrom(ctx, p.logger).With("filename", up.Filename)
	log.Info("processor.analyze.start", "bytes", len(up.Data))

	res := p.extractor.ExtractDetailed(ctx, up.Data, up.Filename)
	report := &Report{
		DocumentID: docID,
		Filename:   up.Filename,
		Kind:       res.Kind,
		Method:     res.Method,
		Pages:      res.Pages,
	}

	// Compliance reads the text RunAgent would return, so it is known up front.
	checkedText := ""
	if extract.Usable(res.Text) {
		checkedText = res.Text
	}

	var g errgroup.Group
	g.Go(func() error {
		report.Text, report.Fields, report.Validation = p.summarize(ctx, res.Text)
		return nil
	})
	g.Go(func() error {
		report.Compliance = compliance.RunChecks(checkedText)
		return nil
	})
	_ = g.Wait()

	if p.docs != nil && docID != 0 {
		persistErrs = append(persistErrs, p.persist(ctx, docID, report)...)
	}

	log.Info("processor.analyze.done",
		"kind", report.Kind,
		"method", report.Method,
		"pages", report.Pages,
		"validation", report.Validation.Status,
		"compliance_passed", compliance.Passed(report.Compliance),
		"persist_errors", len(persistErrs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if len(persistErrs) > 0 {
		err := errors.Join(persistErrs...)
		log.Error("processor.persist.failed", "error", err)
		if !errors.Is(err, common.ErrDatabase) {
			err = fmt.Errorf("%w: %w", common.ErrDatabase, err)
		}
		return report, err
	}
	return report, nil
}

func (p *Processor) persist(ctx context.Context, docID int64, r *Report) []error {
	var errs []error

	meta := make(map[string]string, len(r.Fields)+2)
	for k, v := range r.Fields {
		meta[k] = v
	}
	meta[FieldExtractionMethod] = string(r.Method)
	meta[FieldPageCount] = strconv.Itoa(r.Pages)

	if err := p.docs.SaveMetadata(ctx, docID, meta); err != nil {
		errs = append(errs, fmt.Errorf("save metadata: %w", err))
	}
	if err := p.docs.SaveCompliance(ctx, docID, r.Compliance); err != nil {
		errs = append(errs, fmt.Errorf("save compliance: %w", err))
	}
	if err := p.docs.SaveValidation(ctx, docID, r.Validation.Status, r.Validation.Errors); err != nil {
		errs = append(errs, fmt.Errorf("save validation: %w", err))
	}
	return errs
}

// AnalyzeFile reads path and analyzes it under its base name.
func (p *Processor) AnalyzeFile(ctx context.Context, path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return p.Analyze(ctx, Upload{Filename: filepath.Base(path), Data: data})
}
