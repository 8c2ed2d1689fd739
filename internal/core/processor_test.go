package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/insuregenie/constants"
	"github.com/joseph-ayodele/insuregenie/internal/common"
	"github.com/joseph-ayodele/insuregenie/internal/core/compliance"
	"github.com/joseph-ayodele/insuregenie/internal/core/extract"
	"github.com/joseph-ayodele/insuregenie/internal/core/validate"
	"github.com/joseph-ayodele/insuregenie/internal/llm"
	"github.com/joseph-ayodele/insuregenie/internal/repository"
)

const policyText = "Policy No: ABC12345, Start 01/01/2023, End 01/01/2024, Insurer: HDFC, Coverage: hospitalization, Exclusions: pre-existing conditions."

type stubExtractor struct {
	result extract.Result
}

func (s stubExtractor) Extract(ctx context.Context, data []byte, filename string) string {
	return s.ExtractDetailed(ctx, data, filename).Text
}

func (s stubExtractor) ExtractDetailed(context.Context, []byte, string) extract.Result {
	return s.result
}

type stubSummarizer struct {
	mu     sync.Mutex
	fields llm.Fields
	calls  int
	input  string
}

func (s *stubSummarizer) Summarize(_ context.Context, text string) llm.Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.input = text
	return s.fields
}

type memDocs struct {
	mu          sync.Mutex
	nextID      int64
	uploads     map[int64]string
	metadata    map[int64]map[string]string
	validations map[int64]validate.Result
	checks      map[int64][]compliance.Result
	failUpload  bool
	failMeta    bool
}

func newMemDocs() *memDocs {
	return &memDocs{
		uploads:     map[int64]string{},
		metadata:    map[int64]map[string]string{},
		validations: map[int64]validate.Result{},
		checks:      map[int64][]compliance.Result{},
	}
}

var errBoom = common.NewAppError(common.CodeDatabaseError, "boom", common.ErrDatabase)

func (m *memDocs) SaveUpload(_ context.Context, filename string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpload {
		return 0, errBoom
	}
	m.nextID++
	m.uploads[m.nextID] = filename
	return m.nextID, nil
}

func (m *memDocs) SaveMetadata(_ context.Context, docID int64, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failMeta {
		return errBoom
	}
	m.metadata[docID] = fields
	return nil
}

func (m *memDocs) SaveValidation(_ context.Context, docID int64, status constants.ValidationStatus, errs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validations[docID] = validate.Result{Status: status, Errors: errs}
	return nil
}

func (m *memDocs) SaveCompliance(_ context.Context, docID int64, results []compliance.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks[docID] = results
	return nil
}

func (m *memDocs) ListAnalyses(context.Context) ([]repository.Analysis, error) { return nil, nil }

func textResult(text string) extract.Result {
	return extract.Result{Text: text, Kind: constants.PDF, Method: constants.MethodTextLayer, Pages: 1}
}

func TestRunAgent_Summarizes(t *testing.T) {
	sum := &stubSummarizer{fields: llm.Fields{llm.FieldSummary: "- Covers hospitalization"}}
	p := NewProcessor(nil, stubExtractor{result: textResult(policyText)}, sum, nil)

	text, fields, result := p.RunAgent(context.Background(), []byte("%PDF"), "policy.pdf")
	assert.Equal(t, policyText, text)
	assert.Equal(t, "- Covers hospitalization", fields[llm.FieldSummary])
	assert.Equal(t, constants.ValidationPass, result.Status)
	assert.Equal(t, 1, sum.calls)
	assert.Equal(t, policyText, sum.input)
}

func TestRunAgent_ShortCircuits(t *testing.T) {
	for name, text := range map[string]string{
		"empty":         "",
		"short":         "  only a few words ",
		"not supported": "⚠️ OCR is not supported in this deployment. Upload a PDF with selectable text.",
	} {
		t.Run(name, func(t *testing.T) {
			sum := &stubSummarizer{}
			p := NewProcessor(nil, stubExtractor{result: textResult(text)}, sum, nil)

			got, fields, result := p.RunAgent(context.Background(), nil, "x.pdf")
			assert.Equal(t, "", got)
			assert.Equal(t, "❌ No readable text found in the uploaded file.", fields[llm.FieldSummary])
			assert.Equal(t, constants.ValidationFail, result.Status)
			assert.Equal(t, []string{NoReadableText}, result.Errors)
			assert.Zero(t, sum.calls)
		})
	}
}

func TestRunAgent_SummarizerFailure(t *testing.T) {
	sum := &stubSummarizer{fields: llm.FailedSummary("LLM API error: 500 upstream")}
	p := NewProcessor(nil, stubExtractor{result: textResult(policyText)}, sum, nil)

	_, fields, result := p.RunAgent(context.Background(), nil, "")
	assert.Equal(t, "❌ LLM API error: 500 upstream", fields[llm.FieldSummary])
	assert.Equal(t, []string{validate.ErrSummaryMissing}, result.Errors)
}

func TestAnalyze_PersistsEverything(t *testing.T) {
	docs := newMemDocs()
	sum := &stubSummarizer{fields: llm.Fields{llm.FieldSummary: "- Covers hospitalization"}}
	p := NewProcessor(nil, stubExtractor{result: textResult(policyText)}, sum, docs)

	report, err := p.Analyze(context.Background(), Upload{Filename: "policy.pdf", Data: []byte("%PDF")})
	require.NoError(t, err)

	assert.Equal(t, int64(1), report.DocumentID)
	assert.Equal(t, constants.PDF, report.Kind)
	assert.Equal(t, constants.MethodTextLayer, report.Method)
	assert.Equal(t, policyText, report.Text)
	assert.Equal(t, 6, compliance.Passed(report.Compliance))
	assert.Equal(t, constants.ValidationPass, report.Validation.Status)

	assert.Equal(t, "policy.pdf", docs.uploads[1])
	assert.Equal(t, map[string]string{
		llm.FieldSummary:      "- Covers hospitalization",
		FieldExtractionMethod: "text_layer",
		FieldPageCount:        "1",
	}, docs.metadata[1])
	assert.Equal(t, report.Compliance, docs.checks[1])
	assert.Equal(t, constants.ValidationPass, docs.validations[1].Status)
}

func TestAnalyze_NoReadableText(t *testing.T) {
	docs := newMemDocs()
	sum := &stubSummarizer{}
	res := extract.Result{Kind: constants.PDF, Method: constants.MethodNone, Err: common.ErrRender}
	p := NewProcessor(nil, stubExtractor{result: res}, sum, docs)

	report, err := p.Analyze(context.Background(), Upload{Filename: "scan.pdf"})
	require.NoError(t, err)
	assert.Zero(t, sum.calls)
	assert.Equal(t, "", report.Text)
	assert.Equal(t, []string{NoReadableText}, report.Validation.Errors)
	assert.Zero(t, compliance.Passed(report.Compliance))
	assert.Len(t, report.Compliance, 6)
	assert.Equal(t, constants.ValidationFail, docs.validations[1].Status)
}

func TestAnalyze_PersistenceErrors(t *testing.T) {
	t.Run("metadata", func(t *testing.T) {
		docs := newMemDocs()
		docs.failMeta = true
		sum := &stubSummarizer{fields: llm.Fields{llm.FieldSummary: "ok summary"}}
		p := NewProcessor(nil, stubExtractor{result: textResult(policyText)}, sum, docs)

		report, err := p.Analyze(context.Background(), Upload{Filename: "policy.pdf"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrDatabase))
		require.NotNil(t, report)
		assert.Equal(t, constants.ValidationPass, report.Validation.Status)
		assert.Equal(t, constants.ValidationPass, docs.validations[1].Status, "other writes still happen")
	})
	t.Run("upload", func(t *testing.T) {
		docs := newMemDocs()
		docs.failUpload = true
		sum := &stubSummarizer{fields: llm.Fields{llm.FieldSummary: "ok summary"}}
		p := NewProcessor(nil, stubExtractor{result: textResult(policyText)}, sum, docs)

		report, err := p.Analyze(context.Background(), Upload{Filename: "policy.pdf"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrDatabase))
		assert.Zero(t, report.DocumentID)
		assert.Equal(t, 1, sum.calls)
		assert.Empty(t, docs.validations)
	})
}

func TestAnalyzeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	sum := &stubSummarizer{fields: llm.Fields{llm.FieldSummary: "ok summary"}}
	p := NewProcessor(nil, stubExtractor{result: textResult(policyText)}, sum, nil)

	report, err := p.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "policy.pdf", report.Filename)
	assert.Zero(t, report.DocumentID)

	_, err = p.AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}
