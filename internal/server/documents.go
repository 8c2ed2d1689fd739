package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"strings"

	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/insuregenie/internal/common"
	"github.com/joseph-ayodele/insuregenie/internal/core"
)

// Analyzer runs the full document flow.
type Analyzer interface {
	Analyze(ctx context.Context, up core.Upload) (*core.Report, error)
}

// Exporter renders stored analyses.
type Exporter interface {
	AnalysesXLSX(ctx context.Context) ([]byte, error)
}

type DocumentService struct {
	analyzer       Analyzer
	exporter       Exporter
	maxUploadBytes int
	logger         *slog.Logger
}

var _ DocumentServiceServer = (*DocumentService)(nil)

func NewDocumentService(analyzer Analyzer, exporter Exporter, maxUploadBytes int, logger *slog.Logger) *DocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentService{
		analyzer:       analyzer,
		exporter:       exporter,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

func (s *DocumentService) AnalyzeDocument(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, reqID := common.EnsureRequestID(ctx)
	fields := req.GetFields()
	filename := strings.TrimSpace(fields["filename"].GetStringValue())
	encoded := fields["content_base64"].GetStringValue()

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		s.logger.Error("analyze request has invalid content_base64", "req_id", reqID, "error", err)
		return nil, common.InvalidArgumentError("content_base64 must be standard base64")
	}

	v := common.NewValidator().
		Field("filename", filename, common.Required, common.MaxLen(1024)).
		Field("content_base64", data, common.NotEmptyBytes, common.MaxBytes(s.maxUploadBytes))
	if err := common.ValidateAndReturnError(v); err != nil {
		s.logger.Error("analyze request invalid", "req_id", reqID, "error", v.ErrorMessage())
		return nil, err
	}

	report, err := s.analyzer.Analyze(ctx, core.Upload{Filename: filename, Data: data})
	if err != nil && report == nil {
		s.logger.Error("analyze failed", "req_id", reqID, "filename", filename, "error", err)
		return nil, common.ToStatus(err)
	}
	if err != nil {
		// report is complete; only storing it failed
		s.logger.Warn("analyze persisted partially", "req_id", reqID, "doc_id", report.DocumentID, "error", err)
	}

	out, err := reportToStruct(report)
	if err != nil {
		s.logger.Error("encode report failed", "req_id", reqID, "error", err)
		return nil, common.InternalErrorf("encode report: %v", err)
	}
	return out, nil
}

func (s *DocumentService) ExportAnalyses(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	xlsx, err := s.exporter.AnalysesXLSX(ctx)
	if err != nil {
		s.logger.Error("export.xlsx.failed", "error", err)
		return nil, common.ToStatus(err)
	}
	return wrapperspb.Bytes(xlsx), nil
}

// reportToStruct goes through JSON so the struct mirrors the report's json tags.
func reportToStruct(r *core.Report) (*structpb.Struct, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}
