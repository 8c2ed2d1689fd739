package server

import (
	"context"
	"encoding/base64"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/insuregenie/constants"
	"github.com/joseph-ayodele/insuregenie/internal/common"
	"github.com/joseph-ayodele/insuregenie/internal/core"
	"github.com/joseph-ayodele/insuregenie/internal/core/validate"
	"github.com/joseph-ayodele/insuregenie/internal/llm"
)

type fakeAnalyzer struct {
	got   core.Upload
	reqID string
	err   error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, up core.Upload) (*core.Report, error) {
	f.got = up
	f.reqID = common.RequestIDFromContext(ctx)
	return &core.Report{
		DocumentID: 7,
		Filename:   up.Filename,
		Kind:       constants.PDF,
		Method:     constants.MethodTextLayer,
		Pages:      2,
		Text:       "policy text",
		Fields:     llm.Fields{llm.FieldSummary: "- covered"},
		Validation: validate.New(),
	}, f.err
}

type fakeExporter struct {
	data []byte
	err  error
}

func (f fakeExporter) AnalysesXLSX(context.Context) ([]byte, error) { return f.data, f.err }

func dial(t *testing.T, svc DocumentServiceServer) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv, _ := NewGRPCServer(svc, nil)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func analyzeRequest(t *testing.T, filename string, content []byte) *structpb.Struct {
	t.Helper()
	req, err := structpb.NewStruct(map[string]any{
		"filename":       filename,
		"content_base64": base64.StdEncoding.EncodeToString(content),
	})
	require.NoError(t, err)
	return req
}

func TestAnalyzeDocument(t *testing.T) {
	fa := &fakeAnalyzer{}
	client := NewDocumentServiceClient(dial(t, NewDocumentService(fa, fakeExporter{}, 1024, nil)))

	ctx := metadata.AppendToOutgoingContext(context.Background(), RequestIDHeader, "req-42")
	out, err := client.AnalyzeDocument(ctx, analyzeRequest(t, "policy.pdf", []byte("%PDF-1.4")))
	require.NoError(t, err)

	assert.Equal(t, "policy.pdf", fa.got.Filename)
	assert.Equal(t, []byte("%PDF-1.4"), fa.got.Data)
	assert.Equal(t, "req-42", fa.reqID)

	m := out.AsMap()
	assert.Equal(t, float64(7), m["document_id"])
	assert.Equal(t, "text_layer", m["extraction_method"])
	assert.Equal(t, "- covered", m["fields"].(map[string]any)["summary"])
	assert.Equal(t, "PASS", m["validation"].(map[string]any)["status"])
}

func TestAnalyzeDocument_PersistFailureStillReturnsReport(t *testing.T) {
	fa := &fakeAnalyzer{err: errors.Join(common.ErrDatabase, errors.New("disk full"))}
	client := NewDocumentServiceClient(dial(t, NewDocumentService(fa, fakeExporter{}, 1024, nil)))

	out, err := client.AnalyzeDocument(context.Background(), analyzeRequest(t, "policy.pdf", []byte("%PDF")))
	require.NoError(t, err)
	assert.Equal(t, "policy.pdf", out.AsMap()["filename"])
}

func TestAnalyzeDocument_InvalidArgument(t *testing.T) {
	client := NewDocumentServiceClient(dial(t, NewDocumentService(&fakeAnalyzer{}, fakeExporter{}, 4, nil)))

	tests := map[string]*structpb.Struct{
		"missing filename": analyzeRequest(t, " ", []byte("%PDF")),
		"empty content":    analyzeRequest(t, "a.pdf", nil),
		"too large":        analyzeRequest(t, "a.pdf", []byte("%PDF-1.4")),
		"bad base64": func() *structpb.Struct {
			s, _ := structpb.NewStruct(map[string]any{"filename": "a.pdf", "content_base64": "!!"})
			return s
		}(),
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := client.AnalyzeDocument(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestExportAnalyses(t *testing.T) {
	conn := dial(t, NewDocumentService(&fakeAnalyzer{}, fakeExporter{data: []byte("PK\x03\x04")}, 1024, nil))
	out, err := NewDocumentServiceClient(conn).ExportAnalyses(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, []byte("PK\x03\x04"), out.GetValue())

	conn = dial(t, NewDocumentService(&fakeAnalyzer{}, fakeExporter{err: common.ErrDatabase}, 1024, nil))
	_, err = NewDocumentServiceClient(conn).ExportAnalyses(context.Background(), &emptypb.Empty{})
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestHealth(t *testing.T) {
	conn := dial(t, NewDocumentService(&fakeAnalyzer{}, fakeExporter{}, 1024, nil))
	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: DocumentServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
