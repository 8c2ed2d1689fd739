package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// DocumentService messages are protobuf well-known types, so the service is
// registered through a hand-written descriptor instead of generated stubs.
const (
	DocumentServiceName            = "insuregenie.v1.DocumentService"
	DocumentServiceAnalyzeDocument = "/insuregenie.v1.DocumentService/AnalyzeDocument"
	DocumentServiceExportAnalyses  = "/insuregenie.v1.DocumentService/ExportAnalyses"
)

// DocumentServiceServer is the server API for insuregenie.v1.DocumentService.
type DocumentServiceServer interface {
	// AnalyzeDocument takes {filename, content_base64} and returns the analysis report.
	AnalyzeDocument(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// ExportAnalyses returns every stored analysis as an XLSX workbook.
	ExportAnalyses(context.Context, *emptypb.Empty) (*wrapperspb.BytesValue, error)
}

func RegisterDocumentServiceServer(s grpc.ServiceRegistrar, srv DocumentServiceServer) {
	s.RegisterService(&DocumentServiceDesc, srv)
}

func analyzeDocumentHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DocumentServiceServer).AnalyzeDocument(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DocumentServiceAnalyzeDocument}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DocumentServiceServer).AnalyzeDocument(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func exportAnalysesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DocumentServiceServer).ExportAnalyses(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DocumentServiceExportAnalyses}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DocumentServiceServer).ExportAnalyses(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// DocumentServiceDesc is the grpc.ServiceDesc for insuregenie.v1.DocumentService.
var DocumentServiceDesc = grpc.ServiceDesc{
	ServiceName: DocumentServiceName,
	HandlerType: (*DocumentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AnalyzeDocument", Handler: analyzeDocumentHandler},
		{MethodName: "ExportAnalyses", Handler: exportAnalysesHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "insuregenie/v1/document.proto",
}

// DocumentServiceClient is a thin client for insuregenie.v1.DocumentService.
type DocumentServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewDocumentServiceClient(cc grpc.ClientConnInterface) *DocumentServiceClient {
	return &DocumentServiceClient{cc: cc}
}

func (c *DocumentServiceClient) AnalyzeDocument(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, DocumentServiceAnalyzeDocument, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DocumentServiceClient) ExportAnalyses(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, DocumentServiceExportAnalyses, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
