package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/joseph-ayodele/insuregenie/internal/repository"
	"github.com/joseph-ayodele/insuregenie/internal/server"
	"github.com/joseph-ayodele/insuregenie/internal/services/export"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC DocumentService",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Validate(true); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			docs := repository.NewDocumentRepository(db, a.logger)
			svc := server.NewDocumentService(
				a.processor(docs),
				export.NewService(docs, a.logger),
				a.cfg.Server.MaxUploadBytes,
				a.logger,
			)
			// base64 inflates uploads by a third
			maxMsg := a.cfg.Server.MaxUploadBytes*4/3 + 64<<10
			grpcServer, hs := server.NewGRPCServer(svc, a.logger, grpc.MaxRecvMsgSize(maxMsg))

			lis, err := net.Listen("tcp", a.cfg.Server.GRPCAddr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", a.cfg.Server.GRPCAddr, err)
			}
			a.logger.Info("gRPC serving", "addr", lis.Addr().String())

			errCh := make(chan error, 1)
			go func() { errCh <- grpcServer.Serve(lis) }()

			select {
			case err := <-errCh:
				return fmt.Errorf("grpc serve: %w", err)
			case <-ctx.Done():
			}

			a.logger.Info("shutting down")
			hs.Shutdown()
			grpcServer.GracefulStop()
			return context.Cause(ctx)
		},
	}
}
