// CLAUDE:SUMMARY CLI subcommand running the HTTP/MCP server with SIGHUP reload, source checks and optional TLS chassis.
package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hazyhaar/vietdanh/pkg/api"
	"github.com/hazyhaar/vietdanh/pkg/chassis"
	"github.com/hazyhaar/vietdanh/pkg/importer"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API (with MCP at /mcp)",
	Long: `Load the lookup tables and serve the JSON API under /v1 and the MCP
tools over streamable HTTP at /mcp.

Signals:
  SIGHUP           reload the tables from disk
  SIGINT, SIGTERM  graceful shutdown

With --tls the same port serves HTTPS (TCP) plus HTTP/3 and MCP over QUIC
(UDP). Without cert files a self-signed certificate is generated.

When source_check_interval is above zero, import sources are checked for
availability on that interval.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	f := serveCmd.Flags()
	f.String("addr", ":8421", "listen address")
	f.Duration("check-interval", 0, "source availability check interval (0 disables)")
	f.Bool("tls", false, "serve HTTPS, HTTP/3 and MCP over QUIC")
	f.String("cert-file", "", "TLS certificate (PEM)")
	f.String("key-file", "", "TLS private key (PEM)")

	viper.BindPFlag("addr", f.Lookup("addr"))
	viper.BindPFlag("source_check_interval", f.Lookup("check-interval"))
	viper.BindPFlag("tls", f.Lookup("tls"))
	viper.BindPFlag("cert_file", f.Lookup("cert-file"))
	viper.BindPFlag("key_file", f.Lookup("key-file"))
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	// A failed load still serves: /v1/health reports loading and a SIGHUP
	// retries once the tables are in place.
	reg, err := loadRegistry(logger)
	if err != nil {
		logger.Error("tables not loaded", "error", err)
	} else {
		logger.Info("tables loaded", "tables", len(reg.ListTables()), "syllables", reg.SyllableCount())
	}

	mcpSrv := api.NewMCPServer(reg, logger, version)
	addr := viper.GetString("addr")
	handler := api.NewRouter(reg, logger, mcpSrv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	defer signal.Stop(sighup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-sighup:
				logger.Info("SIGHUP received, reloading tables")
				if err := reg.Reload(); err != nil {
					logger.Error("reload failed", "error", err)
					continue
				}
				logger.Info("tables reloaded", "syllables", reg.SyllableCount())
			}
		}
	}()

	if interval := viper.GetDuration("source_check_interval"); interval > 0 {
		sdb, err := openSources()
		if err != nil {
			return err
		}
		defer sdb.Close()
		go importer.NewChecker(sdb, importer.All(), logger, interval).Start(ctx)
		logger.Info("source checker started", "interval", interval)
	}

	if viper.GetBool("tls") {
		return serveChassis(ctx, logger, handler, mcpSrv, addr)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("vietdanh listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func serveChassis(ctx context.Context, logger *slog.Logger, handler http.Handler, mcpSrv *server.MCPServer, addr string) error {
	cs, err := chassis.New(chassis.Config{
		Addr:      addr,
		CertFile:  viper.GetString("cert_file"),
		KeyFile:   viper.GetString("key_file"),
		Handler:   handler,
		MCPServer: mcpSrv,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	startErr := cs.Start(ctx)

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return errors.Join(startErr, cs.Stop(shutdownCtx))
}
