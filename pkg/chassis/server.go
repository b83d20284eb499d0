// CLAUDE:SUMMARY Single-port TLS server: HTTP/1.1+2 on TCP, HTTP/3 and MCP sessions demuxed by ALPN on QUIC.

// Package chassis serves the API over TLS on one port for two transports:
//
//   - TCP: HTTP/1.1 and HTTP/2
//   - UDP: QUIC, demuxed on ALPN into HTTP/3 ("h3") or an MCP session
//     (mcpquic.ALPN)
//
// TCP responses advertise HTTP/3 with Alt-Svc.
package chassis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"

	"github.com/hazyhaar/vietdanh/pkg/mcpquic"
)

// Config holds the chassis settings. Empty CertFile and KeyFile generate a
// self-signed development certificate.
type Config struct {
	Addr      string
	CertFile  string
	KeyFile   string
	Handler   http.Handler
	MCPServer *server.MCPServer // nil disables MCP over QUIC
	Logger    *slog.Logger
}

type Server struct {
	addr    string
	logger  *slog.Logger
	tlsCfg  *tls.Config
	handler http.Handler
	mcp     *mcpquic.Handler

	mu   sync.Mutex
	tcp  *http.Server
	h3   *http3.Server
	quic *quic.Listener
}

func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Handler == nil {
		return nil, errors.New("chassis: nil handler")
	}
	tlsCfg, err := mcpquic.ServerTLS(cfg.CertFile, cfg.KeyFile, http3.NextProtoH3, mcpquic.ALPN)
	if err != nil {
		return nil, fmt.Errorf("chassis tls: %w", err)
	}
	if cfg.CertFile == "" {
		cfg.Logger.Warn("chassis: using a self-signed certificate")
	}

	s := &Server{
		addr:    cfg.Addr,
		logger:  cfg.Logger,
		tlsCfg:  tlsCfg,
		handler: securityHeaders(altSvc(cfg.Addr, cfg.Handler)),
	}
	if cfg.MCPServer != nil {
		s.mcp = mcpquic.NewHandler(cfg.MCPServer, cfg.Logger)
	}
	return s, nil
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Strict-Transport-Security", "max-age=31536000")
		next.ServeHTTP(w, r)
	})
}

func altSvc(addr string, next http.Handler) http.Handler {
	_, port, _ := net.SplitHostPort(addr)
	if port == "" {
		port = "443"
	}
	value := fmt.Sprintf(`h3=":%s"; ma=86400`, port)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Alt-Svc", value)
		next.ServeHTTP(w, r)
	})
}

// Start binds both listeners and serves until ctx is cancelled or one of
// them fails.
func (s *Server) Start(ctx context.Context) error {
	tcpTLS := s.tlsCfg.Clone()
	tcpTLS.NextProtos = []string{"h2", "http/1.1"}
	tcpLn, err := tls.Listen("tcp", s.addr, tcpTLS)
	if err != nil {
		return fmt.Errorf("tcp listen: %w", err)
	}
	quicLn, err := quic.ListenAddr(s.addr, s.tlsCfg, mcpquic.QUICConfig())
	if err != nil {
		tcpLn.Close()
		return fmt.Errorf("quic listen: %w", err)
	}

	s.mu.Lock()
	s.tcp = &http.Server{Handler: s.handler, ReadHeaderTimeout: 10 * time.Second}
	s.h3 = &http3.Server{Handler: s.handler}
	s.quic = quicLn
	s.mu.Unlock()

	s.logger.Info("chassis listening", "addr", s.addr, "tcp", "h2,http/1.1", "udp", "h3,"+mcpquic.ALPN)

	errCh := make(chan error, 2)
	go func() {
		if err := s.tcp.Serve(tcpLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("tcp: %w", err)
		}
	}()
	go func() {
		if err := s.acceptQUIC(ctx, quicLn); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) acceptQUIC(ctx context.Context, ln *quic.Listener) error {
	for {
		conn, err := ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, quic.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("quic accept: %w", err)
		}
		switch alpn := conn.ConnectionState().TLS.NegotiatedProtocol; alpn {
		case http3.NextProtoH3:
			go func() {
				if err := s.h3.ServeQUICConn(conn); err != nil {
					s.logger.Debug("h3 connection closed", "remote", conn.RemoteAddr(), "error", err)
				}
			}()
		case mcpquic.ALPN:
			if s.mcp == nil {
				conn.CloseWithError(0x10, "mcp disabled")
				continue
			}
			go s.mcp.ServeConn(ctx, conn)
		default:
			conn.CloseWithError(0x11, "unsupported ALPN: "+alpn)
		}
	}
}

// Stop shuts the TCP server down gracefully and closes the QUIC side.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.tcp != nil {
		errs = append(errs, s.tcp.Shutdown(ctx))
	}
	if s.h3 != nil {
		errs = append(errs, s.h3.Close())
	}
	if s.quic != nil {
		errs = append(errs, s.quic.Close())
	}
	return errors.Join(errs...)
}
