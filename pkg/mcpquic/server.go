// CLAUDE:SUMMARY Serves an mcp-go MCPServer over QUIC: one bidirectional stream per connection, newline-delimited JSON-RPC.
package mcpquic

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/quic-go/quic-go"

	"github.com/hazyhaar/vietdanh/pkg/kit"
)

// Handler runs MCP sessions on accepted QUIC connections. It owns no
// listener, so a shared UDP socket can demux on ALPN before handing over.
type Handler struct {
	mcp    *server.MCPServer
	logger *slog.Logger
}

func NewHandler(srv *server.MCPServer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{mcp: srv, logger: logger}
}

// ServeConn serves one connection until the peer closes its stream or ctx
// is cancelled.
func (h *Handler) ServeConn(ctx context.Context, conn *quic.Conn) {
	remote := conn.RemoteAddr().String()

	stream, err := conn.AcceptStream(ctx)
	if err != nil {
		h.logger.Warn("mcp quic: accept stream", "remote", remote, "error", err)
		conn.CloseWithError(connProtocolViolation, "no stream")
		return
	}
	if err := readPreamble(stream); err != nil {
		h.logger.Warn("mcp quic: rejected stream", "remote", remote, "error", err)
		stream.CancelRead(streamProtocolConfusion)
		stream.CancelWrite(streamProtocolConfusion)
		conn.CloseWithError(connProtocolViolation, "bad preamble")
		return
	}

	sess := &session{id: "quic_" + kit.NewRequestID(), out: stream, notes: make(chan mcp.JSONRPCNotification, 64)}
	if err := h.mcp.RegisterSession(ctx, sess); err != nil {
		h.logger.Error("mcp quic: register session", "session", sess.id, "error", err)
		stream.Close()
		return
	}
	defer h.mcp.UnregisterSession(ctx, sess.id)
	h.logger.Info("mcp quic: session started", "session", sess.id, "remote", remote)

	ctx, cancel := context.WithCancel(kit.WithTransport(ctx, kit.TransportQUIC))
	defer cancel()
	ctx = h.mcp.WithContext(ctx, sess)
	go sess.forwardNotifications(ctx)

	sc := bufio.NewScanner(stream)
	sc.Buffer(make([]byte, 64*1024), MaxLineSize)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		resp := h.mcp.HandleMessage(ctx, json.RawMessage(line))
		if resp == nil {
			continue
		}
		if err := sess.send(resp); err != nil {
			h.logger.Warn("mcp quic: write", "session", sess.id, "error", err)
			break
		}
	}
	if err := sc.Err(); err != nil && ctx.Err() == nil {
		h.logger.Warn("mcp quic: read", "session", sess.id, "error", err)
	}
	stream.Close()
	h.logger.Info("mcp quic: session ended", "session", sess.id)
}

// Listener is a standalone MCP-over-QUIC endpoint.
type Listener struct {
	ln      *quic.Listener
	handler *Handler
	logger  *slog.Logger
}

// Listen binds addr (UDP). tlsCfg must offer ALPN.
func Listen(addr string, tlsCfg *tls.Config, srv *server.MCPServer, logger *slog.Logger) (*Listener, error) {
	ln, err := quic.ListenAddr(addr, tlsCfg, QUICConfig())
	if err != nil {
		return nil, err
	}
	h := NewHandler(srv, logger)
	return &Listener{ln: ln, handler: h, logger: h.logger}, nil
}

// Addr returns the bound UDP address.
func (l *Listener) Addr() string { return l.ln.Addr().String() }

// Serve accepts connections until ctx is cancelled or the listener closes.
func (l *Listener) Serve(ctx context.Context) error {
	for {
		conn, err := l.ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, quic.ErrServerClosed) {
				return nil
			}
			return err
		}
		if alpn := conn.ConnectionState().TLS.NegotiatedProtocol; alpn != ALPN {
			conn.CloseWithError(connUnsupportedALPN, "unsupported ALPN: "+alpn)
			continue
		}
		go l.handler.ServeConn(ctx, conn)
	}
}

func (l *Listener) Close() error { return l.ln.Close() }

// session implements server.ClientSession. Responses and notifications
// share the stream, so writes are serialized.
type session struct {
	id          string
	notes       chan mcp.JSONRPCNotification
	initialized atomic.Bool

	mu  sync.Mutex
	out io.Writer
}

func (s *session) SessionID() string                                   { return s.id }
func (s *session) NotificationChannel() chan<- mcp.JSONRPCNotification { return s.notes }
func (s *session) Initialize()                                         { s.initialized.Store(true) }
func (s *session) Initialized() bool                                   { return s.initialized.Load() }

func (s *session) send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.out.Write(data)
	return err
}

func (s *session) forwardNotifications(ctx context.Context) {
	for {
		select {
		case n := <-s.notes:
			if err := s.send(n); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
