package mcpquic

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/quic-go/quic-go"

	"github.com/hazyhaar/vietdanh/pkg/kit"
)

func startListener(t *testing.T) *Listener {
	t.Helper()
	srv := server.NewMCPServer("vietdanh-test", "0.0.1", server.WithToolCapabilities(false))
	kit.RegisterMCPTool(srv, mcp.NewTool("transport", mcp.WithDescription("reports the calling transport")),
		func(ctx context.Context, _ any) (any, error) { return kit.GetTransport(ctx), nil },
		func(mcp.CallToolRequest) (*kit.MCPDecodeResult, error) { return &kit.MCPDecodeResult{}, nil },
	)

	tlsCfg, err := ServerTLS("", "")
	if err != nil {
		t.Fatalf("ServerTLS: %v", err)
	}
	l, err := Listen("127.0.0.1:0", tlsCfg, srv, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go l.Serve(ctx)
	t.Cleanup(func() {
		cancel()
		l.Close()
	})
	return l
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	}
	t.Fatalf("content = %T, want text", res.Content[0])
	return ""
}

func TestRoundTrip(t *testing.T) {
	l := startListener(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := NewClient(l.Addr(), nil)
	if err := c.Connect(ctx, "test-client", "0.0.1"); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close()

	tools, err := c.ListTools(ctx)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	if len(tools.Tools) != 1 || tools.Tools[0].Name != "transport" {
		t.Fatalf("tools = %+v", tools.Tools)
	}

	res, err := c.CallTool(ctx, "transport", nil)
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %+v", res.Content)
	}
	if got := textOf(t, res); got != kit.TransportQUIC {
		t.Errorf("transport = %q, want %q", got, kit.TransportQUIC)
	}
}

func TestBadPreambleRejected(t *testing.T) {
	l := startListener(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := quic.DialAddr(ctx, l.Addr(), ClientTLS(true), QUICConfig())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.CloseWithError(0, "")
	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	if _, err := stream.Write([]byte("BAD!{}\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	stream.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, err := stream.Read(make([]byte, 16)); err == nil {
		t.Error("expected the server to reset the stream")
	}
}

func TestWrongALPNRefused(t *testing.T) {
	l := startListener(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := &tls.Config{InsecureSkipVerify: true, NextProtos: []string{"h3"}, MinVersion: tls.VersionTLS13}
	if conn, err := quic.DialAddr(ctx, l.Addr(), cfg, QUICConfig()); err == nil {
		conn.CloseWithError(0, "")
		t.Error("expected handshake failure without the MCP ALPN")
	}
}

func TestClientNotConnected(t *testing.T) {
	c := NewClient("127.0.0.1:1", nil)
	if _, err := c.ListTools(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("ListTools err = %v, want ErrNotConnected", err)
	}
	if _, err := c.CallTool(context.Background(), "x", nil); !errors.Is(err, ErrNotConnected) {
		t.Errorf("CallTool err = %v, want ErrNotConnected", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close unconnected: %v", err)
	}
}

func TestPreamble(t *testing.T) {
	var buf bytes.Buffer
	if err := writePreamble(&buf); err != nil {
		t.Fatal(err)
	}
	if err := readPreamble(&buf); err != nil {
		t.Errorf("readPreamble: %v", err)
	}
	buf.Reset()
	buf.WriteString("MCP1")
	if err := readPreamble(&buf); !errors.Is(err, ErrBadPreamble) {
		t.Errorf("err = %v, want ErrBadPreamble", err)
	}
	buf.Reset()
	buf.WriteString("VD")
	if err := readPreamble(&buf); err == nil {
		t.Error("short preamble should fail")
	}
}
