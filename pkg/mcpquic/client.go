// CLAUDE:SUMMARY MCP client over QUIC: dial, preamble, initialize handshake, tool listing and calls.
package mcpquic

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/quic-go/quic-go"
)

// Client is an MCP client speaking to a Handler over QUIC.
type Client struct {
	addr   string
	tlsCfg *tls.Config
	conn   *quic.Conn
	stream *quic.Stream
	mcp    *client.Client
}

// NewClient returns an unconnected client. A nil tlsCfg trusts any
// certificate.
func NewClient(addr string, tlsCfg *tls.Config) *Client {
	if tlsCfg == nil {
		tlsCfg = ClientTLS(true)
	}
	return &Client{addr: addr, tlsCfg: tlsCfg}
}

// Connect dials, opens the MCP stream and runs the initialize handshake.
func (c *Client) Connect(ctx context.Context, name, version string) error {
	conn, err := quic.DialAddr(ctx, c.addr, c.tlsCfg, QUICConfig())
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.addr, err)
	}
	if alpn := conn.ConnectionState().TLS.NegotiatedProtocol; alpn != ALPN {
		conn.CloseWithError(connUnsupportedALPN, "bad ALPN")
		return fmt.Errorf("%w: got %q", ErrUnsupportedALPN, alpn)
	}
	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		conn.CloseWithError(connProtocolViolation, "open stream")
		return fmt.Errorf("open stream: %w", err)
	}
	if err := writePreamble(stream); err != nil {
		stream.Close()
		conn.CloseWithError(connProtocolViolation, "preamble")
		return err
	}
	c.conn, c.stream = conn, stream

	cl := client.NewClient(transport.NewIO(stream, streamWriter{stream}, io.NopCloser(strings.NewReader(""))))
	if err := cl.Start(ctx); err != nil {
		c.closeConn()
		return fmt.Errorf("start: %w", err)
	}

	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: name, Version: version}
	initCtx, cancel := context.WithTimeout(ctx, InitDeadline)
	defer cancel()
	if _, err := cl.Initialize(initCtx, req); err != nil {
		c.closeConn()
		return fmt.Errorf("initialize: %w", err)
	}
	c.mcp = cl
	return nil
}

func (c *Client) ListTools(ctx context.Context) (*mcp.ListToolsResult, error) {
	if c.mcp == nil {
		return nil, ErrNotConnected
	}
	return c.mcp.ListTools(ctx, mcp.ListToolsRequest{})
}

func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	if c.mcp == nil {
		return nil, ErrNotConnected
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return c.mcp.CallTool(ctx, req)
}

func (c *Client) Close() error {
	if c.mcp != nil {
		c.mcp.Close()
		c.mcp = nil
	}
	return c.closeConn()
}

func (c *Client) closeConn() error {
	if c.stream != nil {
		c.stream.Close()
	}
	if c.conn != nil {
		return c.conn.CloseWithError(connNoError, "client closing")
	}
	return nil
}

type streamWriter struct{ s *quic.Stream }

func (w streamWriter) Write(p []byte) (int, error) { return w.s.Write(p) }
func (w streamWriter) Close() error                { return w.s.Close() }
