// CLAUDE:SUMMARY MCP-over-QUIC wire contract: ALPN, stream preamble, QUIC tuning and error codes shared by server and client.
package mcpquic

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/quic-go/quic-go"
)

const (
	// ALPN selects the MCP session on a QUIC connection.
	ALPN = "vietdanh-mcp-v1"
	// Preamble opens every MCP stream, before the first JSON-RPC line.
	Preamble = "VDN1"

	MaxLineSize  = 1 << 20
	IdleTimeout  = 5 * time.Minute
	KeepAlive    = 30 * time.Second
	InitDeadline = 10 * time.Second
)

const (
	streamProtocolConfusion quic.StreamErrorCode = 0x02

	connNoError           quic.ApplicationErrorCode = 0x00
	connUnsupportedALPN   quic.ApplicationErrorCode = 0x01
	connProtocolViolation quic.ApplicationErrorCode = 0x03
)

var (
	ErrBadPreamble     = errors.New("mcpquic: bad stream preamble")
	ErrUnsupportedALPN = errors.New("mcpquic: " + ALPN + " not negotiated")
	ErrNotConnected    = errors.New("mcpquic: client not connected")
)

// QUICConfig is the transport tuning used by both ends.
func QUICConfig() *quic.Config {
	return &quic.Config{
		MaxStreamReceiveWindow:     4 * 1024 * 1024,
		MaxConnectionReceiveWindow: 16 * 1024 * 1024,
		MaxIdleTimeout:             IdleTimeout,
		KeepAlivePeriod:            KeepAlive,
	}
}

func readPreamble(r io.Reader) error {
	buf := make([]byte, len(Preamble))
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("read preamble: %w", err)
	}
	if !bytes.Equal(buf, []byte(Preamble)) {
		return fmt.Errorf("%w: got %q", ErrBadPreamble, buf)
	}
	return nil
}

func writePreamble(w io.Writer) error {
	if _, err := io.WriteString(w, Preamble); err != nil {
		return fmt.Errorf("write preamble: %w", err)
	}
	return nil
}
